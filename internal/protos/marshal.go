package protos

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// This file implements the proto3 wire encoding for the message mirror.
// Repeated scalar fields are emitted packed, matching what protoc-generated
// code produces for onnx.proto; zero-valued scalar fields are omitted.

// Marshal serializes the model to the ONNX wire format.
func (m *ModelProto) Marshal() []byte {
	return appendModel(nil, m)
}

// Marshal serializes the graph to the ONNX wire format.
func (g *GraphProto) Marshal() []byte {
	return appendGraph(nil, g)
}

func appendVarintField(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytesField(b []byte, num protowire.Number, payload []byte) []byte {
	if payload == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

func appendMessageField(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendPackedVarints(b []byte, num protowire.Number, values []int64) []byte {
	if len(values) == 0 {
		return b
	}
	var packed []byte
	for _, v := range values {
		packed = protowire.AppendVarint(packed, uint64(v))
	}
	return appendMessageField(b, num, packed)
}

func appendPackedFloats(b []byte, num protowire.Number, values []float32) []byte {
	if len(values) == 0 {
		return b
	}
	var packed []byte
	for _, v := range values {
		packed = protowire.AppendFixed32(packed, math.Float32bits(v))
	}
	return appendMessageField(b, num, packed)
}

func appendPackedDoubles(b []byte, num protowire.Number, values []float64) []byte {
	if len(values) == 0 {
		return b
	}
	var packed []byte
	for _, v := range values {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	return appendMessageField(b, num, packed)
}

func appendModel(b []byte, m *ModelProto) []byte {
	b = appendVarintField(b, 1, m.IrVersion)
	b = appendStringField(b, 2, m.ProducerName)
	b = appendStringField(b, 3, m.ProducerVersion)
	b = appendStringField(b, 4, m.Domain)
	b = appendVarintField(b, 5, m.ModelVersion)
	b = appendStringField(b, 6, m.DocString)
	if m.Graph != nil {
		b = appendMessageField(b, 7, appendGraph(nil, m.Graph))
	}
	for _, opset := range m.OpsetImport {
		b = appendMessageField(b, 8, appendOperatorSetId(nil, opset))
	}
	for _, prop := range m.MetadataProps {
		b = appendMessageField(b, 14, appendStringStringEntry(nil, prop))
	}
	return b
}

func appendGraph(b []byte, g *GraphProto) []byte {
	for _, node := range g.Node {
		b = appendMessageField(b, 1, appendNode(nil, node))
	}
	b = appendStringField(b, 2, g.Name)
	for _, tensor := range g.Initializer {
		b = appendMessageField(b, 5, appendTensor(nil, tensor))
	}
	b = appendStringField(b, 10, g.DocString)
	for _, vi := range g.Input {
		b = appendMessageField(b, 11, appendValueInfo(nil, vi))
	}
	for _, vi := range g.Output {
		b = appendMessageField(b, 12, appendValueInfo(nil, vi))
	}
	for _, vi := range g.ValueInfo {
		b = appendMessageField(b, 13, appendValueInfo(nil, vi))
	}
	return b
}

func appendNode(b []byte, n *NodeProto) []byte {
	for _, in := range n.Input {
		b = appendMessageField(b, 1, []byte(in))
	}
	for _, out := range n.Output {
		b = appendMessageField(b, 2, []byte(out))
	}
	b = appendStringField(b, 3, n.Name)
	b = appendStringField(b, 4, n.OpType)
	for _, attr := range n.Attribute {
		b = appendMessageField(b, 5, appendAttribute(nil, attr))
	}
	b = appendStringField(b, 6, n.DocString)
	b = appendStringField(b, 7, n.Domain)
	return b
}

func appendAttribute(b []byte, a *AttributeProto) []byte {
	b = appendStringField(b, 1, a.Name)
	if a.F != 0 {
		b = protowire.AppendTag(b, 2, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(a.F))
	}
	b = appendVarintField(b, 3, a.I)
	b = appendBytesField(b, 4, a.S)
	if a.T != nil {
		b = appendMessageField(b, 5, appendTensor(nil, a.T))
	}
	b = appendPackedFloats(b, 7, a.Floats)
	b = appendPackedVarints(b, 8, a.Ints)
	for _, s := range a.Strings {
		b = appendMessageField(b, 9, s)
	}
	b = appendStringField(b, 13, a.DocString)
	b = appendVarintField(b, 20, int64(a.Type))
	return b
}

func appendTensor(b []byte, t *TensorProto) []byte {
	b = appendPackedVarints(b, 1, t.Dims)
	b = appendVarintField(b, 2, int64(t.DataType))
	b = appendPackedFloats(b, 4, t.FloatData)
	if len(t.Int32Data) > 0 {
		var packed []byte
		for _, v := range t.Int32Data {
			packed = protowire.AppendVarint(packed, uint64(int64(v)))
		}
		b = appendMessageField(b, 5, packed)
	}
	for _, s := range t.StringData {
		b = appendMessageField(b, 6, s)
	}
	b = appendPackedVarints(b, 7, t.Int64Data)
	b = appendStringField(b, 8, t.Name)
	b = appendBytesField(b, 9, t.RawData)
	b = appendPackedDoubles(b, 10, t.DoubleData)
	if len(t.Uint64Data) > 0 {
		var packed []byte
		for _, v := range t.Uint64Data {
			packed = protowire.AppendVarint(packed, v)
		}
		b = appendMessageField(b, 11, packed)
	}
	b = appendStringField(b, 12, t.DocString)
	return b
}

func appendValueInfo(b []byte, vi *ValueInfoProto) []byte {
	b = appendStringField(b, 1, vi.Name)
	if vi.Type != nil {
		b = appendMessageField(b, 2, appendType(nil, vi.Type))
	}
	b = appendStringField(b, 3, vi.DocString)
	return b
}

func appendType(b []byte, t *TypeProto) []byte {
	if t.TensorType != nil {
		var tensor []byte
		tensor = appendVarintField(tensor, 1, int64(t.TensorType.ElemType))
		if t.TensorType.Shape != nil {
			tensor = appendMessageField(tensor, 2, appendShape(nil, t.TensorType.Shape))
		}
		b = appendMessageField(b, 1, tensor)
	}
	b = appendStringField(b, 6, t.Denotation)
	return b
}

func appendShape(b []byte, s *TensorShapeProto) []byte {
	for _, dim := range s.Dim {
		var d []byte
		// The dim oneof: a named dimension wins over the value.
		if dim.DimParam != "" {
			d = appendStringField(d, 2, dim.DimParam)
		} else {
			d = protowire.AppendTag(d, 1, protowire.VarintType)
			d = protowire.AppendVarint(d, uint64(dim.DimValue))
		}
		d = appendStringField(d, 3, dim.Denotation)
		b = appendMessageField(b, 1, d)
	}
	return b
}

func appendOperatorSetId(b []byte, o *OperatorSetIdProto) []byte {
	b = appendStringField(b, 1, o.Domain)
	b = appendVarintField(b, 2, o.Version)
	return b
}

func appendStringStringEntry(b []byte, e *StringStringEntryProto) []byte {
	b = appendStringField(b, 1, e.Key)
	b = appendStringField(b, 2, e.Value)
	return b
}
