package protos

import (
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// This file implements the wire decoder for the message mirror. Repeated
// scalar fields accept both packed and unpacked encodings; unknown fields
// are skipped, so models produced by other exporters still parse.

// UnmarshalModel parses a serialized ONNX ModelProto.
func UnmarshalModel(data []byte) (*ModelProto, error) {
	m := &ModelProto{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			m.IrVersion = int64(v.varint)
		case 2:
			m.ProducerName = string(v.bytes)
		case 3:
			m.ProducerVersion = string(v.bytes)
		case 4:
			m.Domain = string(v.bytes)
		case 5:
			m.ModelVersion = int64(v.varint)
		case 6:
			m.DocString = string(v.bytes)
		case 7:
			graph, err := UnmarshalGraph(v.bytes)
			if err != nil {
				return err
			}
			m.Graph = graph
		case 8:
			opset, err := unmarshalOperatorSetId(v.bytes)
			if err != nil {
				return err
			}
			m.OpsetImport = append(m.OpsetImport, opset)
		case 14:
			entry, err := unmarshalStringStringEntry(v.bytes)
			if err != nil {
				return err
			}
			m.MetadataProps = append(m.MetadataProps, entry)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "parsing ModelProto")
	}
	return m, nil
}

// UnmarshalGraph parses a serialized ONNX GraphProto.
func UnmarshalGraph(data []byte) (*GraphProto, error) {
	g := &GraphProto{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			node, err := unmarshalNode(v.bytes)
			if err != nil {
				return err
			}
			g.Node = append(g.Node, node)
		case 2:
			g.Name = string(v.bytes)
		case 5:
			tensor, err := unmarshalTensor(v.bytes)
			if err != nil {
				return err
			}
			g.Initializer = append(g.Initializer, tensor)
		case 10:
			g.DocString = string(v.bytes)
		case 11:
			vi, err := unmarshalValueInfo(v.bytes)
			if err != nil {
				return err
			}
			g.Input = append(g.Input, vi)
		case 12:
			vi, err := unmarshalValueInfo(v.bytes)
			if err != nil {
				return err
			}
			g.Output = append(g.Output, vi)
		case 13:
			vi, err := unmarshalValueInfo(v.bytes)
			if err != nil {
				return err
			}
			g.ValueInfo = append(g.ValueInfo, vi)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "parsing GraphProto")
	}
	return g, nil
}

// value carries one decoded field value; which member is set depends on the
// wire type the walker saw.
type value struct {
	varint uint64
	fixed  uint64
	bytes  []byte
}

// walkFields decodes data field by field, calling fn for each one. The
// bytes passed to fn alias data and must be copied if retained.
func walkFields(data []byte, fn func(num protowire.Number, typ protowire.Type, v value) error) error {
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.WithStack(protowire.ParseError(n))
		}
		b = b[n:]
		var v value
		switch typ {
		case protowire.VarintType:
			v.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			var u32 uint32
			u32, n = protowire.ConsumeFixed32(b)
			v.fixed = uint64(u32)
		case protowire.Fixed64Type:
			v.fixed, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			v.bytes, n = protowire.ConsumeBytes(b)
		default:
			return errors.Errorf("unsupported wire type %d for field %d", typ, num)
		}
		if n < 0 {
			return errors.WithStack(protowire.ParseError(n))
		}
		b = b[n:]
		if err := fn(num, typ, v); err != nil {
			return err
		}
	}
	return nil
}

// appendInt64s decodes a repeated int64 field, packed or not.
func appendInt64s(dst []int64, typ protowire.Type, v value) ([]int64, error) {
	if typ == protowire.VarintType {
		return append(dst, int64(v.varint)), nil
	}
	b := v.bytes
	for len(b) > 0 {
		u, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, errors.WithStack(protowire.ParseError(n))
		}
		dst = append(dst, int64(u))
		b = b[n:]
	}
	return dst, nil
}

// appendFloats decodes a repeated float field, packed or not.
func appendFloats(dst []float32, typ protowire.Type, v value) ([]float32, error) {
	if typ == protowire.Fixed32Type {
		return append(dst, math.Float32frombits(uint32(v.fixed))), nil
	}
	b := v.bytes
	for len(b) > 0 {
		u, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return nil, errors.WithStack(protowire.ParseError(n))
		}
		dst = append(dst, math.Float32frombits(u))
		b = b[n:]
	}
	return dst, nil
}

// appendDoubles decodes a repeated double field, packed or not.
func appendDoubles(dst []float64, typ protowire.Type, v value) ([]float64, error) {
	if typ == protowire.Fixed64Type {
		return append(dst, math.Float64frombits(v.fixed)), nil
	}
	b := v.bytes
	for len(b) > 0 {
		u, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return nil, errors.WithStack(protowire.ParseError(n))
		}
		dst = append(dst, math.Float64frombits(u))
		b = b[n:]
	}
	return dst, nil
}

func unmarshalNode(data []byte) (*NodeProto, error) {
	node := &NodeProto{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			node.Input = append(node.Input, string(v.bytes))
		case 2:
			node.Output = append(node.Output, string(v.bytes))
		case 3:
			node.Name = string(v.bytes)
		case 4:
			node.OpType = string(v.bytes)
		case 5:
			attr, err := unmarshalAttribute(v.bytes)
			if err != nil {
				return err
			}
			node.Attribute = append(node.Attribute, attr)
		case 6:
			node.DocString = string(v.bytes)
		case 7:
			node.Domain = string(v.bytes)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "parsing NodeProto")
	}
	return node, nil
}

func unmarshalAttribute(data []byte) (*AttributeProto, error) {
	attr := &AttributeProto{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		var err error
		switch num {
		case 1:
			attr.Name = string(v.bytes)
		case 2:
			attr.F = math.Float32frombits(uint32(v.fixed))
		case 3:
			attr.I = int64(v.varint)
		case 4:
			attr.S = append([]byte(nil), v.bytes...)
		case 5:
			attr.T, err = unmarshalTensor(v.bytes)
		case 7:
			attr.Floats, err = appendFloats(attr.Floats, typ, v)
		case 8:
			attr.Ints, err = appendInt64s(attr.Ints, typ, v)
		case 9:
			attr.Strings = append(attr.Strings, append([]byte(nil), v.bytes...))
		case 13:
			attr.DocString = string(v.bytes)
		case 20:
			attr.Type = AttributeProto_AttributeType(v.varint)
		}
		return err
	})
	if err != nil {
		return nil, errors.WithMessage(err, "parsing AttributeProto")
	}
	return attr, nil
}

func unmarshalTensor(data []byte) (*TensorProto, error) {
	t := &TensorProto{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		var err error
		switch num {
		case 1:
			t.Dims, err = appendInt64s(t.Dims, typ, v)
		case 2:
			t.DataType = int32(v.varint)
		case 4:
			t.FloatData, err = appendFloats(t.FloatData, typ, v)
		case 5:
			var int64s []int64
			int64s, err = appendInt64s(nil, typ, v)
			for _, i := range int64s {
				t.Int32Data = append(t.Int32Data, int32(i))
			}
		case 6:
			t.StringData = append(t.StringData, append([]byte(nil), v.bytes...))
		case 7:
			t.Int64Data, err = appendInt64s(t.Int64Data, typ, v)
		case 8:
			t.Name = string(v.bytes)
		case 9:
			t.RawData = append([]byte(nil), v.bytes...)
		case 10:
			t.DoubleData, err = appendDoubles(t.DoubleData, typ, v)
		case 11:
			var int64s []int64
			int64s, err = appendInt64s(nil, typ, v)
			for _, i := range int64s {
				t.Uint64Data = append(t.Uint64Data, uint64(i))
			}
		case 12:
			t.DocString = string(v.bytes)
		}
		return err
	})
	if err != nil {
		return nil, errors.WithMessage(err, "parsing TensorProto")
	}
	return t, nil
}

func unmarshalValueInfo(data []byte) (*ValueInfoProto, error) {
	vi := &ValueInfoProto{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		var err error
		switch num {
		case 1:
			vi.Name = string(v.bytes)
		case 2:
			vi.Type, err = unmarshalType(v.bytes)
		case 3:
			vi.DocString = string(v.bytes)
		}
		return err
	})
	if err != nil {
		return nil, errors.WithMessage(err, "parsing ValueInfoProto")
	}
	return vi, nil
}

func unmarshalType(data []byte) (*TypeProto, error) {
	t := &TypeProto{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			tensor := &TypeProto_Tensor{}
			err := walkFields(v.bytes, func(num protowire.Number, typ protowire.Type, v value) error {
				switch num {
				case 1:
					tensor.ElemType = int32(v.varint)
				case 2:
					shape, err := unmarshalShape(v.bytes)
					if err != nil {
						return err
					}
					tensor.Shape = shape
				}
				return nil
			})
			if err != nil {
				return err
			}
			t.TensorType = tensor
		case 6:
			t.Denotation = string(v.bytes)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "parsing TypeProto")
	}
	return t, nil
}

func unmarshalShape(data []byte) (*TensorShapeProto, error) {
	s := &TensorShapeProto{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		if num != 1 {
			return nil
		}
		dim := &TensorShapeProto_Dimension{}
		err := walkFields(v.bytes, func(num protowire.Number, typ protowire.Type, v value) error {
			switch num {
			case 1:
				dim.DimValue = int64(v.varint)
			case 2:
				dim.DimParam = string(v.bytes)
			case 3:
				dim.Denotation = string(v.bytes)
			}
			return nil
		})
		if err != nil {
			return err
		}
		s.Dim = append(s.Dim, dim)
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "parsing TensorShapeProto")
	}
	return s, nil
}

func unmarshalOperatorSetId(data []byte) (*OperatorSetIdProto, error) {
	o := &OperatorSetIdProto{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			o.Domain = string(v.bytes)
		case 2:
			o.Version = int64(v.varint)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "parsing OperatorSetIdProto")
	}
	return o, nil
}

func unmarshalStringStringEntry(data []byte) (*StringStringEntryProto, error) {
	e := &StringStringEntryProto{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, v value) error {
		switch num {
		case 1:
			e.Key = string(v.bytes)
		case 2:
			e.Value = string(v.bytes)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "parsing StringStringEntryProto")
	}
	return e, nil
}
