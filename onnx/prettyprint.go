package onnx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/chewxy/math32"
	"github.com/graphcraft/onnx-builder/internal/protos"
)

// String implements fmt.Stringer, and pretty prints model information.
func (m *Model) String() string {
	var buf bytes.Buffer
	w := func(format string, args ...any) {
		if len(args) == 0 {
			buf.WriteString(format)
		} else {
			buf.WriteString(fmt.Sprintf(format, args...))
		}
	}
	w("ONNX Model:\n")
	if m.Proto.DocString != "" {
		w("%s\n", m.Proto.DocString)
	}
	if m.Proto.ModelVersion != 0 {
		w("\tVersion:\t%d\n", m.Proto.ModelVersion)
	}
	if m.Proto.ProducerName != "" {
		w("\tProducer:\t%s / %s\n", m.Proto.ProducerName, m.Proto.ProducerVersion)
	}
	w("\tIR Version:\t%d\n", m.Proto.IrVersion)
	w("\tOperator Sets:\t[")
	for ii, opSetId := range m.Proto.OpsetImport {
		if ii > 0 {
			w(", ")
		}
		if opSetId.Domain != "" {
			w("v%d (%s)", opSetId.Version, opSetId.Domain)
		} else {
			w("v%d", opSetId.Version)
		}
	}
	w("]\n")
	if m.Proto.Graph == nil {
		return buf.String()
	}

	graph := m.Proto.Graph
	w("\t# nodes:\t%d\n", len(graph.Node))
	opTypesSet := make(map[string]struct{})
	for _, n := range graph.Node {
		opTypesSet[n.GetOpType()] = struct{}{}
	}
	w("\tOp types:\t%#v\n", slices.Sorted(maps.Keys(opTypesSet)))

	w("\tInputs:\t[%s]\n", strings.Join(sliceMap(graph.Input, valueInfoToString), ", "))
	w("\tOutputs:\t[%s]\n", strings.Join(sliceMap(graph.Output, valueInfoToString), ", "))
	if len(graph.Initializer) > 0 {
		w("\tInitializers:\n")
		for _, tensor := range graph.Initializer {
			w("\t\t%s\n", tensorToString(tensor))
		}
	}

	if len(m.Proto.MetadataProps) > 0 {
		w("\tMetadata: [")
		for ii, prop := range m.Proto.MetadataProps {
			if ii > 0 {
				w(", ")
			}
			w("%s=%s", prop.Key, prop.Value)
		}
		w("]\n")
	}
	return buf.String()
}

// sliceMap executes the given function sequentially for every element on in, and returns a mapped slice.
func sliceMap[In, Out any](in []In, fn func(e In) Out) (out []Out) {
	out = make([]Out, len(in))
	for ii, e := range in {
		out[ii] = fn(e)
	}
	return
}

// nodeToString renders a node as "OpType(inputs...) -> (outputs...)".
func nodeToString(node *protos.NodeProto) string {
	opType := node.GetOpType()
	if node.Domain != "" {
		opType = node.Domain + "." + opType
	}
	return fmt.Sprintf("%s [%s(%s) -> (%s)]", node.Name, opType,
		strings.Join(node.Input, ", "), strings.Join(node.Output, ", "))
}

// valueInfoToString renders a graph input/output as "name: dtype[dims]".
func valueInfoToString(vi *protos.ValueInfoProto) string {
	if vi.Type == nil || vi.Type.TensorType == nil {
		return vi.Name
	}
	tensorType := vi.Type.TensorType
	var dims []string
	if tensorType.Shape != nil {
		for _, dim := range tensorType.Shape.Dim {
			if dim.DimParam != "" {
				dims = append(dims, dim.DimParam)
			} else {
				dims = append(dims, fmt.Sprintf("%d", dim.DimValue))
			}
		}
	}
	return fmt.Sprintf("%s: %s[%s]", vi.Name,
		protos.TensorProto_DataType(tensorType.ElemType), strings.Join(dims, ", "))
}

// tensorToString renders an initializer with summary statistics for float32
// tensors.
func tensorToString(tensor *protos.TensorProto) string {
	dims := strings.Join(sliceMap(tensor.Dims, func(d int64) string { return fmt.Sprintf("%d", d) }), ", ")
	header := fmt.Sprintf("%s: %s[%s]", tensor.Name, protos.TensorProto_DataType(tensor.DataType), dims)
	values := float32Values(tensor)
	if len(values) == 0 {
		return header
	}
	var sum, sumSquares float32
	for _, v := range values {
		sum += v
		sumSquares += v * v
	}
	mean := sum / float32(len(values))
	stddev := math32.Sqrt(max(sumSquares/float32(len(values))-mean*mean, 0))
	return fmt.Sprintf("%s mean=%.4g stddev=%.4g", header, mean, stddev)
}

// float32Values extracts the values of a float32 tensor, whether carried as
// typed data or as raw little-endian bytes. Returns nil for other dtypes.
func float32Values(tensor *protos.TensorProto) []float32 {
	if tensor.DataType != int32(protos.TensorProto_FLOAT) {
		return nil
	}
	if tensor.FloatData != nil {
		return tensor.FloatData
	}
	if len(tensor.RawData)%4 != 0 {
		return nil
	}
	values := make([]float32, len(tensor.RawData)/4)
	for ii := range values {
		values[ii] = math.Float32frombits(binary.LittleEndian.Uint32(tensor.RawData[4*ii:]))
	}
	return values
}
