// Package protos holds a hand-maintained mirror of the ONNX protocol-buffer
// messages used when building and serializing models.
//
// Only the subset of onnx.proto needed by the builder is covered: models,
// graphs, nodes, attributes, tensors, value infos, shapes and opset ids.
// Proto3 "oneof" fields are flattened into plain pointer fields; field
// numbers live in marshal.go / unmarshal.go, which implement the wire
// format on top of google.golang.org/protobuf/encoding/protowire.
package protos

// TensorProto_DataType mirrors the onnx.TensorProto.DataType enum.
type TensorProto_DataType int32

const (
	TensorProto_UNDEFINED  TensorProto_DataType = 0
	TensorProto_FLOAT      TensorProto_DataType = 1
	TensorProto_UINT8      TensorProto_DataType = 2
	TensorProto_INT8       TensorProto_DataType = 3
	TensorProto_UINT16     TensorProto_DataType = 4
	TensorProto_INT16      TensorProto_DataType = 5
	TensorProto_INT32      TensorProto_DataType = 6
	TensorProto_INT64      TensorProto_DataType = 7
	TensorProto_STRING     TensorProto_DataType = 8
	TensorProto_BOOL       TensorProto_DataType = 9
	TensorProto_FLOAT16    TensorProto_DataType = 10
	TensorProto_DOUBLE     TensorProto_DataType = 11
	TensorProto_UINT32     TensorProto_DataType = 12
	TensorProto_UINT64     TensorProto_DataType = 13
	TensorProto_COMPLEX64  TensorProto_DataType = 14
	TensorProto_COMPLEX128 TensorProto_DataType = 15
	TensorProto_BFLOAT16   TensorProto_DataType = 16
)

// String returns the ONNX name of the data type.
func (dt TensorProto_DataType) String() string {
	switch dt {
	case TensorProto_FLOAT:
		return "FLOAT"
	case TensorProto_UINT8:
		return "UINT8"
	case TensorProto_INT8:
		return "INT8"
	case TensorProto_UINT16:
		return "UINT16"
	case TensorProto_INT16:
		return "INT16"
	case TensorProto_INT32:
		return "INT32"
	case TensorProto_INT64:
		return "INT64"
	case TensorProto_STRING:
		return "STRING"
	case TensorProto_BOOL:
		return "BOOL"
	case TensorProto_FLOAT16:
		return "FLOAT16"
	case TensorProto_DOUBLE:
		return "DOUBLE"
	case TensorProto_UINT32:
		return "UINT32"
	case TensorProto_UINT64:
		return "UINT64"
	case TensorProto_COMPLEX64:
		return "COMPLEX64"
	case TensorProto_COMPLEX128:
		return "COMPLEX128"
	case TensorProto_BFLOAT16:
		return "BFLOAT16"
	default:
		return "UNDEFINED"
	}
}

// AttributeProto_AttributeType mirrors the onnx.AttributeProto.AttributeType enum.
type AttributeProto_AttributeType int32

const (
	AttributeProto_UNDEFINED      AttributeProto_AttributeType = 0
	AttributeProto_FLOAT          AttributeProto_AttributeType = 1
	AttributeProto_INT            AttributeProto_AttributeType = 2
	AttributeProto_STRING         AttributeProto_AttributeType = 3
	AttributeProto_TENSOR         AttributeProto_AttributeType = 4
	AttributeProto_GRAPH          AttributeProto_AttributeType = 5
	AttributeProto_FLOATS         AttributeProto_AttributeType = 6
	AttributeProto_INTS           AttributeProto_AttributeType = 7
	AttributeProto_STRINGS        AttributeProto_AttributeType = 8
	AttributeProto_TENSORS        AttributeProto_AttributeType = 9
	AttributeProto_GRAPHS         AttributeProto_AttributeType = 10
	AttributeProto_SPARSE_TENSOR  AttributeProto_AttributeType = 11
	AttributeProto_SPARSE_TENSORS AttributeProto_AttributeType = 12
)

// String returns the ONNX name of the attribute type.
func (at AttributeProto_AttributeType) String() string {
	switch at {
	case AttributeProto_FLOAT:
		return "FLOAT"
	case AttributeProto_INT:
		return "INT"
	case AttributeProto_STRING:
		return "STRING"
	case AttributeProto_TENSOR:
		return "TENSOR"
	case AttributeProto_GRAPH:
		return "GRAPH"
	case AttributeProto_FLOATS:
		return "FLOATS"
	case AttributeProto_INTS:
		return "INTS"
	case AttributeProto_STRINGS:
		return "STRINGS"
	case AttributeProto_TENSORS:
		return "TENSORS"
	case AttributeProto_GRAPHS:
		return "GRAPHS"
	case AttributeProto_SPARSE_TENSOR:
		return "SPARSE_TENSOR"
	case AttributeProto_SPARSE_TENSORS:
		return "SPARSE_TENSORS"
	default:
		return "UNDEFINED"
	}
}

// ModelProto is the top-level ONNX message: a graph plus versioning metadata.
type ModelProto struct {
	IrVersion       int64
	OpsetImport     []*OperatorSetIdProto
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	DocString       string
	Graph           *GraphProto
	MetadataProps   []*StringStringEntryProto
}

// GraphProto is a named computation graph: nodes in construction order plus
// the declared inputs, outputs and initializer tensors.
type GraphProto struct {
	Node        []*NodeProto
	Name        string
	Initializer []*TensorProto
	DocString   string
	Input       []*ValueInfoProto
	Output      []*ValueInfoProto
	ValueInfo   []*ValueInfoProto
}

// NodeProto is a single operation: an op type, a domain, ordered input and
// output value names and a set of attributes.
type NodeProto struct {
	Input     []string
	Output    []string
	Name      string
	OpType    string
	Domain    string
	Attribute []*AttributeProto
	DocString string
}

// GetOpType returns the node's op type, tolerating a nil receiver.
func (n *NodeProto) GetOpType() string {
	if n == nil {
		return ""
	}
	return n.OpType
}

// AttributeProto is a named, typed attribute value attached to a node.
// Exactly one of the value fields is set, according to Type.
type AttributeProto struct {
	Name      string
	DocString string
	Type      AttributeProto_AttributeType
	F         float32
	I         int64
	S         []byte
	T         *TensorProto
	Floats    []float32
	Ints      []int64
	Strings   [][]byte
}

// TensorProto is a named constant tensor. Data is carried either in RawData
// (little-endian, row-major) or in one of the typed repeated fields.
type TensorProto struct {
	Dims       []int64
	DataType   int32
	FloatData  []float32
	Int32Data  []int32
	StringData [][]byte
	Int64Data  []int64
	Name       string
	DocString  string
	RawData    []byte
	DoubleData []float64
	Uint64Data []uint64
}

// ValueInfoProto declares a named graph input or output slot.
type ValueInfoProto struct {
	Name      string
	Type      *TypeProto
	DocString string
}

// TypeProto wraps a value's type. Only tensor types are used here; the
// oneof is flattened to the single TensorType field.
type TypeProto struct {
	TensorType *TypeProto_Tensor
	Denotation string
}

// TypeProto_Tensor is a tensor type: element type plus (optional) shape.
type TypeProto_Tensor struct {
	ElemType int32
	Shape    *TensorShapeProto
}

// TensorShapeProto is an ordered list of dimensions.
type TensorShapeProto struct {
	Dim []*TensorShapeProto_Dimension
}

// TensorShapeProto_Dimension is one axis: either a fixed DimValue or a
// symbolic DimParam (the oneof is flattened; DimParam wins when non-empty).
type TensorShapeProto_Dimension struct {
	DimValue   int64
	DimParam   string
	Denotation string
}

// OperatorSetIdProto identifies an operator set: a domain and its version.
type OperatorSetIdProto struct {
	Domain  string
	Version int64
}

// StringStringEntryProto is a key/value metadata pair.
type StringStringEntryProto struct {
	Key   string
	Value string
}
