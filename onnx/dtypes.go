package onnx

import "github.com/graphcraft/onnx-builder/internal/protos"

// castTargets are the element types Cast can convert to. ONNX defines many
// more, but the builder only emits casts between the host numeric types it
// can represent in initializers.
var castTargets = map[protos.TensorProto_DataType]bool{
	protos.TensorProto_FLOAT:  true,
	protos.TensorProto_DOUBLE: true,
	protos.TensorProto_INT32:  true,
	protos.TensorProto_INT64:  true,
}
