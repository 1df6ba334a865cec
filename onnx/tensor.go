package onnx

import (
	"encoding/binary"
	"math"

	"github.com/gomlx/exceptions"
	"github.com/graphcraft/onnx-builder/internal/protos"
	"github.com/x448/float16"
)

// Stateless builders for typed tensor payloads. Scalars use empty dims.

// checkTensorSize panics if the value count doesn't match the dimensions.
func checkTensorSize[T any](name string, dims []int64, values []T) {
	size := int64(1)
	for _, d := range dims {
		size *= d
	}
	if int64(len(values)) != size {
		exceptions.Panicf("tensor %q shaped %v has size %d, but %d values were provided", name, dims, size, len(values))
	}
}

// FloatTensor builds a float32 tensor proto carrying typed float data.
func FloatTensor(name string, dims []int64, values []float32) *protos.TensorProto {
	checkTensorSize(name, dims, values)
	return &protos.TensorProto{
		Name:      name,
		DataType:  int32(protos.TensorProto_FLOAT),
		Dims:      dims,
		FloatData: values,
	}
}

// DoubleTensor builds a float64 tensor proto carrying typed double data.
func DoubleTensor(name string, dims []int64, values []float64) *protos.TensorProto {
	checkTensorSize(name, dims, values)
	return &protos.TensorProto{
		Name:       name,
		DataType:   int32(protos.TensorProto_DOUBLE),
		Dims:       dims,
		DoubleData: values,
	}
}

// IntTensor builds an int32 tensor proto.
func IntTensor(name string, dims []int64, values []int32) *protos.TensorProto {
	checkTensorSize(name, dims, values)
	return &protos.TensorProto{
		Name:      name,
		DataType:  int32(protos.TensorProto_INT32),
		Dims:      dims,
		Int32Data: values,
	}
}

// LongTensor builds an int64 tensor proto.
func LongTensor(name string, dims []int64, values []int64) *protos.TensorProto {
	checkTensorSize(name, dims, values)
	return &protos.TensorProto{
		Name:      name,
		DataType:  int32(protos.TensorProto_INT64),
		Dims:      dims,
		Int64Data: values,
	}
}

// RawFloatTensor builds a float32 tensor proto backed by raw little-endian
// bytes, in the row-major order of values.
func RawFloatTensor(name string, dims []int64, values []float32) *protos.TensorProto {
	checkTensorSize(name, dims, values)
	raw := make([]byte, 4*len(values))
	for ii, v := range values {
		binary.LittleEndian.PutUint32(raw[4*ii:], math.Float32bits(v))
	}
	return &protos.TensorProto{
		Name:     name,
		DataType: int32(protos.TensorProto_FLOAT),
		Dims:     dims,
		RawData:  raw,
	}
}

// Float16Tensor builds a float16 tensor proto from float32 values, stored
// as raw little-endian bytes (the only representation ONNX defines for
// float16 data).
func Float16Tensor(name string, dims []int64, values []float32) *protos.TensorProto {
	checkTensorSize(name, dims, values)
	raw := make([]byte, 2*len(values))
	for ii, v := range values {
		binary.LittleEndian.PutUint16(raw[2*ii:], float16.Fromfloat32(v).Bits())
	}
	return &protos.TensorProto{
		Name:     name,
		DataType: int32(protos.TensorProto_FLOAT16),
		Dims:     dims,
		RawData:  raw,
	}
}

// TensorValueInfo wraps a name, an element type and a shape into the
// value-info proto used for graph inputs and outputs.
func TensorValueInfo(name string, dtype protos.TensorProto_DataType, shape *Shape) *protos.ValueInfoProto {
	return &protos.ValueInfoProto{
		Name: name,
		Type: &protos.TypeProto{
			TensorType: &protos.TypeProto_Tensor{
				ElemType: int32(dtype),
				Shape:    shape.Proto(),
			},
		},
	}
}
