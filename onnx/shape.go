package onnx

import (
	"github.com/gomlx/exceptions"
	"github.com/graphcraft/onnx-builder/internal/protos"
)

// UnknownDimension is the sentinel used for an axis whose size is not fixed
// at graph-construction time. Such an axis must carry a symbolic name.
const UnknownDimension int64 = -1

// dimension is one axis of a Shape: exactly one of a fixed value or a
// symbolic name, enforced at construction.
type dimension struct {
	value int64
	param string
}

// Shape describes a tensor shape as a mix of fixed and named symbolic
// dimensions.
type Shape struct {
	dims []dimension
}

// NewShape returns a shape with only fixed dimensions.
//
// It panics if any dimension is negative: symbolic dimensions must be
// declared through NewSymbolicShape, where they get a name.
func NewShape(dims ...int64) *Shape {
	s := &Shape{dims: make([]dimension, len(dims))}
	for ii, d := range dims {
		if d < 0 {
			exceptions.Panicf("shape dimension %d is %d: unknown dimensions need a name, use NewSymbolicShape", ii, d)
		}
		s.dims[ii].value = d
	}
	return s
}

// NewSymbolicShape returns a shape from two parallel slices: each axis is
// either a fixed non-negative value (with an empty name) or the
// UnknownDimension sentinel paired with a non-empty symbolic name.
//
// It panics if the slices differ in length or if any axis has both or
// neither of a fixed value and a name.
func NewSymbolicShape(values []int64, names []string) *Shape {
	if len(values) != len(names) {
		exceptions.Panicf("shape values and names must be parallel, got %d values and %d names", len(values), len(names))
	}
	s := &Shape{dims: make([]dimension, len(values))}
	for ii := range values {
		value, name := values[ii], names[ii]
		switch {
		case name == "" && value >= 0:
			s.dims[ii].value = value
		case name != "" && value == UnknownDimension:
			s.dims[ii].value = UnknownDimension
			s.dims[ii].param = name
		default:
			exceptions.Panicf("shape axis %d must be either a fixed dimension or a named unknown dimension, got value=%d name=%q",
				ii, value, name)
		}
	}
	return s
}

// Rank returns the number of axes.
func (s *Shape) Rank() int { return len(s.dims) }

// Proto builds the wire representation, mapping each axis to a fixed-value
// or a named dimension in order.
func (s *Shape) Proto() *protos.TensorShapeProto {
	proto := &protos.TensorShapeProto{Dim: make([]*protos.TensorShapeProto_Dimension, len(s.dims))}
	for ii, d := range s.dims {
		if d.param != "" {
			proto.Dim[ii] = &protos.TensorShapeProto_Dimension{DimParam: d.param}
		} else {
			proto.Dim[ii] = &protos.TensorShapeProto_Dimension{DimValue: d.value}
		}
	}
	return proto
}
