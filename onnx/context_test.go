package onnx

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/graphcraft/onnx-builder/internal/protos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestGenerateUniqueName(t *testing.T) {
	c := NewContext()
	for ii := 0; ii < 5; ii++ {
		assert.Equal(t, fmt.Sprintf("x_%d", ii), c.GenerateUniqueName("x"))
	}
	// Counters are per base name.
	assert.Equal(t, "y_0", c.GenerateUniqueName("y"))
	assert.Equal(t, "x_5", c.GenerateUniqueName("x"))
}

func TestCrossContextRefsRejected(t *testing.T) {
	c1 := NewContext()
	c2 := NewContext()
	x := c1.FloatInput(4)
	y := c2.NamedFloatInput("y", 4)

	err := exceptions.TryCatch[error](func() { c1.Op(OpAdd, []Ref{x, y}, "sum", nil) })
	require.Error(t, err)
	assert.ErrorContains(t, err, "different context")

	// Apply helpers resolve the context from their first operand.
	err = exceptions.TryCatch[error](func() { ApplyPair(OpMul, x, y, nil) })
	require.Error(t, err)
}

// Builds y = input * w and checks the assembled graph end to end.
func TestBuildSimpleGraph(t *testing.T) {
	c := NewContext()
	c.SetName("scale")
	input := c.FloatInput(4)
	w := c.FloatArray("w", []float32{1, 2, 3, 4})
	c.Op(OpMul, []Ref{input, w}, "y", nil)

	graph := c.BuildGraph()
	assert.Equal(t, "scale", graph.Name)
	require.Len(t, graph.Node, 1)
	require.Len(t, graph.Input, 1)
	require.Len(t, graph.Initializer, 1)

	assert.Equal(t, "input", graph.Input[0].Name)
	tensorType := graph.Input[0].Type.TensorType
	assert.Equal(t, int32(protos.TensorProto_FLOAT), tensorType.ElemType)
	require.Len(t, tensorType.Shape.Dim, 2)
	assert.Equal(t, "batch", tensorType.Shape.Dim[0].DimParam)
	assert.Equal(t, int64(4), tensorType.Shape.Dim[1].DimValue)

	assert.Equal(t, "w_0", graph.Initializer[0].Name)
	assert.Equal(t, []float32{1, 2, 3, 4}, graph.Initializer[0].FloatData)

	mul := graph.Node[0]
	assert.Equal(t, "Mul", mul.GetOpType())
	assert.Equal(t, []string{"input", "w_0"}, mul.Input)
	assert.Equal(t, []string{"y"}, mul.Output)
	assert.Equal(t, "Mul_0", mul.Name)

	require.NoError(t, ValidateGraph(graph))
}

func TestAssignTo(t *testing.T) {
	c := NewContext()
	input := c.FloatInput(2)
	output := c.FloatOutput(2)
	doubled := ApplyPair(OpAdd, input, input, nil)
	c.AssignTo(doubled, output)

	graph := c.BuildGraph()
	require.Len(t, graph.Node, 2)
	assert.Equal(t, "Identity", graph.Node[1].GetOpType())
	assert.Equal(t, []string{doubled.Reference()}, graph.Node[1].Input)
	assert.Equal(t, []string{"output"}, graph.Node[1].Output)
	require.NoError(t, ValidateGraph(graph))
}

func TestBuildGraphIsIdempotent(t *testing.T) {
	c := NewContext()
	c.SetName("idempotent")
	input := c.FloatInput(2)
	output := c.FloatOutput(2)
	c.AssignTo(Apply(OpSqrt, input, nil), output)

	first := c.BuildGraph()
	second := c.BuildGraph()
	assert.Equal(t, first, second)

	// The returned slices are clones, so mutating one build does not leak
	// into the next.
	first.Node = first.Node[:0]
	third := c.BuildGraph()
	assert.Equal(t, second, third)
}

func TestFloatTensorInitializer(t *testing.T) {
	c := NewContext()
	init := c.FloatTensor("w", []int{2, 2}, func(buf []float32) {
		for ii := range buf {
			buf[ii] = float32(ii)
		}
	})
	assert.Equal(t, "w_0", init.Reference())
	tensor := init.Proto()
	assert.Equal(t, []int64{2, 2}, tensor.Dims)
	require.Len(t, tensor.RawData, 16)
	for ii := 0; ii < 4; ii++ {
		bits := binary.LittleEndian.Uint32(tensor.RawData[4*ii:])
		assert.Equal(t, float32(ii), math.Float32frombits(bits))
	}
}

func TestScalarConstants(t *testing.T) {
	c := NewContext()
	f := c.FloatConstant("alpha", 0.5)
	assert.Equal(t, "alpha_0", f.Reference())
	assert.Empty(t, f.Proto().Dims)
	assert.Equal(t, []float32{0.5}, f.Proto().FloatData)

	l := c.LongConstant("axis", -1)
	assert.Equal(t, "axis_0", l.Reference())
	assert.Equal(t, []int64{-1}, l.Proto().Int64Data)
}

func TestDoubleArrayDowncasts(t *testing.T) {
	c := NewContext()
	narrow := c.DoubleArray("w", []float64{0.5, 1.5})
	assert.Equal(t, int32(protos.TensorProto_FLOAT), narrow.Proto().DataType)
	assert.Equal(t, []float32{0.5, 1.5}, narrow.Proto().FloatData)

	wide := c.Float64Array("w64", []float64{0.5, 1.5})
	assert.Equal(t, int32(protos.TensorProto_DOUBLE), wide.Proto().DataType)
	assert.Equal(t, []float64{0.5, 1.5}, wide.Proto().DoubleData)
}

func TestIntegerArrays(t *testing.T) {
	c := NewContext()
	i := c.IntArray("i", []int32{1, 2})
	assert.Equal(t, int32(protos.TensorProto_INT32), i.Proto().DataType)
	assert.Equal(t, []int32{1, 2}, i.Proto().Int32Data)

	l := c.LongArray("l", []int64{3, 4})
	assert.Equal(t, int32(protos.TensorProto_INT64), l.Proto().DataType)
	assert.Equal(t, []int64{3, 4}, l.Proto().Int64Data)
}

func TestFloat16ArrayRoundTrip(t *testing.T) {
	c := NewContext()
	values := []float32{0, 1, -2, 0.5}
	init := c.Float16Array("h", values)
	tensor := init.Proto()
	assert.Equal(t, int32(protos.TensorProto_FLOAT16), tensor.DataType)
	require.Len(t, tensor.RawData, 2*len(values))
	for ii, want := range values {
		bits := binary.LittleEndian.Uint16(tensor.RawData[2*ii:])
		assert.Equal(t, want, float16.Frombits(bits).Float32())
	}
}

func TestTensorSizeMismatchPanics(t *testing.T) {
	err := exceptions.TryCatch[error](func() { FloatTensor("w", []int64{2, 3}, []float32{1, 2}) })
	require.Error(t, err)
	assert.ErrorContains(t, err, "has size 6, but 2 values were provided")
}
