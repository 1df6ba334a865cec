package onnx

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/graphcraft/onnx-builder/internal/protos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyNaming(t *testing.T) {
	c := NewContext()
	input := c.FloatInput(4)

	first := Apply(OpSqrt, input, nil)
	assert.Equal(t, "input_Sqrt_0", first.Reference())

	second := Apply(OpSqrt, input, nil)
	assert.Equal(t, "input_Sqrt_1", second.Reference())

	// A node's base name is its node name, not its output name.
	assert.Equal(t, "Sqrt_0", first.base())
	chained := Apply(OpExp, first, nil)
	assert.Equal(t, "Sqrt_0_Exp_0", chained.Reference())
}

func TestApplyPairNaming(t *testing.T) {
	c := NewContext()
	input := c.FloatInput(4)
	w := c.FloatArray("w", []float32{1, 2, 3, 4})

	sum := ApplyPair(OpAdd, input, w, nil)
	assert.Equal(t, "input_Add_w_0_0", sum.Reference())
	assert.Equal(t, []string{"input", "w_0"}, sum.Proto().Input)
}

func TestApplyWithAttributes(t *testing.T) {
	c := NewContext()
	input := c.FloatInput(4)

	soft := Apply(OpSoftmax, input, map[string]any{"axis": -1})
	attrs := soft.Proto().Attribute
	require.Len(t, attrs, 1)
	assert.Equal(t, "axis", attrs[0].Name)
	assert.Equal(t, int64(-1), attrs[0].I)
}

func TestApplyAll(t *testing.T) {
	c := NewContext()
	a := c.NamedFloatInput("a", 4)
	b := c.NamedFloatInput("b", 4)
	d := c.NamedFloatInput("d", 4)

	total := ApplyAll(OpSum, []Ref{a, b, d}, nil)
	assert.Equal(t, "a_Sum_0", total.Reference())
	assert.Equal(t, []string{"a", "b", "d"}, total.Proto().Input)

	err := exceptions.TryCatch[error](func() { ApplyAll(OpSum, nil, nil) })
	require.Error(t, err)
	assert.ErrorContains(t, err, "at least one input")
}

func TestCast(t *testing.T) {
	c := NewContext()
	input := c.FloatInput(4)

	casted := Cast(input, protos.TensorProto_INT64)
	proto := casted.Proto()
	assert.Equal(t, "Cast", proto.GetOpType())
	require.Len(t, proto.Attribute, 1)
	assert.Equal(t, "to", proto.Attribute[0].Name)
	assert.Equal(t, int64(protos.TensorProto_INT64), proto.Attribute[0].I)
	assert.Equal(t, protos.AttributeProto_INT, proto.Attribute[0].Type)
}

func TestCastRejectsUnsupportedTargets(t *testing.T) {
	c := NewContext()
	input := c.FloatInput(4)

	for _, target := range []protos.TensorProto_DataType{
		protos.TensorProto_STRING,
		protos.TensorProto_FLOAT16,
		protos.TensorProto_BOOL,
	} {
		err := exceptions.TryCatch[error](func() { Cast(input, target) })
		require.Error(t, err, "target %s", target)
		assert.ErrorContains(t, err, "is not supported")
	}
}

func TestNodeOutputIndices(t *testing.T) {
	c := NewContext()
	x := c.FloatInput(4)
	attrs := map[string]any{"coefficients": []float32{1}, "rho": []float32{0}}
	outputs := c.Operation(OpSVMClassifier, []Ref{x}, []string{"label", "scores"}, attrs)
	assert.Equal(t, 0, outputs[0].Index())
	assert.Equal(t, 1, outputs[1].Index())
	assert.Equal(t, "label", outputs[0].Reference())
	assert.Equal(t, "scores", outputs[1].Reference())
}
