package onnx

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/graphcraft/onnx-builder/internal/protos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedArityEnforcement(t *testing.T) {
	c := NewContext()
	x := c.FloatInput(4)
	y := c.NamedFloatInput("y", 4)
	z := c.NamedFloatInput("z", 4)

	err := exceptions.TryCatch[error](func() { c.Op(OpAdd, []Ref{x}, "out1", nil) })
	require.Error(t, err)
	assert.ErrorContains(t, err, `operator "Add"`)
	assert.ErrorContains(t, err, "between 2 and 2 inputs, got 1")

	require.NotNil(t, c.Op(OpAdd, []Ref{x, y}, "out2", nil))

	err = exceptions.TryCatch[error](func() { c.Op(OpAdd, []Ref{x, y, z}, "out3", nil) })
	require.Error(t, err)
	assert.ErrorContains(t, err, "got 3")
}

func TestOptionalInputs(t *testing.T) {
	c := NewContext()
	a := c.NamedFloatInput("a", 4)
	b := c.NamedFloatInput("b", 4)
	bias := c.FloatArray("bias", []float32{1, 2, 3, 4})

	// Gemm accepts 2 or 3 inputs.
	require.NotNil(t, c.Op(OpGemm, []Ref{a, b}, "ab", nil))
	require.NotNil(t, c.Op(OpGemm, []Ref{a, b, bias}, "ab_bias", nil))
	err := exceptions.TryCatch[error](func() { c.Op(OpGemm, []Ref{a}, "bad", nil) })
	require.Error(t, err)
	assert.ErrorContains(t, err, "between 2 and 3 inputs")
}

func TestVariadicArityEnforcement(t *testing.T) {
	c := NewContext()
	x := c.FloatInput(4)
	y := c.NamedFloatInput("y", 4)

	err := exceptions.TryCatch[error](func() { c.Operation(OpSum, nil, []string{"s"}, nil) })
	require.Error(t, err)
	assert.ErrorContains(t, err, "at least 1 input")

	require.NotNil(t, c.Op(OpSum, []Ref{x}, "s1", nil))
	require.NotNil(t, c.Op(OpSum, []Ref{x, y, x}, "s3", nil))
}

func TestOutputCountEnforcement(t *testing.T) {
	c := NewContext()
	x := c.FloatInput(4)
	attrs := map[string]any{"coefficients": []float32{1}, "rho": []float32{0}}

	err := exceptions.TryCatch[error](func() { c.Operation(OpSVMClassifier, []Ref{x}, []string{"label"}, attrs) })
	require.Error(t, err)
	assert.ErrorContains(t, err, "exactly 2 outputs, got 1")

	outputs := c.Operation(OpSVMClassifier, []Ref{x}, []string{"label", "scores"}, attrs)
	require.Len(t, outputs, 2)
	assert.Equal(t, "label", outputs[0].Reference())
	assert.Equal(t, "scores", outputs[1].Reference())
	assert.Same(t, outputs[0].Proto(), outputs[1].Proto())
	assert.Equal(t, MLDomain, outputs[0].Proto().Domain)
}

func TestMandatoryAttributeEnforcement(t *testing.T) {
	c := NewContext()
	x := c.FloatInput(4)
	y := c.NamedFloatInput("y", 4)

	err := exceptions.TryCatch[error](func() { c.Op(OpConcat, []Ref{x, y}, "cat", nil) })
	require.Error(t, err)
	assert.ErrorContains(t, err, `requires attributes ["axis"]`)

	node := c.Op(OpConcat, []Ref{x, y}, "cat", map[string]any{"axis": 0})
	require.Len(t, node.Proto().Attribute, 1)
	assert.Equal(t, "axis", node.Proto().Attribute[0].Name)
}

func TestUnknownAttributeRejected(t *testing.T) {
	c := NewContext()
	x := c.FloatInput(4)
	y := c.NamedFloatInput("y", 4)

	// Mandatory attributes satisfied, but an extra unknown key is present.
	err := exceptions.TryCatch[error](func() {
		c.Op(OpConcat, []Ref{x, y}, "cat", map[string]any{"axis": 0, "stride": 1})
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, `has no attribute "stride"`)

	err = exceptions.TryCatch[error](func() { c.Op(OpAdd, []Ref{x, y}, "sum", map[string]any{"axis": 0}) })
	require.Error(t, err)
}

func TestDuplicateAttributeDeclarationPanics(t *testing.T) {
	err := exceptions.TryCatch[error](func() {
		newOperator("Bogus", 1, 0, 1,
			Attribute{Name: "axis", Type: protos.AttributeProto_INT},
			Attribute{Name: "axis", Type: protos.AttributeProto_INT, Mandatory: true})
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, `declares attribute "axis" twice`)
}

func TestAttributesEmittedSorted(t *testing.T) {
	c := NewContext()
	a := c.NamedFloatInput("a", 4)
	b := c.NamedFloatInput("b", 4)
	node := c.Op(OpGemm, []Ref{a, b}, "g", map[string]any{
		"transB": 1,
		"alpha":  float32(0.5),
		"beta":   float32(2),
	})
	var names []string
	for _, attr := range node.Proto().Attribute {
		names = append(names, attr.Name)
	}
	assert.Equal(t, []string{"alpha", "beta", "transB"}, names)
}

func TestRegistryIsWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, op := range RegisteredOperators {
		require.NotNil(t, op)
		key := op.Domain + "." + op.OpType
		assert.False(t, seen[key], "operator %q registered twice", key)
		seen[key] = true
		assert.Greater(t, op.NumOutputs, 0, "operator %q", key)
		if op.NumInputs == VariadicInput {
			assert.Zero(t, op.NumOptionalInputs, "variadic operator %q", key)
		} else {
			assert.GreaterOrEqual(t, op.NumInputs, 1, "operator %q", key)
		}
		for _, name := range op.MandatoryAttributeNames() {
			_, ok := op.Attributes[name]
			assert.True(t, ok)
		}
	}
}
