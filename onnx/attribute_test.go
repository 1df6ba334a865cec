package onnx

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/graphcraft/onnx-builder/internal/protos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeBuild(t *testing.T) {
	attr := Attribute{Name: "alpha", Type: protos.AttributeProto_FLOAT}.Build(float32(1.5))
	assert.Equal(t, float32(1.5), attr.F)
	attr = Attribute{Name: "alpha", Type: protos.AttributeProto_FLOAT}.Build(2.5)
	assert.Equal(t, float32(2.5), attr.F)

	attr = Attribute{Name: "axis", Type: protos.AttributeProto_INT}.Build(-1)
	assert.Equal(t, int64(-1), attr.I)
	assert.Equal(t, protos.AttributeProto_INT, attr.Type)

	attr = Attribute{Name: "kernel_type", Type: protos.AttributeProto_STRING}.Build("LINEAR")
	assert.Equal(t, []byte("LINEAR"), attr.S)

	attr = Attribute{Name: "rho", Type: protos.AttributeProto_FLOATS}.Build([]float32{0.5, 1})
	assert.Equal(t, []float32{0.5, 1}, attr.Floats)

	attr = Attribute{Name: "axes", Type: protos.AttributeProto_INTS}.Build([]int{0, 2})
	assert.Equal(t, []int64{0, 2}, attr.Ints)
	attr = Attribute{Name: "axes", Type: protos.AttributeProto_INTS}.Build([]int64{1})
	assert.Equal(t, []int64{1}, attr.Ints)

	attr = Attribute{Name: "classlabels_strings", Type: protos.AttributeProto_STRINGS}.Build([]string{"a", "b"})
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, attr.Strings)

	tensor := FloatTensor("value", nil, []float32{0})
	attr = Attribute{Name: "value", Type: protos.AttributeProto_TENSOR}.Build(tensor)
	assert.Same(t, tensor, attr.T)
}

func TestAttributeBuildTypeMismatch(t *testing.T) {
	err := exceptions.TryCatch[error](func() {
		Attribute{Name: "axis", Type: protos.AttributeProto_INT}.Build("not an int")
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, `attribute "axis" expects a INT value, got string`)

	err = exceptions.TryCatch[error](func() {
		Attribute{Name: "alpha", Type: protos.AttributeProto_FLOAT}.Build(1)
	})
	require.Error(t, err)
}

func TestAttributeBuildUnsupportedTypes(t *testing.T) {
	unsupported := []protos.AttributeProto_AttributeType{
		protos.AttributeProto_UNDEFINED,
		protos.AttributeProto_GRAPH,
		protos.AttributeProto_GRAPHS,
		protos.AttributeProto_TENSORS,
		protos.AttributeProto_SPARSE_TENSOR,
		protos.AttributeProto_SPARSE_TENSORS,
	}
	for _, attrType := range unsupported {
		err := exceptions.TryCatch[error](func() {
			Attribute{Name: "bad", Type: attrType}.Build(nil)
		})
		require.Error(t, err, "type %s", attrType)
		assert.ErrorContains(t, err, "no supported serialization")
	}
}
