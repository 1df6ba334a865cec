package onnx

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/graphcraft/onnx-builder/internal/protos"
)

// Attribute describes one operator attribute: its name, its wire type and
// whether the operator requires it to be supplied.
//
// Attribute values are plain Go values; Build checks the value against the
// declared wire type when the node is emitted.
type Attribute struct {
	Name      string
	Type      protos.AttributeProto_AttributeType
	Mandatory bool
}

// Build serializes value into the wire attribute representation.
//
// The value's runtime type must match the declared wire type: float32 (or
// float64) for FLOAT, int/int32/int64 for INT, string for STRING, []float32
// for FLOATS, []int/[]int64 for INTS, []string for STRINGS and a
// *protos.TensorProto for TENSOR. Graph, sparse-tensor and list-of-message
// attribute types have no serialization here and are rejected.
//
// It panics (throws an exception) on a type mismatch or an unsupported
// attribute type.
func (a Attribute) Build(value any) *protos.AttributeProto {
	attr := &protos.AttributeProto{Name: a.Name, Type: a.Type}
	switch a.Type {
	case protos.AttributeProto_FLOAT:
		switch v := value.(type) {
		case float32:
			attr.F = v
		case float64:
			attr.F = float32(v)
		default:
			panicAttributeType(a, value)
		}
	case protos.AttributeProto_INT:
		switch v := value.(type) {
		case int:
			attr.I = int64(v)
		case int32:
			attr.I = int64(v)
		case int64:
			attr.I = v
		default:
			panicAttributeType(a, value)
		}
	case protos.AttributeProto_STRING:
		v, ok := value.(string)
		if !ok {
			panicAttributeType(a, value)
		}
		attr.S = []byte(v)
	case protos.AttributeProto_FLOATS:
		v, ok := value.([]float32)
		if !ok {
			panicAttributeType(a, value)
		}
		attr.Floats = slices.Clone(v)
	case protos.AttributeProto_INTS:
		switch v := value.(type) {
		case []int64:
			attr.Ints = slices.Clone(v)
		case []int:
			attr.Ints = make([]int64, len(v))
			for ii, i := range v {
				attr.Ints[ii] = int64(i)
			}
		default:
			panicAttributeType(a, value)
		}
	case protos.AttributeProto_STRINGS:
		v, ok := value.([]string)
		if !ok {
			panicAttributeType(a, value)
		}
		attr.Strings = make([][]byte, len(v))
		for ii, s := range v {
			attr.Strings[ii] = []byte(s)
		}
	case protos.AttributeProto_TENSOR:
		v, ok := value.(*protos.TensorProto)
		if !ok {
			panicAttributeType(a, value)
		}
		attr.T = v
	default:
		// GRAPH, SPARSE_TENSOR, the list-of-message types and UNDEFINED.
		exceptions.Panicf("attribute %q: type %s has no supported serialization", a.Name, a.Type)
	}
	return attr
}

func panicAttributeType(a Attribute, value any) {
	exceptions.Panicf("attribute %q expects a %s value, got %T", a.Name, a.Type, value)
}
