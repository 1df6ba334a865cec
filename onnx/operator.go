package onnx

import (
	"maps"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/graphcraft/onnx-builder/internal/protos"
)

const (
	// OnnxDomain is the default operator domain.
	OnnxDomain = ""
	// MLDomain is the domain of the classical-ML operators (SVMs etc.).
	MLDomain = "ai.onnx.ml"

	// OnnxOpsetVersion is the opset the default-domain operator table targets.
	OnnxOpsetVersion = 13
	// MLOpsetVersion is the opset targeted for MLDomain.
	MLOpsetVersion = 1

	// VariadicInput marks an operator accepting any number (>= 1) of inputs.
	VariadicInput = -1
)

// Operator describes one ONNX opcode: its name and domain, its input/output
// arity and its attribute schema. Operator values are built once at package
// init (see operators.go) and never mutated.
type Operator struct {
	OpType            string
	Domain            string
	NumInputs         int // VariadicInput, or the count of required inputs.
	NumOptionalInputs int
	NumOutputs        int
	Attributes        map[string]Attribute
}

// newOperator builds a default-domain operator descriptor.
// It panics if the declaration lists the same attribute name twice.
func newOperator(opType string, numInputs, numOptionalInputs, numOutputs int, attributes ...Attribute) *Operator {
	op := &Operator{
		OpType:            opType,
		Domain:            OnnxDomain,
		NumInputs:         numInputs,
		NumOptionalInputs: numOptionalInputs,
		NumOutputs:        numOutputs,
		Attributes:        make(map[string]Attribute, len(attributes)),
	}
	for _, attr := range attributes {
		if _, duplicate := op.Attributes[attr.Name]; duplicate {
			exceptions.Panicf("operator %q declares attribute %q twice", opType, attr.Name)
		}
		op.Attributes[attr.Name] = attr
	}
	return op
}

// newMLOperator builds an operator descriptor in MLDomain.
func newMLOperator(opType string, numInputs, numOptionalInputs, numOutputs int, attributes ...Attribute) *Operator {
	op := newOperator(opType, numInputs, numOptionalInputs, numOutputs, attributes...)
	op.Domain = MLDomain
	return op
}

// MandatoryAttributeNames returns the sorted names of the attributes that
// must be supplied on every build of this operator.
func (op *Operator) MandatoryAttributeNames() []string {
	var names []string
	for name, attr := range op.Attributes {
		if attr.Mandatory {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// build validates the call against the operator's schema and emits the node.
//
// Inputs must satisfy the declared arity (exactly NumInputs up to
// NumInputs+NumOptionalInputs, or >= 1 for variadic operators), outputs must
// match NumOutputs exactly, every supplied attribute must exist in the
// schema and every mandatory attribute must be supplied. The node name is
// allocated from ctx so it is unique within the graph.
//
// It panics (throws an exception) on any violation.
func (op *Operator) build(ctx *Context, inputs, outputs []string, attributes map[string]any) *protos.NodeProto {
	if op.NumInputs == VariadicInput {
		if len(inputs) < 1 {
			exceptions.Panicf("variadic operator %q (domain %q) requires at least 1 input, got %d",
				op.OpType, op.Domain, len(inputs))
		}
	} else if len(inputs) < op.NumInputs || len(inputs) > op.NumInputs+op.NumOptionalInputs {
		exceptions.Panicf("operator %q (domain %q) expects between %d and %d inputs, got %d",
			op.OpType, op.Domain, op.NumInputs, op.NumInputs+op.NumOptionalInputs, len(inputs))
	}
	if len(outputs) != op.NumOutputs {
		exceptions.Panicf("operator %q (domain %q) expects exactly %d outputs, got %d",
			op.OpType, op.Domain, op.NumOutputs, len(outputs))
	}
	supplied := slices.Sorted(maps.Keys(attributes))
	for _, name := range supplied {
		if _, known := op.Attributes[name]; !known {
			exceptions.Panicf("operator %q (domain %q) has no attribute %q: schema has %q, was given %q",
				op.OpType, op.Domain, name, slices.Sorted(maps.Keys(op.Attributes)), supplied)
		}
	}
	for _, name := range op.MandatoryAttributeNames() {
		if _, present := attributes[name]; !present {
			exceptions.Panicf("operator %q (domain %q) requires attributes %q, was given %q",
				op.OpType, op.Domain, op.MandatoryAttributeNames(), supplied)
		}
	}

	node := &protos.NodeProto{
		Name:   ctx.GenerateUniqueName(op.OpType),
		OpType: op.OpType,
		Domain: op.Domain,
		Input:  slices.Clone(inputs),
		Output: slices.Clone(outputs),
	}
	// Attributes are emitted sorted by name so construction is deterministic.
	for _, name := range supplied {
		node.Attribute = append(node.Attribute, op.Attributes[name].Build(attributes[name]))
	}
	return node
}
