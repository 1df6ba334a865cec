package onnx

import (
	"github.com/gomlx/exceptions"
	"github.com/graphcraft/onnx-builder/internal/protos"
)

// Ref is a non-owning handle to a value in a Context's graph: the output of
// a node, a declared graph input/output, or an initializer tensor. The
// Context owns the underlying protos; refs only point into them.
//
// The interface is closed: the only implementations are Node, Placeholder
// and Initializer.
type Ref interface {
	// Reference returns the wire-level name used to wire this value into a
	// subsequent node's inputs.
	Reference() string

	base() string
	owner() *Context
}

// Node is a handle to one output of an emitted graph node.
type Node struct {
	ctx   *Context
	proto *protos.NodeProto
	index int
}

// Reference returns the node's output name at this handle's output index.
func (n *Node) Reference() string { return n.proto.Output[n.index] }

// Proto returns the underlying node, owned by the Context.
func (n *Node) Proto() *protos.NodeProto { return n.proto }

// Index returns which of the node's outputs this handle refers to.
func (n *Node) Index() int { return n.index }

func (n *Node) base() string    { return n.proto.Name }
func (n *Node) owner() *Context { return n.ctx }

// Placeholder is a handle to a declared graph input or output slot.
type Placeholder struct {
	ctx   *Context
	proto *protos.ValueInfoProto
}

// Reference returns the declared name.
func (p *Placeholder) Reference() string { return p.proto.Name }

// Proto returns the underlying value info, owned by the Context.
func (p *Placeholder) Proto() *protos.ValueInfoProto { return p.proto }

func (p *Placeholder) base() string    { return p.proto.Name }
func (p *Placeholder) owner() *Context { return p.ctx }

// Initializer is a handle to a named constant tensor embedded in the graph.
type Initializer struct {
	ctx   *Context
	proto *protos.TensorProto
}

// Reference returns the initializer tensor's name.
func (i *Initializer) Reference() string { return i.proto.Name }

// Proto returns the underlying tensor, owned by the Context.
func (i *Initializer) Proto() *protos.TensorProto { return i.proto }

func (i *Initializer) base() string    { return i.proto.Name }
func (i *Initializer) owner() *Context { return i.ctx }

// The Apply helpers below are sugar over Context.Operation for the common
// single-output case: they auto-generate the output name from the operand
// base names and the opcode.

// Apply emits op over a single input, naming the output
// "<input>_<OpType>_<n>".
func Apply(op *Operator, input Ref, attributes map[string]any) *Node {
	ctx := input.owner()
	outputName := ctx.GenerateUniqueName(input.base() + "_" + op.OpType)
	return ctx.Op(op, []Ref{input}, outputName, attributes)
}

// ApplyPair emits a binary op, naming the output
// "<left>_<OpType>_<right>_<n>".
func ApplyPair(op *Operator, left, right Ref, attributes map[string]any) *Node {
	ctx := left.owner()
	outputName := ctx.GenerateUniqueName(left.base() + "_" + op.OpType + "_" + right.base())
	return ctx.Op(op, []Ref{left, right}, outputName, attributes)
}

// ApplyAll emits op over all inputs (e.g. a variadic Sum), naming the
// output after the first operand.
func ApplyAll(op *Operator, inputs []Ref, attributes map[string]any) *Node {
	if len(inputs) == 0 {
		exceptions.Panicf("ApplyAll(%q) requires at least one input", op.OpType)
	}
	ctx := inputs[0].owner()
	outputName := ctx.GenerateUniqueName(inputs[0].base() + "_" + op.OpType)
	return ctx.Op(op, inputs, outputName, attributes)
}

// Cast emits a Cast node converting input's element type to target. Only
// FLOAT, DOUBLE, INT32 and INT64 targets are supported; anything else
// panics naming the rejected type.
func Cast(input Ref, target protos.TensorProto_DataType) *Node {
	if !castTargets[target] {
		exceptions.Panicf("cast target %s is not supported (supported: FLOAT, DOUBLE, INT32, INT64)", target)
	}
	ctx := input.owner()
	outputName := ctx.GenerateUniqueName(input.base() + "_" + OpCast.OpType)
	return ctx.Op(OpCast, []Ref{input}, outputName, map[string]any{"to": int64(target)})
}
