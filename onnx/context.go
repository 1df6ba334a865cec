package onnx

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/graphcraft/onnx-builder/internal/protos"
)

// Context is the scope within which one graph is built: it owns the
// accumulating node list, the declared inputs/outputs/initializers and the
// unique-name allocator. All graph mutation goes through it, and every Ref
// traces back to exactly one Context.
//
// A Context is not safe for concurrent use, and should build exactly one
// graph. If any method panics, the partially built graph should be
// discarded.
type Context struct {
	name         string
	nodes        []*protos.NodeProto
	inputs       []*protos.ValueInfoProto
	outputs      []*protos.ValueInfoProto
	initializers []*protos.TensorProto
	counters     map[string]int
}

// NewContext returns an empty graph-construction scope.
func NewContext() *Context {
	return &Context{counters: make(map[string]int)}
}

// SetName sets the name of the graph being built.
func (c *Context) SetName(name string) { c.name = name }

// GenerateUniqueName returns base + "_" + counter, where the counter is
// per-base and increments on every call. No two calls on the same Context
// return the same string.
func (c *Context) GenerateUniqueName(base string) string {
	count := c.counters[base]
	c.counters[base] = count + 1
	return fmt.Sprintf("%s_%d", base, count)
}

// checkOwnership panics unless every ref was created by this Context.
func (c *Context) checkOwnership(refs ...Ref) {
	for _, ref := range refs {
		if ref.owner() != c {
			exceptions.Panicf("all input nodes must belong to this context (ref %q comes from a different context)",
				ref.Reference())
		}
	}
}

// Operation validates the call against op's schema, appends the resulting
// node to the graph and returns one handle per declared output position.
//
// Every input ref must have been created by this Context. Output names are
// used as given; callers wanting collision-free names should allocate them
// with GenerateUniqueName (the Apply helpers do).
//
// It panics (throws an exception) on arity/attribute violations or
// cross-context refs.
func (c *Context) Operation(op *Operator, inputs []Ref, outputNames []string, attributes map[string]any) []*Node {
	c.checkOwnership(inputs...)
	inputNames := make([]string, len(inputs))
	for ii, in := range inputs {
		inputNames[ii] = in.Reference()
	}
	node := op.build(c, inputNames, outputNames, attributes)
	c.nodes = append(c.nodes, node)
	outputs := make([]*Node, len(outputNames))
	for ii := range outputNames {
		outputs[ii] = &Node{ctx: c, proto: node, index: ii}
	}
	return outputs
}

// Op is the single-output convenience form of Operation.
//
// Attributes may be nil. It panics with an inconsistent-state message if
// the operation yields more than one output: that cannot happen for a
// well-formed single-output schema and indicates a bug in the operator
// table rather than a caller error.
func (c *Context) Op(op *Operator, inputs []Ref, outputName string, attributes map[string]any) *Node {
	outputs := c.Operation(op, inputs, []string{outputName}, attributes)
	if len(outputs) != 1 {
		exceptions.Panicf("inconsistent operator table: %q produced %d outputs where a single output was expected",
			op.OpType, len(outputs))
	}
	return outputs[0]
}

// AssignTo connects input to output's reference name through an Identity
// node, modelling assignment. Both refs must belong to this Context; output
// is typically a declared graph output placeholder.
func (c *Context) AssignTo(input, output Ref) *Node {
	c.checkOwnership(input, output)
	return c.Operation(OpIdentity, []Ref{input}, []string{output.Reference()}, nil)[0]
}

// FloatInput declares a [batch, featureSize] float32 graph input named
// "input", with a symbolic batch dimension.
func (c *Context) FloatInput(featureSize int) *Placeholder {
	return c.NamedFloatInput("input", featureSize)
}

// NamedFloatInput declares a [batch, featureSize] float32 graph input with
// the given name. The name is used as-is, not uniquified.
func (c *Context) NamedFloatInput(name string, featureSize int) *Placeholder {
	vi := TensorValueInfo(name, protos.TensorProto_FLOAT, batchShape(featureSize))
	c.inputs = append(c.inputs, vi)
	return &Placeholder{ctx: c, proto: vi}
}

// FloatOutput declares a [batch, featureSize] float32 graph output named
// "output", with a symbolic batch dimension.
func (c *Context) FloatOutput(featureSize int) *Placeholder {
	return c.NamedFloatOutput("output", featureSize)
}

// NamedFloatOutput declares a [batch, featureSize] float32 graph output
// with the given name.
func (c *Context) NamedFloatOutput(name string, featureSize int) *Placeholder {
	vi := TensorValueInfo(name, protos.TensorProto_FLOAT, batchShape(featureSize))
	c.outputs = append(c.outputs, vi)
	return &Placeholder{ctx: c, proto: vi}
}

func batchShape(featureSize int) *Shape {
	return NewSymbolicShape([]int64{UnknownDimension, int64(featureSize)}, []string{"batch", ""})
}

// FloatTensor allocates a float32 initializer with the given dimensions.
// populate is called once with a buffer of product(dims) elements to fill
// in row-major order; the buffer backs the tensor's raw bytes.
func (c *Context) FloatTensor(baseName string, dims []int, populate func(buf []float32)) *Initializer {
	size := 1
	for _, d := range dims {
		size *= d
	}
	buf := make([]float32, size)
	populate(buf)
	dims64 := make([]int64, len(dims))
	for ii, d := range dims {
		dims64[ii] = int64(d)
	}
	tensor := RawFloatTensor(c.GenerateUniqueName(baseName), dims64, buf)
	return c.addInitializer(tensor)
}

// FloatArray creates a rank-1 float32 initializer. The name is uniquified
// from baseName.
func (c *Context) FloatArray(baseName string, values []float32) *Initializer {
	return c.addInitializer(FloatTensor(c.GenerateUniqueName(baseName), []int64{int64(len(values))}, values))
}

// DoubleArray creates a rank-1 initializer from float64 values, downcasting
// them to float32: ONNX runtime support for float64 lags float32, so the
// narrower type is the default. Use Float64Array to keep full width.
func (c *Context) DoubleArray(baseName string, values []float64) *Initializer {
	downcast := make([]float32, len(values))
	for ii, v := range values {
		downcast[ii] = float32(v)
	}
	return c.FloatArray(baseName, downcast)
}

// Float64Array creates a rank-1 float64 initializer without downcasting.
func (c *Context) Float64Array(baseName string, values []float64) *Initializer {
	return c.addInitializer(DoubleTensor(c.GenerateUniqueName(baseName), []int64{int64(len(values))}, values))
}

// IntArray creates a rank-1 int32 initializer.
func (c *Context) IntArray(baseName string, values []int32) *Initializer {
	return c.addInitializer(IntTensor(c.GenerateUniqueName(baseName), []int64{int64(len(values))}, values))
}

// LongArray creates a rank-1 int64 initializer.
func (c *Context) LongArray(baseName string, values []int64) *Initializer {
	return c.addInitializer(LongTensor(c.GenerateUniqueName(baseName), []int64{int64(len(values))}, values))
}

// Float16Array creates a rank-1 float16 initializer from float32 values.
func (c *Context) Float16Array(baseName string, values []float32) *Initializer {
	return c.addInitializer(Float16Tensor(c.GenerateUniqueName(baseName), []int64{int64(len(values))}, values))
}

// FloatConstant creates a scalar float32 initializer.
func (c *Context) FloatConstant(baseName string, value float32) *Initializer {
	return c.addInitializer(FloatTensor(c.GenerateUniqueName(baseName), nil, []float32{value}))
}

// LongConstant creates a scalar int64 initializer.
func (c *Context) LongConstant(baseName string, value int64) *Initializer {
	return c.addInitializer(LongTensor(c.GenerateUniqueName(baseName), nil, []int64{value}))
}

func (c *Context) addInitializer(tensor *protos.TensorProto) *Initializer {
	c.initializers = append(c.initializers, tensor)
	return &Initializer{ctx: c, proto: tensor}
}

// BuildGraph assembles the graph built so far: nodes in construction order,
// declared inputs and outputs, initializers and the graph name. Calling it
// twice without intervening construction returns structurally equal graphs.
func (c *Context) BuildGraph() *protos.GraphProto {
	return &protos.GraphProto{
		Name:        c.name,
		Node:        slices.Clone(c.nodes),
		Input:       slices.Clone(c.inputs),
		Output:      slices.Clone(c.outputs),
		Initializer: slices.Clone(c.initializers),
	}
}
