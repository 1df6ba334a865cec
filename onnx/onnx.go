// Package onnx provides a typed builder for ONNX computation graphs.
//
//   - Context: the graph-construction scope; its factory methods create
//     inputs, outputs, initializers and operations, returning typed refs.
//   - Operator table (OpAdd, OpGemm, ...): the closed set of opcodes the
//     builder can emit, each with a validated arity and attribute schema.
//   - Apply / ApplyPair / ApplyAll / Cast: chaining helpers over refs.
//   - Model: wraps the finished graph with opset imports and versioning
//     metadata, and serializes it to the ONNX wire format.
//
// Graph construction is pure in-memory mutation: errors are caller errors
// and panic (throw exceptions) at the point of violation. I/O and parsing
// return wrapped errors instead.
package onnx

import (
	"io"
	"os"

	"github.com/graphcraft/onnx-builder/internal/protos"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// IrVersion is the ONNX IR version written into built models.
	IrVersion = 8

	producerName    = "onnx-builder"
	producerVersion = "0.1.0"
)

// Model represents an ONNX model: a graph plus versioning metadata.
type Model struct {
	Proto protos.ModelProto
}

// BuildModel finalizes the Context's graph and wraps it into a model proto:
// IR version, producer, the given model domain and version, and the opset
// imports the operator table targets (the default domain at version 13
// plus, if any node uses it, ai.onnx.ml at version 1).
//
// It panics if the graph violates its structural invariants; see
// ValidateGraph.
func (c *Context) BuildModel(domain string, modelVersion int64) *Model {
	graph := c.BuildGraph()
	if err := ValidateGraph(graph); err != nil {
		panic(errors.WithMessagef(err, "building model for graph %q", graph.Name))
	}
	opsets := []*protos.OperatorSetIdProto{{Domain: OnnxDomain, Version: OnnxOpsetVersion}}
	for _, node := range graph.Node {
		if node.Domain == MLDomain {
			opsets = append(opsets, &protos.OperatorSetIdProto{Domain: MLDomain, Version: MLOpsetVersion})
			break
		}
	}
	return &Model{Proto: protos.ModelProto{
		IrVersion:       IrVersion,
		ProducerName:    producerName,
		ProducerVersion: producerVersion,
		Domain:          domain,
		ModelVersion:    modelVersion,
		OpsetImport:     opsets,
		Graph:           graph,
	}}
}

// Parse parses a serialized ONNX model.
func Parse(contents []byte) (*Model, error) {
	proto, err := protos.UnmarshalModel(contents)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse ONNX model proto")
	}
	return &Model{Proto: *proto}, nil
}

// ReadFile reads and parses an ONNX model file.
func ReadFile(filePath string) (*Model, error) {
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read ONNX model file in %s", filePath)
	}
	model, err := Parse(contents)
	if err != nil {
		return nil, errors.WithMessagef(err, "while parsing %s", filePath)
	}
	klog.V(1).Infof("read ONNX model from %s (%d bytes)", filePath, len(contents))
	return model, nil
}

// Inputs returns the names of the model's declared graph inputs.
func (m *Model) Inputs() []string {
	if m.Proto.Graph == nil {
		return nil
	}
	names := make([]string, len(m.Proto.Graph.Input))
	for ii, vi := range m.Proto.Graph.Input {
		names[ii] = vi.Name
	}
	return names
}

// Outputs returns the names of the model's declared graph outputs.
func (m *Model) Outputs() []string {
	if m.Proto.Graph == nil {
		return nil
	}
	names := make([]string, len(m.Proto.Graph.Output))
	for ii, vi := range m.Proto.Graph.Output {
		names[ii] = vi.Name
	}
	return names
}

// Write serializes the model to w in the ONNX wire format.
func (m *Model) Write(w io.Writer) error {
	_, err := w.Write(m.Proto.Marshal())
	return errors.Wrap(err, "failed to write ONNX model")
}

// Save writes the model to a file in the ONNX wire format.
func (m *Model) Save(filePath string) error {
	data := m.Proto.Marshal()
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to save ONNX model to %s", filePath)
	}
	klog.V(1).Infof("saved ONNX model to %s (%d bytes)", filePath, len(data))
	return nil
}
