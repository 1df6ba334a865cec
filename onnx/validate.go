package onnx

import (
	"github.com/graphcraft/onnx-builder/internal/protos"
	"github.com/pkg/errors"
)

// ValidateGraph checks the structural invariants of a built graph:
//
//   - value names are unique across graph inputs, initializer tensors and
//     node outputs (an initializer may share an input's name: ONNX treats
//     that as the input's default value);
//   - every node input refers to a value produced by an earlier node, a
//     declared graph input or an initializer;
//   - every declared graph output is produced.
//
// Nodes are checked in construction order, which the builder guarantees is
// a topological order of the DAG.
func ValidateGraph(g *protos.GraphProto) error {
	available := make(map[string]bool)
	isInput := make(map[string]bool)
	for _, vi := range g.Input {
		if available[vi.Name] {
			return errors.Errorf("duplicate graph input name %q", vi.Name)
		}
		available[vi.Name] = true
		isInput[vi.Name] = true
	}
	for _, tensor := range g.Initializer {
		if available[tensor.Name] && !isInput[tensor.Name] {
			return errors.Errorf("duplicate initializer name %q", tensor.Name)
		}
		available[tensor.Name] = true
	}

	for _, node := range g.Node {
		for _, input := range node.Input {
			if input == "" {
				// Empty name: an omitted optional input.
				continue
			}
			if !available[input] {
				return errors.Errorf("node %s consumes %q, which is not produced by an earlier node, a graph input or an initializer",
					nodeToString(node), input)
			}
		}
		for _, output := range node.Output {
			if available[output] {
				return errors.Errorf("node %s produces %q, which is already in use", nodeToString(node), output)
			}
			available[output] = true
		}
	}

	for _, vi := range g.Output {
		if !available[vi.Name] {
			return errors.Errorf("graph output %q is never produced", vi.Name)
		}
	}
	return nil
}
