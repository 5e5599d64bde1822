package ax

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mj1618/desktop-pilot/internal/model"
)

// DefaultMaxDepth bounds traversal when Exporter.MaxDepth is zero.
const DefaultMaxDepth = 64

// Exporter walks an accessibility graph depth-first and produces a tree.
// The walk never mutates the graph.
type Exporter struct {
	// MaxDepth is the deepest level whose children are still visited.
	// The root is level 0.
	MaxDepth int
}

// Export snapshots the tree rooted at root. It fails only when root itself
// cannot be queried; failures below the root drop the affected attribute
// or subtree.
func (e Exporter) Export(root Element) (model.AccessibilityNode, error) {
	if root == nil {
		return model.AccessibilityNode{}, ErrInvalidElement
	}
	if _, err := root.Attribute(AttrRole); errors.Is(err, ErrInvalidElement) {
		return model.AccessibilityNode{}, fmt.Errorf("resolve root element: %w", err)
	}

	w := walker{maxDepth: e.maxDepth(), onPath: make(map[uint64]bool)}
	return w.visit(root, 0), nil
}

func (e Exporter) maxDepth() int {
	if e.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return e.MaxDepth
}

type walker struct {
	maxDepth int
	// onPath holds the keys of the current node's ancestors. A child whose
	// key is already on the path closes a cycle and is not descended into.
	onPath map[uint64]bool
}

func (w *walker) visit(el Element, depth int) model.AccessibilityNode {
	node := attributes(el)
	if depth >= w.maxDepth {
		return node
	}
	children, err := el.Children()
	if err != nil || len(children) == 0 {
		return node
	}

	key := el.Key()
	if key != 0 {
		w.onPath[key] = true
		defer delete(w.onPath, key)
	}

	node.Children = make([]model.AccessibilityNode, 0, len(children))
	for _, child := range children {
		if child == nil {
			continue
		}
		if k := child.Key(); k != 0 && w.onPath[k] {
			node.Children = append(node.Children, attributes(child))
			continue
		}
		node.Children = append(node.Children, w.visit(child, depth+1))
	}
	if len(node.Children) == 0 {
		node.Children = nil
	}
	return node
}

// attributes queries every name in Attributes. Failed or unsupported
// queries leave the key out.
func attributes(el Element) model.AccessibilityNode {
	var node model.AccessibilityNode
	for _, name := range Attributes {
		if v, err := el.Attribute(name); err == nil {
			node.Set(name, v)
		}
	}
	return node
}

type errorDocument struct {
	Error string `json:"error"`
}

// Document renders an export result as indented JSON with sorted keys.
// A non-nil err yields a single {"error": "..."} document instead.
func Document(node model.AccessibilityNode, err error) []byte {
	var v any = node
	if err != nil {
		v = errorDocument{Error: err.Error()}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if encErr := enc.Encode(v); encErr != nil {
		buf.Reset()
		enc.Encode(errorDocument{Error: fmt.Sprintf("encode tree: %v", encErr)})
	}
	return buf.Bytes()
}
