package model

import "encoding/json"

// AccessibilityNode is a snapshot of one UI element and its descendants.
// Attributes holds only supported, serializable values; a missing key means
// the element did not report the attribute.
type AccessibilityNode struct {
	Attributes map[string]Value
	Children   []AccessibilityNode
}

// Get returns the attribute value for key, or Unsupported.
func (n AccessibilityNode) Get(key string) Value {
	if v, ok := n.Attributes[key]; ok {
		return v
	}
	return Unsupported
}

// Set records v under key. Values that are never serialized are dropped.
func (n *AccessibilityNode) Set(key string, v Value) {
	if !v.Serializable() {
		return
	}
	if n.Attributes == nil {
		n.Attributes = make(map[string]Value)
	}
	n.Attributes[key] = v
}

// Count returns the number of nodes in the subtree rooted at n.
func (n AccessibilityNode) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// document flattens n into a map. Both encoding/json and yaml.v3 emit map
// keys in sorted order, which keeps the output byte-stable.
func (n AccessibilityNode) document() map[string]any {
	doc := make(map[string]any, len(n.Attributes)+1)
	for k, v := range n.Attributes {
		if v.Serializable() {
			doc[k] = v.Interface()
		}
	}
	if len(n.Children) > 0 {
		doc["children"] = n.Children
	}
	return doc
}

func (n AccessibilityNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.document())
}

func (n AccessibilityNode) MarshalYAML() (interface{}, error) {
	return n.document(), nil
}
