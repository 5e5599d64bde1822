package model

import (
	"fmt"
	"math"
)

// Kind identifies which field of a Value is populated.
type Kind uint8

const (
	KindUnsupported Kind = iota
	KindString
	KindBool
	KindNumber
	KindPoint
	KindSize
	KindElement
)

var kindNames = [...]string{
	KindUnsupported: "unsupported",
	KindString:      "string",
	KindBool:        "bool",
	KindNumber:      "number",
	KindPoint:       "point",
	KindSize:        "size",
	KindElement:     "element",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Point is a screen position in logical units, origin top-left.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is a width/height pair. Fields are declared in key order so the
// encoded form is already sorted.
type Size struct {
	Height float64 `json:"height" yaml:"height"`
	Width  float64 `json:"width"  yaml:"width"`
}

// Value is the result of one attribute query. Exactly one payload field is
// meaningful, selected by Kind. The zero Value is Unsupported.
type Value struct {
	Kind   Kind
	String string
	Bool   bool
	Number float64
	Point  Point
	Size   Size
}

// Unsupported is the value reported when an element has no usable value
// for an attribute.
var Unsupported = Value{}

func StringValue(s string) Value { return Value{Kind: KindString, String: s} }

func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func NumberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }

func PointValue(p Point) Value { return Value{Kind: KindPoint, Point: p} }

func SizeValue(s Size) Value { return Value{Kind: KindSize, Size: s} }

// ElementValue marks an attribute whose value is another UI element. Such
// values are queried but never written to a document.
func ElementValue() Value { return Value{Kind: KindElement} }

// Serializable reports whether v is written to exported documents.
// Non-finite numbers have no JSON form and count as unsupported.
func (v Value) Serializable() bool {
	switch v.Kind {
	case KindString, KindBool:
		return true
	case KindNumber:
		return finite(v.Number)
	case KindPoint:
		return finite(v.Point.X, v.Point.Y)
	case KindSize:
		return finite(v.Size.Width, v.Size.Height)
	default:
		return false
	}
}

func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Interface returns the value in the form written to JSON and YAML
// documents. It returns nil for kinds that are never serialized.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.String
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number
	case KindPoint:
		return v.Point
	case KindSize:
		return v.Size
	default:
		return nil
	}
}
