package extract

import (
	"github.com/xkilldash9x/svggraph/api/schemas"
)

// ElementKind is the semantic role an SVG element plays in the graph.
type ElementKind int

const (
	KindUnknown ElementKind = iota
	KindNode
	KindEdge
	KindConnector
)

func (k ElementKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	case KindConnector:
		return "connector"
	default:
		return "unknown"
	}
}

// Rect is an axis-aligned bounding box in user-space units.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the geometric center of the box.
func (r Rect) Center() schemas.Point {
	return schemas.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// RawElement is the transient typed record produced for each qualifying
// source element. It lives only between extraction and transformation.
type RawElement struct {
	Tag       string
	Attrs     map[string]string
	BBox      Rect
	Transform string
	Style     map[string]string
	Text      string
}

// Attr returns an attribute value or the empty string.
func (e RawElement) Attr(name string) string {
	return e.Attrs[name]
}

// Connector is an ordered point list extracted from line, polyline and
// line-dominant path elements. It exists only to infer edges and is discarded
// afterwards.
type Connector struct {
	ID     string
	Points []schemas.Point
	Style  map[string]string
	Attrs  map[string]string
}

// Length returns the total polyline length of the connector.
func (c Connector) Length() float64 {
	var total float64
	for i := 1; i < len(c.Points); i++ {
		total += distance(c.Points[i-1], c.Points[i])
	}
	return total
}

// Result carries everything one extraction pass produced.
type Result struct {
	Nodes        []RawElement
	EdgeElements []RawElement
	Connectors   []Connector
	ElementCount int
}
