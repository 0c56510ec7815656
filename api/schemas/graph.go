package schemas

import "time"

// -- Core Graph Models --
// These types represent the fully-formed graph recovered from one SVG
// document. Once a ParsedDocument is returned the engine retains no reference
// to it; the caller owns it outright.

// SchemaVersion tags every ParsedDocument so downstream consumers can detect
// model changes.
const SchemaVersion = "1.0"

// SourceFormatSVG is the only source format this engine produces.
const SourceFormatSVG = "SVG"

// NodeShape is the semantic shape class of a graph node.
type NodeShape string

const (
	ShapeRectangle NodeShape = "rectangle"
	ShapeCircle    NodeShape = "circle"
	ShapeEllipse   NodeShape = "ellipse"
	ShapePolygon   NodeShape = "polygon"
	ShapePath      NodeShape = "path"
	ShapeText      NodeShape = "text"
)

// EdgeType distinguishes edges drawn explicitly in the source from edges
// inferred out of connector geometry.
type EdgeType string

const (
	EdgeExplicit EdgeType = "explicit"
	EdgeInferred EdgeType = "inferred"
)

// Point is a 2-D coordinate in the source document's user space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in user-space units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeStyle carries the visual styling recovered for a node. All fields are
// optional; empty means the source did not specify the property.
type NodeStyle struct {
	Fill        string `json:"fill,omitempty"`
	Stroke      string `json:"stroke,omitempty"`
	StrokeWidth string `json:"strokeWidth,omitempty"`
	FontSize    string `json:"fontSize,omitempty"`
	FontFamily  string `json:"fontFamily,omitempty"`
}

// EdgeStyle carries the visual styling recovered for an edge.
type EdgeStyle struct {
	Stroke          string `json:"stroke,omitempty"`
	StrokeWidth     string `json:"strokeWidth,omitempty"`
	StrokeDashArray string `json:"strokeDashArray,omitempty"`
}

// Properties is a generic bag for attributes that have no dedicated field.
type Properties map[string]interface{}

// GraphNode is a graph vertex derived from a closed shape or text element.
// Label is never empty; it falls back to ID during cleaning.
type GraphNode struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Shape      NodeShape  `json:"shape"`
	Position   Point      `json:"position"`
	Size       Size       `json:"size"`
	Style      NodeStyle  `json:"style"`
	Properties Properties `json:"properties,omitempty"`
}

// GraphEdge is a graph connection. Source and Target always reference
// existing GraphNode IDs in the same document; edges that would dangle are
// dropped before the document is returned.
type GraphEdge struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Type       EdgeType   `json:"type"`
	Label      string     `json:"label,omitempty"`
	Style      EdgeStyle  `json:"style"`
	Properties Properties `json:"properties,omitempty"`
}

// GraphMetadata describes the document as a whole.
type GraphMetadata struct {
	NodeCount    int       `json:"nodeCount"`
	EdgeCount    int       `json:"edgeCount"`
	SourceFormat string    `json:"sourceFormat"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      string    `json:"version"`
}

// ParsedDocument is the canonical graph produced by one parse. Node and edge
// ordering preserves first-seen order from extraction so that identical input
// always yields an identical document.
type ParsedDocument struct {
	Nodes    []GraphNode   `json:"nodes"`
	Edges    []GraphEdge   `json:"edges"`
	Metadata GraphMetadata `json:"metadata"`
}
