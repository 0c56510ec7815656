// Package transform converts extracted element records into the canonical
// graph model: nodes, explicit edges, inferred edges, then a cleaning pass
// that deduplicates and enforces referential integrity.
package transform

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/svggraph/api/schemas"
	"github.com/xkilldash9x/svggraph/internal/config"
	"github.com/xkilldash9x/svggraph/internal/extract"
)

// Transformer turns one extraction result into a ParsedDocument. Each step is
// a separate method so the pipeline can be tested rule by rule.
type Transformer struct {
	inferenceRadius float64
	log             *zap.Logger
}

// New creates a Transformer from the parser tunables.
func New(cfg config.ParserConfig, logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	radius := cfg.InferenceRadius
	if radius <= 0 {
		radius = 50
	}
	return &Transformer{inferenceRadius: radius, log: logger.Named("transformer")}
}

// Transform runs the full node/edge construction and cleaning pipeline.
// Everything it reports is advisory; transformation as a whole cannot fail.
func (t *Transformer) Transform(res extract.Result) (*schemas.ParsedDocument, []schemas.ParseError) {
	var errs []schemas.ParseError

	nodes := t.BuildNodes(res.Nodes)
	edges := t.BuildExplicitEdges(res.EdgeElements)
	edges = append(edges, t.InferEdges(res.Connectors, nodes)...)

	nodes, dupWarnings := dedupeNodes(nodes)
	errs = append(errs, dupWarnings...)

	edges, edgeWarnings := dedupeEdges(edges)
	errs = append(errs, edgeWarnings...)

	edges, danglingWarnings := enforceIntegrity(nodes, edges)
	errs = append(errs, danglingWarnings...)

	backfillLabels(nodes)

	doc := &schemas.ParsedDocument{
		Nodes: nodes,
		Edges: edges,
		Metadata: schemas.GraphMetadata{
			NodeCount:    len(nodes),
			EdgeCount:    len(edges),
			SourceFormat: schemas.SourceFormatSVG,
			CreatedAt:    time.Now().UTC(),
			Version:      schemas.SchemaVersion,
		},
	}

	t.log.Debug("Transformation complete",
		zap.Int("nodes", len(nodes)), zap.Int("edges", len(edges)),
		zap.Int("warnings", len(errs)))
	return doc, errs
}

// BuildNodes maps node-classified elements into GraphNodes. Identifiers come
// from the source when present and fall back to deterministic ordinals so
// re-parsing identical markup yields identical identities.
func (t *Transformer) BuildNodes(elements []extract.RawElement) []schemas.GraphNode {
	nodes := make([]schemas.GraphNode, 0, len(elements))
	for i, el := range elements {
		id := el.Attr("id")
		if id == "" {
			id = el.Attr("data-node-id")
		}
		if id == "" {
			id = fmt.Sprintf("node-%d", i)
		}

		node := schemas.GraphNode{
			ID:       id,
			Label:    resolveLabel(el, id),
			Shape:    shapeFor(el.Tag),
			Position: schemas.Point{X: el.BBox.X, Y: el.BBox.Y},
			Size:     schemas.Size{Width: el.BBox.Width, Height: el.BBox.Height},
			Style: schemas.NodeStyle{
				Fill:        el.Style["fill"],
				Stroke:      el.Style["stroke"],
				StrokeWidth: el.Style["stroke-width"],
				FontSize:    el.Style["font-size"],
				FontFamily:  el.Style["font-family"],
			},
			Properties: schemas.Properties{
				"originalTag": el.Tag,
				"attributes":  el.Attrs,
				"hasText":     el.Text != "",
			},
		}
		if el.Transform != "" {
			node.Properties["transform"] = el.Transform
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// BuildExplicitEdges maps edge-classified elements with resolvable source and
// target references into explicit GraphEdges. Elements without both
// references are skipped; references to nodes that do not exist are dropped
// later by the integrity pass, with a warning.
func (t *Transformer) BuildExplicitEdges(elements []extract.RawElement) []schemas.GraphEdge {
	edges := make([]schemas.GraphEdge, 0, len(elements))
	for i, el := range elements {
		source := firstAttr(el, "data-source", "source")
		target := firstAttr(el, "data-target", "target")
		if source == "" || target == "" {
			continue
		}

		id := firstAttr(el, "id", "data-edge-id")
		if id == "" {
			id = fmt.Sprintf("edge-%d", i)
		}

		edge := schemas.GraphEdge{
			ID:     id,
			Source: source,
			Target: target,
			Type:   schemas.EdgeExplicit,
			Label:  firstAttr(el, "data-label", "label"),
			Style: schemas.EdgeStyle{
				Stroke:          el.Style["stroke"],
				StrokeWidth:     el.Style["stroke-width"],
				StrokeDashArray: el.Style["stroke-dasharray"],
			},
			Properties: schemas.Properties{
				"originalTag": el.Tag,
			},
		}
		if d := el.Attr("d"); d != "" {
			edge.Properties["pathData"] = d
		}
		if marker := el.Attr("marker-end"); marker != "" {
			edge.Properties["markerEnd"] = marker
		}
		edges = append(edges, edge)
	}
	return edges
}

// InferEdges derives edges from connector geometry. A connector yields an
// edge only when both endpoints resolve to a node within the inference
// radius and the two nodes differ. Connectors that resolve nothing are
// decorative in most free-hand diagrams, so they drop silently.
func (t *Transformer) InferEdges(connectors []extract.Connector, nodes []schemas.GraphNode) []schemas.GraphEdge {
	var edges []schemas.GraphEdge
	for _, c := range connectors {
		start := c.Points[0]
		end := c.Points[len(c.Points)-1]

		sourceID, ok := t.nearestNode(start, nodes)
		if !ok {
			continue
		}
		targetID, ok := t.nearestNode(end, nodes)
		if !ok || sourceID == targetID {
			continue
		}

		edges = append(edges, schemas.GraphEdge{
			ID:     "inferred-" + c.ID,
			Source: sourceID,
			Target: targetID,
			Type:   schemas.EdgeInferred,
			Style: schemas.EdgeStyle{
				Stroke:          c.Style["stroke"],
				StrokeWidth:     c.Style["stroke-width"],
				StrokeDashArray: c.Style["stroke-dasharray"],
			},
			Properties: schemas.Properties{
				"connectorId":     c.ID,
				"connectorPoints": c.Points,
				"connectorLength": c.Length(),
			},
		})
	}
	return edges
}

// nearestNode finds the closest node center to the point, accepting it only
// within the inference radius.
func (t *Transformer) nearestNode(p schemas.Point, nodes []schemas.GraphNode) (string, bool) {
	bestID := ""
	best := math.Inf(1)
	for _, n := range nodes {
		center := schemas.Point{
			X: n.Position.X + n.Size.Width/2,
			Y: n.Position.Y + n.Size.Height/2,
		}
		d := math.Hypot(center.X-p.X, center.Y-p.Y)
		if d < best {
			best = d
			bestID = n.ID
		}
	}
	if bestID == "" || best > t.inferenceRadius {
		return "", false
	}
	return bestID, true
}

// dedupeNodes keeps the first occurrence of each node id.
func dedupeNodes(nodes []schemas.GraphNode) ([]schemas.GraphNode, []schemas.ParseError) {
	seen := make(map[string]bool, len(nodes))
	out := nodes[:0]
	var errs []schemas.ParseError
	for _, n := range nodes {
		if seen[n.ID] {
			errs = append(errs, schemas.ParseError{
				Code:     schemas.CodeDuplicateNode,
				Message:  fmt.Sprintf("duplicate node id %q dropped", n.ID),
				Element:  n.ID,
				Severity: schemas.SeverityWarning,
			})
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out, errs
}

// dedupeEdges keeps the first occurrence of each unordered (source, target)
// pair.
func dedupeEdges(edges []schemas.GraphEdge) ([]schemas.GraphEdge, []schemas.ParseError) {
	seen := make(map[string]bool, len(edges))
	out := edges[:0]
	var errs []schemas.ParseError
	for _, e := range edges {
		key := pairKey(e.Source, e.Target)
		if seen[key] {
			errs = append(errs, schemas.ParseError{
				Code:     schemas.CodeDuplicateEdge,
				Message:  fmt.Sprintf("duplicate edge between %q and %q dropped", e.Source, e.Target),
				Element:  e.ID,
				Severity: schemas.SeverityWarning,
			})
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out, errs
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// enforceIntegrity drops any edge whose endpoints are not both present in
// the node set. Dangling references are never retained.
func enforceIntegrity(nodes []schemas.GraphNode, edges []schemas.GraphEdge) ([]schemas.GraphEdge, []schemas.ParseError) {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}

	out := edges[:0]
	var errs []schemas.ParseError
	for _, e := range edges {
		if !ids[e.Source] || !ids[e.Target] {
			errs = append(errs, schemas.ParseError{
				Code:     schemas.CodeDanglingEdge,
				Message:  fmt.Sprintf("edge %q references missing node (%q -> %q)", e.ID, e.Source, e.Target),
				Element:  e.ID,
				Severity: schemas.SeverityWarning,
			})
			continue
		}
		out = append(out, e)
	}
	return out, errs
}

// backfillLabels replaces empty or whitespace-only labels with the node id so
// the label-never-empty invariant holds on every returned document.
func backfillLabels(nodes []schemas.GraphNode) {
	for i := range nodes {
		if strings.TrimSpace(nodes[i].Label) == "" {
			nodes[i].Label = nodes[i].ID
		}
	}
}

// resolveLabel applies the label resolution order: trimmed text content,
// then a title-like attribute, then the id.
func resolveLabel(el extract.RawElement, id string) string {
	if text := strings.TrimSpace(el.Text); text != "" {
		return text
	}
	if title := firstAttr(el, "title", "data-title"); title != "" {
		return title
	}
	return id
}

func firstAttr(el extract.RawElement, names ...string) string {
	for _, name := range names {
		if v := el.Attr(name); v != "" {
			return v
		}
	}
	return ""
}

// shapeFor maps a source tag to the node shape enum. Flagged elements with
// non-shape tags default to rectangle, the most common diagram vertex.
func shapeFor(tag string) schemas.NodeShape {
	switch tag {
	case "rect":
		return schemas.ShapeRectangle
	case "circle":
		return schemas.ShapeCircle
	case "ellipse":
		return schemas.ShapeEllipse
	case "polygon":
		return schemas.ShapePolygon
	case "path":
		return schemas.ShapePath
	case "text", "tspan":
		return schemas.ShapeText
	default:
		return schemas.ShapeRectangle
	}
}
