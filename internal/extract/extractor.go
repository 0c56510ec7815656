package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/svggraph/api/schemas"
	"github.com/xkilldash9x/svggraph/internal/config"
	"github.com/xkilldash9x/svggraph/internal/perfmon"
	"github.com/xkilldash9x/svggraph/internal/svgdom"
)

// selectionQuery gathers every drawing element plus anything explicitly
// flagged through data attributes. The result set is deduplicated because an
// element can match more than one selector.
const selectionQuery = "rect, circle, ellipse, polygon, polyline, line, path, text, tspan, [data-node-id], [data-edge-id]"

// styleAttrs are the presentation attributes folded into the style map when
// style extraction is enabled.
var styleAttrs = []string{
	"fill", "stroke", "stroke-width", "stroke-dasharray", "font-size", "font-family",
}

// Extractor walks the parsed document and converts qualifying elements into
// typed records. Per-element failures degrade to warnings; this stage prefers
// partial results over total failure.
type Extractor struct {
	hiddenMarkers      []string
	abortCheckInterval int
	log                *zap.Logger
}

// New creates an Extractor from the parser tunables.
func New(cfg config.ParserConfig, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	markers := cfg.HiddenStyleMarkers
	if len(markers) == 0 {
		markers = []string{"display:none", "visibility:hidden"}
	}
	interval := cfg.AbortCheckInterval
	if interval <= 0 {
		interval = 25
	}
	return &Extractor{
		hiddenMarkers:      markers,
		abortCheckInterval: interval,
		log:                logger.Named("extractor"),
	}
}

// Extract selects, classifies and converts the document's elements. The abort
// predicate is polled between elements once the configured interval passes,
// so cancellation is advisory rather than preemptive.
func (e *Extractor) Extract(doc *goquery.Document, opts schemas.Options, mon *perfmon.Monitor, budget perfmon.Budget) (Result, []schemas.ParseError) {
	var result Result
	var errs []schemas.ParseError

	root := doc.Find("svg").First()
	if root.Length() == 0 {
		return result, errs
	}

	seen := make(map[*html.Node]bool)
	var selections []*goquery.Selection
	root.Find(selectionQuery).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if seen[n] {
			return
		}
		seen[n] = true
		selections = append(selections, s)
	})

	for i, s := range selections {
		if mon != nil && i > 0 && i%e.abortCheckInterval == 0 {
			if reason := mon.ShouldAbort(budget); reason != nil {
				errs = append(errs, schemas.ParseError{
					Code:     reason.Code,
					Message:  reason.Message,
					Severity: schemas.SeverityError,
				})
				return result, errs
			}
		}

		el, perr := e.convert(s, opts)
		result.ElementCount++
		if perr != nil {
			errs = append(errs, *perr)
			continue
		}
		if el == nil {
			// Hidden or unclassifiable; dropped silently.
			continue
		}

		switch Classify(el.Tag, el.Attrs) {
		case KindNode:
			result.Nodes = append(result.Nodes, *el)
		case KindEdge:
			result.EdgeElements = append(result.EdgeElements, *el)
		case KindConnector:
			points := connectorPoints(el.Tag, el.Attrs)
			if len(points) < 2 {
				// A connector without two endpoints cannot imply anything.
				continue
			}
			result.Connectors = append(result.Connectors, Connector{
				ID:     connectorID(el, len(result.Connectors)),
				Points: points,
				Style:  el.Style,
				Attrs:  el.Attrs,
			})
		}
	}

	e.log.Debug("Extraction complete",
		zap.Int("elements", result.ElementCount),
		zap.Int("nodes", len(result.Nodes)),
		zap.Int("edge_elements", len(result.EdgeElements)),
		zap.Int("connectors", len(result.Connectors)))
	return result, errs
}

// convert builds the RawElement record for one selection. A nil record with a
// nil error means the element was deliberately skipped.
func (e *Extractor) convert(s *goquery.Selection, opts schemas.Options) (el *RawElement, perr *schemas.ParseError) {
	// One broken element must not take the pass down with it.
	defer func() {
		if r := recover(); r != nil {
			el = nil
			perr = &schemas.ParseError{
				Code:     schemas.CodeExtractionFailed,
				Message:  fmt.Sprintf("element conversion failed: %v", r),
				Element:  svgdom.Locator(s),
				Severity: schemas.SeverityWarning,
			}
		}
	}()

	node := s.Get(0)
	tag := strings.ToLower(node.Data)

	attrs := make(map[string]string, len(node.Attr))
	for _, a := range node.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}

	styleMap := svgdom.Style(s)
	if opts.IgnoreHiddenElements && e.isHidden(attrs, styleMap) {
		return nil, nil
	}

	el = &RawElement{Tag: tag, Attrs: attrs}

	if opts.ExtractText {
		el.Text = strings.TrimSpace(s.Text())
	}
	if opts.ExtractStyles {
		style := make(map[string]string)
		for _, name := range styleAttrs {
			if v, ok := attrs[name]; ok {
				style[name] = v
			}
		}
		for k, v := range styleMap {
			style[k] = v
		}
		if len(style) > 0 {
			el.Style = style
		}
	}
	if opts.ExtractTransforms {
		el.Transform = attrs["transform"]
	}

	el.BBox = boundingBox(tag, attrs, el.Text)
	return el, nil
}

// isHidden applies the hidden-style markers against the inline style and the
// display/visibility attributes. The markers are heuristics tuned to common
// diagram exports, not CSS cascade resolution.
func (e *Extractor) isHidden(attrs, style map[string]string) bool {
	joined := make([]string, 0, len(style)+2)
	for k, v := range style {
		joined = append(joined, k+":"+v)
	}
	if v, ok := attrs["display"]; ok {
		joined = append(joined, "display:"+v)
	}
	if v, ok := attrs["visibility"]; ok {
		joined = append(joined, "visibility:"+v)
	}

	for _, marker := range e.hiddenMarkers {
		want := strings.ReplaceAll(strings.ToLower(marker), " ", "")
		for _, decl := range joined {
			if strings.ReplaceAll(strings.ToLower(decl), " ", "") == want {
				return true
			}
		}
	}
	return false
}

// connectorID picks a stable identifier for a connector: its own id, the
// data-edge-id flag, or a deterministic ordinal fallback.
func connectorID(el *RawElement, ordinal int) string {
	if id := el.Attr("id"); id != "" {
		return id
	}
	if id := el.Attr("data-edge-id"); id != "" {
		return id
	}
	return fmt.Sprintf("connector-%d", ordinal)
}
