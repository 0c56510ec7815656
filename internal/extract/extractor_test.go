package extract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svggraph/api/schemas"
	"github.com/xkilldash9x/svggraph/internal/config"
	"github.com/xkilldash9x/svggraph/internal/extract"
	"github.com/xkilldash9x/svggraph/internal/perfmon"
	"github.com/xkilldash9x/svggraph/internal/svgdom"
)

func extractMarkup(t *testing.T, markup string, opts schemas.Options) (extract.Result, []schemas.ParseError) {
	t.Helper()
	doc, err := svgdom.Parse(markup)
	require.NoError(t, err)

	e := extract.New(config.Default().Parser, zap.NewNop())
	mon := perfmon.Start(zap.NewNop())
	budget := perfmon.Budget{Timeout: time.Minute}
	return e.Extract(doc, opts, mon, budget)
}

func TestExtractor_BasicShapes(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
		<rect id="r1" x="10" y="10" width="20" height="20"/>
		<circle id="c1" cx="70" cy="70" r="10"/>
		<line id="l1" x1="20" y1="20" x2="70" y2="70"/>
	</svg>`

	res, errs := extractMarkup(t, markup, schemas.DefaultOptions())
	assert.Empty(t, errs)
	assert.Len(t, res.Nodes, 2)
	assert.Len(t, res.Connectors, 1)
	assert.Equal(t, 3, res.ElementCount)

	assert.Equal(t, "rect", res.Nodes[0].Tag)
	assert.Equal(t, extract.Rect{X: 10, Y: 10, Width: 20, Height: 20}, res.Nodes[0].BBox)
	assert.Equal(t, "l1", res.Connectors[0].ID)
	assert.Equal(t, []schemas.Point{{X: 20, Y: 20}, {X: 70, Y: 70}}, res.Connectors[0].Points)
}

func TestExtractor_DataFlaggedElements(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
		<g data-node-id="grp" x="5" y="5"><rect x="0" y="0" width="1" height="1"/></g>
		<path data-edge-id="e1" data-source="a" data-target="b" d="M0 0 L5 5"/>
	</svg>`

	res, errs := extractMarkup(t, markup, schemas.DefaultOptions())
	assert.Empty(t, errs)

	// The flagged group plus the rect inside it are nodes; the flagged path
	// is an explicit edge element, not a connector.
	require.Len(t, res.Nodes, 2)
	require.Len(t, res.EdgeElements, 1)
	assert.Empty(t, res.Connectors)
	assert.Equal(t, "a", res.EdgeElements[0].Attr("data-source"))
}

func TestExtractor_HiddenElements(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
		<rect id="visible" width="10" height="10"/>
		<rect id="styled-out" width="10" height="10" style="display: none"/>
		<rect id="attr-out" width="10" height="10" visibility="hidden"/>
	</svg>`

	t.Run("hidden skipped by default", func(t *testing.T) {
		res, _ := extractMarkup(t, markup, schemas.DefaultOptions())
		require.Len(t, res.Nodes, 1)
		assert.Equal(t, "visible", res.Nodes[0].Attr("id"))
	})

	t.Run("hidden kept when option disabled", func(t *testing.T) {
		opts := schemas.DefaultOptions()
		opts.IgnoreHiddenElements = false
		res, _ := extractMarkup(t, markup, opts)
		assert.Len(t, res.Nodes, 3)
	})
}

func TestExtractor_OptionGates(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
		<rect id="r1" width="10" height="10" fill="red" transform="translate(1 2)"/>
		<text id="t1" x="5" y="5">Hello</text>
	</svg>`

	t.Run("everything on", func(t *testing.T) {
		res, _ := extractMarkup(t, markup, schemas.DefaultOptions())
		require.Len(t, res.Nodes, 2)
		assert.Equal(t, "red", res.Nodes[0].Style["fill"])
		assert.Equal(t, "translate(1 2)", res.Nodes[0].Transform)
		assert.Equal(t, "Hello", res.Nodes[1].Text)
	})

	t.Run("gates off", func(t *testing.T) {
		opts := schemas.DefaultOptions()
		opts.ExtractText = false
		opts.ExtractStyles = false
		opts.ExtractTransforms = false
		res, _ := extractMarkup(t, markup, opts)
		require.Len(t, res.Nodes, 2)
		assert.Empty(t, res.Nodes[0].Style)
		assert.Empty(t, res.Nodes[0].Transform)
		assert.Empty(t, res.Nodes[1].Text)
	})
}

func TestExtractor_ConnectorWithoutGeometryDropped(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
		<polyline id="empty" points=""/>
		<polyline id="ok" points="0,0 10,10"/>
	</svg>`

	res, errs := extractMarkup(t, markup, schemas.DefaultOptions())
	assert.Empty(t, errs)
	require.Len(t, res.Connectors, 1)
	assert.Equal(t, "ok", res.Connectors[0].ID)
}

func TestExtractor_TimeoutAborts(t *testing.T) {
	// Enough elements to cross the abort polling interval.
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">`
	for i := 0; i < 60; i++ {
		markup += `<rect width="1" height="1"/>`
	}
	markup += `</svg>`

	doc, err := svgdom.Parse(markup)
	require.NoError(t, err)

	e := extract.New(config.Default().Parser, zap.NewNop())
	mon := perfmon.Start(zap.NewNop())
	time.Sleep(2 * time.Millisecond)
	budget := perfmon.Budget{Timeout: time.Millisecond, Grace: 0}

	_, errs := e.Extract(doc, schemas.DefaultOptions(), mon, budget)
	require.NotEmpty(t, errs)
	assert.Equal(t, schemas.CodeParseTimeout, errs[len(errs)-1].Code)
	assert.Equal(t, schemas.SeverityError, errs[len(errs)-1].Severity)
}
