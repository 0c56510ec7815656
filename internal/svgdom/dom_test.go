package svgdom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/svggraph/internal/svgdom"
)

func TestParseAndAttr(t *testing.T) {
	doc, err := svgdom.Parse(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect id="r" x="1"/></svg>`)
	require.NoError(t, err)

	root := doc.Find("svg").First()
	require.Equal(t, 1, root.Length())

	// The HTML5 parser restores canonical case for known SVG attributes;
	// either spelling must resolve.
	vb, ok := svgdom.Attr(root, "viewBox")
	assert.True(t, ok)
	assert.Equal(t, "0 0 10 10", vb)

	rect := doc.Find("rect").First()
	x, ok := svgdom.Attr(rect, "x")
	assert.True(t, ok)
	assert.Equal(t, "1", x)
}

func TestStyle(t *testing.T) {
	doc, err := svgdom.Parse(`<svg><rect style="fill: red; Stroke-Width : 2 ; broken"/></svg>`)
	require.NoError(t, err)

	style := svgdom.Style(doc.Find("rect").First())
	assert.Equal(t, "red", style["fill"])
	assert.Equal(t, "2", style["stroke-width"])
	assert.NotContains(t, style, "broken")
}

func TestLocator(t *testing.T) {
	doc, err := svgdom.Parse(`<svg><rect id="r1"/><circle/></svg>`)
	require.NoError(t, err)

	assert.Equal(t, "rect#r1", svgdom.Locator(doc.Find("rect").First()))
	assert.Equal(t, "circle", svgdom.Locator(doc.Find("circle").First()))
}
