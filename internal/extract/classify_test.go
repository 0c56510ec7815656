package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_TagRules(t *testing.T) {
	cases := []struct {
		name  string
		tag   string
		attrs map[string]string
		want  ElementKind
	}{
		{"rect is a node", "rect", nil, KindNode},
		{"circle is a node", "circle", nil, KindNode},
		{"ellipse is a node", "ellipse", nil, KindNode},
		{"polygon is a node", "polygon", nil, KindNode},
		{"text is a node", "text", nil, KindNode},
		{"tspan is a node", "tspan", nil, KindNode},
		{"line is a connector", "line", nil, KindConnector},
		{"polyline is a connector", "polyline", nil, KindConnector},
		{"line-only path is a connector", "path", map[string]string{"d": "M0 0 L10 10 L20 10"}, KindConnector},
		{"curved path is a node", "path", map[string]string{"d": "M0 0 C1 1 2 2 3 3"}, KindNode},
		{"move-only path is a node", "path", map[string]string{"d": "M0 0"}, KindNode},
		{"empty path is a node", "path", map[string]string{"d": ""}, KindNode},
		{"unknown tag drops", "filter", nil, KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.tag, tc.attrs))
		})
	}
}

func TestClassify_DataAttributeFlagsWin(t *testing.T) {
	// Explicit flags take priority over what the tag would imply.
	assert.Equal(t, KindNode, Classify("line", map[string]string{"data-node-id": "n1"}))
	assert.Equal(t, KindEdge, Classify("rect", map[string]string{"data-edge-id": "e1"}))
}

func TestClassify_SubstringFallback(t *testing.T) {
	cases := []struct {
		name  string
		attrs map[string]string
		want  ElementKind
	}{
		{"node in id", map[string]string{"id": "my-node-3"}, KindNode},
		{"node in class", map[string]string{"class": "diagram-node shaded"}, KindNode},
		{"edge in id", map[string]string{"id": "edge-7"}, KindConnector},
		{"connector in class", map[string]string{"class": "connector"}, KindConnector},
		{"edge beats node when both present", map[string]string{"id": "node-edge"}, KindConnector},
		{"no hint drops", map[string]string{"id": "thing"}, KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify("g", tc.attrs))
		})
	}
}

func TestRules_Order(t *testing.T) {
	// The rule table is the auditable precedence list; keep its order pinned.
	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"data-node-id flag",
		"data-edge-id flag",
		"shape tag",
		"connector tag",
		"path heuristic",
		"id/class substring fallback",
	}, names)
}
