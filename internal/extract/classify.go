package extract

import "strings"

// Classification is an ordered rule table rather than a tangle of
// conditionals so the precedence is auditable and testable rule by rule:
// explicit data-attribute flags first, then tag rules, then the id/class
// substring fallback, then unknown.

// Rule is a single classification rule. Apply reports the kind and whether
// the rule matched; the first matching rule wins.
type Rule struct {
	Name  string
	Apply func(tag string, attrs map[string]string) (ElementKind, bool)
}

var nodeTags = map[string]bool{
	"rect":    true,
	"circle":  true,
	"ellipse": true,
	"polygon": true,
	"text":    true,
	"tspan":   true,
}

var connectorTags = map[string]bool{
	"line":     true,
	"polyline": true,
}

// Rules returns the classification rule table in evaluation order.
func Rules() []Rule {
	return []Rule{
		{
			Name: "data-node-id flag",
			Apply: func(tag string, attrs map[string]string) (ElementKind, bool) {
				if _, ok := attrs["data-node-id"]; ok {
					return KindNode, true
				}
				return KindUnknown, false
			},
		},
		{
			Name: "data-edge-id flag",
			Apply: func(tag string, attrs map[string]string) (ElementKind, bool) {
				if _, ok := attrs["data-edge-id"]; ok {
					return KindEdge, true
				}
				return KindUnknown, false
			},
		},
		{
			Name: "shape tag",
			Apply: func(tag string, attrs map[string]string) (ElementKind, bool) {
				if nodeTags[tag] {
					return KindNode, true
				}
				return KindUnknown, false
			},
		},
		{
			Name: "connector tag",
			Apply: func(tag string, attrs map[string]string) (ElementKind, bool) {
				if connectorTags[tag] {
					return KindConnector, true
				}
				return KindUnknown, false
			},
		},
		{
			Name: "path heuristic",
			Apply: func(tag string, attrs map[string]string) (ElementKind, bool) {
				if tag != "path" {
					return KindUnknown, false
				}
				if pathIsConnector(attrs["d"]) {
					return KindConnector, true
				}
				return KindNode, true
			},
		},
		{
			Name: "id/class substring fallback",
			Apply: func(tag string, attrs map[string]string) (ElementKind, bool) {
				hint := strings.ToLower(attrs["id"] + " " + attrs["class"])
				switch {
				case strings.Contains(hint, "edge"), strings.Contains(hint, "connector"):
					return KindConnector, true
				case strings.Contains(hint, "node"):
					return KindNode, true
				}
				return KindUnknown, false
			},
		},
	}
}

// Classify runs the rule table over one element. Elements no rule claims are
// reported as KindUnknown and dropped by the extractor.
func Classify(tag string, attrs map[string]string) ElementKind {
	for _, rule := range Rules() {
		if kind, ok := rule.Apply(tag, attrs); ok {
			return kind
		}
	}
	return KindUnknown
}

// pathIsConnector applies the move+line-dominant heuristic: a path whose
// command list is exclusively moves, lines and closes is treated as a drawn
// connection, anything with curve commands as a node outline.
func pathIsConnector(d string) bool {
	if strings.TrimSpace(d) == "" {
		return false
	}
	var lines, curves int
	for _, r := range d {
		switch r {
		case 'L', 'l', 'H', 'h', 'V', 'v':
			lines++
		case 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a':
			curves++
		}
	}
	return lines >= 1 && curves == 0
}
