package validate

import (
	"regexp"
	"strings"
)

// Color grammars accepted for paint values. Anything outside these draws an
// INVALID_COLOR warning, never an error; rendering engines are far more
// forgiving than this list and a bad paint does not invalidate the graph.
var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbRe      = regexp.MustCompile(`^rgb\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*\)$`)
	rgbaRe     = regexp.MustCompile(`^rgba\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*(?:0|1|0?\.\d+)\s*\)$`)
	hslRe      = regexp.MustCompile(`^hsl\(\s*\d{1,3}\s*,\s*\d{1,3}%\s*,\s*\d{1,3}%\s*\)$`)
	hslaRe     = regexp.MustCompile(`^hsla\(\s*\d{1,3}\s*,\s*\d{1,3}%\s*,\s*\d{1,3}%\s*,\s*(?:0|1|0?\.\d+)\s*\)$`)
	paintRefRe = regexp.MustCompile(`^url\(#[^)]+\)$`)
)

// namedColors is the set of CSS named colors commonly emitted by diagram
// exporters. Deliberately not the full CSS list; unknown names only warn.
var namedColors = map[string]struct{}{
	"aqua": {}, "beige": {}, "black": {}, "blue": {}, "brown": {},
	"coral": {}, "crimson": {}, "cyan": {}, "darkblue": {}, "darkgray": {},
	"darkgreen": {}, "darkred": {}, "fuchsia": {}, "gold": {}, "gray": {},
	"green": {}, "grey": {}, "indigo": {}, "ivory": {}, "khaki": {},
	"lavender": {}, "lightblue": {}, "lightgray": {}, "lightgreen": {},
	"lightgrey": {}, "lightyellow": {}, "lime": {}, "magenta": {},
	"maroon": {}, "navy": {}, "olive": {}, "orange": {}, "orchid": {},
	"pink": {}, "plum": {}, "purple": {}, "red": {}, "salmon": {},
	"silver": {}, "skyblue": {}, "steelblue": {}, "tan": {}, "teal": {},
	"tomato": {}, "turquoise": {}, "violet": {}, "white": {}, "yellow": {},
}

// IsValidColor reports whether a paint value matches one of the accepted
// grammars: hex, rgb(), rgba(), hsl(), hsla(), a named color, a url(#ref)
// paint server, or one of the SVG keywords none/transparent/currentColor.
func IsValidColor(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	lower := strings.ToLower(v)
	switch lower {
	case "none", "transparent", "currentcolor", "inherit":
		return true
	}
	if _, ok := namedColors[lower]; ok {
		return true
	}
	return hexColorRe.MatchString(v) ||
		rgbRe.MatchString(lower) ||
		rgbaRe.MatchString(lower) ||
		hslRe.MatchString(lower) ||
		hslaRe.MatchString(lower) ||
		paintRefRe.MatchString(lower)
}
