package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xkilldash9x/svggraph/api/schemas"
)

var (
	numberRe   = regexp.MustCompile(`[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	unitTrimRe = regexp.MustCompile(`(px|pt|pc|mm|cm|in|em|rem|ex|%)$`)
)

const (
	// Glyph metrics for estimating text bounding boxes when the source gives
	// no explicit size. Rough, but only proximity matters downstream.
	defaultFontSize  = 16.0
	glyphWidthFactor = 0.6
)

func distance(a, b schemas.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// floatAttr parses a numeric attribute, tolerating a trailing unit suffix.
// Missing or unparseable values yield zero.
func floatAttr(attrs map[string]string, name string) float64 {
	raw, ok := attrs[name]
	if !ok {
		return 0
	}
	trimmed := unitTrimRe.ReplaceAllString(strings.TrimSpace(raw), "")
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return val
}

// parsePoints reads a points attribute (polyline/polygon) into coordinates.
// Tokens come space- or comma-separated; a trailing unpaired value is
// dropped.
func parsePoints(raw string) []schemas.Point {
	tokens := numberRe.FindAllString(raw, -1)
	points := make([]schemas.Point, 0, len(tokens)/2)
	for i := 0; i+1 < len(tokens); i += 2 {
		x, errX := strconv.ParseFloat(tokens[i], 64)
		y, errY := strconv.ParseFloat(tokens[i+1], 64)
		if errX != nil || errY != nil {
			continue
		}
		points = append(points, schemas.Point{X: x, Y: y})
	}
	return points
}

// pathPoints walks the move/line subset of path data and returns the visited
// coordinates. Curve commands are skipped; by the time this runs the
// classifier has already routed curve-heavy paths away from connector duty.
func pathPoints(d string) []schemas.Point {
	var points []schemas.Point
	var cur schemas.Point
	cmd := byte(0)

	i := 0
	for i < len(d) {
		c := d[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			cmd = c
			i++
			continue
		}
		if c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}

		loc := numberRe.FindStringIndex(d[i:])
		if loc == nil || loc[0] != 0 {
			i++
			continue
		}
		token := d[i : i+loc[1]]
		i += loc[1]
		val, err := strconv.ParseFloat(token, 64)
		if err != nil {
			continue
		}

		switch cmd {
		case 'M', 'L':
			y, n := nextNumber(d, &i)
			if !n {
				return points
			}
			cur = schemas.Point{X: val, Y: y}
			points = append(points, cur)
		case 'm', 'l':
			y, n := nextNumber(d, &i)
			if !n {
				return points
			}
			cur = schemas.Point{X: cur.X + val, Y: cur.Y + y}
			points = append(points, cur)
		case 'H':
			cur.X = val
			points = append(points, cur)
		case 'h':
			cur.X += val
			points = append(points, cur)
		case 'V':
			cur.Y = val
			points = append(points, cur)
		case 'v':
			cur.Y += val
			points = append(points, cur)
		default:
			// Curve parameters and anything else are ignored.
		}
	}
	return points
}

// nextNumber scans the next numeric token starting at *i, advancing it.
func nextNumber(d string, i *int) (float64, bool) {
	for *i < len(d) {
		c := d[*i]
		if c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r' {
			*i++
			continue
		}
		break
	}
	loc := numberRe.FindStringIndex(d[*i:])
	if loc == nil || loc[0] != 0 {
		return 0, false
	}
	token := d[*i : *i+loc[1]]
	*i += loc[1]
	val, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// boundsOf computes the axis-aligned bounding box of a point list.
func boundsOf(points []schemas.Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// boundingBox computes the bounding box for one element from its attributes.
// Text sizes are estimated from the font size since nothing here renders
// glyphs.
func boundingBox(tag string, attrs map[string]string, text string) Rect {
	switch tag {
	case "rect":
		return Rect{
			X:      floatAttr(attrs, "x"),
			Y:      floatAttr(attrs, "y"),
			Width:  floatAttr(attrs, "width"),
			Height: floatAttr(attrs, "height"),
		}
	case "circle":
		r := floatAttr(attrs, "r")
		return Rect{
			X:      floatAttr(attrs, "cx") - r,
			Y:      floatAttr(attrs, "cy") - r,
			Width:  2 * r,
			Height: 2 * r,
		}
	case "ellipse":
		rx := floatAttr(attrs, "rx")
		ry := floatAttr(attrs, "ry")
		return Rect{
			X:      floatAttr(attrs, "cx") - rx,
			Y:      floatAttr(attrs, "cy") - ry,
			Width:  2 * rx,
			Height: 2 * ry,
		}
	case "polygon", "polyline":
		return boundsOf(parsePoints(attrs["points"]))
	case "line":
		return boundsOf([]schemas.Point{
			{X: floatAttr(attrs, "x1"), Y: floatAttr(attrs, "y1")},
			{X: floatAttr(attrs, "x2"), Y: floatAttr(attrs, "y2")},
		})
	case "path":
		return boundsOf(pathPoints(attrs["d"]))
	case "text", "tspan":
		size := floatAttr(attrs, "font-size")
		if size <= 0 {
			size = defaultFontSize
		}
		width := float64(len(text)) * size * glyphWidthFactor
		return Rect{
			X:      floatAttr(attrs, "x"),
			Y:      floatAttr(attrs, "y") - size,
			Width:  width,
			Height: size,
		}
	default:
		return Rect{
			X:      floatAttr(attrs, "x"),
			Y:      floatAttr(attrs, "y"),
			Width:  floatAttr(attrs, "width"),
			Height: floatAttr(attrs, "height"),
		}
	}
}

// connectorPoints returns the ordered point list for a connector-classified
// element, or nil when no geometry can be recovered.
func connectorPoints(tag string, attrs map[string]string) []schemas.Point {
	switch tag {
	case "line":
		return []schemas.Point{
			{X: floatAttr(attrs, "x1"), Y: floatAttr(attrs, "y1")},
			{X: floatAttr(attrs, "x2"), Y: floatAttr(attrs, "y2")},
		}
	case "polyline", "polygon":
		return parsePoints(attrs["points"])
	case "path":
		return pathPoints(attrs["d"])
	default:
		return nil
	}
}
