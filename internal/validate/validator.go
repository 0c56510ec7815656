package validate

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/svggraph/api/schemas"
	"github.com/xkilldash9x/svggraph/internal/config"
	"github.com/xkilldash9x/svggraph/internal/svgdom"
)

var (
	// Opening tags, closing tags and self-closing tags for the balance
	// heuristic. A mismatch is only a hint that markup is truncated, so it
	// never blocks on its own; the strict XML pass is what decides.
	openTagRe      = regexp.MustCompile(`<[a-zA-Z][^>]*?>`)
	closeTagRe     = regexp.MustCompile(`</[a-zA-Z][^>]*>`)
	selfCloseTagRe = regexp.MustCompile(`<[a-zA-Z][^>]*/>`)

	// Path data may contain command letters, digits, separators, signs and
	// exponents. Anything else is suspicious.
	pathDataRe = regexp.MustCompile(`^[MmLlHhVvCcSsQqTtAaZz0-9\s,.eE+\-]*$`)

	// Numeric attribute values, optionally carrying a unit or percent suffix.
	numericValueRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?(?:px|pt|pc|mm|cm|in|em|rem|ex|%)?$`)
)

// numericAttrs are the attributes whose values must parse as lengths.
var numericAttrs = []string{
	"x", "y", "width", "height", "cx", "cy", "r", "rx", "ry",
	"x1", "y1", "x2", "y2", "stroke-width",
}

// drawableSelector matches the elements that count as drawable content when
// deciding whether an <svg> root is empty.
const drawableSelector = "rect, circle, ellipse, polygon, polyline, line, path, text, g, image, use"

// svgNamespace is the only correct namespace for the root element.
const svgNamespace = "http://www.w3.org/2000/svg"

// Validator performs the layered structural validation pass. Each layer runs
// independently so a single call surfaces the full defect list instead of the
// first failure.
type Validator struct {
	maxMarkupBytes int
	log            *zap.Logger
}

// New creates a Validator from the parser tunables.
func New(cfg config.ParserConfig, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxBytes := cfg.MaxMarkupBytes
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return &Validator{maxMarkupBytes: maxBytes, log: logger.Named("validator")}
}

// Validate runs every layer against the markup and reports whether the result
// is free of error-severity findings. Warnings never flip valid to false; the
// caller decides whether to proceed with them present.
func (v *Validator) Validate(markup string) (bool, []schemas.ParseError) {
	var errs []schemas.ParseError

	errs = append(errs, v.basicChecks(markup)...)
	errs = append(errs, v.wellFormedCheck(markup)...)

	doc, err := svgdom.Parse(markup)
	if err != nil {
		errs = append(errs, schemas.ParseError{
			Code:     schemas.CodeMalformedMarkup,
			Message:  fmt.Sprintf("markup could not be parsed: %v", err),
			Severity: schemas.SeverityError,
		})
	} else {
		errs = append(errs, v.structuralChecks(doc)...)
		errs = append(errs, v.contentChecks(doc)...)
	}

	valid := !schemas.HasBlocking(errs)
	v.log.Debug("Validation complete",
		zap.Bool("valid", valid), zap.Int("findings", len(errs)))
	return valid, errs
}

// basicChecks are the cheap string-level checks that need no parsing at all.
func (v *Validator) basicChecks(markup string) []schemas.ParseError {
	var errs []schemas.ParseError

	if strings.TrimSpace(markup) == "" {
		errs = append(errs, schemas.ParseError{
			Code:     schemas.CodeEmptyContent,
			Message:  "markup is empty",
			Severity: schemas.SeverityError,
		})
		return errs
	}

	if !strings.Contains(strings.ToLower(markup), "<svg") {
		errs = append(errs, schemas.ParseError{
			Code:     schemas.CodeNoSVGTag,
			Message:  "markup contains no <svg> tag",
			Severity: schemas.SeverityError,
		})
	}

	opens := len(openTagRe.FindAllString(markup, -1))
	closes := len(closeTagRe.FindAllString(markup, -1))
	// Self-closing tags match the open pattern too, so subtract them back out.
	selfCloses := len(selfCloseTagRe.FindAllString(markup, -1))
	if opens-selfCloses != closes {
		errs = append(errs, schemas.ParseError{
			Code: schemas.CodeUnbalancedTags,
			Message: fmt.Sprintf("tag count mismatch: %d opening, %d closing, %d self-closing",
				opens-selfCloses, closes, selfCloses),
			Severity: schemas.SeverityWarning,
		})
	}

	if len(markup) > v.maxMarkupBytes {
		errs = append(errs, schemas.ParseError{
			Code: schemas.CodeContentTooLarge,
			Message: fmt.Sprintf("markup is %d bytes, above the %d byte threshold",
				len(markup), v.maxMarkupBytes),
			Severity: schemas.SeverityWarning,
		})
	}

	return errs
}

// wellFormedCheck runs a strict XML token pass over the markup. The query
// layer uses a lenient parser that swallows almost anything, so this is the
// check that actually catches truncated or mangled documents.
func (v *Validator) wellFormedCheck(markup string) []schemas.ParseError {
	if strings.TrimSpace(markup) == "" {
		return nil
	}

	decoder := xml.NewDecoder(strings.NewReader(markup))
	decoder.Strict = true
	for {
		_, err := decoder.Token()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		perr := schemas.ParseError{
			Code:     schemas.CodeMalformedMarkup,
			Message:  fmt.Sprintf("markup is not well-formed: %v", err),
			Severity: schemas.SeverityError,
		}
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			perr.Line = syntaxErr.Line
		}
		return []schemas.ParseError{perr}
	}
}

// structuralChecks validates the root <svg> element. A missing root
// short-circuits the remaining structural checks only; content checks still
// run.
func (v *Validator) structuralChecks(doc *goquery.Document) []schemas.ParseError {
	var errs []schemas.ParseError

	root := doc.Find("svg").First()
	if root.Length() == 0 {
		return append(errs, schemas.ParseError{
			Code:     schemas.CodeMissingSVGRoot,
			Message:  "document has no <svg> root element",
			Severity: schemas.SeverityError,
		})
	}

	if ns, ok := svgdom.Attr(root, "xmlns"); !ok || ns != svgNamespace {
		errs = append(errs, schemas.ParseError{
			Code:     schemas.CodeMissingNamespace,
			Message:  fmt.Sprintf("root element should declare xmlns=%q", svgNamespace),
			Element:  "svg",
			Severity: schemas.SeverityWarning,
		})
	}

	viewBox, hasViewBox := svgdom.Attr(root, "viewBox")
	_, hasWidth := svgdom.Attr(root, "width")
	_, hasHeight := svgdom.Attr(root, "height")
	if !hasViewBox && !(hasWidth && hasHeight) {
		errs = append(errs, schemas.ParseError{
			Code:     schemas.CodeMissingDimensions,
			Message:  "root element has neither viewBox nor width and height",
			Element:  "svg",
			Severity: schemas.SeverityWarning,
		})
	}

	if hasViewBox {
		if err := checkViewBox(viewBox); err != nil {
			errs = append(errs, schemas.ParseError{
				Code:     schemas.CodeInvalidViewBox,
				Message:  err.Error(),
				Element:  "svg",
				Severity: schemas.SeverityError,
			})
		}
	}

	if root.Find(drawableSelector).Length() == 0 {
		errs = append(errs, schemas.ParseError{
			Code:     schemas.CodeNoDrawableContent,
			Message:  "root element contains no drawable child elements",
			Element:  "svg",
			Severity: schemas.SeverityWarning,
		})
	}

	return errs
}

// checkViewBox requires exactly four numeric tokens.
func checkViewBox(value string) error {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) != 4 {
		return fmt.Errorf("viewBox %q must contain four numeric values", value)
	}
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return fmt.Errorf("viewBox %q contains non-numeric value %q", value, f)
		}
	}
	return nil
}

// contentChecks validates element-level data: path syntax, paint values,
// numeric attributes and duplicate ids. Everything here is advisory.
func (v *Validator) contentChecks(doc *goquery.Document) []schemas.ParseError {
	var errs []schemas.ParseError

	doc.Find("path").Each(func(_ int, s *goquery.Selection) {
		d, ok := svgdom.Attr(s, "d")
		if ok && !pathDataRe.MatchString(d) {
			errs = append(errs, schemas.ParseError{
				Code:     schemas.CodeInvalidPathData,
				Message:  "path data contains characters outside the SVG path grammar",
				Element:  svgdom.Locator(s),
				Severity: schemas.SeverityWarning,
			})
		}
	})

	doc.Find("[fill]").Each(func(_ int, s *goquery.Selection) {
		fill, _ := svgdom.Attr(s, "fill")
		if !IsValidColor(fill) {
			errs = append(errs, schemas.ParseError{
				Code:     schemas.CodeInvalidColor,
				Message:  fmt.Sprintf("fill value %q does not match any supported color grammar", fill),
				Element:  svgdom.Locator(s),
				Severity: schemas.SeverityWarning,
			})
		}
	})

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range numericAttrs {
			val, ok := svgdom.Attr(s, attr)
			if !ok {
				continue
			}
			if !numericValueRe.MatchString(strings.TrimSpace(val)) {
				errs = append(errs, schemas.ParseError{
					Code:     schemas.CodeInvalidNumeric,
					Message:  fmt.Sprintf("attribute %s=%q is not a numeric value", attr, val),
					Element:  svgdom.Locator(s),
					Severity: schemas.SeverityWarning,
				})
			}
		}
	})

	errs = append(errs, v.duplicateIDCheck(doc)...)
	return errs
}

// duplicateIDCheck sweeps the whole document for repeated id values. The
// XPath query keeps this a single pass regardless of nesting depth.
func (v *Validator) duplicateIDCheck(doc *goquery.Document) []schemas.ParseError {
	var root *html.Node
	if len(doc.Nodes) > 0 {
		root = doc.Nodes[0]
	}
	if root == nil {
		return nil
	}

	seen := make(map[string]int)
	var order []string
	for _, n := range htmlquery.Find(root, "//*[@id]") {
		id := htmlquery.SelectAttr(n, "id")
		if id == "" {
			continue
		}
		if seen[id] == 0 {
			order = append(order, id)
		}
		seen[id]++
	}

	var errs []schemas.ParseError
	for _, id := range order {
		if count := seen[id]; count > 1 {
			errs = append(errs, schemas.ParseError{
				Code:     schemas.CodeDuplicateID,
				Message:  fmt.Sprintf("id %q appears %d times", id, count),
				Severity: schemas.SeverityWarning,
			})
		}
	}
	return errs
}
