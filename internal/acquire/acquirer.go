package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/corpix/uarand"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svggraph/api/schemas"
)

// fetchBodyLimit caps how much of a remote response we are willing to read.
// Oversized markup is still diagnosed later by the validator; this only guards
// against unbounded bodies.
const fetchBodyLimit = 32 * 1024 * 1024

// Acquirer resolves the three input modes into a single SVG-markup string.
// Failures surface as error-severity ParseErrors, never as panics.
type Acquirer struct {
	client *http.Client
	log    *zap.Logger
}

// New creates an Acquirer. A nil client or logger falls back to usable
// defaults.
func New(client *http.Client, logger *zap.Logger) *Acquirer {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Acquirer{client: client, log: logger.Named("acquirer")}
}

// Acquire returns the SVG markup for the given input and mode. On failure the
// returned ParseError is terminal for the pipeline.
func (a *Acquirer) Acquire(ctx context.Context, input string, mode schemas.InputMode) (string, *schemas.ParseError) {
	switch mode {
	case schemas.ModeString, schemas.ModeFile:
		// File content arrives pre-decoded; both modes are pass-through here.
		return input, nil
	case schemas.ModeURL:
		return a.fetch(ctx, input)
	default:
		return "", &schemas.ParseError{
			Code:     schemas.CodeUnsupportedMode,
			Message:  fmt.Sprintf("unsupported input mode %q", mode),
			Severity: schemas.SeverityError,
		}
	}
}

// fetch retrieves markup from a remote URL. Sites frequently serve SVG wrapped
// in an HTML page, so an HTML response is unwrapped to its first balanced
// <svg>...</svg> span.
func (a *Acquirer) fetch(ctx context.Context, rawURL string) (string, *schemas.ParseError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fetchError(fmt.Sprintf("invalid URL %q: %v", rawURL, err))
	}
	req.Header.Set("User-Agent", uarand.GetRandom())
	req.Header.Set("Accept", "image/svg+xml,text/html;q=0.9,*/*;q=0.8")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Warn("URL fetch failed", zap.String("url", rawURL), zap.Error(err))
		return "", fetchError(fmt.Sprintf("fetch %q: %v", rawURL, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.log.Warn("URL fetch returned non-2xx status",
			zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		return "", fetchError(fmt.Sprintf("fetch %q: HTTP status %d", rawURL, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, fetchBodyLimit))
	if err != nil {
		return "", fetchError(fmt.Sprintf("read body of %q: %v", rawURL, err))
	}

	content := string(body)
	contentType := resp.Header.Get("Content-Type")
	if looksLikeHTMLWrapper(contentType, content) {
		span, ok := ExtractSVGSpan(content)
		if !ok {
			return "", &schemas.ParseError{
				Code:     schemas.CodeNoSVGInHTML,
				Message:  fmt.Sprintf("no <svg> element found in HTML response from %q", rawURL),
				Severity: schemas.SeverityError,
			}
		}
		a.log.Debug("Unwrapped SVG from HTML response",
			zap.String("url", rawURL), zap.Int("span_bytes", len(span)))
		return span, nil
	}

	return content, nil
}

// looksLikeHTMLWrapper reports whether the response is an HTML page rather
// than raw SVG markup.
func looksLikeHTMLWrapper(contentType, body string) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	trimmed := strings.TrimSpace(body)
	lower := strings.ToLower(trimmed)
	return strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html")
}

// ExtractSVGSpan finds the first balanced <svg>...</svg> span in the content
// by counting open and close tags. This is deliberately not a full HTML
// parse; bracket matching is enough to carve the document out of a wrapper
// page and keeps malformed surroundings from mattering.
func ExtractSVGSpan(content string) (string, bool) {
	lower := strings.ToLower(content)
	start := strings.Index(lower, "<svg")
	if start < 0 {
		return "", false
	}

	depth := 0
	pos := start
	for pos < len(lower) {
		nextOpen := strings.Index(lower[pos:], "<svg")
		nextClose := strings.Index(lower[pos:], "</svg")
		if nextClose < 0 {
			return "", false
		}
		if nextOpen >= 0 && nextOpen < nextClose {
			depth++
			pos += nextOpen + len("<svg")
			continue
		}
		depth--
		pos += nextClose + len("</svg")
		if depth == 0 {
			end := strings.Index(lower[pos:], ">")
			if end < 0 {
				return "", false
			}
			return content[start : pos+end+1], true
		}
	}
	return "", false
}

func fetchError(message string) *schemas.ParseError {
	return &schemas.ParseError{
		Code:     schemas.CodeURLFetchFailed,
		Message:  message,
		Severity: schemas.SeverityError,
	}
}
