package schemas

// -- Parse Request/Response Models --
// These types form the public contract of the parsing engine. Everything the
// engine reports travels through them; no internal fault ever escapes as a
// language-level panic.

// InputMode selects how the engine interprets the Input field of a ParseRequest.
type InputMode string

const (
	// ModeString treats the input as raw SVG markup.
	ModeString InputMode = "string"
	// ModeFile treats the input as the pre-decoded text of an uploaded file.
	ModeFile InputMode = "file"
	// ModeURL treats the input as a remote URL to fetch the markup from.
	ModeURL InputMode = "url"
)

// Severity classifies a diagnostic as blocking or advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Stable diagnostic codes. Callers match on these, so they must never change
// meaning between releases.
const (
	CodeEmptyContent       = "EMPTY_CONTENT"
	CodeNoSVGTag           = "NO_SVG_TAG"
	CodeUnbalancedTags     = "UNBALANCED_TAGS"
	CodeContentTooLarge    = "CONTENT_TOO_LARGE"
	CodeMalformedMarkup    = "MALFORMED_MARKUP"
	CodeMissingSVGRoot     = "MISSING_SVG_ROOT"
	CodeMissingNamespace   = "MISSING_NAMESPACE"
	CodeMissingDimensions  = "MISSING_DIMENSIONS"
	CodeInvalidViewBox     = "INVALID_VIEWBOX"
	CodeNoDrawableContent  = "NO_DRAWABLE_CONTENT"
	CodeInvalidPathData    = "INVALID_PATH_DATA"
	CodeInvalidColor       = "INVALID_COLOR"
	CodeInvalidNumeric     = "INVALID_NUMERIC_VALUE"
	CodeDuplicateID        = "DUPLICATE_ID"
	CodeExtractionFailed   = "ELEMENT_EXTRACTION_FAILED"
	CodeDuplicateNode      = "DUPLICATE_NODE"
	CodeDuplicateEdge      = "DUPLICATE_EDGE"
	CodeDanglingEdge       = "DANGLING_EDGE"
	CodeURLFetchFailed     = "URL_FETCH_FAILED"
	CodeNoSVGInHTML        = "NO_SVG_IN_HTML"
	CodeUnsupportedMode    = "UNSUPPORTED_MODE"
	CodeMaxNodesExceeded   = "MAX_NODES_EXCEEDED"
	CodeParseTimeout       = "PARSE_TIMEOUT"
	CodeMemoryLimit        = "MEMORY_LIMIT_EXCEEDED"
	CodeParseError         = "PARSE_ERROR"
)

// ParseError is a single severity-tagged diagnostic produced by any pipeline
// stage. A parse fails only when at least one error-severity entry exists;
// warning and info entries are advisory.
type ParseError struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Element  string   `json:"element,omitempty"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
	Severity Severity `json:"severity"`
}

// IsBlocking reports whether this diagnostic terminates the parse.
func (e ParseError) IsBlocking() bool {
	return e.Severity == SeverityError
}

// HasBlocking reports whether any entry in the list is error-severity.
func HasBlocking(errs []ParseError) bool {
	for _, e := range errs {
		if e.IsBlocking() {
			return true
		}
	}
	return false
}

// ParseOptions carries caller overrides for a single parse. Nil fields fall
// back to the engine defaults, so a zero value means "defaults for everything".
type ParseOptions struct {
	ExtractText          *bool `json:"extractText,omitempty"`
	ExtractStyles        *bool `json:"extractStyles,omitempty"`
	ExtractTransforms    *bool `json:"extractTransforms,omitempty"`
	IgnoreHiddenElements *bool `json:"ignoreHiddenElements,omitempty"`
	MaxNodes             *int  `json:"maxNodes,omitempty"`
	TimeoutMs            *int  `json:"timeoutMs,omitempty"`
	ValidateStructure    *bool `json:"validateStructure,omitempty"`
}

// Options is the fully resolved option set a parse actually runs with.
type Options struct {
	ExtractText          bool `json:"extractText"`
	ExtractStyles        bool `json:"extractStyles"`
	ExtractTransforms    bool `json:"extractTransforms"`
	IgnoreHiddenElements bool `json:"ignoreHiddenElements"`
	MaxNodes             int  `json:"maxNodes"`
	TimeoutMs            int  `json:"timeoutMs"`
	ValidateStructure    bool `json:"validateStructure"`
}

// DefaultOptions returns the engine defaults that caller overrides merge over.
func DefaultOptions() Options {
	return Options{
		ExtractText:          true,
		ExtractStyles:        true,
		ExtractTransforms:    true,
		IgnoreHiddenElements: true,
		MaxNodes:             1000,
		TimeoutMs:            30000,
		ValidateStructure:    true,
	}
}

// Merge applies the non-nil overrides on top of the receiver and returns the
// result. The receiver is not modified.
func (o Options) Merge(overrides *ParseOptions) Options {
	if overrides == nil {
		return o
	}
	if overrides.ExtractText != nil {
		o.ExtractText = *overrides.ExtractText
	}
	if overrides.ExtractStyles != nil {
		o.ExtractStyles = *overrides.ExtractStyles
	}
	if overrides.ExtractTransforms != nil {
		o.ExtractTransforms = *overrides.ExtractTransforms
	}
	if overrides.IgnoreHiddenElements != nil {
		o.IgnoreHiddenElements = *overrides.IgnoreHiddenElements
	}
	if overrides.MaxNodes != nil {
		o.MaxNodes = *overrides.MaxNodes
	}
	if overrides.TimeoutMs != nil {
		o.TimeoutMs = *overrides.TimeoutMs
	}
	if overrides.ValidateStructure != nil {
		o.ValidateStructure = *overrides.ValidateStructure
	}
	return o
}

// ParseRequest is the single input envelope for the public Parse operation.
type ParseRequest struct {
	Input     string        `json:"input"`
	InputMode InputMode     `json:"inputMode"`
	Options   *ParseOptions `json:"options,omitempty"`
}

// PerformanceMetrics summarizes the cost of one parse invocation.
type PerformanceMetrics struct {
	ParseTimeMs      int64 `json:"parseTimeMs"`
	MemoryDeltaBytes int64 `json:"memoryDeltaBytes"`
	NodeCount        int   `json:"nodeCount"`
	EdgeCount        int   `json:"edgeCount"`
	ElementCount     int   `json:"elementCount"`
}

// ParseResponse is the terminal envelope for one parse. It is always
// well-formed: on failure Data is nil and Errors carries at least one
// error-severity entry, on success Errors may still carry warnings.
type ParseResponse struct {
	Success bool                `json:"success"`
	Data    *ParsedDocument     `json:"data,omitempty"`
	Errors  []ParseError        `json:"errors"`
	Metrics PerformanceMetrics  `json:"metrics"`
}

// ValidationResult is the reduced envelope of the standalone validate
// operation, splitting diagnostics into blocking and advisory message lists.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
