// Package svggraph is the public library surface of the SVG-to-Graph parsing
// engine. It re-exports the orchestrated pipeline so consumers outside this
// module can parse markup without reaching into internal packages.
package svggraph

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/svggraph/api/schemas"
	"github.com/xkilldash9x/svggraph/internal/orchestrator"
)

// Engine parses SVG markup into validated graphs. It is safe for concurrent
// use; invocations share nothing but configuration.
type Engine struct {
	inner *orchestrator.Engine
}

// New creates an Engine with default configuration. A nil logger silences
// all engine logging.
func New(logger *zap.Logger) *Engine {
	return &Engine{inner: orchestrator.New(nil, logger)}
}

// Parse runs one request through the full pipeline. The response envelope is
// always well-formed, success or not.
func (e *Engine) Parse(ctx context.Context, req schemas.ParseRequest) schemas.ParseResponse {
	return e.inner.Parse(ctx, req)
}

// ParseString is shorthand for parsing raw markup with default options.
func (e *Engine) ParseString(ctx context.Context, markup string) schemas.ParseResponse {
	return e.inner.Parse(ctx, schemas.ParseRequest{
		Input:     markup,
		InputMode: schemas.ModeString,
	})
}

// Validate runs only the structural validation layers, for pre-flight checks
// without extraction.
func (e *Engine) Validate(markup string) schemas.ValidationResult {
	return e.inner.Validate(markup)
}
