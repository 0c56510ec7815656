// Package orchestrator sequences the parsing pipeline: acquire, validate,
// extract, transform, measure. It is the single point that decides
// terminality and the last line of defense against unexpected faults; no
// code path lets a panic escape to the caller.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svggraph/api/schemas"
	"github.com/xkilldash9x/svggraph/internal/acquire"
	"github.com/xkilldash9x/svggraph/internal/config"
	"github.com/xkilldash9x/svggraph/internal/extract"
	"github.com/xkilldash9x/svggraph/internal/perfmon"
	"github.com/xkilldash9x/svggraph/internal/svgdom"
	"github.com/xkilldash9x/svggraph/internal/transform"
	"github.com/xkilldash9x/svggraph/internal/validate"
)

// Engine wires the pipeline components together. It is safe for concurrent
// use: every Parse invocation carries its own monitor and diagnostics list
// and no state crosses requests.
type Engine struct {
	cfg         *config.Config
	log         *zap.Logger
	acquirer    *acquire.Acquirer
	validator   *validate.Validator
	extractor   *extract.Extractor
	transformer *transform.Transformer
}

// New builds an Engine. Nil arguments fall back to defaults so library
// consumers can construct one with no ceremony.
func New(cfg *config.Config, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:         cfg,
		log:         logger.Named("engine"),
		acquirer:    acquire.New(acquire.NewHTTPClient(cfg.Network), logger),
		validator:   validate.New(cfg.Parser, logger),
		extractor:   extract.New(cfg.Parser, logger),
		transformer: transform.New(cfg.Parser, logger),
	}
}

// Parse runs one request through the whole pipeline and always returns a
// well-formed envelope. Diagnostics from every stage accumulate into one
// list; the parse fails only when an error-severity entry exists.
func (e *Engine) Parse(ctx context.Context, req schemas.ParseRequest) (resp schemas.ParseResponse) {
	log := e.log.With(zap.String("parse_id", uuid.NewString()))
	mon := perfmon.Start(log)
	errs := make([]schemas.ParseError, 0, 4)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Unexpected fault in parse pipeline", zap.Any("panic", r))
			errs = append(errs, schemas.ParseError{
				Code:     schemas.CodeParseError,
				Message:  fmt.Sprintf("internal parsing failure: %v", r),
				Severity: schemas.SeverityError,
			})
			resp = failure(errs, mon.Snapshot(0, 0, 0))
		}
	}()

	opts := schemas.DefaultOptions().Merge(req.Options)
	budget := perfmon.Budget{
		Timeout:   time.Duration(opts.TimeoutMs) * time.Millisecond,
		Grace:     e.cfg.Parser.AbortGracePeriod,
		HeapLimit: e.cfg.Parser.HeapLimitBytes,
	}

	markup, aerr := e.acquirer.Acquire(ctx, req.Input, req.InputMode)
	if aerr != nil {
		errs = append(errs, *aerr)
		return failure(errs, mon.Snapshot(0, 0, 0))
	}

	if opts.ValidateStructure {
		valid, verrs := e.validator.Validate(markup)
		errs = append(errs, verrs...)
		if !valid {
			log.Info("Validation rejected markup", zap.Int("findings", len(verrs)))
			return failure(errs, mon.Snapshot(0, 0, 0))
		}
	}

	if reason := mon.ShouldAbort(budget); reason != nil {
		errs = append(errs, schemas.ParseError{
			Code: reason.Code, Message: reason.Message, Severity: schemas.SeverityError,
		})
		return failure(errs, mon.Snapshot(0, 0, 0))
	}

	dom, err := svgdom.Parse(markup)
	if err != nil {
		errs = append(errs, schemas.ParseError{
			Code:     schemas.CodeMalformedMarkup,
			Message:  fmt.Sprintf("markup could not be parsed: %v", err),
			Severity: schemas.SeverityError,
		})
		return failure(errs, mon.Snapshot(0, 0, 0))
	}
	if dom.Find("svg").Length() == 0 {
		errs = append(errs, schemas.ParseError{
			Code:     schemas.CodeMissingSVGRoot,
			Message:  "document has no <svg> root element",
			Severity: schemas.SeverityError,
		})
		return failure(errs, mon.Snapshot(0, 0, 0))
	}

	res, exErrs := e.extractor.Extract(dom, opts, mon, budget)
	errs = append(errs, exErrs...)
	if schemas.HasBlocking(errs) {
		return failure(errs, mon.Snapshot(0, 0, res.ElementCount))
	}

	if opts.MaxNodes > 0 && len(res.Nodes) > opts.MaxNodes {
		// Node-count excess is advisory; the graph is still produced in full.
		errs = append(errs, schemas.ParseError{
			Code: schemas.CodeMaxNodesExceeded,
			Message: fmt.Sprintf("extracted %d node elements, above the %d node limit",
				len(res.Nodes), opts.MaxNodes),
			Severity: schemas.SeverityWarning,
		})
	}

	doc, twarnings := e.transformer.Transform(res)
	errs = append(errs, twarnings...)

	metrics := mon.Snapshot(len(doc.Nodes), len(doc.Edges), res.ElementCount)
	log.Info("Parse succeeded",
		zap.Int("nodes", metrics.NodeCount),
		zap.Int("edges", metrics.EdgeCount),
		zap.Int("warnings", countSeverity(errs, schemas.SeverityWarning)),
		zap.Int64("parse_time_ms", metrics.ParseTimeMs))

	return schemas.ParseResponse{
		Success: true,
		Data:    doc,
		Errors:  errs,
		Metrics: metrics,
	}
}

// Validate exposes the structural validator alone, for pre-flight checks
// without extraction. Info-severity findings are folded into warnings.
func (e *Engine) Validate(markup string) schemas.ValidationResult {
	valid, errs := e.validator.Validate(markup)

	result := schemas.ValidationResult{
		Valid:    valid,
		Errors:   []string{},
		Warnings: []string{},
	}
	for _, err := range errs {
		msg := fmt.Sprintf("%s: %s", err.Code, err.Message)
		if err.IsBlocking() {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
	}
	return result
}

func failure(errs []schemas.ParseError, metrics schemas.PerformanceMetrics) schemas.ParseResponse {
	return schemas.ParseResponse{
		Success: false,
		Errors:  errs,
		Metrics: metrics,
	}
}

func countSeverity(errs []schemas.ParseError, sev schemas.Severity) int {
	n := 0
	for _, e := range errs {
		if e.Severity == sev {
			n++
		}
	}
	return n
}
