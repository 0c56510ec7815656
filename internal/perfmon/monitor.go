// Package perfmon provides per-invocation wall-clock and heap sampling for
// the parsing pipeline. Every parse owns its own Monitor; nothing here is
// process-global, so concurrent parses never share state.
package perfmon

import (
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/svggraph/api/schemas"
)

// Budget bounds one parse invocation. Timeout aborts are only considered once
// Grace has elapsed, so trivially fast inputs never trip a stale deadline.
type Budget struct {
	Timeout   time.Duration
	Grace     time.Duration
	HeapLimit uint64
}

// AbortReason is empty when no abort is required.
type AbortReason struct {
	Code    string
	Message string
}

// Monitor samples wall clock and heap usage for a single parse. Cancellation
// through it is advisory: callers poll ShouldAbort between steps, long
// individual steps are never interrupted mid-flight.
type Monitor struct {
	start     time.Time
	startHeap uint64
	log       *zap.Logger
}

// Start begins monitoring and records the baseline heap allocation.
func Start(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return &Monitor{
		start:     time.Now(),
		startHeap: ms.HeapAlloc,
		log:       logger.Named("perfmon"),
	}
}

// Elapsed returns the wall-clock time since monitoring began.
func (m *Monitor) Elapsed() time.Duration {
	return time.Since(m.start)
}

// ShouldAbort evaluates the abort predicate against the budget. It reports a
// non-nil reason when the elapsed time exceeds the timeout (past the grace
// period) or the process heap exceeds the hard ceiling.
func (m *Monitor) ShouldAbort(budget Budget) *AbortReason {
	elapsed := m.Elapsed()
	if budget.Timeout > 0 && elapsed > budget.Grace && elapsed > budget.Timeout {
		m.log.Warn("Parse exceeded time budget",
			zap.Duration("elapsed", elapsed), zap.Duration("timeout", budget.Timeout))
		return &AbortReason{
			Code:    schemas.CodeParseTimeout,
			Message: fmt.Sprintf("parse exceeded %v time budget after %v", budget.Timeout, elapsed.Round(time.Millisecond)),
		}
	}

	if budget.HeapLimit > 0 {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		if ms.HeapAlloc > budget.HeapLimit {
			m.log.Warn("Parse exceeded heap ceiling",
				zap.Uint64("heap_bytes", ms.HeapAlloc), zap.Uint64("limit_bytes", budget.HeapLimit))
			return &AbortReason{
				Code:    schemas.CodeMemoryLimit,
				Message: fmt.Sprintf("process heap %d bytes exceeds %d byte ceiling", ms.HeapAlloc, budget.HeapLimit),
			}
		}
	}

	return nil
}

// Snapshot produces the final metrics for the response envelope. The memory
// delta can go negative when the collector runs mid-parse; it is reported
// as observed.
func (m *Monitor) Snapshot(nodeCount, edgeCount, elementCount int) schemas.PerformanceMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return schemas.PerformanceMetrics{
		ParseTimeMs:      m.Elapsed().Milliseconds(),
		MemoryDeltaBytes: int64(ms.HeapAlloc) - int64(m.startHeap),
		NodeCount:        nodeCount,
		EdgeCount:        edgeCount,
		ElementCount:     elementCount,
	}
}
