package perfmon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svggraph/api/schemas"
	"github.com/xkilldash9x/svggraph/internal/perfmon"
)

func TestMonitor_ShouldAbort(t *testing.T) {
	t.Run("no budget means no abort", func(t *testing.T) {
		mon := perfmon.Start(zap.NewNop())
		assert.Nil(t, mon.ShouldAbort(perfmon.Budget{}))
	})

	t.Run("timeout exceeded aborts", func(t *testing.T) {
		mon := perfmon.Start(zap.NewNop())
		time.Sleep(3 * time.Millisecond)
		reason := mon.ShouldAbort(perfmon.Budget{Timeout: time.Millisecond})
		require.NotNil(t, reason)
		assert.Equal(t, schemas.CodeParseTimeout, reason.Code)
	})

	t.Run("grace period suppresses early timeouts", func(t *testing.T) {
		mon := perfmon.Start(zap.NewNop())
		time.Sleep(2 * time.Millisecond)
		reason := mon.ShouldAbort(perfmon.Budget{
			Timeout: time.Millisecond,
			Grace:   time.Minute,
		})
		assert.Nil(t, reason)
	})

	t.Run("heap ceiling aborts", func(t *testing.T) {
		mon := perfmon.Start(zap.NewNop())
		// Any live process allocates more than one byte.
		reason := mon.ShouldAbort(perfmon.Budget{HeapLimit: 1})
		require.NotNil(t, reason)
		assert.Equal(t, schemas.CodeMemoryLimit, reason.Code)
	})
}

func TestMonitor_Snapshot(t *testing.T) {
	mon := perfmon.Start(zap.NewNop())
	time.Sleep(time.Millisecond)

	metrics := mon.Snapshot(3, 2, 7)
	assert.Equal(t, 3, metrics.NodeCount)
	assert.Equal(t, 2, metrics.EdgeCount)
	assert.Equal(t, 7, metrics.ElementCount)
	assert.GreaterOrEqual(t, metrics.ParseTimeMs, int64(1))
}

func TestMonitor_PerInvocationIsolation(t *testing.T) {
	// Two monitors must not share timers; starting one later yields a
	// smaller elapsed time.
	first := perfmon.Start(zap.NewNop())
	time.Sleep(2 * time.Millisecond)
	second := perfmon.Start(zap.NewNop())

	assert.Greater(t, first.Elapsed(), second.Elapsed())
}
