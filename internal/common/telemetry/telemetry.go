// File path: internal/common/telemetry/telemetry.go
package telemetry

import (
	"context"
	"expvar"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common"
)

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

type MemoryLimitError struct {
	Component string
	Usage     uint64
	Limit     uint64
}

func (e MemoryLimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded for %s: %d > %d", e.Component, e.Usage, e.Limit)
}

var (
	initOnce sync.Once

	conversionsTotal    *expvar.Int
	conversionFailures  *expvar.Int
	fallbacksTotal      *expvar.Int
	fallbackReasons     *expvar.Map
	conversionLatencyMS *expvar.Int

	batchRuns *expvar.Map

	memoryLimitBytes uint64
	memoryLimitVar   *expvar.Int
	memoryUsageVar   *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		conversionsTotal = expvar.NewInt("r2ng_conversions_total")
		conversionFailures = expvar.NewInt("r2ng_conversion_failures_total")
		fallbacksTotal = expvar.NewInt("r2ng_fallbacks_total")
		fallbackReasons = expvar.NewMap("r2ng_fallback_reasons")
		conversionLatencyMS = expvar.NewInt("r2ng_conversion_latency_ms")

		batchRuns = expvar.NewMap("r2ng_batch_runs")

		memoryLimitVar = expvar.NewInt("r2ng_memory_limit_bytes")
		memoryUsageVar = expvar.NewInt("r2ng_memory_usage_bytes")

		memoryLimitBytes = loadMemoryLimit()
		memoryLimitVar.Set(int64(memoryLimitBytes))
	})
}

func loadMemoryLimit() uint64 {
	limit := strings.TrimSpace(os.Getenv("R2NG_MEMORY_LIMIT_BYTES"))
	if limit != "" {
		if value, err := strconv.ParseUint(limit, 10, 64); err == nil {
			return value
		}
	}
	if limitMB := strings.TrimSpace(os.Getenv("R2NG_MEMORY_LIMIT_MB")); limitMB != "" {
		if value, err := strconv.ParseUint(limitMB, 10, 64); err == nil {
			return value * 1024 * 1024
		}
	}
	return 0
}

func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...interface{})) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...interface{}) {
		if sp == nil {
			return
		}
		duration := time.Since(sp.start)
		logger.Debug("trace: end", append([]interface{}{"span", name, "dur", duration}, attrs...)...)
	}
}

// RecordConversion tracks a single component conversion outcome.
func RecordConversion(failed bool, fallbacks int, duration time.Duration) {
	ensureInit()
	conversionsTotal.Add(1)
	if failed {
		conversionFailures.Add(1)
	}
	if fallbacks > 0 {
		fallbacksTotal.Add(int64(fallbacks))
	}
	if duration > 0 {
		conversionLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordFallbackReason bumps the per-reason counter for a fallback block.
func RecordFallbackReason(reason string) {
	ensureInit()
	key := strings.TrimSpace(strings.ToLower(reason))
	if key == "" {
		key = "unknown"
	}
	fallbackReasons.Add(key, 1)
}

// RecordBatch tracks a workspace batch run by terminal status.
func RecordBatch(status string) {
	ensureInit()
	key := strings.TrimSpace(strings.ToLower(status))
	if key == "" {
		key = "unknown"
	}
	batchRuns.Add(key, 1)
}

func CheckMemoryBudget(component string) error {
	ensureInit()
	if memoryLimitBytes == 0 {
		updateMemoryUsage()
		return nil
	}
	usage := updateMemoryUsage()
	if usage > memoryLimitBytes {
		err := MemoryLimitError{Component: component, Usage: usage, Limit: memoryLimitBytes}
		common.Logger().Warn("telemetry: memory guard tripped", "component", component, "usage", usage, "limit", memoryLimitBytes)
		return err
	}
	return nil
}

func updateMemoryUsage() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	usage := stats.Alloc
	memoryUsageVar.Set(int64(usage))
	return usage
}

func SpanDuration(ctx context.Context) time.Duration {
	sp, _ := ctx.Value(spanKey{}).(*span)
	if sp == nil {
		return 0
	}
	return time.Since(sp.start)
}
