package object

import (
	"context"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/goliatone/go-object")

var (
	commitTotal    metric.Int64Counter
	abortTotal     metric.Int64Counter
	undoTotal      metric.Int64Counter
	redoTotal      metric.Int64Counter
	commitObjects  metric.Int64Histogram
	liveIdentities metric.Int64UpDownCounter

	metricsOnce sync.Once
	metricsErr  error
)

// metricsEnabled is the process-wide switch; arenas, transactions and
// histories can opt out individually with WithMetrics.
var metricsEnabled atomic.Bool

func init() {
	metricsEnabled.Store(true)
}

// SetMetricsEnabled controls whether metrics are recorded.
func SetMetricsEnabled(enabled bool) {
	metricsEnabled.Store(enabled)
}

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		commitTotal, err = meter.Int64Counter(
			"object_commit_total",
			metric.WithDescription("Total number of transaction commits"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		abortTotal, err = meter.Int64Counter(
			"object_abort_total",
			metric.WithDescription("Total number of aborted transactions"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		undoTotal, err = meter.Int64Counter(
			"object_undo_total",
			metric.WithDescription("Total number of undo steps"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		redoTotal, err = meter.Int64Counter(
			"object_redo_total",
			metric.WithDescription("Total number of redo steps"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		commitObjects, err = meter.Int64Histogram(
			"object_commit_objects",
			metric.WithDescription("Number of objects published per commit"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		liveIdentities, err = meter.Int64UpDownCounter(
			"object_live_identities",
			metric.WithDescription("Number of live object identities"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func metricsOn(local bool) bool {
	if !local || !metricsEnabled.Load() {
		return false
	}
	return initMetrics() == nil
}

func statusAttr(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "error")
	}
	return attribute.String("status", "success")
}

func recordCommit(ctx context.Context, enabled bool, objects int, err error) {
	if !metricsOn(enabled) {
		return
	}
	attrs := metric.WithAttributes(statusAttr(err))
	commitTotal.Add(ctx, 1, attrs)
	if err == nil {
		commitObjects.Record(ctx, int64(objects))
	}
}

func recordAbort(ctx context.Context, enabled bool) {
	if !metricsOn(enabled) {
		return
	}
	abortTotal.Add(ctx, 1)
}

func recordHistory(ctx context.Context, enabled bool, action Action, err error) {
	if !metricsOn(enabled) {
		return
	}
	attrs := metric.WithAttributes(statusAttr(err))
	if action == ActionRedo {
		redoTotal.Add(ctx, 1, attrs)
		return
	}
	undoTotal.Add(ctx, 1, attrs)
}

func recordLive(ctx context.Context, enabled bool, delta int64) {
	if !metricsOn(enabled) {
		return
	}
	liveIdentities.Add(ctx, delta)
}
