// Package observe holds the OpenTelemetry instruments recorded during a run.
//
// Tests should build a [Metrics] with [NewMetrics] over an sdk MeterProvider
// and a ManualReader; production code uses [DefaultMetrics], which binds to
// the global provider (a no-op unless the entry point installs one).
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/japaniel/voiceset"

// Metrics holds all instruments. All fields are safe for concurrent use.
type Metrics struct {
	// DocumentsLoaded counts parsed game-data documents. Attribute: table.
	DocumentsLoaded metric.Int64Counter
	// DocumentsFailed counts skipped documents. Attribute: table.
	DocumentsFailed metric.Int64Counter

	AssetsDiscovered metric.Int64Counter
	AssetsMatched    metric.Int64Counter
	// BindingsResolved counts processed trigger bindings. Attribute: trigger.
	BindingsResolved metric.Int64Counter
	FilesCopied      metric.Int64Counter

	// PhaseDuration records wall time per pipeline phase. Attribute: phase.
	PhaseDuration metric.Float64Histogram
}

var phaseBuckets = []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.DocumentsLoaded, err = m.Int64Counter("voiceset.documents.loaded",
		metric.WithDescription("Game-data documents parsed, by table."),
	); err != nil {
		return nil, err
	}
	if met.DocumentsFailed, err = m.Int64Counter("voiceset.documents.failed",
		metric.WithDescription("Game-data documents skipped as malformed, by table."),
	); err != nil {
		return nil, err
	}
	if met.AssetsDiscovered, err = m.Int64Counter("voiceset.assets.discovered",
		metric.WithDescription("Audio files found on disk."),
	); err != nil {
		return nil, err
	}
	if met.AssetsMatched, err = m.Int64Counter("voiceset.assets.matched",
		metric.WithDescription("Audio files linked to a voice-source record."),
	); err != nil {
		return nil, err
	}
	if met.BindingsResolved, err = m.Int64Counter("voiceset.bindings.resolved",
		metric.WithDescription("Trigger bindings processed by the resolver, by trigger kind."),
	); err != nil {
		return nil, err
	}
	if met.FilesCopied, err = m.Int64Counter("voiceset.files.copied",
		metric.WithDescription("Audio files copied into the dataset tree."),
	); err != nil {
		return nil, err
	}
	if met.PhaseDuration, err = m.Float64Histogram("voiceset.phase.duration",
		metric.WithDescription("Wall time of each pipeline phase."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(phaseBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instance bound to
// [otel.GetMeterProvider]. Panics if instrument creation fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordDocument counts one loaded or failed document of table.
func (m *Metrics) RecordDocument(ctx context.Context, table string, ok bool) {
	attrs := metric.WithAttributes(attribute.String("table", table))
	if ok {
		m.DocumentsLoaded.Add(ctx, 1, attrs)
		return
	}
	m.DocumentsFailed.Add(ctx, 1, attrs)
}

// RecordBinding counts one processed trigger binding.
func (m *Metrics) RecordBinding(ctx context.Context, trigger string) {
	m.BindingsResolved.Add(ctx, 1, metric.WithAttributes(attribute.String("trigger", trigger)))
}

// ObservePhase records the time elapsed since start for phase.
func (m *Metrics) ObservePhase(ctx context.Context, phase string, start time.Time) {
	m.PhaseDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("phase", phase)))
}
