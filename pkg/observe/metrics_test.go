package observe

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumFor(t *testing.T, m *metricdata.Metrics, key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected Sum[int64], got %T", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestRecordDocumentSplitsLoadedAndFailed(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordDocument(ctx, "talk", true)
	m.RecordDocument(ctx, "talk", true)
	m.RecordDocument(ctx, "talk", false)
	m.RecordDocument(ctx, "voice", true)

	rm := collect(t, reader)
	loaded := findMetric(rm, "voiceset.documents.loaded")
	failed := findMetric(rm, "voiceset.documents.failed")
	if loaded == nil || failed == nil {
		t.Fatalf("document metrics missing")
	}
	if got := sumFor(t, loaded, "table", "talk"); got != 2 {
		t.Errorf("loaded talk = %d; want 2", got)
	}
	if got := sumFor(t, loaded, "table", "voice"); got != 1 {
		t.Errorf("loaded voice = %d; want 1", got)
	}
	if got := sumFor(t, failed, "table", "talk"); got != 1 {
		t.Errorf("failed talk = %d; want 1", got)
	}
}

func TestRecordBindingAndPhase(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordBinding(ctx, "Dialog")
	m.ObservePhase(ctx, "resolve", time.Now().Add(-time.Second))

	rm := collect(t, reader)
	b := findMetric(rm, "voiceset.bindings.resolved")
	if b == nil || sumFor(t, b, "trigger", "Dialog") != 1 {
		t.Fatalf("expected one Dialog binding recorded")
	}
	h := findMetric(rm, "voiceset.phase.duration")
	if h == nil {
		t.Fatalf("phase histogram missing")
	}
	hist, ok := h.Data.(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Fatalf("unexpected histogram data %+v", h.Data)
	}
}

func TestDefaultMetricsIsSingleton(t *testing.T) {
	if DefaultMetrics() != DefaultMetrics() {
		t.Fatal("DefaultMetrics returned different instances")
	}
}

func TestProviderTotals(t *testing.T) {
	p := InitProvider()
	defer p.Shutdown(context.Background())

	m, err := NewMetrics(p)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	ctx := context.Background()
	m.RecordDocument(ctx, "voice", true)
	m.RecordDocument(ctx, "talk", true)
	m.RecordDocument(ctx, "talk", false)
	m.FilesCopied.Add(ctx, 5)

	totals, err := p.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if got := totals["voiceset.documents.loaded"]; got != 2 {
		t.Errorf("documents.loaded = %d, want 2", got)
	}
	if got := totals["voiceset.documents.failed"]; got != 1 {
		t.Errorf("documents.failed = %d, want 1", got)
	}
	if got := totals["voiceset.files.copied"]; got != 5 {
		t.Errorf("files.copied = %d, want 5", got)
	}
	names := SortedNames(totals)
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
