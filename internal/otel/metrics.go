package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "prompt-selector"

// Metrics holds all OTEL metric instruments for prompt-selector.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Backend calls, partitioned by operation and outcome (ok, error)
	Requests        metric.Int64Counter
	RequestDuration metric.Float64Histogram

	// Generation attempts, partitioned by outcome
	Generations metric.Int64Counter

	// Recorded preferences, partitioned by choice (A, B, TIE)
	Preferences metric.Int64Counter

	// Training data exports, partitioned by outcome
	Exports metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Requests, err = meter.Int64Counter("backend.requests",
		metric.WithDescription("Backend REST calls partitioned by operation and outcome"))
	if err != nil {
		return nil, err
	}

	m.RequestDuration, err = meter.Float64Histogram("backend.request.duration",
		metric.WithDescription("Wall-clock duration of backend REST calls"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.Generations, err = meter.Int64Counter("generations.total",
		metric.WithDescription("Response pair generations partitioned by outcome"))
	if err != nil {
		return nil, err
	}

	m.Preferences, err = meter.Int64Counter("preferences.recorded",
		metric.WithDescription("Preferences recorded partitioned by choice"))
	if err != nil {
		return nil, err
	}

	m.Exports, err = meter.Int64Counter("exports.total",
		metric.WithDescription("Training data exports partitioned by outcome"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRequest records one backend call.
func (m *Metrics) RecordRequest(ctx context.Context, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("backend.operation", operation),
		attribute.String("outcome", outcome(err)),
	)
	m.Requests.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordGeneration records a generation attempt.
func (m *Metrics) RecordGeneration(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.Generations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

// RecordPreference records a successfully stored choice.
func (m *Metrics) RecordPreference(ctx context.Context, choice string) {
	if m == nil {
		return
	}
	m.Preferences.Add(ctx, 1, metric.WithAttributes(attribute.String("preference", choice)))
}

// RecordExport records an export attempt.
func (m *Metrics) RecordExport(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.Exports.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}
