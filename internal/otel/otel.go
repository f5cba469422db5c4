// Package otel provides OpenTelemetry initialization for prompt-selector.
//
// Backend calls are exported as client spans and the user's choices as
// metrics to an OTLP endpoint (config file or OTEL_EXPORTER_OTLP_ENDPOINT).
// Trace context is propagated to the backend with W3C headers, so its
// spans join the client's trace. Without an endpoint everything is a no-op.
package otel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "prompt-selector"

// exportInterval is short because one-shot commands exit within seconds;
// Shutdown flushes whatever is left.
const exportInterval = 5 * time.Second

// Version is set by the caller (from the linker-injected cmd.Version).
var Version = "dev"

// OTELConfig holds the configuration needed by the OTEL init.
type OTELConfig struct {
	Endpoint string // OTLP base URL, e.g. "http://localhost:4318"
	Headers  string // "k=v,k2=v2", as in OTEL_EXPORTER_OTLP_HEADERS
	RunID    string // groups all telemetry of one client run
}

// Telemetry holds the OTEL providers and metric instruments.
type Telemetry struct {
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider

	Tracer  trace.Tracer
	Metrics *Metrics
}

// target is a parsed OTLP endpoint shared by both exporters.
type target struct {
	host     string // host:port
	basePath string
	insecure bool
	headers  map[string]string
}

func parseTarget(endpoint, rawHeaders string) (target, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return target{}, fmt.Errorf("invalid endpoint URL %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return target{}, fmt.Errorf("endpoint %q has no host", endpoint)
	}
	return target{
		host:     u.Host,
		basePath: strings.TrimRight(u.Path, "/"),
		insecure: u.Scheme == "http",
		headers:  parseHeaders(rawHeaders),
	}, nil
}

// parseHeaders parses the OTEL_EXPORTER_OTLP_HEADERS "k=v,k2=v2" format.
func parseHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, val, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(val)
	}
	return headers
}

func newTracerProvider(ctx context.Context, t target, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	// WithEndpoint takes host:port only; the base path goes in front of
	// the signal suffix.
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(t.host),
		otlptracehttp.WithURLPath(t.basePath + "/v1/traces"),
	}
	if t.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(t.headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(t.headers))
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(exportInterval)),
		sdktrace.WithResource(res),
	), nil
}

func newMeterProvider(ctx context.Context, t target, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(t.host),
		otlpmetrichttp.WithURLPath(t.basePath + "/v1/metrics"),
	}
	if t.insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(t.headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(t.headers))
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(exportInterval))),
		sdkmetric.WithResource(res),
	), nil
}

// Init sets up OTLP HTTP exporters. With an empty cfg.Endpoint the returned
// Telemetry is usable but exports nothing.
func Init(ctx context.Context, cfg OTELConfig) (*Telemetry, error) {
	t := &Telemetry{}

	if cfg.Endpoint != "" {
		tgt, err := parseTarget(cfg.Endpoint, cfg.Headers)
		if err != nil {
			return nil, fmt.Errorf("otel: %w", err)
		}
		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceName(serviceName),
				semconv.ServiceVersion(Version),
				semconv.ServiceInstanceID(cfg.RunID),
			),
			resource.WithHost(),
		)
		if err != nil {
			return nil, fmt.Errorf("otel resource: %w", err)
		}
		if t.tp, err = newTracerProvider(ctx, tgt, res); err != nil {
			return nil, fmt.Errorf("otel: %w", err)
		}
		if t.mp, err = newMeterProvider(ctx, tgt, res); err != nil {
			_ = t.tp.Shutdown(ctx)
			return nil, fmt.Errorf("otel: %w", err)
		}
		otel.SetTracerProvider(t.tp)
		otel.SetMeterProvider(t.mp)
		otel.SetTextMapPropagator(propagation.TraceContext{})
	}

	// Tracer and instruments are no-ops without exporters
	t.Tracer = otel.Tracer(serviceName)

	metrics, err := NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("otel metrics: %w", err)
	}
	t.Metrics = metrics

	return t, nil
}

// Enabled reports whether telemetry is exported anywhere.
func (t *Telemetry) Enabled() bool {
	return t != nil && t.tp != nil
}

// Shutdown flushes pending spans and metrics.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
