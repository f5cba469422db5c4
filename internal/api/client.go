// Package api is a thin client for the prompt comparison backend.
//
// Each call serializes a flat JSON payload, issues exactly one request and
// returns the decoded body unmodified. There are no retries, no caching and
// no authentication; failures are returned to the caller as-is.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/timvw/prompt-selector/internal/model"
	telem "github.com/timvw/prompt-selector/internal/otel"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:8000/api"

// Operation names, used for spans, metrics and error messages.
const (
	OpGenerate         = "generate"
	OpRecordPreference = "record_preference"
	OpStats            = "stats"
	OpExport           = "export_training_data"
	OpListPrompts      = "list_prompts"
)

var apiTracer = otel.Tracer("prompt-selector/api")

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8000/api".
	BaseURL string
	// HTTPClient overrides the default instrumented client.
	HTTPClient *http.Client
	// Metrics receives per-call counters. May be nil.
	Metrics *telem.Metrics
	// Logger receives debug output. Defaults to the global logger.
	Logger *log.Logger
}

// Client issues requests against the backend REST surface.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *telem.Metrics
	logger  *log.Logger
}

// New creates a client. The default transport is wrapped with otelhttp so
// every call shows up as an HTTP client span.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    hc,
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Generate asks the backend for two responses to the same prompt.
func (c *Client) Generate(ctx context.Context, req model.GenerateRequest) (*model.GenerateResponse, error) {
	return do[model.GenerateResponse](ctx, c, OpGenerate, http.MethodPost, "/prompts/generate/", req)
}

// RecordPreference stores the user's choice for prompt id.
func (c *Client) RecordPreference(ctx context.Context, id model.PromptID, pref model.Preference) (*model.PreferenceAck, error) {
	if !pref.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidPreference, pref)
	}
	if id == "" {
		return nil, fmt.Errorf("record preference: empty prompt id")
	}
	path := "/prompts/" + url.PathEscape(id.String()) + "/record-preference/"
	return do[model.PreferenceAck](ctx, c, OpRecordPreference, http.MethodPost, path, model.PreferenceRequest{Preference: pref})
}

// Stats fetches the aggregate preference counters.
func (c *Client) Stats(ctx context.Context) (*model.Stats, error) {
	return do[model.Stats](ctx, c, OpStats, http.MethodGet, "/prompts/stats/", nil)
}

// ExportTrainingData returns the export payload byte-for-byte.
func (c *Client) ExportTrainingData(ctx context.Context) (model.ExportPayload, error) {
	raw, err := do[json.RawMessage](ctx, c, OpExport, http.MethodGet, "/prompts/export-training-data/", nil)
	if err != nil {
		return nil, err
	}
	return *raw, nil
}

// ListPrompts returns all stored prompt sessions. Both a bare JSON array and
// a paginated {"results": [...]} envelope are accepted.
func (c *Client) ListPrompts(ctx context.Context) ([]model.Prompt, error) {
	raw, err := do[json.RawMessage](ctx, c, OpListPrompts, http.MethodGet, "/prompts/", nil)
	if err != nil {
		return nil, err
	}
	body := bytes.TrimSpace(*raw)
	if len(body) > 0 && body[0] == '{' {
		var page struct {
			Results []model.Prompt `json:"results"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%s: decoding response: %w", OpListPrompts, err)
		}
		return page.Results, nil
	}
	var prompts []model.Prompt
	if err := json.Unmarshal(body, &prompts); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", OpListPrompts, err)
	}
	return prompts, nil
}

// do performs one JSON round trip and decodes the body into T.
func do[T any](ctx context.Context, c *Client, op, method, path string, payload any) (result *T, err error) {
	start := time.Now()
	ctx, span := apiTracer.Start(ctx, "backend."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("backend.operation", op),
			attribute.String("http.request.method", method),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.metrics.RecordRequest(ctx, op, time.Since(start), err)
		c.logger.Debug("backend call", "op", op, "method", method, "path", path,
			"duration", time.Since(start), "err", err)
	}()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", op, err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Operation: op, StatusCode: resp.StatusCode, Body: data}
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return &out, nil
}
