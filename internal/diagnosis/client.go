// Package diagnosis turns a prompt into preliminary assessment text using a
// remote generative model. Callers always get text back: failures degrade to
// fixed fallback messages.
package diagnosis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/geocoder89/arogyamitra/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	FallbackNoCandidates = "Unable to generate diagnosis. Please consult a healthcare professional."
	FallbackTechnical    = "Unable to generate diagnosis due to technical issues. Please consult a healthcare professional."
)

const DefaultTimeout = 30 * time.Second

type Client struct {
	gen     Generator
	timeout time.Duration
	log     *slog.Logger
	prom    *observability.Prom
}

type Option func(*Client)

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithProm(p *observability.Prom) Option {
	return func(c *Client) { c.prom = p }
}

func NewClient(gen Generator, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{gen: gen, timeout: timeout, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Diagnose never fails: zero candidates yield FallbackNoCandidates, every
// other error (transport, timeout, status, shape, open circuit) yields
// FallbackTechnical. There is no retry.
func (c *Client) Diagnose(ctx context.Context, prompt string) string {
	ctx, span := otel.Tracer("arogyamitra/diagnosis").Start(ctx, "diagnosis.generate")
	defer span.End()

	// a client hang-up does not cut the model call short; the timeout does
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.gen.Generate(callCtx, prompt)
	elapsed := time.Since(start)

	result := resultLabel(err)
	span.SetAttributes(attribute.String("diagnosis.result", result))
	c.prom.ObserveDiagnosis(result, elapsed)

	switch {
	case err == nil:
		return text
	case errors.Is(err, ErrNoCandidates):
		c.log.WarnContext(ctx, "diagnosis returned no candidates", "latency_ms", elapsed.Milliseconds())
		return FallbackNoCandidates
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "diagnosis failed")
		c.log.ErrorContext(ctx, "diagnosis request failed", "err", err, "result", result, "latency_ms", elapsed.Milliseconds())
		return FallbackTechnical
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoCandidates):
		return "empty"
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
