package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"schemeagent/internal/logger"
	"schemeagent/internal/metrics"
)

// FailureText is returned by GenerateText when every backend failed.
const FailureText = "Error: LLM Generation Failed."

var errUnparsableJSON = errors.New("llm: output is not a JSON object")

// errEmptyJSON marks a "{}" answer, which carries nothing callers can use.
var errEmptyJSON = fmt.Errorf("%w: empty JSON object", ErrEmptyResponse)

// Generator is the contract agents depend on.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) map[string]any
	GenerateText(ctx context.Context, prompt string) string
}

// Result is the outcome of one orchestrated generation.
type Result struct {
	// Text is the raw output of the winning backend, or FailureText.
	Text string
	// JSON is the recovered object in JSON mode. Never nil in JSON mode.
	JSON map[string]any
	// Backend names the winning backend. Empty when exhausted.
	Backend string
	// OK is false when every backend failed.
	OK bool
}

// Orchestrator tries each backend once, in order, and returns the first
// usable answer. It never returns an error to the caller.
type Orchestrator struct {
	providers []Provider
	log       *zap.Logger
	metrics   *metrics.LLM
	tracer    trace.Tracer
}

var _ Generator = (*Orchestrator)(nil)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for per-backend failures.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics records attempts and exhaustion on m.
func WithMetrics(m *metrics.LLM) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// NewOrchestrator creates an orchestrator over providers, kept in the given order.
func NewOrchestrator(providers []Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		providers: append([]Provider(nil), providers...),
		log:       zap.NewNop(),
		tracer:    otel.Tracer("schemeagent/internal/llm"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Backends returns the configured backend names in priority order.
func (o *Orchestrator) Backends() []string {
	return Names(o.providers)
}

// Generate runs prompt through the fallback chain. Cancellation of ctx does
// not abort an attempt; only the Ollama client carries a timeout.
func (o *Orchestrator) Generate(ctx context.Context, prompt string, expectJSON bool) Result {
	mode := metrics.ModeText
	if expectJSON {
		mode = metrics.ModeJSON
	}
	ctx, span := o.tracer.Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("llm.mode", mode),
		attribute.Int("llm.candidates", len(o.providers)),
	))
	defer span.End()

	log := logger.WithContext(ctx, o.log)
	callCtx := context.WithoutCancel(ctx)
	req := Request{Prompt: prompt, JSON: expectJSON}

	for _, p := range o.providers {
		res, err := o.attempt(callCtx, p, req)
		if err != nil {
			log.Warn("llm backend failed", zap.String("backend", p.Name()), zap.String("mode", mode), zap.Error(err))
			continue
		}
		span.SetAttributes(attribute.String("llm.backend", res.Backend))
		return res
	}

	o.metrics.IncExhausted(mode)
	span.SetStatus(codes.Error, "all backends failed")
	log.Error("llm backends exhausted", zap.String("mode", mode), zap.Int("candidates", len(o.providers)))

	if expectJSON {
		return Result{JSON: map[string]any{}}
	}
	return Result{Text: FailureText}
}

func (o *Orchestrator) attempt(ctx context.Context, p Provider, req Request) (Result, error) {
	ctx, span := o.tracer.Start(ctx, "llm.attempt", trace.WithAttributes(attribute.String("llm.backend", p.Name())))
	defer span.End()

	start := time.Now()
	text, err := p.Generate(ctx, req)
	outcome := metrics.OutcomeSuccess
	defer func() { o.metrics.ObserveAttempt(p.Name(), outcome, time.Since(start)) }()

	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		outcome = metrics.OutcomeError
		if errors.Is(err, ErrEmptyResponse) {
			outcome = metrics.OutcomeEmpty
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return Result{}, err
	}

	res := Result{Text: text, Backend: p.Name(), OK: true}
	if req.JSON {
		obj, ok := RecoverJSON(text)
		if !ok {
			outcome = metrics.OutcomeBadJSON
			span.SetStatus(codes.Error, outcome)
			return Result{}, errUnparsableJSON
		}
		if len(obj) == 0 {
			outcome = metrics.OutcomeEmpty
			span.SetStatus(codes.Error, outcome)
			return Result{}, errEmptyJSON
		}
		res.JSON = obj
	}
	return res, nil
}

// GenerateJSON returns the first recoverable, non-empty JSON object, or an
// empty map when every backend failed.
func (o *Orchestrator) GenerateJSON(ctx context.Context, prompt string) map[string]any {
	return o.Generate(ctx, prompt, true).JSON
}

// GenerateText returns the first non-empty text answer, or FailureText.
func (o *Orchestrator) GenerateText(ctx context.Context, prompt string) string {
	return o.Generate(ctx, prompt, false).Text
}
