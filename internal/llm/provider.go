// Package llm talks to hosted and local language-model backends and chains
// them into a single fallback generator.
package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// strictJSONSystemPrompt is sent as the system message to chat backends in JSON mode.
const strictJSONSystemPrompt = "You are a helpful assistant that outputs strict JSON."

// ErrEmptyResponse is returned when a backend answers without any content.
var ErrEmptyResponse = errors.New("llm: empty response")

// Request is a single generation request.
type Request struct {
	Prompt string
	// JSON asks the backend for a JSON object when it supports a JSON output mode.
	JSON bool
}

// Provider is one backend candidate: a single model on a single endpoint.
type Provider interface {
	// Name identifies the candidate in logs and metrics, e.g. "openrouter:deepseek/deepseek-chat".
	Name() string
	// Generate returns the raw model output for req.
	Generate(ctx context.Context, req Request) (string, error)
}

// NewHTTPClient returns an HTTP client with a traced transport. A zero
// timeout leaves the request unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}
}
