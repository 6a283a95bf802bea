// Package agent turns model calls into domain answers: field extraction,
// document verification, eligibility decisions, scheme discovery and
// cover letters. Agents never return errors; a failed generation degrades
// to a fixed fallback value.
package agent

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"schemeagent/internal/metrics"
)

// Option configures an agent.
type Option func(*options)

type options struct {
	log     *zap.Logger
	metrics *metrics.LLM
}

// WithLogger sets the agent logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMetrics records agent outcomes on m.
func WithMetrics(m *metrics.LLM) Option {
	return func(o *options) { o.metrics = m }
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// mustJSON renders v for a prompt. Values here are plain data, so marshal
// errors only surface as a readable placeholder.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// stringField reads a string from a model answer; non-strings are formatted.
func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// stringList reads a list of strings, accepting a bare string as one item.
func stringList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case string:
		if t != "" {
			out = append(out, t)
		}
	case []any:
		for _, item := range t {
			if item == nil {
				continue
			}
			if s := fmt.Sprint(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
