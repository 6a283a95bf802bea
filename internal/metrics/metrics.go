// Package metrics provides Prometheus instrumentation for the LLM fallback
// chain and the agents built on it. All methods are safe on a nil receiver.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Attempt outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeEmpty     = "empty"
	OutcomeBadJSON   = "bad_json"
	ModeJSON         = "json"
	ModeText         = "text"
	AgentExtraction  = "extraction"
	AgentVerify      = "verification"
	AgentEligibility = "eligibility"
	AgentDiscovery   = "discovery"
)

// LLM holds the metrics of the fallback orchestrator and the agents.
type LLM struct {
	attempts  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	exhausted *prometheus.CounterVec
	outcomes  *prometheus.CounterVec
}

// NewLLM creates and registers the LLM metrics on reg.
func NewLLM(reg prometheus.Registerer) (*LLM, error) {
	m := &LLM{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_backend_attempts_total",
			Help: "LLM backend attempts by backend and outcome.",
		}, []string{"backend", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "llm_backend_duration_seconds",
			Help:    "Duration of single LLM backend attempts.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"backend"}),
		exhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_exhausted_total",
			Help: "Generations where every configured backend failed.",
		}, []string{"mode"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agent_verdicts_total",
			Help: "Agent results by agent and outcome.",
		}, []string{"agent", "outcome"}),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.duration, m.exhausted, m.outcomes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveAttempt records one backend attempt.
func (m *LLM) ObserveAttempt(backend, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(backend, outcome).Inc()
	m.duration.WithLabelValues(backend).Observe(d.Seconds())
}

// IncExhausted records a generation that ran out of backends.
func (m *LLM) IncExhausted(mode string) {
	if m != nil {
		m.exhausted.WithLabelValues(mode).Inc()
	}
}

// IncOutcome records an agent result.
func (m *LLM) IncOutcome(agent, outcome string) {
	if m != nil {
		m.outcomes.WithLabelValues(agent, outcome).Inc()
	}
}
