package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"schemeagent/internal/llm"
	"schemeagent/internal/logger"
	"schemeagent/internal/metrics"
	"schemeagent/internal/model"
)

// Eligibility reasons.
const (
	ReasonEligibilityUnavailable = "Eligibility Service Unavailable"
	reasonUnknown                = "Unknown"
)

const eligibilityPrompt = `You are a Government Scheme Eligibility Engine.
Determine if the user is eligible for the scheme based on the provided Profile and Documents.

Scheme Details:
Name: %s
Target Group: %s
Rules (JSON): %s
Required Documents: %s

User Profile:
%s

User Documents:
%s

Task:
1. Check if Profile meets ALL Scheme Rules (Income, Category, State, Occupation).
2. Check if REQUIRED documents are present AND have status 'valid'.

Return JSON:
{
    "eligible": boolean,
    "reason": "Clear explanation of why eligible or not",
    "missing_documents": ["List", "of", "missing/invalid", "doc", "names"]
}
`

type documentSummary struct {
	Name      string               `json:"name"`
	Status    model.DocumentStatus `json:"status"`
	Extracted model.Extraction     `json:"extracted"`
}

// EligibilityAgent asks a model to decide eligibility for one scheme.
type EligibilityAgent struct {
	gen llm.Generator
	options
}

// NewEligibilityAgent creates an EligibilityAgent backed by gen.
func NewEligibilityAgent(gen llm.Generator, opts ...Option) *EligibilityAgent {
	return &EligibilityAgent{gen: gen, options: newOptions(opts)}
}

// Evaluate returns the model's verdict, or an ineligible "service
// unavailable" verdict when no backend answered.
func (a *EligibilityAgent) Evaluate(ctx context.Context, p *model.Profile, docs []model.Document, s model.Scheme) model.Verdict {
	if p == nil {
		p = &model.Profile{}
	}

	summaries := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, documentSummary{Name: d.Name, Status: d.Status, Extracted: d.ExtractedData})
	}
	required := s.RequiredDocuments
	if required == nil {
		required = []string{}
	}

	prompt := fmt.Sprintf(eligibilityPrompt,
		s.Name,
		s.TargetGroup,
		mustJSON(s.Rules),
		mustJSON(required),
		mustJSON(profileForPrompt(p)),
		mustJSON(summaries),
	)

	out := a.gen.GenerateJSON(ctx, prompt)
	if len(out) == 0 {
		a.metrics.IncOutcome(metrics.AgentEligibility, "unavailable")
		logger.WithContext(ctx, a.log).Warn("eligibility unavailable", zap.String("scheme", s.Name))
		return model.NewVerdict(false, ReasonEligibilityUnavailable, nil)
	}

	eligible, _ := out["eligible"].(bool)
	reason, ok := stringField(out, "reason")
	if !ok {
		reason = reasonUnknown
	}
	verdict := model.NewVerdict(eligible, reason, stringList(out["missing_documents"]))

	outcome := "ineligible"
	if verdict.Eligible {
		outcome = "eligible"
	}
	a.metrics.IncOutcome(metrics.AgentEligibility, outcome)
	return verdict
}

// profileForPrompt renders the profile without the user ID, bank details
// and bookkeeping timestamps.
func profileForPrompt(p *model.Profile) map[string]any {
	out := map[string]any{}
	b, err := json.Marshal(p)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out
	}
	for _, k := range []string{"user_id", "updated_at", "bank_account_number", "ifsc_code"} {
		delete(out, k)
	}
	return out
}
