package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"schemeagent/internal/llm"
	"schemeagent/internal/logger"
	"schemeagent/internal/metrics"
	"schemeagent/internal/model"
)

// Verification reasons.
const (
	ReasonVerificationUnavailable = "Verification Service Unavailable"
	reasonMismatch                = "Mismatch"
)

const verificationPrompt = `You are a strict Compliance Officer. Verify if the Document Data matches the User Profile.

User Profile:
%s

Extracted Document Data (%s):
%s

Rules:
1. Names must match closely (ignore minor spelling/case differences).
2. If ID numbers (Aadhaar) are present in both, they MUST match exactly.
3. DOB must match exactly if present in both.
4. Allow minor address variations.

Return a JSON object:
{
    "is_valid": boolean,
    "reason": "string explaining why valid or invalid"
}
`

// Verifier asks a model whether an extraction belongs to the profile owner.
type Verifier struct {
	gen llm.Generator
	options
}

// NewVerifier creates a Verifier backed by gen.
func NewVerifier(gen llm.Generator, opts ...Option) *Verifier {
	return &Verifier{gen: gen, options: newOptions(opts)}
}

// Verify returns valid or invalid with the model's reason. A failed
// extraction is skipped without a model call; an unusable answer yields
// pending, which callers treat as "re-check later".
func (v *Verifier) Verify(ctx context.Context, p *model.Profile, ext model.Extraction, docType string) (model.DocumentStatus, string) {
	log := logger.WithContext(ctx, v.log).With(zap.String("doc_type", docType))
	if ext.Failed() {
		v.metrics.IncOutcome(metrics.AgentVerify, "skipped")
		return model.StatusPending, model.ReasonVerificationSkipped
	}
	if p == nil {
		p = &model.Profile{}
	}

	summary := map[string]string{
		"full_name": p.FullName,
		"dob":       p.DOB,
		"aadhaar":   p.AadhaarNumber,
		"state":     p.State,
	}
	prompt := fmt.Sprintf(verificationPrompt, mustJSON(summary), docType, mustJSON(ext))

	out := v.gen.GenerateJSON(ctx, prompt)
	valid, ok := out["is_valid"].(bool)
	if !ok {
		v.metrics.IncOutcome(metrics.AgentVerify, string(model.StatusPending))
		log.Warn("verification unavailable", zap.Int("answer_keys", len(out)))
		return model.StatusPending, ReasonVerificationUnavailable
	}

	status, reason := model.StatusInvalid, reasonMismatch
	if valid {
		status, reason = model.StatusValid, model.ReasonVerified
	}
	if r, ok := stringField(out, "reason"); ok && r != "" {
		reason = r
	}
	v.metrics.IncOutcome(metrics.AgentVerify, string(status))
	return status, reason
}
