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

const extractionPrompt = `You are a government document digitization agent.
Extract the following fields from the provided %s text.

Return a JSON object with exactly these keys (value can be null if not found):
- full_name (string)
- dob (string, format YYYY-MM-DD)
- id_number (string, e.g., Aadhaar/PAN/ID)
- parent_name (string)
- address_state (string)
- address_district (string)
- institution_name (string, for student IDs)
- income (number, for income certs)

Document Text:
%s
`

// Extractor pulls a fixed set of fields out of document text.
type Extractor struct {
	gen llm.Generator
	options
}

// NewExtractor creates an Extractor backed by gen.
func NewExtractor(gen llm.Generator, opts ...Option) *Extractor {
	return &Extractor{gen: gen, options: newOptions(opts)}
}

// Extract returns the extracted fields, or the extraction-failed sentinel
// when no backend produced a usable answer.
func (e *Extractor) Extract(ctx context.Context, text, docType string) model.Extraction {
	out := e.gen.GenerateJSON(ctx, fmt.Sprintf(extractionPrompt, docType, text))
	if len(out) == 0 {
		e.metrics.IncOutcome(metrics.AgentExtraction, "failed")
		logger.WithContext(ctx, e.log).Warn("extraction unavailable", zap.String("doc_type", docType))
		return model.FailedExtraction(model.ReasonExtractionUnavailable)
	}
	e.metrics.IncOutcome(metrics.AgentExtraction, "extracted")
	return model.Extraction(out)
}
