package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"schemeagent/internal/llm"
	"schemeagent/internal/logger"
	"schemeagent/internal/metrics"
	"schemeagent/internal/model"
)

// MaxDiscoveryText is the number of characters of page text sent to the model.
const MaxDiscoveryText = 10000

const discoveryPrompt = `You are a Government Scheme Researcher.
Analyze the text from this website: %s

Extract any GOVERNMENT SCHEMES mentioned.
Return a JSON object with this EXACT schema:
{
    "schemes": [
        {
            "name": "Scheme Name",
            "description": "Short description",
            "target_group": "student/farmer/worker/etc",
            "benefits": "Key benefits",
            "portal_url": "%s",
            "rules": {"user_type": "string", "max_income": number, "state": "string", "category": ["string"]},
            "required_documents": ["Doc 1", "Doc 2"]
        }
    ]
}

Leave out any rule that the text does not state.
If no specific scheme is found, return {"schemes": []}.

Web Content:
%s
`

// Discoverer extracts scheme records from already-fetched page text.
type Discoverer struct {
	gen llm.Generator
	options
}

// NewDiscoverer creates a Discoverer backed by gen.
func NewDiscoverer(gen llm.Generator, opts ...Option) *Discoverer {
	return &Discoverer{gen: gen, options: newOptions(opts)}
}

// Discover returns the schemes mentioned in text, deduplicated by name.
// Entries without a name are dropped.
func (d *Discoverer) Discover(ctx context.Context, sourceURL, text string) []model.Scheme {
	if r := []rune(text); len(r) > MaxDiscoveryText {
		text = string(r[:MaxDiscoveryText])
	}

	out := d.gen.GenerateJSON(ctx, fmt.Sprintf(discoveryPrompt, sourceURL, sourceURL, text))
	items, _ := out["schemes"].([]any)

	seen := map[string]bool{}
	schemes := []model.Scheme{}
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		s, ok := schemeFromAnswer(raw, sourceURL)
		if !ok {
			continue
		}
		key := strings.ToLower(s.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		schemes = append(schemes, s)
	}

	outcome := "found"
	if len(schemes) == 0 {
		outcome = "none"
	}
	d.metrics.IncOutcome(metrics.AgentDiscovery, outcome)
	logger.WithContext(ctx, d.log).Info("schemes discovered",
		zap.String("source_url", sourceURL),
		zap.Int("count", len(schemes)),
	)
	return schemes
}

func schemeFromAnswer(raw map[string]any, sourceURL string) (model.Scheme, bool) {
	name, _ := stringField(raw, "name")
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Scheme{}, false
	}

	s := model.Scheme{
		Name:              name,
		TargetGroup:       "other",
		PortalURL:         sourceURL,
		RequiredDocuments: stringList(raw["required_documents"]),
	}
	if v, ok := stringField(raw, "description"); ok {
		s.Description = v
	}
	if v, ok := stringField(raw, "target_group"); ok && v != "" {
		s.TargetGroup = v
	}
	if v, ok := stringField(raw, "benefits"); ok {
		s.Benefits = v
	}
	if v, ok := stringField(raw, "portal_url"); ok && v != "" {
		s.PortalURL = v
	}
	if rules, ok := raw["rules"].(map[string]any); ok {
		s.Rules = rulesFromAnswer(rules)
	}
	return s, true
}

// rulesFromAnswer keeps only recognised rules with usable values. An empty
// category list from a model means the text named none, so it is dropped.
func rulesFromAnswer(raw map[string]any) model.SchemeRules {
	r := model.RulesFromMap(raw)
	if len(r.Category) == 0 {
		r.Category = nil
	}
	return r
}
