package rules

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"schemeagent/internal/model"
)

// Eligibility reasons.
const (
	ReasonEligible         = "Eligible"
	ReasonMissingDocuments = "Missing or Invalid required documents"
)

// CheckEligibility evaluates the scheme rules in order (user type, income,
// category, state) and stops at the first failure. A rule is only applied
// when the profile carries the matching field. Document sufficiency is
// checked last.
func CheckEligibility(p *model.Profile, docs []model.Document, s model.Scheme) model.Verdict {
	if p == nil {
		p = &model.Profile{}
	}
	r := s.Rules

	if r.UserType != nil && p.UserType != "" && string(p.UserType) != *r.UserType {
		return model.NewVerdict(false, fmt.Sprintf("Scheme only for %s", *r.UserType), nil)
	}

	if r.MaxIncome != nil && p.Income != nil && *p.Income > *r.MaxIncome {
		return model.NewVerdict(false, fmt.Sprintf("Income %s exceeds limit %s", FormatAmount(*p.Income), FormatAmount(*r.MaxIncome)), nil)
	}

	if r.Category != nil && p.Category != "" && !slices.Contains(r.Category, p.Category) {
		return model.NewVerdict(false, fmt.Sprintf("Category %s not eligible", p.Category), nil)
	}

	if r.State != nil && p.State != "" && !strings.EqualFold(p.State, *r.State) {
		return model.NewVerdict(false, fmt.Sprintf("Only for residents of %s", *r.State), nil)
	}

	if missing := MissingDocuments(s.RequiredDocuments, docs); len(missing) > 0 {
		return model.NewVerdict(false, ReasonMissingDocuments, missing)
	}
	return model.NewVerdict(true, ReasonEligible, nil)
}

// ChecklistItem is one required document and whether a valid upload covers it.
type ChecklistItem struct {
	Document  string `json:"document"`
	Satisfied bool   `json:"satisfied"`
}

// Checklist reports, for each required document in order, whether one of the
// valid documents names it (case-insensitive substring).
func Checklist(required []string, docs []model.Document) []ChecklistItem {
	valid := validNames(docs)
	items := make([]ChecklistItem, 0, len(required))
	for _, req := range required {
		items = append(items, ChecklistItem{Document: req, Satisfied: covered(req, valid)})
	}
	return items
}

// MissingDocuments returns the required documents not covered by a valid document.
func MissingDocuments(required []string, docs []model.Document) []string {
	missing := []string{}
	for _, item := range Checklist(required, docs) {
		if !item.Satisfied {
			missing = append(missing, item.Document)
		}
	}
	return missing
}

func validNames(docs []model.Document) []string {
	var names []string
	for _, d := range docs {
		if d.Status == model.StatusValid {
			names = append(names, strings.ToLower(d.Name))
		}
	}
	return names
}

func covered(required string, validNames []string) bool {
	req := strings.ToLower(required)
	for _, name := range validNames {
		if strings.Contains(name, req) {
			return true
		}
	}
	return false
}

// Evaluator runs CheckEligibility behind the same interface as the model-driven agent.
type Evaluator struct{}

// Evaluate implements the eligibility evaluator contract.
func (Evaluator) Evaluate(_ context.Context, p *model.Profile, docs []model.Document, s model.Scheme) model.Verdict {
	return CheckEligibility(p, docs, s)
}
