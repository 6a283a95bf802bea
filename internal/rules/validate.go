// Package rules holds the deterministic checks that stand in for, or back
// up, the model-driven agents.
package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"schemeagent/internal/matching"
	"schemeagent/internal/model"
)

// IncomeTolerance is the largest accepted difference between declared and documented income.
const IncomeTolerance = 5000

// ValidateDocument checks an extraction against the profile field by field
// and reports every mismatch. It is used for manually entered data.
func ValidateDocument(p *model.Profile, ext model.Extraction, docType string) (model.DocumentStatus, string) {
	if ext.Failed() {
		return model.StatusPending, model.ReasonVerificationSkipped
	}
	if p == nil {
		p = &model.Profile{}
	}

	var mismatches []string

	if name, ok := ext.String(model.FieldFullName); ok {
		if !matching.NamesMatch(name, p.FullName) {
			mismatches = append(mismatches, fmt.Sprintf("Name mismatch: Doc has '%s', Profile has '%s'", name, p.FullName))
		}
	}

	if dob, ok := ext.String(model.FieldDOB); ok && p.DOB != "" {
		if !matching.DatesMatch(dob, p.DOB) {
			mismatches = append(mismatches, fmt.Sprintf("DOB mismatch: Doc has '%s', Profile has '%s'", dob, p.DOB))
		}
	}

	if id, ok := ext.String(model.FieldIDNumber); ok {
		if strings.Contains(strings.ToLower(docType), "aadhaar") && p.AadhaarNumber != "" {
			if stripID(id) != stripID(p.AadhaarNumber) {
				mismatches = append(mismatches, "Aadhaar mismatch")
			}
		}
	}

	if income, ok := ext.Number(model.FieldIncome); ok && income != 0 && p.Income != nil && *p.Income != 0 {
		if math.Abs(income-*p.Income) > IncomeTolerance {
			mismatches = append(mismatches, fmt.Sprintf("Income mismatch: Doc has %s, Profile has %s", FormatAmount(income), FormatAmount(*p.Income)))
		}
	}

	if len(mismatches) > 0 {
		return model.StatusInvalid, strings.Join(mismatches, "; ")
	}
	return model.StatusValid, model.ReasonVerified
}

func stripID(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

// FormatAmount prints a number without exponent or trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
