package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StringList is a list of strings that also accepts a bare JSON string,
// which decodes as a one-element list. Models often emit "SC" for ["SC"].
// Non-string items are formatted and null items are skipped.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	list, ok := toStringList(v)
	if !ok && v != nil {
		return fmt.Errorf("string list: unexpected JSON %s", b)
	}
	*l = list
	return nil
}

// toStringList converts a decoded JSON value. A blank string or null is
// absent (nil, true for null); an array is always present, even when empty.
func toStringList(v any) (StringList, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return StringList{s}, true
		}
		return nil, true
	case []any:
		out := StringList{}
		for _, item := range t {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

// SchemeRules is the eligibility predicate of a scheme. Every rule is optional:
// a nil pointer or nil list means the rule is absent, while an empty
// Category list is present and admits nobody.
type SchemeRules struct {
	UserType  *string    `json:"user_type,omitempty"`
	MaxIncome *float64   `json:"max_income,omitempty"`
	Category  StringList `json:"category,omitempty"`
	State     *string    `json:"state,omitempty"`
}

// RulesFromMap reads rules from a loosely typed JSON object. Numeric strings
// are accepted for max_income ("2,50,000" reads as 250000) and an
// "income_limit" key is read as max_income. Values of the wrong shape are
// treated as absent rules.
func RulesFromMap(raw map[string]any) SchemeRules {
	var r SchemeRules
	fields := Extraction(raw)
	if v, ok := trimmedString(raw["user_type"]); ok {
		v = strings.ToLower(v)
		r.UserType = &v
	}
	for _, key := range []string{"max_income", "income_limit"} {
		if f, ok := fields.Number(key); ok {
			r.MaxIncome = &f
			break
		}
	}
	if cats, ok := toStringList(raw["category"]); ok {
		r.Category = cats
	}
	if v, ok := trimmedString(raw["state"]); ok {
		r.State = &v
	}
	return r
}

func trimmedString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// UnmarshalJSON implements json.Unmarshaler using RulesFromMap.
func (r *SchemeRules) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = RulesFromMap(raw)
	return nil
}

// MarshalJSON keeps an empty, present category list as [] instead of dropping it.
func (r SchemeRules) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if r.UserType != nil {
		out["user_type"] = *r.UserType
	}
	if r.MaxIncome != nil {
		out["max_income"] = *r.MaxIncome
	}
	if r.Category != nil {
		out["category"] = []string(r.Category)
	}
	if r.State != nil {
		out["state"] = *r.State
	}
	return json.Marshal(out)
}

// Scheme is a government welfare programme with eligibility rules and a document checklist.
type Scheme struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	TargetGroup       string      `json:"target_group"`
	Benefits          string      `json:"benefits"`
	PortalURL         string      `json:"portal_url"`
	Rules             SchemeRules `json:"rules"`
	RequiredDocuments []string    `json:"required_documents"`
	CreatedAt         time.Time   `json:"created_at"`
}

// Verdict is the outcome of an eligibility evaluation. It is recomputed on every query.
type Verdict struct {
	Eligible         bool     `json:"eligible"`
	Reason           string   `json:"reason"`
	MissingDocuments []string `json:"missing_documents"`
}

// NewVerdict builds a verdict whose missing list is never nil.
func NewVerdict(eligible bool, reason string, missing []string) Verdict {
	if missing == nil {
		missing = []string{}
	}
	return Verdict{Eligible: eligible, Reason: reason, MissingDocuments: missing}
}
