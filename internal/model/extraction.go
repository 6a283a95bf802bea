package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Extraction field names produced by the extraction agent.
const (
	FieldFullName        = "full_name"
	FieldDOB             = "dob"
	FieldIDNumber        = "id_number"
	FieldParentName      = "parent_name"
	FieldAddressState    = "address_state"
	FieldAddressDistrict = "address_district"
	FieldInstitutionName = "institution_name"
	FieldIncome          = "income"

	fieldExtractionFailed = "extraction_failed"
	fieldReason           = "reason"
)

// Reasons shared by the agentic and deterministic verification paths.
const (
	ReasonExtractionUnavailable = "LLM Service Unavailable"
	ReasonVerificationSkipped   = "Verification Skipped: Extraction Service Unavailable"
	ReasonVerified              = "Verified"
)

// ExtractionFields lists every field the extraction agent asks for.
var ExtractionFields = []string{
	FieldFullName,
	FieldDOB,
	FieldIDNumber,
	FieldParentName,
	FieldAddressState,
	FieldAddressDistrict,
	FieldInstitutionName,
	FieldIncome,
}

// Extraction is a structured record extracted from document text. Values may be nil.
// A failed extraction is the sentinel {"extraction_failed": true, "reason": "..."},
// which is distinct from a successful extraction whose fields are all nil.
type Extraction map[string]any

// FailedExtraction builds the extraction-failed sentinel.
func FailedExtraction(reason string) Extraction {
	return Extraction{fieldExtractionFailed: true, fieldReason: reason}
}

// Failed reports whether e is the extraction-failed sentinel.
func (e Extraction) Failed() bool {
	v, ok := e[fieldExtractionFailed].(bool)
	return ok && v
}

// FailureReason returns the reason carried by a failed extraction.
func (e Extraction) FailureReason() string {
	if !e.Failed() {
		return ""
	}
	s, _ := e[fieldReason].(string)
	return s
}

// String returns the field as trimmed text. Numbers are formatted; nil,
// missing and blank values report false.
func (e Extraction) String(key string) (string, bool) {
	switch v := e[key].(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case nil:
		return "", false
	default:
		s := strings.TrimSpace(fmt.Sprint(v))
		return s, s != ""
	}
}

// Number returns the field as a float64, parsing numeric strings
// (commas are ignored, so "2,50,000" reads as 250000).
func (e Extraction) Number(key string) (float64, bool) {
	switch v := e[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Overlay returns a copy of e with the given fields set on top. A failed
// extraction is discarded first, since manual input replaces it.
func (e Extraction) Overlay(fields Extraction) Extraction {
	out := Extraction{}
	if !e.Failed() {
		for k, v := range e {
			out[k] = v
		}
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}
