package model

import "time"

// DocumentStatus is the lifecycle state of a user document.
type DocumentStatus string

const (
	// StatusPending means the document has not been submitted, or its
	// verification must be re-checked later.
	StatusPending DocumentStatus = "pending"
	// StatusUploaded means the document was submitted but not yet processed.
	StatusUploaded DocumentStatus = "uploaded"
	StatusValid    DocumentStatus = "valid"
	StatusInvalid  DocumentStatus = "invalid"
	// StatusMissing is the terminal marker for a document explicitly flagged as missing.
	StatusMissing DocumentStatus = "missing"
)

// IsValid reports whether s is one of the five lifecycle states.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusUploaded, StatusValid, StatusInvalid, StatusMissing:
		return true
	}
	return false
}

// Document represents a named artifact uploaded by a user.
// This is a pure domain model with no database-specific dependencies or tags.
type Document struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	Name              string         `json:"name"`
	StoragePath       string         `json:"storage_path,omitempty"`
	ContentType       string         `json:"content_type,omitempty"`
	Size              int64          `json:"size"`
	Status            DocumentStatus `json:"status"`
	ValidationMessage string         `json:"validation_message,omitempty"`
	ExtractedData     Extraction     `json:"extracted_data,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// DocumentUpdate carries a manual correction of a document. Nil fields are left untouched.
type DocumentUpdate struct {
	Name     *string `json:"name,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	DOB      *string `json:"dob,omitempty"`
	IDNumber *string `json:"id_number,omitempty"`
}

// Fields returns the non-empty extraction fields of the update, keyed like an Extraction.
func (u DocumentUpdate) Fields() Extraction {
	out := Extraction{}
	if u.FullName != nil && *u.FullName != "" {
		out[FieldFullName] = *u.FullName
	}
	if u.DOB != nil && *u.DOB != "" {
		out[FieldDOB] = *u.DOB
	}
	if u.IDNumber != nil && *u.IDNumber != "" {
		out[FieldIDNumber] = *u.IDNumber
	}
	return out
}
