package postgres

import (
	"encoding/json"
	"fmt"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// toJSONB encodes v for a JSONB column.
func toJSONB(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb: %w", err)
	}
	return b, nil
}

// fromJSONB decodes a JSONB column into v. NULL leaves v untouched.
func fromJSONB(b []byte, v any) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode jsonb: %w", err)
	}
	return nil
}
