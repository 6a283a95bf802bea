package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStatus_IsValid(t *testing.T) {
	for _, s := range []DocumentStatus{StatusPending, StatusUploaded, StatusValid, StatusInvalid, StatusMissing} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, DocumentStatus("approved").IsValid())
	assert.False(t, DocumentStatus("").IsValid())
}

func TestUserType_IsValid(t *testing.T) {
	assert.True(t, UserTypeFarmer.IsValid())
	assert.False(t, UserType("astronaut").IsValid())
}

func TestExtraction_Failed(t *testing.T) {
	failed := FailedExtraction("LLM Service Unavailable")
	assert.True(t, failed.Failed())
	assert.Equal(t, "LLM Service Unavailable", failed.FailureReason())

	empty := Extraction{FieldFullName: nil, FieldDOB: nil}
	assert.False(t, empty.Failed())
	assert.Equal(t, "", empty.FailureReason())

	assert.False(t, Extraction{"extraction_failed": "yes"}.Failed())
}

func TestExtraction_String(t *testing.T) {
	e := Extraction{
		"name":   "  Asha Devi ",
		"blank":  "   ",
		"num":    float64(250000),
		"nil":    nil,
		"bool":   true,
		"digits": 12,
	}

	s, ok := e.String("name")
	assert.True(t, ok)
	assert.Equal(t, "Asha Devi", s)

	_, ok = e.String("blank")
	assert.False(t, ok)

	s, ok = e.String("num")
	assert.True(t, ok)
	assert.Equal(t, "250000", s)

	_, ok = e.String("nil")
	assert.False(t, ok)

	_, ok = e.String("absent")
	assert.False(t, ok)

	s, ok = e.String("bool")
	assert.True(t, ok)
	assert.Equal(t, "true", s)

	s, _ = e.String("digits")
	assert.Equal(t, "12", s)
}

func TestExtraction_Number(t *testing.T) {
	e := Extraction{"a": float64(10), "b": "2,50,000", "c": "n/a", "d": "", "e": 7}

	n, ok := e.Number("a")
	assert.True(t, ok)
	assert.Equal(t, 10.0, n)

	n, ok = e.Number("b")
	assert.True(t, ok)
	assert.Equal(t, 250000.0, n)

	_, ok = e.Number("c")
	assert.False(t, ok)
	_, ok = e.Number("d")
	assert.False(t, ok)

	n, ok = e.Number("e")
	assert.True(t, ok)
	assert.Equal(t, 7.0, n)
}

func TestExtraction_Overlay(t *testing.T) {
	prev := Extraction{FieldFullName: "Old Name", FieldIncome: float64(1000)}
	got := prev.Overlay(Extraction{FieldFullName: "New Name"})

	assert.Equal(t, "New Name", got[FieldFullName])
	assert.Equal(t, float64(1000), got[FieldIncome])
	assert.Equal(t, "Old Name", prev[FieldFullName], "overlay must not mutate the receiver")

	fromFailed := FailedExtraction("down").Overlay(Extraction{FieldDOB: "2000-01-01"})
	assert.False(t, fromFailed.Failed())
	assert.Equal(t, Extraction{FieldDOB: "2000-01-01"}, fromFailed)
}

func TestDocumentUpdate_Fields(t *testing.T) {
	name, empty, id := "Ravi", "", "1234"
	u := DocumentUpdate{FullName: &name, DOB: &empty, IDNumber: &id}

	assert.Equal(t, Extraction{FieldFullName: "Ravi", FieldIDNumber: "1234"}, u.Fields())
	assert.Empty(t, DocumentUpdate{}.Fields())
}

func TestSchemeRules_JSON(t *testing.T) {
	var r SchemeRules
	require.NoError(t, json.Unmarshal([]byte(`{"max_income": 250000, "category": "SC", "state": "Gujarat"}`), &r))
	require.NotNil(t, r.MaxIncome)
	assert.Equal(t, 250000.0, *r.MaxIncome)
	assert.Equal(t, StringList{"SC"}, r.Category)
	assert.Nil(t, r.UserType)

	var list SchemeRules
	require.NoError(t, json.Unmarshal([]byte(`{"category": ["SC", "ST"]}`), &list))
	assert.Equal(t, StringList{"SC", "ST"}, list.Category)

	var none SchemeRules
	require.NoError(t, json.Unmarshal([]byte(`{"category": null}`), &none))
	assert.Nil(t, none.Category)

	var emptyList SchemeRules
	require.NoError(t, json.Unmarshal([]byte(`{"category": []}`), &emptyList))
	assert.NotNil(t, emptyList.Category)
	assert.Len(t, emptyList.Category, 0)

	b, err := json.Marshal(emptyList)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category": []}`, string(b))

	b, err = json.Marshal(SchemeRules{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestSchemeRules_UnmarshalLooseValues(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want SchemeRules
	}{
		{
			name: "numeric string income",
			in:   `{"max_income": "2,50,000"}`,
			want: SchemeRules{MaxIncome: ptr(250000.0)},
		},
		{
			name: "income_limit alias",
			in:   `{"income_limit": 100000, "user_type": " Student "}`,
			want: SchemeRules{MaxIncome: ptr(100000.0), UserType: ptr("student")},
		},
		{
			name: "wrong shapes are absent",
			in:   `{"max_income": "n/a", "state": 12, "category": {"a": 1}}`,
			want: SchemeRules{},
		},
		{
			name: "blank bare category is absent",
			in:   `{"category": "  "}`,
			want: SchemeRules{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SchemeRules
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var r SchemeRules
	assert.Error(t, json.Unmarshal([]byte(`["max_income"]`), &r))
}

func ptr[T any](v T) *T { return &v }

func TestNewVerdict(t *testing.T) {
	v := NewVerdict(true, "Eligible", nil)
	assert.NotNil(t, v.MissingDocuments)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"eligible": true, "reason": "Eligible", "missing_documents": []}`, string(b))
}
