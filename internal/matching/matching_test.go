package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Shyam  Vadgama", "shyam vadgama"},
		{"  Dr. R.K. Sharma ", "dr rk sharma"},
		{"O'Brien,\tJohn", "obrien john"},
		{"A . B", "a b"},
		{"ANITA\nDEVI", "anita devi"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	for _, in := range []string{"", "Shyam Vadgama", "  Dr. R.K.   Sharma ", "A . B", "x_y  z!!"} {
		once := NormalizeName(in)
		assert.Equal(t, once, NormalizeName(once), in)
	}
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"exact after normalization", "Shyam Vadgama", "shyam  vadgama.", true},
		{"token set order insensitive", "Shyam Vadgama", "Vadgama Shyam", true},
		{"typo above threshold", "Shyam Nileshbhai Vadgama", "Shyam Nileshhai Vadgama", true},
		{"different names", "Jon Smith", "John Smyth", false},
		{"subset of tokens is not enough", "Shyam Vadgama", "Shyam Nileshbhai Vadgama", false},
		{"empty left", "", "Shyam", false},
		{"both empty", "", "", false},
		{"punctuation only", "...", "...", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NamesMatch(tt.a, tt.b))
		})
	}
}

func TestNamesMatch_Symmetric(t *testing.T) {
	names := []string{"", "Shyam Vadgama", "Vadgama Shyam", "Jon Smith", "John Smyth", "Anita Devi", "anita devii", "R. K. Sharma"}
	for _, a := range names {
		for _, b := range names {
			assert.Equal(t, NamesMatch(a, b), NamesMatch(b, a), "%q vs %q", a, b)
		}
	}
}

func TestNamesMatch_ThresholdBoundary(t *testing.T) {
	base := "abcdefghijklmnopqrst" // 20 runes

	// three substitutions: ratio exactly 0.85, which is not above the threshold
	atBoundary := "abcdefghijklmnopqxyz"
	assert.InDelta(t, 0.85, Similarity(base, atBoundary), 1e-9)
	assert.False(t, NamesMatch(base, atBoundary))

	// two substitutions: ratio 0.90
	above := "abcdefghijklmnopqrxy"
	assert.InDelta(t, 0.90, Similarity(base, above), 1e-9)
	assert.True(t, NamesMatch(base, above))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abc", ""))
	assert.Equal(t, 1.0, Similarity("same", "same"))
	assert.InDelta(t, 0.75, Similarity("abcd", "abcx"), 1e-9)
}

func TestParseDate(t *testing.T) {
	want := time.Date(1998, time.August, 15, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{
		"1998-08-15",
		"15-08-1998",
		"15/08/1998",
		"1998/08/15",
		"15.08.1998",
		"1998.08.15",
		"15 Aug 1998",
		"15 August 1998",
		"15-08-98",
		"08/15/1998",
		"  15-8-1998 ",
	} {
		t.Run(in, func(t *testing.T) {
			got, ok := ParseDate(in)
			assert.True(t, ok)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "31-02-2000", "1998-13-01"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, in)
	}
}

func TestParseDate_DayFirstWins(t *testing.T) {
	// 03/04/2001 is ambiguous; day/month/year is tried before month/day/year.
	got, ok := ParseDate("03/04/2001")
	assert.True(t, ok)
	assert.Equal(t, time.April, got.Month())
	assert.Equal(t, 3, got.Day())
}

func TestDatesMatch(t *testing.T) {
	assert.True(t, DatesMatch("15/08/1998", "1998-08-15"))
	assert.True(t, DatesMatch("15 Aug 1998", "15-08-1998"))
	assert.False(t, DatesMatch("16/08/1998", "1998-08-15"))
	assert.False(t, DatesMatch("", "2000-01-01"))
	assert.True(t, DatesMatch(" unknown ", "unknown"))
	assert.False(t, DatesMatch("unknown", "2000-01-01"))
}
