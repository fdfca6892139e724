package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveSheet(t *testing.T) {
	sheets := []string{"Summary", "Visits"}

	got, err := resolveSheet(sheets, "VISITS", 0)
	assert.NoError(t, err)
	assert.Equal(t, "Visits", got)

	got, err = resolveSheet(sheets, "", 0)
	assert.NoError(t, err)
	assert.Equal(t, "Summary", got)

	got, err = resolveSheet(sheets, "", 2)
	assert.NoError(t, err)
	assert.Equal(t, "Visits", got)

	_, err = resolveSheet(sheets, "", 3)
	assert.ErrorContains(t, err, "out of range")

	_, err = resolveSheet(sheets, "Members", 1)
	assert.ErrorContains(t, err, "available sheets: Summary, Visits")

	_, err = resolveSheet(nil, "", 1)
	assert.ErrorContains(t, err, "no sheets")
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"30", 30, true},
		{"12.5", 12.5, true},
		{"12,50", 12.5, true},
		{"€1,234.50", 1234.5, true},
		{"1.234,50 €", 1234.5, true},
		{"1 234.5", 1234.5, true},
		{"-3.75", -3.75, true},
		{"45 EUR", 45, true},
		{"€1,250", 1250, true},
		{"1,000", 1000, true},
		{"1.234.567", 1234567, true},
		{"12,5", 12.5, true},
		{"0,125", 0.125, true},
		{"2.500,75", 2500.75, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseNumber(%q)", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, "ParseNumber(%q)", tt.in)
		}
	}
}

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("IST", 3600)

	got, ok := ParseTime("2024-03-04 09:30:00", loc)
	assert.True(t, ok)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, loc, got.Location())

	// Zoned values are converted into the table location.
	got, ok = ParseTime("2024-03-04T09:30:00Z", loc)
	assert.True(t, ok)
	assert.Equal(t, 10, got.Hour())

	// 45355.396 is 2024-03-04 09:30:14 in the 1900 date system.
	got, ok = ParseTime("45355.39599537037", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 4, 9, 30, 14, 0, time.UTC), got)

	_, ok = ParseTime("next tuesday", time.UTC)
	assert.False(t, ok)

	_, ok = ParseTime("13/25/2024", time.UTC)
	assert.False(t, ok)
	_, ok = ParseTime("", time.UTC)
	assert.False(t, ok)
}

func TestParseTimeSlashDatesAreDayFirst(t *testing.T) {
	want := time.Date(2024, time.April, 3, 9, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"03/04/2024 09:00",
		"3/4/2024 09:00",
		"03/04/2024 09:00:00",
		"3/4/2024 09:00:00",
		"3/4/24 09:00",
	} {
		got, ok := ParseTime(in, time.UTC)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParseTime("3/4/2024", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC), got)
}
