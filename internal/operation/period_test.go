package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodOf(t *testing.T) {
	cases := []struct {
		date   string
		period string
	}{
		{"2025-03-20", "2025-03"},
		{"2025-03-31", "2025-03"},
		{"2025-04-19", "2025-03"},
		{"2025-04-20", "2025-04"},
		{"2025-03-19", "2025-02"},
		{"2025-01-01", "2024-12"},
		{"2025-01-19", "2024-12"},
		{"2025-01-20", "2025-01"},
	}

	for _, tc := range cases {
		got, err := PeriodOf(tc.date)
		assert.NoError(t, err)
		assert.Equal(t, tc.period, got, "date %s", tc.date)
	}
}

func TestPeriodOf_InvalidDate(t *testing.T) {
	_, err := PeriodOf("20-03-2025")
	assert.Error(t, err)
}

func TestPeriodBounds(t *testing.T) {
	from, to, err := PeriodBounds("2025-03")
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-20", from)
	assert.Equal(t, "2025-04-19", to)

	// December wraps into the next year.
	from, to, err = PeriodBounds("2024-12")
	assert.NoError(t, err)
	assert.Equal(t, "2024-12-20", from)
	assert.Equal(t, "2025-01-19", to)

	// January's period ends in a short month's range without drift.
	from, to, err = PeriodBounds("2025-01")
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-20", from)
	assert.Equal(t, "2025-02-19", to)
}

func TestPeriodBounds_InvalidPeriod(t *testing.T) {
	_, _, err := PeriodBounds("2025-3")
	assert.Error(t, err)

	_, _, err = PeriodBounds("2025-13")
	assert.Error(t, err)
}

func TestPeriodRoundTrip(t *testing.T) {
	// Every date inside a period's bounds maps back to that period.
	for _, date := range []string{"2025-03-20", "2025-04-01", "2025-04-19"} {
		period, err := PeriodOf(date)
		assert.NoError(t, err)
		assert.Equal(t, "2025-03", period)
	}
}
