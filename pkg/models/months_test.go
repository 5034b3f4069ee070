package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndFormatMonth(t *testing.T) {
	parsed, err := ParseMonth("2026-03")
	require.NoError(t, err)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, "2026-03", FormatMonth(parsed))

	_, err = ParseMonth("March 2026")
	assert.Error(t, err)
}

func TestAddMonths(t *testing.T) {
	assert.Equal(t, "2026-03", AddMonths("2026-01", 2))
	assert.Equal(t, "2025-11", AddMonths("2026-01", -2))
	assert.Equal(t, "2027-02", AddMonths("2026-12", 2))
	// unparseable labels pass through unchanged
	assert.Equal(t, "garbage", AddMonths("garbage", 1))
}

func TestNextMonth_YearRollover(t *testing.T) {
	assert.Equal(t, "2026-02", NextMonth("2026-01"))
	assert.Equal(t, "2027-01", NextMonth("2026-12"))
}

func TestCalendarMonth(t *testing.T) {
	assert.Equal(t, time.July, CalendarMonth("2026-07"))
	assert.Equal(t, time.January, CalendarMonth("not-a-month"))
}

func TestSortMonths(t *testing.T) {
	labels := []string{"2026-11", "2025-12", "2026-02"}
	assert.Equal(t, []string{"2025-12", "2026-02", "2026-11"}, SortMonths(labels))
}
