package models

import (
	"sort"
	"time"
)

// monthLayout is the label format used for delivery months, e.g. "2026-01"
const monthLayout = "2006-01"

// ParseMonth parses a month label
func ParseMonth(label string) (time.Time, error) {
	return time.Parse(monthLayout, label)
}

// FormatMonth formats a time as a month label
func FormatMonth(t time.Time) string {
	return t.Format(monthLayout)
}

// AddMonths returns the label offset months after the given label.
// An unparseable label is returned unchanged.
func AddMonths(label string, offset int) string {
	t, err := ParseMonth(label)
	if err != nil {
		return label
	}
	return FormatMonth(t.AddDate(0, offset, 0))
}

// NextMonth returns the label of the month following the given label,
// used for M+1 index pricing
func NextMonth(label string) string {
	return AddMonths(label, 1)
}

// CalendarMonth returns the calendar month of a label, used to key
// seasonal demand fractions. Returns January for unparseable labels.
func CalendarMonth(label string) time.Month {
	t, err := ParseMonth(label)
	if err != nil {
		return time.January
	}
	return t.Month()
}

// SortMonths sorts month labels chronologically in place and returns them.
// Labels in the "2006-01" layout sort correctly as strings.
func SortMonths(labels []string) []string {
	sort.Strings(labels)
	return labels
}
