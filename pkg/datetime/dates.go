// Package datetime provides date utility functions for schedule generation.
package datetime

import (
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

// DateTimeLayout is the output date format for schedule rows.
const DateTimeLayout = constants.DateTimeLayout

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// MonthOffset returns the anchor date advanced by the given number of
// calendar months.
func MonthOffset(anchor time.Time, months int) time.Time {
	return anchor.AddDate(0, months, 0)
}

// FormatMonth renders a date in the schedule output format.
func FormatMonth(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}
