package models

import "time"

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// DateOnly drops the time component. Every date column is written through
// this so GROUP BY date and equality filters behave the same on postgres
// and the sqlite test store.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD request field.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}
