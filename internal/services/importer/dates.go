package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pan-basket-backend/internal/models"
)

// Imported rows carry dates however the ledger page was written: slashes,
// dashes, dots, or spaces, day first. Tried in order.
var rowDateFormats = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2 1 2006",
}

// ParseRowDate parses a bulk-import date string. After the known formats it
// falls back to splitting on any of - . / and reading the parts as
// day, month, year, promoting 2-digit years by adding 2000.
func ParseRowDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, format := range rowDateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return models.DateOnly(t), nil
		}
	}

	normalized := strings.NewReplacer("-", "/", ".", "/").Replace(s)
	parts := strings.Split(normalized, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("could not parse date %q", s)
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q", s)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q", s)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q", s)
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("could not parse date %q", s)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31/2 becomes 2-3 March); reject
	// instead of silently shifting the entry to another month.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("could not parse date %q", s)
	}
	return t, nil
}
