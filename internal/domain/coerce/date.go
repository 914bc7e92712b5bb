package coerce

import (
	"strings"
	"time"
)

// canonicalLayout is how every successfully parsed date is re-rendered.
const canonicalLayout = "2006-01-02 15:04"

// dateLayouts is tried in order; the first layout that parses wins.
// Ordering matters: day-first formats are the regional default, so they
// come before year-first variants.
var dateLayouts = []string{
	"2/1/2006 3:04 PM",
	"2/1/2006 15:04",
	"2006/1/2 3:04:05 PM",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2/1/2006",
	"2006/1/2",
	"2-1-2006 15:04",
	"2-1-2006",
	"2006-1-2 15:04:05",
	"2006-1-2",
}

// Date normalizes a locale date string to "YYYY-MM-DD HH:MM" (24-hour).
// Arabic-Indic digits are translated and doubled spaces collapsed first.
// When none of the known layouts parse, an ISO-8601-ish fallback is
// attempted (T replaced with a space, trailing Z stripped, fractional
// seconds truncated). If that also fails the cleaned string is returned
// verbatim rather than dropped: callers must treat a result that does
// not match the canonical layout as an unparsed date, not an error.
func Date(s string) string {
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "  ", " ")
	s = arabicDigits.Replace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalLayout)
		}
	}

	// ISO-ish fallback: "2024-03-01T14:30:00.123Z" and friends. An offset
	// keeps the wall-clock time; receipts are local-time documents.
	iso := strings.ReplaceAll(s, "T", " ")
	iso = strings.TrimSuffix(iso, "Z")
	if i := strings.IndexByte(iso, '.'); i >= 0 {
		iso = iso[:i]
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format(canonicalLayout)
		}
	}

	return s
}
