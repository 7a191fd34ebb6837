// Package format renders member fields in their canonical stored form:
// Brazilian document and phone masks, dd/mm/yyyy dates, and the permissive
// date parsing the legacy sheet data requires.
package format

import (
	"time"

	"github.com/pauloqxm/adatualiza/pkg/normalize"
)

// DateLayout is the canonical display and storage layout for dates.
const DateLayout = "02/01/2006"

// DateTimeLayout is the layout for the updated_at audit column.
const DateTimeLayout = "02/01/2006 15:04:05"

// CPF masks an 11-digit CPF as ###.###.###-##. Anything that does not carry
// exactly 11 digits is returned unchanged; validation happens elsewhere.
func CPF(raw string) string {
	d := normalize.OnlyDigits(raw)
	if len(d) != 11 {
		return raw
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// Phone masks an 11-digit mobile number as (##) #.####-####. Inputs without
// exactly 11 digits are returned unchanged.
func Phone(raw string) string {
	d := normalize.OnlyDigits(raw)
	if len(d) != 11 {
		return raw
	}
	return "(" + d[:2] + ") " + d[2:3] + "." + d[3:7] + "-" + d[7:]
}

// dateLayouts are tried in order. Day-first layouts come before ISO because
// the sheet was filled in by Brazilian users.
var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"02/01/06",
	"2006-01-02",
}

// fallbackLayouts catch the loose hand-typed variants found in legacy rows.
var fallbackLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses a cell value into a calendar date. It is deliberately
// best-effort: malformed legacy data must not abort a load, so exhaustion
// reports ok=false instead of an error. Callers that care can surface a
// data-quality warning on !ok.
func ParseDate(value string) (time.Time, bool) {
	text := normalize.Clean(value)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return midnight(t), true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return midnight(t), true
		}
	}
	return time.Time{}, false
}

// Date renders a date as dd/mm/yyyy, or "" for the zero value.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DateTime renders a timestamp as dd/mm/yyyy hh:mm:ss. The caller converts
// to the sheet's timezone first.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

// SameDate reports calendar equality, ignoring time-of-day and location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
