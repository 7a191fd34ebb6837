// Package match filters a loaded snapshot down to the records that answer an
// identity query. Pure domain logic: no I/O, no side effects.
package match

import (
	"sort"
	"strings"
	"time"

	"github.com/pauloqxm/adatualiza/internal/members/models"
	"github.com/pauloqxm/adatualiza/internal/members/store"
	"github.com/pauloqxm/adatualiza/pkg/format"
	"github.com/pauloqxm/adatualiza/pkg/normalize"
)

// Query is the identity a person claims. BirthDate and MotherName are the
// primary pair; NationalID and NameContains are optional narrowing criteria
// combined with AND semantics.
type Query struct {
	BirthDate    time.Time
	MotherName   string
	NationalID   string
	NameContains string
}

// Find returns the candidates matching q, sorted by normalized full name so
// a disambiguation list renders deterministically.
//
// Mother-name comparison uses only the first normalized token. That is a
// deliberate trade-off: it tolerates surname variation in hand-typed data,
// at the cost of conflating two mothers who share a first name. Multiple
// matches are all returned for manual selection; no stricter fallback is
// applied.
func Find(snap *store.Snapshot, q Query) []models.Member {
	motherFirst := normalize.FirstToken(q.MotherName)
	if motherFirst == "" {
		// An empty token must never match everything.
		return nil
	}

	queryCPF := normalize.OnlyDigits(q.NationalID)
	queryName := normalize.Normalize(q.NameContains)

	var out []models.Member
	for _, m := range snap.Rows {
		birth, ok := m.ParsedBirthDate()
		if !ok || !format.SameDate(birth, q.BirthDate) {
			continue
		}
		if normalize.FirstToken(m.MotherName) != motherFirst {
			continue
		}
		if queryCPF != "" && normalize.OnlyDigits(m.NationalID) != queryCPF {
			continue
		}
		if queryName != "" && !strings.Contains(normalize.Normalize(m.FullName), queryName) {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return normalize.Normalize(out[i].FullName) < normalize.Normalize(out[j].FullName)
	})
	return out
}
