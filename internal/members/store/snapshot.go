package store

import (
	"sort"
	"strings"
	"time"

	"github.com/pauloqxm/adatualiza/internal/members/models"
	"github.com/pauloqxm/adatualiza/pkg/normalize"
)

// Snapshot is one load of the worksheet: every row, schema-complete, tagged
// with its physical position. Row positions are only meaningful against the
// load they came from; a concurrent structural edit invalidates them
// silently, which is the documented limitation of this store.
type Snapshot struct {
	Rows     []models.Member `json:"rows"`
	LoadedAt time.Time       `json:"loaded_at"`
}

// NextMemberID computes the id the next append receives: max numeric
// member_id plus one, or 1 when no row carries a numeric id. Not safe under
// concurrent appenders; the read-compute-append shape is preserved on
// purpose.
func (s *Snapshot) NextMemberID() int {
	max := 0
	for _, m := range s.Rows {
		if id, ok := m.NumericID(); ok && id > max {
			max = id
		}
	}
	return max + 1
}

// Distinct returns the sorted distinct non-empty values of one column,
// case-insensitively ordered. Feeds the dropdown option lists.
func (s *Snapshot) Distinct(column string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range s.Rows {
		v := normalize.Clean(m.Column(column))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
