// Package normalize provides the text canonicalization used by identity
// matching. All functions are pure; Normalize memoizes because the same names
// are re-normalized for every row on every search.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD and drops combining marks, so "José" and
// "Jose" compare equal.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

const cacheLimit = 2048

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]string, 256)
)

// Normalize trims, strips accents, lowercases, and collapses internal
// whitespace runs to a single space. Empty input yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	cacheMu.RLock()
	v, ok := cache[s]
	cacheMu.RUnlock()
	if ok {
		return v
	}

	out := normalizeSlow(s)

	cacheMu.Lock()
	if len(cache) >= cacheLimit {
		// Arbitrary eviction keeps the map bounded; hit rate matters more
		// than recency for form inputs.
		for k := range cache {
			delete(cache, k)
			break
		}
	}
	cache[s] = out
	cacheMu.Unlock()

	return out
}

func normalizeSlow(s string) string {
	s = strings.TrimSpace(s)
	if stripped, _, err := transform.String(stripAccents, s); err == nil {
		s = stripped
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// FirstToken returns the first whitespace-delimited word of the normalized
// input, or "" when nothing survives normalization.
func FirstToken(s string) string {
	n := Normalize(s)
	if n == "" {
		return ""
	}
	if i := strings.IndexByte(n, ' '); i >= 0 {
		return n[:i]
	}
	return n
}

// OnlyDigits strips every non-digit rune.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Clean trims a raw cell value and maps the textual null markers that leak
// out of spreadsheet exports ("nan", "none", "null") to "".
func Clean(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}

// IsEmpty reports whether a cleaned value is empty.
func IsEmpty(s string) bool {
	return Clean(s) == ""
}
