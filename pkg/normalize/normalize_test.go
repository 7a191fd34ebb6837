package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Maria", "maria"},
		{"accents", "JOSÉ  DA  SILVA", "jose da silva"},
		{"cedilla and tilde", "Conceição Araújo", "conceicao araujo"},
		{"surrounding space", "  Ana Paula \t", "ana paula"},
		{"tabs and newlines collapse", "a\tb\nc", "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "Maria", "JOSÉ  DA  SILVA", " õ Â ç ", "já normalizado"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize(normalize(%q))", in)
	}
}

func TestNormalizeCacheRepeatedCalls(t *testing.T) {
	// Same input twice must hit the memo and stay stable.
	first := Normalize("Francisca das Chagas")
	second := Normalize("Francisca das Chagas")
	assert.Equal(t, first, second)
}

func TestFirstToken(t *testing.T) {
	assert.Equal(t, "maria", FirstToken("  MARIA das Dores "))
	assert.Equal(t, "jose", FirstToken("José"))
	assert.Equal(t, "", FirstToken("   "))
	assert.Equal(t, "", FirstToken(""))
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "39853271080", OnlyDigits("398.532.710-80"))
	assert.Equal(t, "85991234567", OnlyDigits("(85) 9.9123-4567"))
	assert.Equal(t, "", OnlyDigits("abc"))
	assert.Equal(t, "", OnlyDigits(""))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Centro", Clean("  Centro "))
	assert.Equal(t, "", Clean("nan"))
	assert.Equal(t, "", Clean("None"))
	assert.Equal(t, "", Clean("NULL"))
	assert.True(t, IsEmpty("  nan "))
	assert.False(t, IsEmpty("Cohab"))
}
