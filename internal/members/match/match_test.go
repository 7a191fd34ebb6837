package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pauloqxm/adatualiza/internal/members/models"
	"github.com/pauloqxm/adatualiza/internal/members/store"
)

var birth19900510 = time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC)

func snapshot() *store.Snapshot {
	return &store.Snapshot{Rows: []models.Member{
		{
			MemberID:    "1",
			FullName:    "Zuleide Ramos",
			BirthDate:   "10/05/1990",
			MotherName:  "Maria Silva",
			NationalID:  "398.532.710-80",
			RowPosition: 2,
		},
		{
			MemberID:    "2",
			FullName:    "Antônio Ramos",
			BirthDate:   "10/05/1990",
			MotherName:  "Maria Costa",
			RowPosition: 3,
		},
		{
			MemberID:    "3",
			FullName:    "Carlos Dias",
			BirthDate:   "01/02/1985",
			MotherName:  "Maria Silva",
			RowPosition: 4,
		},
		{
			MemberID:    "4",
			FullName:    "Dita Gomes",
			BirthDate:   "data inválida",
			MotherName:  "Maria Silva",
			RowPosition: 5,
		},
	}}
}

func TestFindFirstTokenCollision(t *testing.T) {
	// Two different mothers named Maria match the same query. This is the
	// known identity-collision risk of first-token matching; both are
	// returned for manual selection.
	got := Find(snapshot(), Query{BirthDate: birth19900510, MotherName: "Maria"})

	require.Len(t, got, 2)
	// Sorted by normalized full name: Antônio before Zuleide.
	assert.Equal(t, "Antônio Ramos", got[0].FullName)
	assert.Equal(t, "Zuleide Ramos", got[1].FullName)
}

func TestFindNoMatchOnDifferentMother(t *testing.T) {
	got := Find(snapshot(), Query{BirthDate: birth19900510, MotherName: "Joana"})
	assert.Empty(t, got)
}

func TestFindExactDateOnly(t *testing.T) {
	otherDay := time.Date(1990, time.May, 11, 0, 0, 0, 0, time.UTC)
	got := Find(snapshot(), Query{BirthDate: otherDay, MotherName: "Maria"})
	assert.Empty(t, got, "calendar equality is exact, not fuzzy")
}

func TestFindEmptyMotherNeverMatchesEverything(t *testing.T) {
	assert.Empty(t, Find(snapshot(), Query{BirthDate: birth19900510, MotherName: ""}))
	assert.Empty(t, Find(snapshot(), Query{BirthDate: birth19900510, MotherName: "   "}))
}

func TestFindMotherAccentAndCaseInsensitive(t *testing.T) {
	got := Find(snapshot(), Query{BirthDate: birth19900510, MotherName: "  MARÍA  dos Anjos "})
	assert.Len(t, got, 2, "first token normalizes accents and case")
}

func TestFindNationalIDNarrows(t *testing.T) {
	got := Find(snapshot(), Query{
		BirthDate:  birth19900510,
		MotherName: "Maria",
		NationalID: "39853271080",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Zuleide Ramos", got[0].FullName)
}

func TestFindNameSubstringNarrows(t *testing.T) {
	got := Find(snapshot(), Query{
		BirthDate:    birth19900510,
		MotherName:   "Maria",
		NameContains: "antonio",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Antônio Ramos", got[0].FullName)
}

func TestFindSkipsUnparseableBirthDates(t *testing.T) {
	// Row 5 has a junk birth_date; it must be skipped, not crash the query.
	got := Find(snapshot(), Query{BirthDate: birth19900510, MotherName: "Maria"})
	for _, m := range got {
		assert.NotEqual(t, "Dita Gomes", m.FullName)
	}
}
