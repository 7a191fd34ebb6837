package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pauloqxm/adatualiza/internal/members/models"
	"github.com/pauloqxm/adatualiza/internal/members/schema"
	"github.com/pauloqxm/adatualiza/internal/sheets"
	dErrors "github.com/pauloqxm/adatualiza/pkg/domain-errors"
)

func str(s string) *string { return &s }

// fakeClock lets tests walk time past the cache TTL deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type RecordStoreSuite struct {
	suite.Suite
	ctx     context.Context
	backend *sheets.Fake
	clock   *fakeClock
	store   *RecordStore
}

func TestRecordStoreSuite(t *testing.T) {
	suite.Run(t, new(RecordStoreSuite))
}

func (s *RecordStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.backend = sheets.NewFake()
	s.clock = &fakeClock{t: time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache(30*time.Second, s.clock.Now)
	s.store = New(s.backend, cache, WithClock(s.clock.Now))
}

func (s *RecordStoreSuite) seedTwoMembers() {
	s.backend.Seed([][]string{
		append([]string(nil), schema.Columns...),
		{"1", "", "10/05/1990", "Maria Silva", "Ana Souza", "398.532.710-80", "(85) 9.9123-4567", "Centro", "Rua A, 1", "", "BRASILEIRA", "", "SOLTEIRO", "", "SEDE", "01/01/2026 09:00:00"},
		{"2", "", "10/05/1990", "Maria Costa", "Bruna Lima", "", "", "Cohab", "Rua B, 2", "", "", "", "CASADO", "", "VILA", "01/01/2026 09:00:00"},
	})
}

func (s *RecordStoreSuite) TestLoadEmptySheetWritesHeaderOnce() {
	snap, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(snap.Rows)

	grid := s.backend.Grid()
	s.Require().Len(grid, 1)
	s.Equal(schema.Columns, grid[0])

	// A second load (after expiry, to force a refetch) must not duplicate
	// the header.
	s.clock.Advance(time.Minute)
	_, err = s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Len(s.backend.Grid(), 1)
	s.Equal(1, s.backend.Calls["append"])
}

func (s *RecordStoreSuite) TestLoadTagsRowPositions() {
	s.seedTwoMembers()

	snap, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(snap.Rows, 2)
	s.Equal(2, snap.Rows[0].RowPosition)
	s.Equal(3, snap.Rows[1].RowPosition)
	s.Equal("Ana Souza", snap.Rows[0].FullName)
}

func (s *RecordStoreSuite) TestLoadSynthesizesMissingColumns() {
	// A partially migrated sheet: only three of the schema columns exist.
	s.backend.Seed([][]string{
		{schema.ColMemberID, schema.ColFullName, schema.ColMotherName},
		{"7", "Carla Nunes", "Rita Nunes"},
	})

	snap, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(snap.Rows, 1)

	m := snap.Rows[0]
	s.Equal("7", m.MemberID)
	s.Equal("Carla Nunes", m.FullName)
	s.Equal("", m.Phone, "absent columns read as empty")
	s.Equal("", m.Congregation)
}

func (s *RecordStoreSuite) TestLoadServesCacheWithinTTL() {
	s.seedTwoMembers()

	_, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, s.backend.Calls["values"])

	s.clock.Advance(10 * time.Second)
	_, err = s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, s.backend.Calls["values"], "within TTL the backend is not touched")

	s.clock.Advance(time.Minute)
	_, err = s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, s.backend.Calls["values"], "expired cache reloads")
}

func (s *RecordStoreSuite) TestAppendRoundTrip() {
	s.seedTwoMembers()

	snap, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, snap.NextMemberID())

	upd := models.Update{
		FullName:      str("Zilda Araújo"),
		BirthDate:     str("31/12/1980"),
		MotherName:    str("Francisca Araújo"),
		NationalID:    str("398.532.710-80"),
		Phone:         str("(85) 9.9123-4567"),
		Neighborhood:  str("Centro"),
		Address:       str("Rua C, 3"),
		MaritalStatus: str("VIÚVO"),
		Congregation:  str("SEDE"),
	}
	upd.SetMemberID(snap.NextMemberID())
	upd.SetUpdatedAt("30/08/2026 10:00:00")

	s.Require().NoError(s.store.Append(s.ctx, upd))

	// The cache was invalidated, so this load is fresh and sees the row.
	after, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(after.Rows, 3)

	added := after.Rows[2]
	s.Equal("3", added.MemberID)
	s.Equal("Zilda Araújo", added.FullName)
	s.Equal("398.532.710-80", added.NationalID)
	s.Equal("(85) 9.9123-4567", added.Phone)
	s.Equal("30/08/2026 10:00:00", added.UpdatedAt)
	s.Equal(4, added.RowPosition)
}

func (s *RecordStoreSuite) TestAppendUsesLiveHeaderOrder() {
	// Header order differs from schema order and carries a foreign column.
	s.backend.Seed([][]string{
		{schema.ColFullName, "legacy_flag", schema.ColMemberID},
	})

	upd := models.Update{FullName: str("Dora Melo")}
	upd.SetMemberID(1)
	s.Require().NoError(s.store.Append(s.ctx, upd))

	grid := s.backend.Grid()
	s.Require().Len(grid, 2)
	s.Equal([]string{"Dora Melo", "", "1"}, grid[1])
}

func (s *RecordStoreSuite) TestAppendOnEmptySheetEnsuresHeaderFirst() {
	upd := models.Update{FullName: str("Primeira Pessoa")}
	upd.SetMemberID(1)

	s.Require().NoError(s.store.Append(s.ctx, upd))

	grid := s.backend.Grid()
	s.Require().Len(grid, 2)
	s.Equal(schema.Columns, grid[0])
	s.Equal("Primeira Pessoa", grid[1][4])
}

func (s *RecordStoreSuite) TestUpdateIsPartial() {
	s.seedTwoMembers()
	before := s.backend.Grid()

	upd := models.Update{Phone: str("(88) 9.8765-4321")}
	upd.SetUpdatedAt("30/08/2026 11:11:11")
	s.Require().NoError(s.store.Update(s.ctx, 2, upd))

	after := s.backend.Grid()
	for i, col := range schema.Columns {
		switch col {
		case schema.ColPhone:
			s.Equal("(88) 9.8765-4321", after[1][i])
		case schema.ColUpdatedAt:
			s.Equal("30/08/2026 11:11:11", after[1][i])
		default:
			s.Equal(before[1][i], after[1][i], "column %s must be untouched", col)
		}
	}

	// The sibling row is byte-for-byte identical.
	s.Equal(before[2], after[2])
}

func (s *RecordStoreSuite) TestUpdatePadsShortRows() {
	// Row 2 was written before the sheet gained its trailing columns.
	s.backend.Seed([][]string{
		append([]string(nil), schema.Columns...),
		{"1", "", "10/05/1990", "Maria Silva", "Ana Souza"},
	})

	upd := models.Update{Congregation: str("SEDE")}
	s.Require().NoError(s.store.Update(s.ctx, 2, upd))

	after := s.backend.Grid()
	s.Require().Len(after[1], len(schema.Columns))
	s.Equal("SEDE", after[1][14])
	s.Equal("Ana Souza", after[1][4])
}

func (s *RecordStoreSuite) TestUpdateRejectsHeaderRow() {
	s.seedTwoMembers()
	err := s.store.Update(s.ctx, 1, models.Update{Phone: str("x")})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))

	err = s.store.Update(s.ctx, 0, models.Update{})
	s.Require().Error(err)
}

func (s *RecordStoreSuite) TestUpdateWithoutHeaderIsSchemaMismatch() {
	err := s.store.Update(s.ctx, 2, models.Update{Phone: str("x")})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeSchemaMismatch))
}

func (s *RecordStoreSuite) TestMutationsInvalidateCacheSynchronously() {
	s.seedTwoMembers()

	_, err := s.store.Load(s.ctx)
	s.Require().NoError(err)

	upd := models.Update{Address: str("Rua Nova, 9")}
	s.Require().NoError(s.store.Update(s.ctx, 2, upd))

	// Well within the TTL, yet the next load must be fresh.
	_, err = s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, s.backend.Calls["values"])
}

func (s *RecordStoreSuite) TestLoadSurfacesBackendFailure() {
	s.backend.FailNext = dErrors.New(dErrors.CodeUnavailable, "sheets values failed after 3 attempts")
	_, err := s.store.Load(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnavailable))
}

func TestSnapshotNextMemberID(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want int
	}{
		{"empty", nil, 1},
		{"sequential", []string{"1", "2", "3"}, 4},
		{"gaps and junk", []string{"10", "", "abc", "4"}, 11},
		{"all junk", []string{"", "x"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &Snapshot{}
			for _, id := range tt.ids {
				snap.Rows = append(snap.Rows, models.Member{MemberID: id})
			}
			if got := snap.NextMemberID(); got != tt.want {
				t.Fatalf("NextMemberID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSnapshotDistinct(t *testing.T) {
	snap := &Snapshot{Rows: []models.Member{
		{Congregation: "SEDE"},
		{Congregation: " VILA "},
		{Congregation: "SEDE"},
		{Congregation: ""},
		{Congregation: "alto alegre"},
	}}
	got := snap.Distinct(schema.ColCongregation)
	if len(got) != 3 || got[0] != "alto alegre" || got[1] != "SEDE" || got[2] != "VILA" {
		t.Fatalf("Distinct() = %v", got)
	}
}
