// Package store presents the worksheet as a schema-complete, cached,
// write-through table of member records.
//
// Known limitations, preserved from the system this replaces: there is no
// locking or optimistic concurrency at the backend, so two sessions editing
// concurrently are last-write-wins at column granularity, and a row position
// captured before a concurrent structural change targets the wrong row
// without detection. Callers hold snapshots briefly and re-search after
// writes.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pauloqxm/adatualiza/internal/members/models"
	"github.com/pauloqxm/adatualiza/internal/members/schema"
	"github.com/pauloqxm/adatualiza/internal/platform/metrics"
	"github.com/pauloqxm/adatualiza/internal/sheets"
	dErrors "github.com/pauloqxm/adatualiza/pkg/domain-errors"
)

// RecordStore owns the backend connection and the snapshot cache. It is an
// explicitly constructed object, never process-wide state, so tests inject a
// fake backend and clock.
type RecordStore struct {
	backend sheets.Backend
	cache   SnapshotCache
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics

	group singleflight.Group
}

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *RecordStore) { s.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *RecordStore) { s.logger = logger }
}

// WithMetrics wires the prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *RecordStore) { s.metrics = m }
}

// New constructs a RecordStore over a backend and a snapshot cache.
func New(backend sheets.Backend, cache SnapshotCache, opts ...Option) *RecordStore {
	s := &RecordStore{
		backend: backend,
		cache:   cache,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the current snapshot, served from cache within the TTL.
// Concurrent cache misses collapse into a single backend fetch.
//
// An entirely empty worksheet is initialized with the schema header row
// before the first read; that write happens at most once per empty sheet.
func (s *RecordStore) Load(ctx context.Context) (*Snapshot, error) {
	if snap, ok := s.cache.Get(ctx); ok {
		if s.metrics != nil {
			s.metrics.SnapshotCacheHits.Inc()
		}
		return snap, nil
	}

	v, err, _ := s.group.Do("load", func() (any, error) {
		// Another waiter may have populated the cache while we queued.
		if snap, ok := s.cache.Get(ctx); ok {
			return snap, nil
		}
		return s.loadRemote(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (s *RecordStore) loadRemote(ctx context.Context) (*Snapshot, error) {
	grid, err := s.backend.Values(ctx)
	if err != nil {
		return nil, err
	}

	if len(grid) == 0 {
		// First contact with a fresh sheet: write the header, then re-read.
		// Non-atomic with any subsequent row write; a failure here leaves an
		// empty sheet, a failure after leaves a header-only sheet. Both are
		// valid states for the next load.
		s.logger.InfoContext(ctx, "empty worksheet, writing schema header")
		if err := s.backend.Append(ctx, schema.Columns); err != nil {
			return nil, err
		}
		grid, err = s.backend.Values(ctx)
		if err != nil {
			return nil, err
		}
	}

	header := grid[0]
	if len(header) == 0 {
		return nil, dErrors.New(dErrors.CodeSchemaMismatch, "worksheet header row is empty")
	}

	rows := make([]models.Member, 0, len(grid)-1)
	for i, raw := range grid[1:] {
		cols := make(map[string]string, len(header))
		for j, name := range header {
			if j < len(raw) {
				cols[name] = raw[j]
			}
		}
		// Columns absent from the header or truncated off the row read as
		// "" through the map, which is exactly the synthesized-empty
		// semantic the schema demands.
		rows = append(rows, models.FromColumns(cols, i+2))
	}

	snap := &Snapshot{Rows: rows, LoadedAt: s.now()}
	s.cache.Set(ctx, snap)
	if s.metrics != nil {
		s.metrics.SnapshotLoads.Inc()
	}
	s.logger.DebugContext(ctx, "snapshot loaded", "rows", len(rows))
	return snap, nil
}

// Append persists a new record. The live header is re-read rather than
// trusted from the cache, because the sheet may have grown columns the
// cached snapshot predates. The cache is invalidated synchronously with the
// write's success.
func (s *RecordStore) Append(ctx context.Context, upd models.Update) error {
	header, err := s.ensureHeader(ctx)
	if err != nil {
		return err
	}

	cols := upd.Columns()
	row := make([]string, len(header))
	for i, name := range header {
		row[i] = cols[name]
	}

	if err := s.backend.Append(ctx, row); err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	if s.metrics != nil {
		s.metrics.MembersCreated.Inc()
	}
	return nil
}

// Update overwrites one physical row in place. Only columns present in upd
// change; everything else is written back byte-for-byte. rowPosition must
// come from a snapshot of the same load cycle.
func (s *RecordStore) Update(ctx context.Context, rowPosition int, upd models.Update) error {
	if rowPosition < 2 {
		return dErrors.Newf(dErrors.CodeBadRequest, "row position %d does not address a data row", rowPosition)
	}

	header, err := s.liveHeader(ctx)
	if err != nil {
		return err
	}

	current, err := s.backend.Row(ctx, rowPosition)
	if err != nil {
		return err
	}
	// The API truncates trailing empty cells; pad back to the header width.
	for len(current) < len(header) {
		current = append(current, "")
	}

	cols := upd.Columns()
	for i, name := range header {
		if v, ok := cols[name]; ok {
			current[i] = v
		}
	}

	a1 := fmt.Sprintf("A%d:%s%d", rowPosition, schema.ColumnLetter(len(header)), rowPosition)
	if err := s.backend.UpdateRange(ctx, a1, current); err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	if s.metrics != nil {
		s.metrics.MembersUpdated.Inc()
	}
	return nil
}

// ensureHeader reads the live header, writing the schema header first when
// the sheet is empty. This is the explicit first phase of the non-atomic
// ensure-header-then-write-row sequence: if the row write that follows
// fails, the header stays, and callers must tolerate that partially
// migrated state.
func (s *RecordStore) ensureHeader(ctx context.Context) ([]string, error) {
	header, err := s.backend.Header(ctx)
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		return header, nil
	}

	s.logger.InfoContext(ctx, "empty worksheet, writing schema header before append")
	if err := s.backend.Append(ctx, schema.Columns); err != nil {
		return nil, err
	}
	return append([]string(nil), schema.Columns...), nil
}

// liveHeader reads the live header and refuses to proceed without one: an
// update against a headerless sheet has nothing to align columns to.
func (s *RecordStore) liveHeader(ctx context.Context) ([]string, error) {
	header, err := s.backend.Header(ctx)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, dErrors.New(dErrors.CodeSchemaMismatch, "worksheet has no header row")
	}
	return header, nil
}
