// Package service orchestrates member operations: search, registration,
// amendment, and dropdown option derivation. It owns validation and the
// write-side stamping of member_id and updated_at.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pauloqxm/adatualiza/internal/members/match"
	"github.com/pauloqxm/adatualiza/internal/members/models"
	"github.com/pauloqxm/adatualiza/internal/members/schema"
	"github.com/pauloqxm/adatualiza/internal/members/store"
	"github.com/pauloqxm/adatualiza/internal/platform/metrics"
	dErrors "github.com/pauloqxm/adatualiza/pkg/domain-errors"
	"github.com/pauloqxm/adatualiza/pkg/format"
)

// Service wires the record store to the domain rules.
type Service struct {
	store    *store.RecordStore
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics wires the prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs a Service. location is the timezone stamped into
// updated_at and used for "today" in birth-date validation.
func New(st *store.RecordStore, location *time.Location, opts ...Option) *Service {
	s := &Service{
		store:    st,
		location: location,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search loads the current snapshot and returns the candidates for q, each
// carrying the row position needed to amend it within this load cycle.
func (s *Service) Search(ctx context.Context, q match.Query) ([]models.Member, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	found := match.Find(snap, q)
	s.logger.InfoContext(ctx, "member search",
		"matches", len(found),
		"has_national_id", q.NationalID != "",
	)
	return found, nil
}

// Register validates, formats, and appends a new member. The assigned
// member_id is max(existing)+1 computed from the snapshot read here; that
// read-compute-append shape is not safe under concurrent registrars, a
// documented limitation carried over from the system this replaces.
func (s *Service) Register(ctx context.Context, upd models.Update) (int, error) {
	if errs := upd.Validate(s.today()); !errs.Empty() {
		return 0, dErrors.Wrap(errs, dErrors.CodeValidation, "invalid member data")
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}

	upd = upd.Formatted()
	id := snap.NextMemberID()
	upd.SetMemberID(id)
	upd.SetUpdatedAt(s.timestamp())

	if err := s.store.Append(ctx, upd); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "member registered", "member_id", id)
	return id, nil
}

// Amend validates, formats, and applies a partial in-place update to the row
// at rowPosition. member_id is never touched; updated_at always is.
func (s *Service) Amend(ctx context.Context, rowPosition int, upd models.Update) error {
	if errs := upd.Validate(s.today()); !errs.Empty() {
		return dErrors.Wrap(errs, dErrors.CodeValidation, "invalid member data")
	}

	upd = upd.Formatted()
	upd.SetUpdatedAt(s.timestamp())

	if err := s.store.Update(ctx, rowPosition, upd); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "member amended", "row_position", rowPosition)
	return nil
}

// Options are the dropdown lists a registration form needs.
type Options struct {
	Neighborhoods   []string `json:"neighborhoods"`
	MaritalStatuses []string `json:"marital_statuses"`
	Nationalities   []string `json:"nationalities"`
	Congregations   []string `json:"congregations"`
}

// Options derives the dropdown lists: neighborhoods are fixed; marital
// status and nationality merge the fixed defaults with whatever distinct
// values the sheet already holds; congregations come entirely from the
// sheet, with "OUTRO" standing in when no row names one yet.
func (s *Service) Options(ctx context.Context) (Options, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return Options{}, err
	}
	congregations := snap.Distinct(schema.ColCongregation)
	if len(congregations) == 0 {
		congregations = []string{"OUTRO"}
	}
	return Options{
		Neighborhoods:   models.Neighborhoods,
		MaritalStatuses: withDefaults(snap.Distinct(schema.ColMaritalStatus), models.MaritalStatuses),
		Nationalities:   withDefaults(snap.Distinct(schema.ColNationality), models.DefaultNationalities),
		Congregations:   congregations,
	}, nil
}

// withDefaults appends each default missing from the existing distinct
// values, keeping the sheet's values first.
func withDefaults(existing, defaults []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	out := existing
	for _, d := range defaults {
		if _, ok := seen[d]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// today is midnight of the current date in the registry's timezone,
// normalized to UTC for calendar comparison.
func (s *Service) today() time.Time {
	y, m, d := s.now().In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) timestamp() string {
	return format.DateTime(s.now().In(s.location))
}
