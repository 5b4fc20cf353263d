package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/movement"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/incidence"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/sse"
)

// Options tune the dashboard refresh. Zero values take the defaults.
type Options struct {
	Location        *time.Location
	RefreshInterval time.Duration
	ClockInterval   time.Duration
	SnapshotTTL     time.Duration
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = time.Minute
	}
	if o.ClockInterval <= 0 {
		o.ClockInterval = time.Second
	}
	if o.SnapshotTTL <= 0 {
		o.SnapshotTTL = 30 * time.Minute
	}
	return o
}

type AttendanceServiceImpl struct {
	records    attendance.RecordRepository
	movements  movement.MovementRepository
	incidences incidence.Source
	hub        *sse.Hub
	store      *SnapshotStore
	views      *viewRegistry
	opts       Options
}

func NewAttendanceService(
	records attendance.RecordRepository,
	movements movement.MovementRepository,
	incidences incidence.Source,
	hub *sse.Hub,
	opts Options,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		records:    records,
		movements:  movements,
		incidences: incidences,
		hub:        hub,
		store:      NewSnapshotStore(),
		views:      newViewRegistry(),
		opts:       opts.withDefaults(),
	}
}

// refresh fetches both sources concurrently and replaces the view's
// snapshot. On failure the stored snapshot is left untouched.
func (s *AttendanceServiceImpl) refresh(ctx context.Context, key ViewKey) (Snapshot, error) {
	var (
		records   []attendance.Record
		movements []movement.Movement
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.records.ListByEmployee(gctx, key.EmployeeNumber, key.Range)
		if err != nil {
			return fmt.Errorf("failed to fetch attendance records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		movements, err = s.movements.ListByEmployee(gctx, key.EmployeeNumber, key.Range)
		if err != nil {
			return fmt.Errorf("failed to fetch movement requests: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", attendance.ErrSourceUnavailable, err)
	}

	snap := Snapshot{
		Records:   records,
		Movements: movements,
		FetchedAt: time.Now(),
	}
	s.store.Put(key, snap)
	return snap, nil
}

// GetDashboard implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDashboard(ctx context.Context, filter attendance.DashboardFilter) (attendance.DashboardResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.DashboardResponse{}, err
	}

	key := ViewKey{EmployeeNumber: filter.EmployeeNumber, Range: filter.Range()}
	snap, err := s.refresh(ctx, key)
	stale := false
	if err != nil {
		cached, ok := s.store.Get(key)
		if !ok {
			slog.Error("Dashboard refresh failed with no previous snapshot",
				"employee_number", filter.EmployeeNumber, "error", err)
			return attendance.DashboardResponse{}, fmt.Errorf("%w: %w", attendance.ErrNoSnapshot, err)
		}
		slog.Warn("Dashboard refresh failed, serving previous snapshot",
			"employee_number", filter.EmployeeNumber,
			"fetched_at", cached.FetchedAt,
			"error", err)
		snap, stale = cached, true
	}

	return s.build(filter, snap, stale), nil
}

func (s *AttendanceServiceImpl) build(filter attendance.DashboardFilter, snap Snapshot, stale bool) attendance.DashboardResponse {
	rec := Reconcile(snap.Records, snap.Movements)

	var ambiguous []string
	if len(rec.AmbiguousDates) > 0 {
		ambiguous = make([]string, 0, len(rec.AmbiguousDates))
		for _, d := range rec.AmbiguousDates {
			ambiguous = append(ambiguous, d.String())
		}
		slog.Warn("Several approved movement requests of different types for the same day",
			"employee_number", filter.EmployeeNumber,
			"dates", ambiguous)
	}

	return attendance.DashboardResponse{
		EmployeeNumber: filter.EmployeeNumber,
		StartDate:      filter.StartDate,
		EndDate:        filter.EndDate,
		Summary: attendance.SummaryResponse{
			Attendances:        rec.Summary.Attendances,
			Tardies:            rec.Summary.Tardies,
			Absences:           rec.Summary.Absences,
			TotalDays:          rec.Summary.TotalDays,
			PunctualityPercent: rec.Summary.PunctualityPercent,
		},
		Days:           PresentDays(rec.Days, s.incidences.Table()),
		AmbiguousDates: ambiguous,
		FetchedAt:      snap.FetchedAt.In(s.opts.Location).Format(time.RFC3339),
		Stale:          stale,
	}
}

// IncidenceOptions implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) IncidenceOptions(ctx context.Context) attendance.IncidenceOptionsResponse {
	return attendance.IncidenceOptionsResponse{Options: s.incidences.Table().All()}
}

// PruneSnapshots implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PruneSnapshots(ctx context.Context) error {
	if removed := s.store.Prune(s.opts.SnapshotTTL); removed > 0 {
		slog.Info("Pruned idle dashboard snapshots", "removed", removed, "remaining", s.store.Len())
	}
	return nil
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
