package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
)

// PruneDashboardSnapshotsEvery is how often idle dashboard snapshots are evicted.
const PruneDashboardSnapshotsEvery = 10 * time.Minute

type DashboardJobs struct {
	attendanceSvc attendance.AttendanceService
}

func NewDashboardJobs(attendanceSvc attendance.AttendanceService) *DashboardJobs {
	return &DashboardJobs{attendanceSvc: attendanceSvc}
}

func (j *DashboardJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_dashboard_snapshots", PruneDashboardSnapshotsEvery, j.PruneDashboardSnapshots)
}

func (j *DashboardJobs) PruneDashboardSnapshots(ctx context.Context) error {
	return j.attendanceSvc.PruneSnapshots(ctx)
}
