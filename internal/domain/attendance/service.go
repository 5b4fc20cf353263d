package attendance

import (
	"context"

	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/sse"
)

// AttendanceService defines the check-in/check-out dashboard operations
type AttendanceService interface {
	// GetDashboard refreshes the employee's snapshot and returns the reconciled view.
	// When the refresh fails and an earlier snapshot exists, that snapshot is
	// returned marked as stale.
	GetDashboard(ctx context.Context, filter DashboardFilter) (DashboardResponse, error)

	// Watch opens a live view: the dashboard is refreshed on a fixed interval
	// until ctx is cancelled. The channel is closed on teardown.
	Watch(ctx context.Context, filter DashboardFilter) (<-chan sse.Event, error)

	// NotifyMovementChange queues an immediate refresh of every live view of the
	// employee and returns without waiting for it.
	NotifyMovementChange(ctx context.Context, employeeNumber int)

	// IncidenceOptions returns the correction types allowed per incidence.
	IncidenceOptions(ctx context.Context) IncidenceOptionsResponse

	// PruneSnapshots drops cached snapshots nobody has read for a while.
	PruneSnapshots(ctx context.Context) error
}
