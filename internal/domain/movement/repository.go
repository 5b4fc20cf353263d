package movement

import (
	"context"

	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
)

// MovementRepository - interface for movement_requests table
type MovementRepository interface {
	// Create inserts a new request and returns it with id and timestamps set.
	Create(ctx context.Context, m Movement) (Movement, error)

	// ListByEmployee returns the employee's requests inside r ordered by
	// submission (created_at, id) ascending. The reconciler relies on this order.
	ListByEmployee(ctx context.Context, employeeNumber int, r calendar.Range) ([]Movement, error)

	// ExistsForDate reports whether any request, whatever its status, exists for the day.
	ExistsForDate(ctx context.Context, employeeNumber int, date calendar.Date) (bool, error)
}
