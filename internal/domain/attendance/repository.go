package attendance

import (
	"context"

	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
)

// RecordRepository reads raw rows from the time clock. The time clock is owned
// by another system, so there are no write methods.
type RecordRepository interface {
	// ListByEmployee returns the employee's rows inside r (open bounds allowed),
	// oldest first.
	ListByEmployee(ctx context.Context, employeeNumber int, r calendar.Range) ([]Record, error)

	// GetByEmployeeAndDate returns ErrRecordNotFound when the day has no row.
	GetByEmployeeAndDate(ctx context.Context, employeeNumber int, date calendar.Date) (Record, error)
}
