package employee

import "context"

type EmployeeRepository interface {
	// GetByNumber returns ErrEmployeeNotFound when no employee has that number.
	GetByNumber(ctx context.Context, number int) (Employee, error)
}
