package employee

import "context"

type EmployeeService interface {
	GetByNumber(ctx context.Context, number int) (EmployeeResponse, error)
}
