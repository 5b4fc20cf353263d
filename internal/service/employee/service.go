package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
}

func NewEmployeeService(employeeRepository employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{EmployeeRepository: employeeRepository}
}

// GetByNumber implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByNumber(ctx context.Context, number int) (employee.EmployeeResponse, error) {
	emp, err := s.EmployeeRepository.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee %d: %w", number, err)
	}
	return employee.ToResponse(emp), nil
}
