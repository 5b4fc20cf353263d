package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByNumber implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByNumber(ctx context.Context, number int) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT number, first_name, paternal_name, maternal_name, position, department,
			pay_period_type, status, photo_url, created_at, updated_at
		FROM employees
		WHERE number = $1
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, number).Scan(
		&emp.Number, &emp.FirstName, &emp.PaternalName, &emp.MaternalName,
		&emp.Position, &emp.Department, &emp.PayPeriodType, &emp.Status,
		&emp.PhotoURL, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %d: %w", number, err)
	}
	return emp, nil
}
