package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/employee"
)

type fakeEmployeeRepo struct {
	employees map[int]employee.Employee
	err       error
}

func (f *fakeEmployeeRepo) GetByNumber(ctx context.Context, number int) (employee.Employee, error) {
	if f.err != nil {
		return employee.Employee{}, f.err
	}
	e, ok := f.employees[number]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func TestGetByNumber(t *testing.T) {
	repo := &fakeEmployeeRepo{employees: map[int]employee.Employee{
		1001: {
			Number:       1001,
			FirstName:    "Ana",
			PaternalName: "López",
			MaternalName: "García",
			Position:     "Analista",
			Department:   "Sistemas",
			Status:       employee.StatusActive,
		},
	}}
	svc := NewEmployeeService(repo)

	resp, err := svc.GetByNumber(context.Background(), 1001)
	require.NoError(t, err)

	assert.Equal(t, "Ana López García", resp.FullName)
	assert.Equal(t, employee.PayPeriodUnspecified, resp.PayPeriodType)
	assert.True(t, resp.Active)
}

func TestGetByNumber_NotFound(t *testing.T) {
	svc := NewEmployeeService(&fakeEmployeeRepo{})

	_, err := svc.GetByNumber(context.Background(), 42)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetByNumber_RepositoryError(t *testing.T) {
	svc := NewEmployeeService(&fakeEmployeeRepo{err: errors.New("connection refused")})

	_, err := svc.GetByNumber(context.Background(), 1001)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestFullName_SkipsEmptyParts(t *testing.T) {
	assert.Equal(t, "Ana", employee.Employee{FirstName: "Ana"}.FullName())
	assert.Equal(t, "Ana García", employee.Employee{FirstName: "Ana", MaternalName: "García"}.FullName())
}
