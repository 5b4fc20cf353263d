package movement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/movement"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/incidence"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/validator"
)

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []movement.Movement
	createErr error
}

func (f *fakeMovementRepo) Create(ctx context.Context, m movement.Movement) (movement.Movement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return movement.Movement{}, f.createErr
	}
	m.ID = int64(len(f.movements) + 1)
	m.CreatedAt = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	m.UpdatedAt = m.CreatedAt
	f.movements = append(f.movements, m)
	return m, nil
}

func (f *fakeMovementRepo) ListByEmployee(ctx context.Context, employeeNumber int, r calendar.Range) ([]movement.Movement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []movement.Movement
	for _, m := range f.movements {
		if m.EmployeeNumber == employeeNumber && r.Contains(m.IncidentDate) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) ExistsForDate(ctx context.Context, employeeNumber int, date calendar.Date) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.movements {
		if m.EmployeeNumber == employeeNumber && m.IncidentDate == date {
			return true, nil
		}
	}
	return false, nil
}

type fakeRecordRepo struct {
	records []attendance.Record
}

func (f *fakeRecordRepo) ListByEmployee(ctx context.Context, employeeNumber int, r calendar.Range) ([]attendance.Record, error) {
	return f.records, nil
}

func (f *fakeRecordRepo) GetByEmployeeAndDate(ctx context.Context, employeeNumber int, date calendar.Date) (attendance.Record, error) {
	for _, rec := range f.records {
		if rec.EmployeeNumber == employeeNumber && rec.Date == date {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

type fakeNotifier struct {
	mu        sync.Mutex
	employees []int
}

func (f *fakeNotifier) NotifyMovementChange(ctx context.Context, employeeNumber int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employees = append(f.employees, employeeNumber)
}

func strPtr(s string) *string { return &s }

func testRecords() []attendance.Record {
	return []attendance.Record{
		{EmployeeNumber: 1001, Date: calendar.MustParse("2024-01-01")},
		{EmployeeNumber: 1001, Date: calendar.MustParse("2024-01-02"), IncidenceName: strPtr("Retardo E1"),
			ActualEntry: strPtr("09:17"), ActualExit: strPtr("18:00")},
		{EmployeeNumber: 1001, Date: calendar.MustParse("2024-01-03"), IncidenceName: strPtr("Salida anticipada"),
			ActualEntry: strPtr("09:00"), ActualExit: strPtr("15:30")},
		{EmployeeNumber: 1001, Date: calendar.MustParse("2024-01-06"), IncidenceCode: "SD", IncidenceName: strPtr("Descanso")},
	}
}

func newTestService() (movement.MovementService, *fakeMovementRepo, *fakeNotifier) {
	repo := &fakeMovementRepo{}
	notifier := &fakeNotifier{}
	table := incidence.New(map[string][]string{
		"Retardo E1":        {"Retardo justificado"},
		"Salida anticipada": {"Salida anticipada"},
	})
	svc := NewMovementService(repo, &fakeRecordRepo{records: testRecords()}, incidence.Static{T: table}, notifier)
	return svc, repo, notifier
}

func TestCreate(t *testing.T) {
	svc, repo, notifier := newTestService()

	resp, err := svc.Create(context.Background(), movement.CreateMovementRequest{
		EmployeeNumber: 1001,
		IncidentDate:   "2024-01-02",
		MovementType:   "Retardo justificado",
		Comments:       "Tráfico en periférico",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "pending", resp.ApprovalStatus)
	assert.Equal(t, 1, resp.ApprovalLevel)
	assert.Equal(t, "2024-01-02", resp.IncidentDate)
	assert.Equal(t, movement.Details{EntryTime: "09:17", DelayTime: "09:17"}, resp.Details)
	assert.Equal(t, "2024-01-05T10:00:00Z", resp.CreatedAt)

	require.Len(t, repo.movements, 1)
	assert.Equal(t, []int{1001}, notifier.employees)
}

func TestCreate_EarlyDepartureDetails(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Create(context.Background(), movement.CreateMovementRequest{
		EmployeeNumber: 1001,
		IncidentDate:   "2024-01-03",
		MovementType:   "Salida anticipada",
	})
	require.NoError(t, err)

	assert.Equal(t, movement.Details{EntryTime: "09:00", EarlyTime: "15:30"}, resp.Details)
}

func TestCreate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		req     movement.CreateMovementRequest
		wantErr error
	}{
		{
			name:    "no record for the day",
			req:     movement.CreateMovementRequest{EmployeeNumber: 1001, IncidentDate: "2024-01-04", MovementType: "Falta justificada"},
			wantErr: attendance.ErrRecordNotFound,
		},
		{
			name:    "day without incidence",
			req:     movement.CreateMovementRequest{EmployeeNumber: 1001, IncidentDate: "2024-01-01", MovementType: "Retardo justificado"},
			wantErr: movement.ErrNothingToJustify,
		},
		{
			name:    "no-duty day",
			req:     movement.CreateMovementRequest{EmployeeNumber: 1001, IncidentDate: "2024-01-06", MovementType: "Falta justificada"},
			wantErr: movement.ErrNothingToJustify,
		},
		{
			name:    "type not offered for the incidence",
			req:     movement.CreateMovementRequest{EmployeeNumber: 1001, IncidentDate: "2024-01-02", MovementType: "Falta justificada"},
			wantErr: movement.ErrMovementTypeNotAllowed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, notifier := newTestService()
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.movements)
			assert.Empty(t, notifier.employees)
		})
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc, _, _ := newTestService()
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.Create(context.Background(), movement.CreateMovementRequest{
		EmployeeNumber: 1001,
		IncidentDate:   "02/01/2024",
		Comments:       string(long),
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "incident_date")
	assert.Contains(t, fields, "movement_type")
	assert.Contains(t, fields, "comments")
}

func TestCreate_SecondRequestForSameDay(t *testing.T) {
	svc, repo, _ := newTestService()
	req := movement.CreateMovementRequest{
		EmployeeNumber: 1001,
		IncidentDate:   "2024-01-02",
		MovementType:   "Retardo justificado",
	}

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, movement.ErrMovementAlreadyRequested)
	assert.Len(t, repo.movements, 1)
}

func TestCreate_RepositoryFailure(t *testing.T) {
	svc, repo, notifier := newTestService()
	repo.createErr = errors.New("connection reset")

	_, err := svc.Create(context.Background(), movement.CreateMovementRequest{
		EmployeeNumber: 1001,
		IncidentDate:   "2024-01-02",
		MovementType:   "Retardo justificado",
	})

	assert.Error(t, err)
	assert.Empty(t, notifier.employees)
}

func TestListMine(t *testing.T) {
	svc, _, _ := newTestService()
	for _, date := range []string{"2024-01-02", "2024-01-03"} {
		typ := "Retardo justificado"
		if date == "2024-01-03" {
			typ = "Salida anticipada"
		}
		_, err := svc.Create(context.Background(), movement.CreateMovementRequest{
			EmployeeNumber: 1001, IncidentDate: date, MovementType: typ,
		})
		require.NoError(t, err)
	}

	all, err := svc.ListMine(context.Background(), movement.MyMovementFilter{EmployeeNumber: 1001})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(2), all[1].ID)

	start := "2024-01-03"
	some, err := svc.ListMine(context.Background(), movement.MyMovementFilter{EmployeeNumber: 1001, StartDate: &start})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "Salida anticipada", some[0].MovementType)

	_, err = svc.ListMine(context.Background(), movement.MyMovementFilter{})
	assert.Error(t, err)
}

func TestListMine_EndBeforeStart(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.movements = []movement.Movement{
		{ID: 1, EmployeeNumber: 1001, IncidentDate: calendar.MustParse("2023-06-01"), MovementType: "Falta justificada", ApprovalStatus: movement.StatusPending},
		{ID: 2, EmployeeNumber: 1001, IncidentDate: calendar.MustParse("2024-06-01"), MovementType: "Falta justificada", ApprovalStatus: movement.StatusPending},
	}
	start, end := "2024-02-01", "2024-01-01"

	rows, err := svc.ListMine(context.Background(), movement.MyMovementFilter{
		EmployeeNumber: 1001, StartDate: &start, EndDate: &end,
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "end_date")
	assert.Nil(t, rows)
}
