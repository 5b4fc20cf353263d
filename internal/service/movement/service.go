package movement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/movement"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/incidence"
)

// Notifier is told when an employee's requests change so open dashboards
// can refresh without waiting for their next tick.
type Notifier interface {
	NotifyMovementChange(ctx context.Context, employeeNumber int)
}

type MovementServiceImpl struct {
	movement.MovementRepository
	records    attendance.RecordRepository
	incidences incidence.Source
	notifier   Notifier
}

func NewMovementService(
	movementRepo movement.MovementRepository,
	recordRepo attendance.RecordRepository,
	incidences incidence.Source,
	notifier Notifier,
) movement.MovementService {
	return &MovementServiceImpl{
		MovementRepository: movementRepo,
		records:            recordRepo,
		incidences:         incidences,
		notifier:           notifier,
	}
}

// Create implements movement.MovementService.
func (s *MovementServiceImpl) Create(ctx context.Context, req movement.CreateMovementRequest) (movement.MovementResponse, error) {
	if err := req.Validate(); err != nil {
		return movement.MovementResponse{}, err
	}

	date, err := calendar.Parse(req.IncidentDate)
	if err != nil {
		return movement.MovementResponse{}, err
	}

	rec, err := s.records.GetByEmployeeAndDate(ctx, req.EmployeeNumber, date)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return movement.MovementResponse{}, err
		}
		return movement.MovementResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if rec.IsNoDuty() || !rec.HasIncidence() {
		return movement.MovementResponse{}, movement.ErrNothingToJustify
	}

	if !s.incidences.Table().Allows(*rec.IncidenceName, req.MovementType) {
		return movement.MovementResponse{}, movement.ErrMovementTypeNotAllowed
	}

	exists, err := s.MovementRepository.ExistsForDate(ctx, req.EmployeeNumber, date)
	if err != nil {
		return movement.MovementResponse{}, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if exists {
		return movement.MovementResponse{}, movement.ErrMovementAlreadyRequested
	}

	created, err := s.MovementRepository.Create(ctx, movement.Movement{
		EmployeeNumber: req.EmployeeNumber,
		IncidentDate:   date,
		MovementType:   req.MovementType,
		ApprovalStatus: movement.StatusPending,
		ApprovalLevel:  movement.DefaultApprovalLevel,
		Comments:       req.Comments,
		Details:        movement.DetailsFor(req.MovementType, deref(rec.ActualEntry), deref(rec.ActualExit)),
	})
	if err != nil {
		if errors.Is(err, movement.ErrMovementAlreadyRequested) {
			return movement.MovementResponse{}, err
		}
		slog.Error("Failed to submit movement request",
			"employee_number", req.EmployeeNumber,
			"incident_date", req.IncidentDate,
			"movement_type", req.MovementType,
			"error", err)
		return movement.MovementResponse{}, fmt.Errorf("failed to create movement request: %w", err)
	}

	slog.Info("Movement request submitted",
		"id", created.ID,
		"employee_number", created.EmployeeNumber,
		"incident_date", created.IncidentDate.String(),
		"movement_type", created.MovementType)

	if s.notifier != nil {
		s.notifier.NotifyMovementChange(ctx, created.EmployeeNumber)
	}

	return movement.ToResponse(created), nil
}

// ListMine implements movement.MovementService.
func (s *MovementServiceImpl) ListMine(ctx context.Context, filter movement.MyMovementFilter) ([]movement.MovementResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	movements, err := s.MovementRepository.ListByEmployee(ctx, filter.EmployeeNumber, filter.Range())
	if err != nil {
		return nil, fmt.Errorf("failed to list movement requests: %w", err)
	}

	out := make([]movement.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, movement.ToResponse(m))
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
