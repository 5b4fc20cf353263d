package movement

import (
	"time"

	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/validator"
)

// ========================================
// MOVEMENT REQUEST DTOs
// ========================================

type CreateMovementRequest struct {
	EmployeeNumber int    `json:"-" validate:"gt=0"`
	IncidentDate   string `json:"incident_date" validate:"required,datetime=2006-01-02"`
	MovementType   string `json:"movement_type" validate:"required,max=100"`
	Comments       string `json:"comments" validate:"max=500"`
}

func (r *CreateMovementRequest) Validate() error {
	return validator.Struct(r)
}

type MyMovementFilter struct {
	EmployeeNumber int     `json:"-"`
	StartDate      *string `json:"start_date,omitempty"`
	EndDate        *string `json:"end_date,omitempty"`
}

func (f *MyMovementFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeNumber <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_number",
			Message: "employee_number must be a positive number",
		})
	}

	var start, end string
	if f.StartDate != nil && *f.StartDate != "" {
		start = *f.StartDate
		if _, ok := validator.IsValidDate(start); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
			start = ""
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		end = *f.EndDate
		if _, ok := validator.IsValidDate(end); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
			end = ""
		}
	}
	if start != "" && end != "" && end < start {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range returns the filter's day span. Call Validate first.
func (f MyMovementFilter) Range() calendar.Range {
	var start, end string
	if f.StartDate != nil {
		start = *f.StartDate
	}
	if f.EndDate != nil {
		end = *f.EndDate
	}
	r, _ := calendar.ParseRange(start, end)
	return r
}

type MovementResponse struct {
	ID             int64   `json:"id"`
	EmployeeNumber int     `json:"employee_number"`
	IncidentDate   string  `json:"incident_date"`
	MovementType   string  `json:"movement_type"`
	ApprovalStatus string  `json:"approval_status"`
	ApprovalLevel  int     `json:"approval_level"`
	Comments       string  `json:"comments"`
	Details        Details `json:"details"`
	CreatedAt      string  `json:"created_at"`
}

func ToResponse(m Movement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		EmployeeNumber: m.EmployeeNumber,
		IncidentDate:   m.IncidentDate.String(),
		MovementType:   m.MovementType,
		ApprovalStatus: string(m.ApprovalStatus),
		ApprovalLevel:  m.ApprovalLevel,
		Comments:       m.Comments,
		Details:        m.Details,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}
