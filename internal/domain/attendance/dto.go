package attendance

import (
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/validator"
)

// ========================================
// DASHBOARD DTOs
// ========================================

type DashboardFilter struct {
	EmployeeNumber int     `json:"-"`
	StartDate      *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate        *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *DashboardFilter) Validate() error {
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
func (f DashboardFilter) Range() calendar.Range {
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

type SummaryResponse struct {
	Attendances        int `json:"attendances"`
	Tardies            int `json:"tardies"`
	Absences           int `json:"absences"`
	TotalDays          int `json:"total_days"`
	PunctualityPercent int `json:"punctuality_percent"`
}

type DayResponse struct {
	Date            string   `json:"date"`
	Weekday         string   `json:"weekday"`
	ScheduledEntry  string   `json:"scheduled_entry"`
	ScheduledExit   string   `json:"scheduled_exit"`
	AttendanceType  string   `json:"attendance_type"`
	Incidence       string   `json:"incidence"`
	IncidenceName   *string  `json:"incidence_name"`
	Classification  string   `json:"classification"`
	Justified       bool     `json:"justified"`
	RequestStatus   *string  `json:"request_status,omitempty"`
	RequestType     *string  `json:"request_type,omitempty"`
	ActionAvailable bool     `json:"action_available"`
	MovementOptions []string `json:"movement_options,omitempty"`
	RowTone         string   `json:"row_tone"`
}

type DashboardResponse struct {
	EmployeeNumber int             `json:"employee_number"`
	StartDate      *string         `json:"start_date,omitempty"`
	EndDate        *string         `json:"end_date,omitempty"`
	Summary        SummaryResponse `json:"summary"`
	Days           []DayResponse   `json:"days"`
	AmbiguousDates []string        `json:"ambiguous_dates,omitempty"`
	FetchedAt      string          `json:"fetched_at"`
	Stale          bool            `json:"stale"`
}

type IncidenceOptionsResponse struct {
	Options map[string][]string `json:"options"`
}

// ========================================
// LIVE VIEW EVENTS
// ========================================

const (
	EventDashboard       = "dashboard"
	EventRefreshFailed   = "refresh_failed"
	EventMovementCreated = "movement_created"
	EventClock           = "clock"
)

// ClockEvent carries the server's wall clock in the portal's zone. Each tick
// reads the clock afresh instead of adding to the previous value.
type ClockEvent struct {
	Now string `json:"now"`
}

type MovementCreatedEvent struct {
	EmployeeNumber int `json:"employee_number"`
}

type RefreshFailedEvent struct {
	Message    string `json:"message"`
	FailedAt   string `json:"failed_at"`
	LastGoodAt string `json:"last_good_at,omitempty"`
}
