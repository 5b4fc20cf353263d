package attendance

import (
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
)

const (
	// IncidenceCodeNoDuty marks a day with no attendance obligation.
	// Such rows never count and are never shown.
	IncidenceCodeNoDuty = "SD"

	// IncidenceTardyE1 is the only incidence counted as a tardy instead of an absence.
	IncidenceTardyE1 = "Retardo E1"

	// UnscheduledTime is what the time clock reports for an empty schedule slot.
	UnscheduledTime = "00:00"
)

// Record is one row of the time clock for one employee and one calendar day.
// Records are read-only: they are fetched fresh on every refresh.
type Record struct {
	EmployeeNumber int
	Date           calendar.Date
	WeekdayAbbrev  string
	IncidenceCode  string
	IncidenceName  *string
	ScheduledEntry *string
	ScheduledExit  *string
	ActualEntry    *string
	ActualExit     *string
	AttendanceType *string
}

// IsNoDuty reports whether the record is excluded from counts and display.
func (r Record) IsNoDuty() bool {
	return r.IncidenceCode == IncidenceCodeNoDuty
}

// HasIncidence reports whether the time clock attached an incidence to the day.
func (r Record) HasIncidence() bool {
	return r.IncidenceName != nil
}

type Classification string

const (
	ClassificationAttendance Classification = "ATTENDANCE"
	ClassificationTardy      Classification = "TARDY"
	ClassificationAbsence    Classification = "ABSENCE"
)

// RequestOverlay is the display status derived from the latest movement
// request for a day. It never feeds the counters.
type RequestOverlay string

const (
	OverlayRequested     RequestOverlay = "REQUESTED"
	OverlayApproved      RequestOverlay = "APPROVED"
	OverlayRejected      RequestOverlay = "REJECTED"
	OverlayPendingReview RequestOverlay = "PENDING-REVIEW"
)

// Overlay pairs the request status with the movement type it carries.
type Overlay struct {
	Status       RequestOverlay
	MovementType string
}

// DayClassification is the reconciled view of one counted record.
type DayClassification struct {
	Record          Record
	Classification  Classification
	Justified       bool
	Overlay         *Overlay
	ActionAvailable bool
}

// Summary holds the aggregate counters over the classified days.
type Summary struct {
	Attendances        int
	Tardies            int
	Absences           int
	TotalDays          int
	PunctualityPercent int
}

// Reconciliation is the full output of reconciling one snapshot.
type Reconciliation struct {
	Days    []DayClassification
	Summary Summary

	// AmbiguousDates lists days with more than one approved request of
	// differing types. The last one in submission order was applied.
	AmbiguousDates []calendar.Date
}
