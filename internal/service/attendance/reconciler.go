package attendance

import (
	"math"
	"sort"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/movement"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
)

// Reconcile classifies every counted record against the employee's movement
// requests and aggregates the counters. movements must be in submission order
// (the repository returns them that way); later entries win on the same day.
//
// Reconcile is pure: it neither mutates its inputs nor keeps state.
func Reconcile(records []attendance.Record, movements []movement.Movement) attendance.Reconciliation {
	justified, ambiguous := justificationsByDate(movements)
	latest := latestByDate(movements)

	out := attendance.Reconciliation{
		Days:           make([]attendance.DayClassification, 0, len(records)),
		AmbiguousDates: ambiguous,
	}

	for _, rec := range records {
		if rec.IsNoDuty() {
			continue
		}

		day := attendance.DayClassification{Record: rec}
		day.Classification, day.Justified = classify(rec, justified)

		if m, ok := latest[rec.Date]; ok && !rec.Date.IsZero() {
			day.Overlay = &attendance.Overlay{
				Status:       overlayStatus(m.ApprovalStatus),
				MovementType: m.MovementType,
			}
		}
		day.ActionAvailable = rec.HasIncidence() && day.Overlay == nil

		switch day.Classification {
		case attendance.ClassificationAttendance:
			out.Summary.Attendances++
		case attendance.ClassificationTardy:
			out.Summary.Tardies++
		case attendance.ClassificationAbsence:
			out.Summary.Absences++
		}
		out.Days = append(out.Days, day)
	}

	out.Summary.TotalDays = out.Summary.Attendances + out.Summary.Tardies + out.Summary.Absences
	out.Summary.PunctualityPercent = Punctuality(out.Summary.Attendances, out.Summary.TotalDays)
	return out
}

// Punctuality returns attendances/total as a whole percentage rounded half up,
// or 0 when there is nothing to count.
func Punctuality(attendances, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(attendances)/float64(total)*100 + 0.5))
}

func classify(rec attendance.Record, justified map[calendar.Date]string) (attendance.Classification, bool) {
	if !rec.HasIncidence() {
		return attendance.ClassificationAttendance, false
	}

	var justification string
	if !rec.Date.IsZero() {
		justification = justified[rec.Date]
	}

	if *rec.IncidenceName == attendance.IncidenceTardyE1 {
		if justification == movement.TypeJustifiedTardy {
			return attendance.ClassificationAttendance, true
		}
		return attendance.ClassificationTardy, false
	}

	// Unknown incidences land here too.
	if justification == movement.TypeJustifiedAbsence {
		return attendance.ClassificationAttendance, true
	}
	return attendance.ClassificationAbsence, false
}

// justificationsByDate maps each day to the type of its last approved request.
// Days that saw approved requests of differing types are reported, sorted.
func justificationsByDate(movements []movement.Movement) (map[calendar.Date]string, []calendar.Date) {
	byDate := make(map[calendar.Date]string)
	conflicting := make(map[calendar.Date]bool)

	for _, m := range movements {
		if !m.IsApproved() || m.IncidentDate.IsZero() {
			continue
		}
		if prev, ok := byDate[m.IncidentDate]; ok && prev != m.MovementType {
			conflicting[m.IncidentDate] = true
		}
		byDate[m.IncidentDate] = m.MovementType
	}

	if len(conflicting) == 0 {
		return byDate, nil
	}
	dates := make([]calendar.Date, 0, len(conflicting))
	for d := range conflicting {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return byDate, dates
}

func latestByDate(movements []movement.Movement) map[calendar.Date]movement.Movement {
	latest := make(map[calendar.Date]movement.Movement, len(movements))
	for _, m := range movements {
		if m.IncidentDate.IsZero() {
			continue
		}
		latest[m.IncidentDate] = m
	}
	return latest
}

func overlayStatus(s movement.ApprovalStatus) attendance.RequestOverlay {
	switch s {
	case movement.StatusPending:
		return attendance.OverlayRequested
	case movement.StatusApproved:
		return attendance.OverlayApproved
	case movement.StatusRejected:
		return attendance.OverlayRejected
	default:
		return attendance.OverlayPendingReview
	}
}
