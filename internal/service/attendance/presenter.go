package attendance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/incidence"
)

// Placeholder is rendered for empty or unscheduled cells.
const Placeholder = "—"

// Row tones tell the front-end how to color a table row.
const (
	ToneOverlay = "overlay"
	ToneOK      = "ok"
	ToneTardy   = "tardy"
	ToneAbsence = "absence"
)

var weekdayNames = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
}

// Abbreviations as the time clock writes them. "Mi?" is how the clock's
// export mangles "Mié".
var weekdayAbbrevs = map[string]time.Weekday{
	"Dom": time.Sunday,
	"Lun": time.Monday,
	"Mar": time.Tuesday,
	"Mi?": time.Wednesday,
	"Mié": time.Wednesday,
	"Mie": time.Wednesday,
	"Jue": time.Thursday,
	"Vie": time.Friday,
	"Sáb": time.Saturday,
	"Sab": time.Saturday,
}

// Title-cased once: a cases.Caser is not safe for concurrent use.
var titledWeekdays [7]string

func init() {
	title := cases.Title(language.Spanish)
	for i, name := range weekdayNames {
		titledWeekdays[i] = title.String(name)
	}
}

// WeekdayName expands the clock's abbreviation into the full Spanish name.
// Unknown abbreviations are shown as-is; a missing one falls back to the date.
func WeekdayName(abbrev string, date calendar.Date) string {
	abbrev = strings.TrimSpace(abbrev)
	if wd, ok := weekdayAbbrevs[abbrev]; ok {
		return titledWeekdays[wd]
	}
	if abbrev != "" {
		return abbrev
	}
	if date.IsZero() {
		return Placeholder
	}
	return titledWeekdays[date.Weekday()]
}

// ScheduledTime renders a scheduled slot, "00:00" and empty mean unscheduled.
func ScheduledTime(v *string) string {
	if v == nil {
		return Placeholder
	}
	s := strings.TrimSpace(*v)
	if s == "" || s == attendance.UnscheduledTime {
		return Placeholder
	}
	return s
}

func orPlaceholder(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return Placeholder
	}
	return *v
}

// IncidenceLabel is what the incidence column shows: the requested movement
// once a request exists, the raw incidence otherwise.
func IncidenceLabel(day attendance.DayClassification) string {
	if day.Overlay != nil {
		return fmt.Sprintf("Movimiento %q", day.Overlay.MovementType)
	}
	return orPlaceholder(day.Record.IncidenceName)
}

// RowTone follows the raw incidence, not the reconciled classification, so a
// justified tardy still reads as a tardy until a request is attached.
func RowTone(day attendance.DayClassification) string {
	switch {
	case day.Overlay != nil:
		return ToneOverlay
	case !day.Record.HasIncidence():
		return ToneOK
	case *day.Record.IncidenceName == attendance.IncidenceTardyE1:
		return ToneTardy
	default:
		return ToneAbsence
	}
}

// PresentDays turns reconciled days into table rows, newest first.
func PresentDays(days []attendance.DayClassification, table *incidence.Table) []attendance.DayResponse {
	rows := make([]attendance.DayResponse, 0, len(days))
	for _, day := range days {
		rec := day.Record
		row := attendance.DayResponse{
			Date:            rec.Date.String(),
			Weekday:         WeekdayName(rec.WeekdayAbbrev, rec.Date),
			ScheduledEntry:  ScheduledTime(rec.ScheduledEntry),
			ScheduledExit:   ScheduledTime(rec.ScheduledExit),
			AttendanceType:  orPlaceholder(rec.AttendanceType),
			Incidence:       IncidenceLabel(day),
			IncidenceName:   rec.IncidenceName,
			Classification:  string(day.Classification),
			Justified:       day.Justified,
			ActionAvailable: day.ActionAvailable,
			RowTone:         RowTone(day),
		}
		if day.Overlay != nil {
			status := string(day.Overlay.Status)
			movementType := day.Overlay.MovementType
			row.RequestStatus = &status
			row.RequestType = &movementType
		}
		if day.ActionAvailable {
			row.MovementOptions = table.Options(*rec.IncidenceName)
		}
		rows = append(rows, row)
	}

	// YYYY-MM-DD sorts lexically; undated rows end up last.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})
	return rows
}
