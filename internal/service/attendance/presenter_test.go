package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
)

func TestWeekdayName(t *testing.T) {
	tests := []struct {
		abbrev string
		date   string
		want   string
	}{
		{"Dom", "", "Domingo"},
		{"Lun", "", "Lunes"},
		{"Mar", "", "Martes"},
		{"Mi?", "", "Miércoles"},
		{"Mié", "", "Miércoles"},
		{"Jue", "", "Jueves"},
		{"Vie", "", "Viernes"},
		{"Sáb", "", "Sábado"},
		{"Sab", "", "Sábado"},
		{"Xyz", "", "Xyz"},
		{"", "2024-01-01", "Lunes"},
		{"", "", "—"},
	}
	for _, tt := range tests {
		var d calendar.Date
		if tt.date != "" {
			d = calendar.MustParse(tt.date)
		}
		assert.Equal(t, tt.want, WeekdayName(tt.abbrev, d), "abbrev %q date %q", tt.abbrev, tt.date)
	}
}

func TestScheduledTime(t *testing.T) {
	assert.Equal(t, "—", ScheduledTime(nil))
	assert.Equal(t, "—", ScheduledTime(strPtr("")))
	assert.Equal(t, "—", ScheduledTime(strPtr("00:00")))
	assert.Equal(t, "09:00", ScheduledTime(strPtr("09:00")))
}

func TestIncidenceLabelAndTone(t *testing.T) {
	tests := []struct {
		name      string
		day       attendance.DayClassification
		wantLabel string
		wantTone  string
	}{
		{
			name:      "clean day",
			day:       attendance.DayClassification{Record: record("2024-01-01", nil)},
			wantLabel: "—",
			wantTone:  ToneOK,
		},
		{
			name:      "tardy",
			day:       attendance.DayClassification{Record: record("2024-01-02", strPtr("Retardo E1"))},
			wantLabel: "Retardo E1",
			wantTone:  ToneTardy,
		},
		{
			name:      "absence",
			day:       attendance.DayClassification{Record: record("2024-01-03", strPtr("Falta"))},
			wantLabel: "Falta",
			wantTone:  ToneAbsence,
		},
		{
			name: "with request",
			day: attendance.DayClassification{
				Record:  record("2024-01-03", strPtr("Falta")),
				Overlay: &attendance.Overlay{Status: attendance.OverlayRequested, MovementType: "Falta justificada"},
			},
			wantLabel: `Movimiento "Falta justificada"`,
			wantTone:  ToneOverlay,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLabel, IncidenceLabel(tt.day))
			assert.Equal(t, tt.wantTone, RowTone(tt.day))
		})
	}
}

func TestPresentDays(t *testing.T) {
	rec := Reconcile([]attendance.Record{
		record("2024-01-01", nil),
		record("2024-01-03", strPtr("Falta")),
		record("2024-01-02", strPtr("Vacaciones")),
	}, nil)

	rows := PresentDays(rec.Days, testTable)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2024-01-03", "2024-01-02", "2024-01-01"},
		[]string{rows[0].Date, rows[1].Date, rows[2].Date})

	assert.Equal(t, "ABSENCE", rows[0].Classification)
	assert.Equal(t, []string{"Falta justificada", "Permiso con goce"}, rows[0].MovementOptions)

	// An incidence the table does not know is actionable but offers nothing.
	assert.True(t, rows[1].ActionAvailable)
	assert.Empty(t, rows[1].MovementOptions)

	assert.False(t, rows[2].ActionAvailable)
	assert.Equal(t, "—", rows[2].AttendanceType)
	assert.Nil(t, rows[2].RequestStatus)
}
