package attendance

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/movement"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
)

func strPtr(s string) *string { return &s }

func record(date string, incidence *string) attendance.Record {
	return attendance.Record{
		EmployeeNumber: 1001,
		Date:           calendar.MustParse(date),
		IncidenceName:  incidence,
	}
}

func approved(date, movementType string) movement.Movement {
	return movement.Movement{
		EmployeeNumber: 1001,
		IncidentDate:   calendar.MustParse(date),
		MovementType:   movementType,
		ApprovalStatus: movement.StatusApproved,
	}
}

func withStatus(m movement.Movement, s movement.ApprovalStatus) movement.Movement {
	m.ApprovalStatus = s
	return m
}

func scenarioRecords() []attendance.Record {
	return []attendance.Record{
		record("2024-01-01", nil),
		record("2024-01-02", strPtr("Retardo E1")),
		record("2024-01-03", strPtr("Falta")),
	}
}

func TestReconcile_ExcludesNoDutyDays(t *testing.T) {
	sd := record("2024-01-04", strPtr("Descanso"))
	sd.IncidenceCode = attendance.IncidenceCodeNoDuty
	sdClean := record("2024-01-05", nil)
	sdClean.IncidenceCode = attendance.IncidenceCodeNoDuty

	got := Reconcile(append(scenarioRecords(), sd, sdClean), nil)

	assert.Equal(t, 3, got.Summary.TotalDays)
	assert.Len(t, got.Days, 3)
	for _, d := range got.Days {
		assert.NotEqual(t, attendance.IncidenceCodeNoDuty, d.Record.IncidenceCode)
	}
}

func TestReconcile_NullIncidenceIsAttendance(t *testing.T) {
	movements := []movement.Movement{
		approved("2024-01-01", movement.TypeJustifiedAbsence),
		withStatus(approved("2024-01-01", movement.TypeJustifiedTardy), movement.StatusRejected),
	}

	got := Reconcile([]attendance.Record{record("2024-01-01", nil)}, movements)

	require.Len(t, got.Days, 1)
	assert.Equal(t, attendance.ClassificationAttendance, got.Days[0].Classification)
	assert.False(t, got.Days[0].Justified)
	assert.False(t, got.Days[0].ActionAvailable)
}

func TestReconcile_TardyJustification(t *testing.T) {
	rec := []attendance.Record{record("2024-01-02", strPtr("Retardo E1"))}

	tests := []struct {
		name      string
		movements []movement.Movement
		want      attendance.Classification
	}{
		{"no request", nil, attendance.ClassificationTardy},
		{"approved tardy justification", []movement.Movement{approved("2024-01-02", movement.TypeJustifiedTardy)}, attendance.ClassificationAttendance},
		{"approved absence justification does not apply", []movement.Movement{approved("2024-01-02", movement.TypeJustifiedAbsence)}, attendance.ClassificationTardy},
		{"pending request", []movement.Movement{withStatus(approved("2024-01-02", movement.TypeJustifiedTardy), movement.StatusPending)}, attendance.ClassificationTardy},
		{"other day", []movement.Movement{approved("2024-01-03", movement.TypeJustifiedTardy)}, attendance.ClassificationTardy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(rec, tt.movements)
			require.Len(t, got.Days, 1)
			assert.Equal(t, tt.want, got.Days[0].Classification)
		})
	}
}

func TestReconcile_AbsenceJustification(t *testing.T) {
	for _, incidence := range []string{"Falta", "Salida anticipada", "Something the clock invented"} {
		t.Run(incidence, func(t *testing.T) {
			rec := []attendance.Record{record("2024-01-03", strPtr(incidence))}

			got := Reconcile(rec, nil)
			assert.Equal(t, attendance.ClassificationAbsence, got.Days[0].Classification)

			got = Reconcile(rec, []movement.Movement{approved("2024-01-03", movement.TypeJustifiedAbsence)})
			assert.Equal(t, attendance.ClassificationAttendance, got.Days[0].Classification)
			assert.True(t, got.Days[0].Justified)

			got = Reconcile(rec, []movement.Movement{approved("2024-01-03", movement.TypeJustifiedTardy)})
			assert.Equal(t, attendance.ClassificationAbsence, got.Days[0].Classification)
		})
	}
}

func TestReconcile_SumAndPercentIdentity(t *testing.T) {
	inputs := [][]attendance.Record{
		nil,
		scenarioRecords(),
		{record("2024-02-01", nil), record("2024-02-02", nil)},
		{record("2024-02-01", strPtr("Falta")), record("2024-02-02", strPtr("Retardo E1"))},
		{record("2024-02-01", nil), record("2024-02-02", nil), record("2024-02-03", nil),
			record("2024-02-04", nil), record("2024-02-05", nil), record("2024-02-06", nil),
			record("2024-02-07", nil), record("2024-02-08", strPtr("Falta"))},
	}
	for _, recs := range inputs {
		s := Reconcile(recs, nil).Summary
		assert.Equal(t, s.TotalDays, s.Attendances+s.Tardies+s.Absences)
		assert.Equal(t, Punctuality(s.Attendances, s.TotalDays), s.PunctualityPercent)
	}

	assert.Equal(t, 0, Reconcile(nil, nil).Summary.PunctualityPercent)
}

func TestPunctuality(t *testing.T) {
	tests := []struct {
		attendances, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{7, 8, 88}, // 87.5 rounds up
		{3, 3, 100},
		{0, 5, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Punctuality(tt.attendances, tt.total), "%d/%d", tt.attendances, tt.total)
	}
}

func TestReconcile_ScenarioWithoutRequests(t *testing.T) {
	got := Reconcile(scenarioRecords(), nil)

	assert.Equal(t, attendance.Summary{
		Attendances:        1,
		Tardies:            1,
		Absences:           1,
		TotalDays:          3,
		PunctualityPercent: 33,
	}, got.Summary)
}

func TestReconcile_ScenarioWithJustifiedTardy(t *testing.T) {
	got := Reconcile(scenarioRecords(), []movement.Movement{
		approved("2024-01-02", movement.TypeJustifiedTardy),
	})

	assert.Equal(t, attendance.Summary{
		Attendances:        2,
		Tardies:            0,
		Absences:           1,
		TotalDays:          3,
		PunctualityPercent: 67,
	}, got.Summary)
}

func TestReconcile_Idempotent(t *testing.T) {
	recs := scenarioRecords()
	movements := []movement.Movement{
		approved("2024-01-02", movement.TypeJustifiedTardy),
		withStatus(approved("2024-01-03", movement.TypeJustifiedAbsence), movement.StatusPending),
	}

	first := Reconcile(recs, movements)
	second := Reconcile(recs, movements)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Reconcile is not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(scenarioRecords(), recs); diff != "" {
		t.Errorf("Reconcile mutated its input (-want +got):\n%s", diff)
	}
}

func TestReconcile_Overlay(t *testing.T) {
	recs := []attendance.Record{
		record("2024-01-01", strPtr("Falta")),
		record("2024-01-02", strPtr("Falta")),
		record("2024-01-03", strPtr("Falta")),
		record("2024-01-04", strPtr("Falta")),
		record("2024-01-05", strPtr("Falta")),
	}
	movements := []movement.Movement{
		withStatus(approved("2024-01-01", movement.TypeJustifiedAbsence), movement.StatusPending),
		approved("2024-01-02", movement.TypeJustifiedAbsence),
		withStatus(approved("2024-01-03", movement.TypeJustifiedAbsence), movement.StatusRejected),
		withStatus(approved("2024-01-04", movement.TypeJustifiedAbsence), "escalated"),
	}

	got := Reconcile(recs, movements)
	require.Len(t, got.Days, 5)

	want := []attendance.RequestOverlay{
		attendance.OverlayRequested,
		attendance.OverlayApproved,
		attendance.OverlayRejected,
		attendance.OverlayPendingReview,
	}
	for i, status := range want {
		require.NotNil(t, got.Days[i].Overlay, "day %d", i)
		assert.Equal(t, status, got.Days[i].Overlay.Status)
		assert.Equal(t, movement.TypeJustifiedAbsence, got.Days[i].Overlay.MovementType)
		assert.False(t, got.Days[i].ActionAvailable)
	}
	assert.Nil(t, got.Days[4].Overlay)
	assert.True(t, got.Days[4].ActionAvailable)

	// Only the approved request counts.
	assert.Equal(t, 1, got.Summary.Attendances)
	assert.Equal(t, 4, got.Summary.Absences)
}

func TestReconcile_OverlayUsesLatestRequest(t *testing.T) {
	recs := []attendance.Record{record("2024-01-02", strPtr("Retardo E1"))}
	movements := []movement.Movement{
		approved("2024-01-02", movement.TypeJustifiedTardy),
		withStatus(approved("2024-01-02", movement.TypeEarlyDeparture), movement.StatusRejected),
	}

	got := Reconcile(recs, movements)

	require.NotNil(t, got.Days[0].Overlay)
	assert.Equal(t, attendance.OverlayRejected, got.Days[0].Overlay.Status)
	assert.Equal(t, movement.TypeEarlyDeparture, got.Days[0].Overlay.MovementType)
	// The approved justification still counts.
	assert.Equal(t, attendance.ClassificationAttendance, got.Days[0].Classification)
}

func TestReconcile_AmbiguousApprovals(t *testing.T) {
	recs := []attendance.Record{
		record("2024-01-02", strPtr("Retardo E1")),
		record("2024-01-03", strPtr("Falta")),
	}
	movements := []movement.Movement{
		approved("2024-01-03", movement.TypeJustifiedAbsence),
		approved("2024-01-02", movement.TypeJustifiedTardy),
		approved("2024-01-03", movement.TypeJustifiedAbsence),
		approved("2024-01-02", movement.TypeJustifiedAbsence),
	}

	got := Reconcile(recs, movements)

	// Same type twice is not ambiguous; differing types are.
	assert.Equal(t, []calendar.Date{calendar.MustParse("2024-01-02")}, got.AmbiguousDates)
	// Last approval in submission order wins.
	assert.Equal(t, attendance.ClassificationTardy, got.Days[0].Classification)
	assert.Equal(t, attendance.ClassificationAttendance, got.Days[1].Classification)
}

func TestReconcile_ZeroDatesNeverMatch(t *testing.T) {
	bad := attendance.Record{EmployeeNumber: 1001, IncidenceName: strPtr("Falta")}
	movements := []movement.Movement{{
		EmployeeNumber: 1001,
		MovementType:   movement.TypeJustifiedAbsence,
		ApprovalStatus: movement.StatusApproved,
	}}

	got := Reconcile([]attendance.Record{bad}, movements)

	require.Len(t, got.Days, 1)
	assert.Equal(t, attendance.ClassificationAbsence, got.Days[0].Classification)
	assert.Nil(t, got.Days[0].Overlay)
	assert.Empty(t, got.AmbiguousDates)
}
