package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
)

// recordColumns are the time clock's export columns, in scan order.
const recordColumns = `PERSONAL, FECHA, DIA_SEM, CVEINC, NOMBRE_INCIDENCIA,
	ENTRADA_PROGRAMADA, SALIDA_PROGRAMADA, ENTRADA_REAL, SALIDA_REAL, TIPO_ASISTENCIA`

type attendanceRepositoryImpl struct {
	db    *sql.DB
	table string
}

// NewAttendanceRepository reads attendance rows from table on the time
// clock's database.
func NewAttendanceRepository(db *sql.DB, table string) attendance.RecordRepository {
	if table == "" {
		table = "asistencia"
	}
	return &attendanceRepositoryImpl{db: db, table: table}
}

func (r *attendanceRepositoryImpl) listQuery(employeeNumber int, rng calendar.Range) (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE PERSONAL = ?", recordColumns, r.table)
	args := []any{employeeNumber}

	if !rng.From.IsZero() {
		sb.WriteString(" AND FECHA >= ?")
		args = append(args, rng.From.String())
	}
	if !rng.To.IsZero() {
		sb.WriteString(" AND FECHA <= ?")
		args = append(args, rng.To.String())
	}
	sb.WriteString(" ORDER BY FECHA ASC")
	return sb.String(), args
}

// ListByEmployee implements attendance.RecordRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeNumber int, rng calendar.Range) ([]attendance.Record, error) {
	query, args := r.listQuery(employeeNumber, rng)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance for employee %d: %w", employeeNumber, err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// GetByEmployeeAndDate implements attendance.RecordRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeNumber int, date calendar.Date) (attendance.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE PERSONAL = ? AND FECHA = ? LIMIT 1", recordColumns, r.table)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, employeeNumber, date.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance for employee %d on %s: %w", employeeNumber, date, err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (attendance.Record, error) {
	var (
		rec                                       attendance.Record
		fecha                                     time.Time
		weekday, code                             sql.NullString
		name, schedIn, schedOut, in, out, attType sql.NullString
	)
	if err := row.Scan(
		&rec.EmployeeNumber, &fecha, &weekday, &code, &name,
		&schedIn, &schedOut, &in, &out, &attType,
	); err != nil {
		return attendance.Record{}, err
	}

	rec.Date = calendar.FromDateColumn(fecha)
	rec.WeekdayAbbrev = weekday.String
	rec.IncidenceCode = strings.TrimSpace(code.String)
	rec.IncidenceName = nullable(name)
	rec.ScheduledEntry = nullable(schedIn)
	rec.ScheduledExit = nullable(schedOut)
	rec.ActualEntry = nullable(in)
	rec.ActualExit = nullable(out)
	rec.AttendanceType = nullable(attType)
	return rec, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
