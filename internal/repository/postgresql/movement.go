package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/movement"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/database"
)

const pgUniqueViolation = "23505"

type movementRepositoryImpl struct {
	db *database.DB
}

func NewMovementRepository(db *database.DB) movement.MovementRepository {
	return &movementRepositoryImpl{db: db}
}

const movementColumns = `id, employee_number, incident_date, movement_type, approval_status,
	approval_level, comments, details, created_at, updated_at`

// Create implements movement.MovementRepository.
func (r *movementRepositoryImpl) Create(ctx context.Context, m movement.Movement) (movement.Movement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO movement_requests (
			employee_number, incident_date, movement_type, approval_status,
			approval_level, comments, details
		) VALUES ($1, $2::date, $3, $4, $5, $6, $7)
		RETURNING ` + movementColumns

	created, err := scanMovement(q.QueryRow(ctx, query,
		m.EmployeeNumber, m.IncidentDate.String(), m.MovementType, string(m.ApprovalStatus),
		m.ApprovalLevel, m.Comments, m.Details,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return movement.Movement{}, movement.ErrMovementAlreadyRequested
		}
		return movement.Movement{}, fmt.Errorf("failed to insert movement request: %w", err)
	}
	return created, nil
}

// ListByEmployee implements movement.MovementRepository.
func (r *movementRepositoryImpl) ListByEmployee(ctx context.Context, employeeNumber int, rng calendar.Range) ([]movement.Movement, error) {
	q := GetQuerier(ctx, r.db)

	query, args := movementListQuery(employeeNumber, rng)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movement requests: %w", err)
	}
	defer rows.Close()

	var movements []movement.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movements, nil
}

func movementListQuery(employeeNumber int, rng calendar.Range) (string, []any) {
	conditions := []string{"employee_number = $1"}
	args := []any{employeeNumber}
	argIdx := 2

	if !rng.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("incident_date >= $%d::date", argIdx))
		args = append(args, rng.From.String())
		argIdx++
	}
	if !rng.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("incident_date <= $%d::date", argIdx))
		args = append(args, rng.To.String())
	}

	query := `SELECT ` + movementColumns + `
		FROM movement_requests
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at ASC, id ASC`
	return query, args
}

// ExistsForDate implements movement.MovementRepository.
func (r *movementRepositoryImpl) ExistsForDate(ctx context.Context, employeeNumber int, date calendar.Date) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM movement_requests
			WHERE employee_number = $1 AND incident_date = $2::date
		)`, employeeNumber, date.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check movement request: %w", err)
	}
	return exists, nil
}

func scanMovement(row pgx.Row) (movement.Movement, error) {
	var (
		m            movement.Movement
		incidentDate time.Time
		status       string
		comments     *string
	)
	err := row.Scan(
		&m.ID, &m.EmployeeNumber, &incidentDate, &m.MovementType, &status,
		&m.ApprovalLevel, &comments, &m.Details, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return movement.Movement{}, err
	}
	m.IncidentDate = calendar.FromDateColumn(incidentDate)
	m.ApprovalStatus = movement.ApprovalStatus(status)
	if comments != nil {
		m.Comments = *comments
	}
	return m, nil
}
