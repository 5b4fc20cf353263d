package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/database"
)

type credentialRepositoryImpl struct {
	db *database.DB
}

func NewCredentialRepository(db *database.DB) auth.CredentialRepository {
	return &credentialRepositoryImpl{db: db}
}

// GetByEmployeeNumber implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) GetByEmployeeNumber(ctx context.Context, employeeNumber int) (auth.Credential, error) {
	q := GetQuerier(ctx, r.db)

	var c auth.Credential
	err := q.QueryRow(ctx, `
		SELECT employee_number, password_hash, last_login_at, created_at, updated_at
		FROM employee_credentials
		WHERE employee_number = $1
	`, employeeNumber).Scan(&c.EmployeeNumber, &c.PasswordHash, &c.LastLoginAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Credential{}, auth.ErrCredentialNotFound
		}
		return auth.Credential{}, fmt.Errorf("failed to get credential for employee %d: %w", employeeNumber, err)
	}
	return c, nil
}

// Upsert implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) Upsert(ctx context.Context, employeeNumber int, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO employee_credentials (employee_number, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (employee_number)
		DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = NOW()
	`, employeeNumber, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to save credential for employee %d: %w", employeeNumber, err)
	}
	return nil
}

// TouchLastLogin implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) TouchLastLogin(ctx context.Context, employeeNumber int) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE employee_credentials SET last_login_at = NOW()
		WHERE employee_number = $1
	`, employeeNumber)
	if err != nil {
		return fmt.Errorf("failed to update last login for employee %d: %w", employeeNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrCredentialNotFound
	}
	return nil
}
