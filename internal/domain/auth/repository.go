package auth

import "context"

type CredentialRepository interface {
	// GetByEmployeeNumber returns ErrCredentialNotFound when the employee has no password set.
	GetByEmployeeNumber(ctx context.Context, employeeNumber int) (Credential, error)
	Upsert(ctx context.Context, employeeNumber int, passwordHash string) error
	TouchLastLogin(ctx context.Context, employeeNumber int) error
}
