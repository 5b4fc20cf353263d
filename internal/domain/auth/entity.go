package auth

import "time"

// Credential is an employee's portal password. Employees without a row
// cannot log in.
type Credential struct {
	EmployeeNumber int
	PasswordHash   string
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
