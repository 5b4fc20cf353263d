package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid employee number or password")
	ErrAccountInactive    = errors.New("employee is no longer active")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrTokenNotFound      = errors.New("token not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
