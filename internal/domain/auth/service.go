package auth

import (
	"context"
)

type AuthService interface {
	// Login checks the password and issues an access token.
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)

	// Profile returns the claims of the verified token in ctx.
	Profile(ctx context.Context) (ProfileResponse, error)

	// Logout revokes the token until it expires.
	Logout(ctx context.Context, token string) error

	// SetPassword creates or replaces an employee's password. Used by hrctl.
	SetPassword(ctx context.Context, req SetPasswordRequest) error
}
