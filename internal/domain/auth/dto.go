package auth

import "github.com/cmlabs-hris/hr-portal-go/internal/pkg/validator"

type LoginRequest struct {
	EmployeeNumber int    `json:"num_empleado" validate:"gt=0"`
	Password       string `json:"password" validate:"required,max=255"`
}

func (r *LoginRequest) Validate() error {
	return validator.Struct(r)
}

type SetPasswordRequest struct {
	EmployeeNumber int    `json:"num_empleado" validate:"gt=0"`
	Password       string `json:"password" validate:"required,min=8,max=255"`
}

func (r *SetPasswordRequest) Validate() error {
	return validator.Struct(r)
}

type TokenResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   int64           `json:"expires_at"`
	User        ProfileResponse `json:"user"`
}

// ProfileResponse mirrors the token claims the front-end reads.
type ProfileResponse struct {
	EmployeeNumber int    `json:"num_empleado"`
	Name           string `json:"nombre"`
	ExpiresAt      int64  `json:"exp,omitempty"`
}
