package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	auth.CredentialRepository
	employee.EmployeeRepository
	jwt.Service
}

func NewAuthService(credentialRepository auth.CredentialRepository, employeeRepository employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		CredentialRepository: credentialRepository,
		EmployeeRepository:   employeeRepository,
		Service:              jwtService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	cred, err := a.CredentialRepository.GetByEmployeeNumber(ctx, req.EmployeeNumber)
	if err != nil {
		if errors.Is(err, auth.ErrCredentialNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	// A credential without an HR record still logs in; the profile just stays empty.
	var name string
	emp, err := a.EmployeeRepository.GetByNumber(ctx, req.EmployeeNumber)
	switch {
	case err == nil:
		if !emp.IsActive() {
			return auth.TokenResponse{}, auth.ErrAccountInactive
		}
		name = emp.FullName()
	case errors.Is(err, employee.ErrEmployeeNotFound):
		slog.Warn("Login for employee without HR record", "employee_number", req.EmployeeNumber)
	default:
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(req.EmployeeNumber, name)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	if err := a.CredentialRepository.TouchLastLogin(ctx, req.EmployeeNumber); err != nil {
		slog.Error("Failed to record last login", "employee_number", req.EmployeeNumber, "error", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User: auth.ProfileResponse{
			EmployeeNumber: req.EmployeeNumber,
			Name:           name,
			ExpiresAt:      expiresAt,
		},
	}, nil
}

// Profile implements auth.AuthService.
func (a *AuthServiceImpl) Profile(ctx context.Context) (auth.ProfileResponse, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		if errors.Is(err, jwtauth.ErrNoTokenFound) {
			return auth.ProfileResponse{}, auth.ErrTokenNotFound
		}
		return auth.ProfileResponse{}, auth.ErrInvalidToken
	}
	if token == nil {
		return auth.ProfileResponse{}, auth.ErrTokenNotFound
	}

	number, err := jwt.EmployeeNumberFromClaims(claims)
	if err != nil {
		return auth.ProfileResponse{}, auth.ErrInvalidToken
	}
	name, _ := claims[jwt.ClaimName].(string)

	return auth.ProfileResponse{
		EmployeeNumber: number,
		Name:           name,
		ExpiresAt:      token.Expiration().Unix(),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrTokenNotFound
	}

	decoded, err := a.Service.JWTAuth().Decode(token)
	if err != nil {
		// Nothing to revoke: the token would be rejected anyway.
		return nil
	}
	a.Service.RevokeToken(token, decoded.Expiration().Unix())
	return nil
}

// SetPassword implements auth.AuthService.
func (a *AuthServiceImpl) SetPassword(ctx context.Context, req auth.SetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := a.EmployeeRepository.GetByNumber(ctx, req.EmployeeNumber); err != nil {
		return err
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := a.CredentialRepository.Upsert(ctx, req.EmployeeNumber, hash); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	slog.Info("Portal password set", "employee_number", req.EmployeeNumber)
	return nil
}
