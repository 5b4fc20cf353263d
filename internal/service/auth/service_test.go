package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/validator"
)

const testSecret = "test-secret-key-for-jwt"

type fakeCredentialRepo struct {
	creds   map[int]auth.Credential
	touched []int
}

func (f *fakeCredentialRepo) GetByEmployeeNumber(ctx context.Context, employeeNumber int) (auth.Credential, error) {
	c, ok := f.creds[employeeNumber]
	if !ok {
		return auth.Credential{}, auth.ErrCredentialNotFound
	}
	return c, nil
}

func (f *fakeCredentialRepo) Upsert(ctx context.Context, employeeNumber int, passwordHash string) error {
	f.creds[employeeNumber] = auth.Credential{EmployeeNumber: employeeNumber, PasswordHash: passwordHash}
	return nil
}

func (f *fakeCredentialRepo) TouchLastLogin(ctx context.Context, employeeNumber int) error {
	f.touched = append(f.touched, employeeNumber)
	return nil
}

type fakeEmployeeRepo struct {
	employees map[int]employee.Employee
}

func (f *fakeEmployeeRepo) GetByNumber(ctx context.Context, number int) (employee.Employee, error) {
	e, ok := f.employees[number]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestService(t *testing.T) (auth.AuthService, *fakeCredentialRepo, jwt.Service) {
	creds := &fakeCredentialRepo{creds: map[int]auth.Credential{
		1001: {EmployeeNumber: 1001, PasswordHash: hash(t, "password123")},
		1002: {EmployeeNumber: 1002, PasswordHash: hash(t, "password123")},
		1003: {EmployeeNumber: 1003, PasswordHash: hash(t, "password123")},
	}}
	emps := &fakeEmployeeRepo{employees: map[int]employee.Employee{
		1001: {Number: 1001, FirstName: "Ana", PaternalName: "López", Status: employee.StatusActive},
		1002: {Number: 1002, FirstName: "Luis", Status: employee.StatusInactive},
	}}
	jwtSvc := jwt.NewJWTService(testSecret, time.Hour, false)
	return NewAuthService(creds, emps, jwtSvc), creds, jwtSvc
}

func TestLogin(t *testing.T) {
	svc, creds, jwtSvc := newTestService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{EmployeeNumber: 1001, Password: "password123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, 1001, resp.User.EmployeeNumber)
	assert.Equal(t, "Ana López", resp.User.Name)
	assert.Equal(t, []int{1001}, creds.touched)

	_, err = jwtSvc.JWTAuth().Decode(resp.AccessToken)
	assert.NoError(t, err)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		req     auth.LoginRequest
		wantErr error
	}{
		{"wrong password", auth.LoginRequest{EmployeeNumber: 1001, Password: "nope"}, auth.ErrInvalidCredentials},
		{"no credential", auth.LoginRequest{EmployeeNumber: 9999, Password: "password123"}, auth.ErrInvalidCredentials},
		{"inactive employee", auth.LoginRequest{EmployeeNumber: 1002, Password: "password123"}, auth.ErrAccountInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			_, err := svc.Login(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogin_WithoutEmployeeRecord(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{EmployeeNumber: 1003, Password: "password123"})
	require.NoError(t, err)
	assert.Empty(t, resp.User.Name)
}

func TestLogin_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "num_empleado")
	assert.Contains(t, verrs.ToMap(), "password")
}

func TestProfile(t *testing.T) {
	svc, _, jwtSvc := newTestService(t)
	tokenString, exp, err := jwtSvc.GenerateAccessToken(1001, "Ana López")
	require.NoError(t, err)
	token, err := jwtSvc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	profile, err := svc.Profile(jwtauth.NewContext(context.Background(), token, nil))
	require.NoError(t, err)

	assert.Equal(t, auth.ProfileResponse{EmployeeNumber: 1001, Name: "Ana López", ExpiresAt: exp}, profile)
}

func TestProfile_Errors(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Profile(jwtauth.NewContext(context.Background(), nil, jwtauth.ErrNoTokenFound))
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)

	_, err = svc.Profile(jwtauth.NewContext(context.Background(), nil, errors.New("signature mismatch")))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.Profile(context.Background())
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	svc, _, jwtSvc := newTestService(t)
	token, _, err := jwtSvc.GenerateAccessToken(1001, "Ana")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))
	assert.True(t, jwtSvc.IsTokenRevoked(token))

	assert.ErrorIs(t, svc.Logout(context.Background(), ""), auth.ErrTokenNotFound)
	assert.NoError(t, svc.Logout(context.Background(), "garbage"))
	assert.False(t, jwtSvc.IsTokenRevoked("garbage"))
}

func TestSetPassword(t *testing.T) {
	svc, creds, _ := newTestService(t)

	require.NoError(t, svc.SetPassword(context.Background(), auth.SetPasswordRequest{EmployeeNumber: 1002, Password: "newpassword"}))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(creds.creds[1002].PasswordHash), []byte("newpassword")))

	err := svc.SetPassword(context.Background(), auth.SetPasswordRequest{EmployeeNumber: 4242, Password: "newpassword"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	err = svc.SetPassword(context.Background(), auth.SetPasswordRequest{EmployeeNumber: 1001, Password: "short"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}
