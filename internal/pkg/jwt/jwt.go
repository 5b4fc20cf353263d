package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// CookieName is the cookie the portal front-end stores the access token in.
const CookieName = "myToken"

// Claim keys
const (
	ClaimEmployeeNumber = "num_empleado"
	ClaimName           = "nombre"
	ClaimType           = "type"
	TokenTypeAccess     = "access"
)

var ErrMissingEmployeeNumber = errors.New("token has no employee number")

type Service interface {
	GenerateAccessToken(employeeNumber int, name string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	Verifier() func(http.Handler) http.Handler
	AccessTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearAccessTokenCookie() *http.Cookie
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
	PruneRevoked() int
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	secureCookie              bool
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64 // token -> exp (unix)
	mu                        sync.RWMutex
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration, secureCookie bool) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		secureCookie:              secureCookie,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// Verifier looks for the token in the Authorization header first, then in
// the portal cookie.
func (j *JWTService) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verify(j.tokenAuth, jwtauth.TokenFromHeader, TokenFromCookie)
}

// TokenFromCookie reads the access token from the portal cookie.
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (j *JWTService) GenerateAccessToken(employeeNumber int, name string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		ClaimEmployeeNumber: employeeNumber,
		ClaimName:           name,
		ClaimType:           TokenTypeAccess,
		"iat":               time.Now().Unix(),
		"exp":               expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) AccessTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) ClearAccessTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// PruneRevoked forgets revoked tokens that have expired anyway.
func (j *JWTService) PruneRevoked() int {
	now := time.Now().Unix()

	j.mu.Lock()
	defer j.mu.Unlock()

	removed := 0
	for token, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, token)
			removed++
		}
	}
	return removed
}

// EmployeeNumberFromClaims extracts the employee number. JSON numbers decode
// as float64, but older tokens carry it as a string.
func EmployeeNumberFromClaims(claims map[string]interface{}) (int, error) {
	raw, ok := claims[ClaimEmployeeNumber]
	if !ok || raw == nil {
		return 0, ErrMissingEmployeeNumber
	}

	var n int
	switch v := raw.(type) {
	case float64:
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("invalid employee number %q: %w", v, err)
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid employee number %q: %w", v, err)
		}
		n = i
	default:
		return 0, fmt.Errorf("invalid employee number type %T", raw)
	}

	if n <= 0 {
		return 0, ErrMissingEmployeeNumber
	}
	return n, nil
}
