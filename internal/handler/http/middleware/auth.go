package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/jwt"
)

type employeeNumberKey struct{}

// WithEmployeeNumber stores the authenticated employee in ctx.
func WithEmployeeNumber(ctx context.Context, number int) context.Context {
	return context.WithValue(ctx, employeeNumberKey{}, number)
}

// EmployeeNumber returns the employee AuthRequired let through.
func EmployeeNumber(ctx context.Context) (int, bool) {
	n, ok := ctx.Value(employeeNumberKey{}).(int)
	return n, ok && n > 0
}

// RawToken returns the bearer token as sent, header first, then cookie.
func RawToken(r *http.Request) string {
	if t := jwtauth.TokenFromHeader(r); t != "" {
		return t
	}
	return jwt.TokenFromCookie(r)
}

// AuthRequired rejects requests without a valid, unrevoked access token and
// puts the employee number from its claims into the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				if errors.Is(err, jwtauth.ErrNoTokenFound) {
					response.HandleError(w, auth.ErrTokenNotFound)
					return
				}
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrTokenNotFound)
				return
			}

			tokenType, ok := claims[jwt.ClaimType].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(RawToken(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			number, err := jwt.EmployeeNumberFromClaims(claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithEmployeeNumber(r.Context(), number)))
		}
		return http.HandlerFunc(hfn)
	}
}
