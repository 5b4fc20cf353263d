package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-portal-go/internal/handler/http/response"
)

// currentEmployee returns the employee AuthRequired put in the context and
// writes a 401 when there is none.
func currentEmployee(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, ok := middleware.EmployeeNumber(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrTokenNotFound)
		return 0, false
	}
	return number, true
}

// optionalQuery returns nil for missing or empty query parameters.
func optionalQuery(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func intQuery(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "ID inválido", nil)
		return 0, false
	}
	return id, true
}
