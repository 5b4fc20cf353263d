package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-portal-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	GetMe(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

// GetMe implements EmployeeHandler
func (h *employeeHandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	emp, err := h.employeeService.GetByNumber(r.Context(), employeeNumber)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}
