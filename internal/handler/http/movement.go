package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/movement"
	"github.com/cmlabs-hris/hr-portal-go/internal/handler/http/response"
)

type MovementHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
}

type movementHandlerImpl struct {
	movementService movement.MovementService
}

func NewMovementHandler(movementService movement.MovementService) MovementHandler {
	return &movementHandlerImpl{movementService: movementService}
}

// Create implements MovementHandler.
func (h *movementHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	var req movement.CreateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateMovement decode error", "error", err)
		response.BadRequest(w, "Formato de solicitud inválido", nil)
		return
	}
	// The employee always comes from the token, never from the body.
	req.EmployeeNumber = employeeNumber

	created, err := h.movementService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Solicitud enviada", created)
}

// ListMine implements MovementHandler.
func (h *movementHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	movements, err := h.movementService.ListMine(r.Context(), movement.MyMovementFilter{
		EmployeeNumber: employeeNumber,
		StartDate:      optionalQuery(r, "start_date"),
		EndDate:        optionalQuery(r, "end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, movements)
}
