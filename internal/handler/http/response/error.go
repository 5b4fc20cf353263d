package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/blog"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/movement"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/validator"
)

// Messages the portal front end shows verbatim.
const (
	MsgTokenNotFound = "Token no encontrado"
	MsgInvalidToken  = "Token inválido"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrTokenNotFound):
		Unauthorized(w, MsgTokenNotFound)
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, MsgInvalidToken)
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Número de empleado o contraseña incorrectos")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "El empleado está dado de baja")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Empleado no encontrado")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoSnapshot):
		ServiceUnavailable(w, "El reloj checador no está disponible, intenta más tarde")
	case errors.Is(err, attendance.ErrSourceUnavailable):
		ServiceUnavailable(w, "El reloj checador no está disponible, intenta más tarde")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "No hay registro de asistencia para ese día")

	// Movement domain errors
	case errors.Is(err, movement.ErrMovementAlreadyRequested):
		Conflict(w, "Ya existe una solicitud para ese día")
	case errors.Is(err, movement.ErrMovementTypeNotAllowed):
		UnprocessableEntity(w, "El movimiento no aplica para esta incidencia")
	case errors.Is(err, movement.ErrNothingToJustify):
		UnprocessableEntity(w, "El día seleccionado no tiene incidencia que justificar")

	// Blog domain errors
	case errors.Is(err, blog.ErrPostNotFound):
		NotFound(w, "Publicación no encontrada")
	case errors.Is(err, blog.ErrImageNotFound):
		NotFound(w, "Imagen no encontrada")
	case errors.Is(err, blog.ErrNotAuthor):
		Forbidden(w, "Solo el autor puede modificar esta publicación")
	case errors.Is(err, blog.ErrUnsupportedImage):
		UnsupportedMediaType(w, "Formato de imagen no soportado, usa jpeg, png o webp")
	case errors.Is(err, blog.ErrNoImages):
		BadRequest(w, "No se recibieron imágenes", nil)
	case errors.Is(err, blog.ErrTooManyImages):
		BadRequest(w, "Demasiadas imágenes", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "Ocurrió un error inesperado")
	}
}
