package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	GetMyDashboard(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	IncidenceOptions(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	keepalive         time.Duration
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		keepalive:         30 * time.Second,
	}
}

func dashboardFilter(r *http.Request, employeeNumber int) attendance.DashboardFilter {
	return attendance.DashboardFilter{
		EmployeeNumber: employeeNumber,
		StartDate:      optionalQuery(r, "start_date"),
		EndDate:        optionalQuery(r, "end_date"),
	}
}

// GetMyDashboard implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyDashboard(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	resp, err := h.attendanceService.GetDashboard(r.Context(), dashboardFilter(r, employeeNumber))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if resp.Stale {
		response.SuccessWithMessage(w, "Mostrando la última información disponible", resp)
		return
	}
	response.Success(w, resp)
}

// Stream implements AttendanceHandler. The dashboard is pushed as SSE until
// the client disconnects.
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	employeeNumber, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, attendance.ErrStreamingUnsupported.Error())
		return
	}

	events, err := h.attendanceService.Watch(r.Context(), dashboardFilter(r, employeeNumber))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"num_empleado\":%d}\n\n", employeeNumber)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode dashboard event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			// Watch closes events once its scheduler has stopped.
			for range events {
			}
			return
		}
	}
}

// IncidenceOptions implements AttendanceHandler.
func (h *attendanceHandlerImpl) IncidenceOptions(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.attendanceService.IncidenceOptions(r.Context()))
}
