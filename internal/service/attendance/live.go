package attendance

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/sse"
)

const (
	jobRefreshDashboard = "refresh_dashboard"
	jobClock            = "clock"
)

type liveView struct {
	id             string
	employeeNumber int
	sched          *cron.Scheduler
}

type viewRegistry struct {
	mu    sync.Mutex
	views map[string]*liveView
}

func newViewRegistry() *viewRegistry {
	return &viewRegistry{views: make(map[string]*liveView)}
}

func (r *viewRegistry) add(v *liveView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[v.id] = v
}

func (r *viewRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, id)
}

func (r *viewRegistry) forEmployee(employeeNumber int) []*liveView {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*liveView
	for _, v := range r.views {
		if v.employeeNumber == employeeNumber {
			out = append(out, v)
		}
	}
	return out
}

func (r *viewRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Watch implements attendance.AttendanceService. Each call gets its own
// scheduler, torn down when ctx is cancelled.
func (s *AttendanceServiceImpl) Watch(ctx context.Context, filter attendance.DashboardFilter) (<-chan sse.Event, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	view := &liveView{
		id:             uuid.NewString(),
		employeeNumber: filter.EmployeeNumber,
		sched:          cron.NewScheduler(ctx),
	}
	events, unsubscribe := s.hub.Subscribe(view.id)

	view.sched.AddJob(jobRefreshDashboard, s.opts.RefreshInterval, func(ctx context.Context) error {
		return s.publishDashboard(ctx, view.id, filter)
	})
	view.sched.AddJob(jobClock, s.opts.ClockInterval, func(ctx context.Context) error {
		s.hub.Publish(view.id, sse.Event{
			Event: attendance.EventClock,
			Data:  attendance.ClockEvent{Now: time.Now().In(s.opts.Location).Format(time.RFC3339)},
		})
		return nil
	})

	s.views.add(view)
	view.sched.Start()
	slog.Info("Live dashboard opened", "view_id", view.id, "employee_number", view.employeeNumber)

	go func() {
		<-view.sched.Done()
		view.sched.Stop()
		s.views.remove(view.id)
		unsubscribe()
		slog.Info("Live dashboard closed", "view_id", view.id, "employee_number", view.employeeNumber)
	}()

	return events, nil
}

func (s *AttendanceServiceImpl) publishDashboard(ctx context.Context, viewID string, filter attendance.DashboardFilter) error {
	resp, err := s.GetDashboard(ctx, filter)
	if ctx.Err() != nil {
		// View closed mid-refresh.
		return nil
	}
	if err != nil || resp.Stale {
		ev := attendance.RefreshFailedEvent{
			Message:  attendance.ErrSourceUnavailable.Error(),
			FailedAt: time.Now().In(s.opts.Location).Format(time.RFC3339),
		}
		if resp.Stale {
			ev.LastGoodAt = resp.FetchedAt
		}
		s.hub.Publish(viewID, sse.Event{Event: attendance.EventRefreshFailed, Data: ev})
		if err != nil && !errors.Is(err, attendance.ErrNoSnapshot) {
			return err
		}
		return nil
	}

	s.hub.Publish(viewID, sse.Event{Event: attendance.EventDashboard, Data: resp})
	return nil
}

// NotifyMovementChange implements attendance.AttendanceService. It returns
// once the refreshes are queued.
func (s *AttendanceServiceImpl) NotifyMovementChange(ctx context.Context, employeeNumber int) {
	views := s.views.forEmployee(employeeNumber)
	if len(views) == 0 {
		return
	}

	topics := make([]string, 0, len(views))
	for _, v := range views {
		topics = append(topics, v.id)
	}
	s.hub.PublishToMany(topics, sse.Event{
		Event: attendance.EventMovementCreated,
		Data:  attendance.MovementCreatedEvent{EmployeeNumber: employeeNumber},
	})

	// Each view refreshes on its own scheduler; the caller does not wait.
	for _, v := range views {
		if err := v.sched.Trigger(jobRefreshDashboard); err != nil {
			slog.Error("Failed to refresh live dashboard", "view_id", v.id, "error", err)
		}
	}
}

// LiveViews reports how many dashboards are open.
func (s *AttendanceServiceImpl) LiveViews() int {
	return s.views.len()
}
