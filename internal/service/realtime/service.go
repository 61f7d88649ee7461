package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/realtime"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/sse"
)

// RealtimeServiceImpl fans attendance events out over the SSE hub
type RealtimeServiceImpl struct {
	hub *sse.Hub
}

func NewRealtimeService(hub *sse.Hub) *RealtimeServiceImpl {
	return &RealtimeServiceImpl{hub: hub}
}

// PublishAttendanceChange implements realtime.Broadcaster.
func (s *RealtimeServiceImpl) PublishAttendanceChange(ctx context.Context, employeeID string, payload realtime.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.publish(employeeID, realtime.Event{Name: realtime.EventAttendanceRefresh, Payload: payload})

	// Admin dashboards have no dedicated group; every live session gets it
	delivered, dropped := s.hub.Broadcast(realtime.Event{Name: realtime.EventAdminAttendanceUpdate, Payload: payload})
	s.record(realtime.EventAdminAttendanceUpdate, delivered, dropped)
	return nil
}

// PublishDashboardSync implements realtime.Broadcaster.
func (s *RealtimeServiceImpl) PublishDashboardSync(ctx context.Context, employeeID string, payload realtime.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.publish(employeeID, realtime.Event{Name: realtime.EventDashboardUpdate, Payload: payload})
	return nil
}

// Join implements realtime.Subscriber.
func (s *RealtimeServiceImpl) Join(employeeID string) (<-chan realtime.Event, func()) {
	events, cleanup := s.hub.Join(employeeID)
	metrics.RealtimeSessions.Inc()
	slog.Debug("Realtime session joined", "employee_id", employeeID, "sessions", s.hub.SessionCount(employeeID))

	leave := func() {
		cleanup()
		metrics.RealtimeSessions.Dec()
		slog.Debug("Realtime session left", "employee_id", employeeID)
	}
	return events, sync.OnceFunc(leave)
}

func (s *RealtimeServiceImpl) publish(employeeID string, event realtime.Event) {
	delivered, dropped := s.hub.Publish(employeeID, event)
	s.record(event.Name, delivered, dropped)
}

func (s *RealtimeServiceImpl) record(event string, delivered, dropped int) {
	if delivered > 0 {
		metrics.RealtimeEvents.WithLabelValues(event).Add(float64(delivered))
	}
	if dropped > 0 {
		metrics.RealtimeEventsDropped.Add(float64(dropped))
		slog.Warn("Realtime event dropped for slow sessions", "event", event, "dropped", dropped)
	}
}
