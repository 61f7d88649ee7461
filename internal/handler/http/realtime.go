package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/realtime"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/jwt"
)

// DefaultKeepalive is the ping interval used when none is configured
const DefaultKeepalive = 30 * time.Second

type RealtimeHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	SyncDashboard(w http.ResponseWriter, r *http.Request)
}

type realtimeHandlerImpl struct {
	jwtService  jwt.Service
	broadcaster realtime.Broadcaster
	subscriber  realtime.Subscriber
	keepalive   time.Duration
}

func NewRealtimeHandler(jwtService jwt.Service, broadcaster realtime.Broadcaster, subscriber realtime.Subscriber, keepalive time.Duration) RealtimeHandler {
	if keepalive <= 0 {
		keepalive = DefaultKeepalive
	}
	return &realtimeHandlerImpl{
		jwtService:  jwtService,
		broadcaster: broadcaster,
		subscriber:  subscriber,
		keepalive:   keepalive,
	}
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *realtimeHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(actor.EmployeeID)
	if err != nil {
		slog.Error("Failed to generate SSE token", "error", err, "employee_id", actor.EmployeeID)
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, realtime.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles the SSE connection of one session
func (h *realtimeHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the token comes in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	employeeID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, leave := h.subscriber.Join(employeeID)
	defer leave()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"employee_id\":%q}\n\n", employeeID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Payload)
			if err != nil {
				slog.Warn("Failed to encode realtime event", "error", err, "event", event.Name)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// SyncDashboard asks every open session of the caller to refresh its dashboard
func (h *realtimeHandlerImpl) SyncDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	err := h.broadcaster.PublishDashboardSync(r.Context(), actor.EmployeeID, realtime.Payload{
		EmployeeID: actor.EmployeeID,
		Date:       now.Format(attendance.DateLayout),
		Action:     realtime.ActionSync,
		At:         now,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Dashboard sync sent", nil)
}
