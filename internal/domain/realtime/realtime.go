package realtime

import (
	"context"
	"time"
)

// Event names delivered to live sessions
const (
	EventAttendanceRefresh     = "attendance-refresh"
	EventAdminAttendanceUpdate = "admin-attendance-update"
	EventDashboardUpdate       = "dashboard-update"
)

type Action string

const (
	ActionPunch  Action = "punch"
	ActionLeave  Action = "leave"
	ActionStatus Action = "status"
	ActionManual Action = "manual"
	ActionAbsent Action = "absent"
	ActionSync   Action = "sync"
)

// Payload describes the change that triggered an event. Clients refetch on
// receipt, so it only carries enough to decide whether to.
type Payload struct {
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date,omitempty"`
	Status     string    `json:"status,omitempty"`
	TotalHours float64   `json:"total_hours"`
	Action     Action    `json:"action"`
	At         time.Time `json:"at"`
}

// Event is a named payload as seen by one session.
type Event struct {
	Name    string
	Payload Payload
}

// Broadcaster is the publish side. Delivery is best effort: a session that is
// not joined or not keeping up misses the event.
type Broadcaster interface {
	// PublishAttendanceChange notifies the employee's group and broadcasts an
	// admin update to every live session.
	PublishAttendanceChange(ctx context.Context, employeeID string, payload Payload) error

	// PublishDashboardSync notifies the employee's group only.
	PublishDashboardSync(ctx context.Context, employeeID string, payload Payload) error
}

// Subscriber is the join side. The returned leave func must be called once
// the session ends; the channel is closed afterwards.
type Subscriber interface {
	Join(employeeID string) (<-chan Event, func())
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
