package sse

import (
	"sync"
	"sync/atomic"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/realtime"
)

// DefaultBuffer is the per-session channel capacity when none is configured
const DefaultBuffer = 16

// Hub manages SSE sessions grouped by employee and fans events out to them
type Hub struct {
	mu      sync.RWMutex
	buffer  int
	groups  map[string]map[chan realtime.Event]struct{}
	dropped atomic.Uint64
}

// NewHub creates a new SSE Hub instance
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		buffer: buffer,
		groups: make(map[string]map[chan realtime.Event]struct{}),
	}
}

// Join registers a session in the employee's group and returns the event
// channel and cleanup function
func (h *Hub) Join(employeeID string) (chan realtime.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan realtime.Event, h.buffer)

	if h.groups[employeeID] == nil {
		h.groups[employeeID] = make(map[chan realtime.Event]struct{})
	}
	h.groups[employeeID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.groups[employeeID], ch)
			close(ch)
			if len(h.groups[employeeID]) == 0 {
				delete(h.groups, employeeID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to every session of one employee. It returns how
// many sessions received it and how many were skipped on a full buffer.
func (h *Hub) Publish(employeeID string, event realtime.Event) (delivered, dropped int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.groups[employeeID] {
		if h.trySend(ch, event) {
			delivered++
		} else {
			dropped++
		}
	}
	return delivered, dropped
}

// Broadcast sends an event to every live session
func (h *Hub) Broadcast(event realtime.Event) (delivered, dropped int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sessions := range h.groups {
		for ch := range sessions {
			if h.trySend(ch, event) {
				delivered++
			} else {
				dropped++
			}
		}
	}
	return delivered, dropped
}

// trySend never blocks; a slow session misses the event
func (h *Hub) trySend(ch chan realtime.Event, event realtime.Event) bool {
	select {
	case ch <- event:
		return true
	default:
		h.dropped.Add(1)
		return false
	}
}

// SessionCount returns the number of active sessions for an employee
func (h *Hub) SessionCount(employeeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.groups[employeeID])
}

// TotalSessions returns the total number of active sessions across all groups
func (h *Hub) TotalSessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, sessions := range h.groups {
		total += len(sessions)
	}
	return total
}

// Dropped returns how many events were skipped since the hub was created
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
