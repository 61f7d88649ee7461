package memory

import (
	"context"
	"sync"
)

// Task and leave-request statuses as written by the task board and leave services
const (
	TaskStatusDone     = "done"
	LeaveStatusPending = "pending"
)

// StatusCounter keeps item id to status for an external collection and answers
// the overview's pending counts.
type StatusCounter struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewStatusCounter() *StatusCounter {
	return &StatusCounter{items: make(map[string]string)}
}

// Set records the current status of one item.
func (c *StatusCounter) Set(id, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[id] = status
}

// CountPendingTasks implements overview.PendingTaskCounter.
func (c *StatusCounter) CountPendingTasks(ctx context.Context) (int64, error) {
	return c.count(func(status string) bool { return status != TaskStatusDone }), nil
}

// CountPendingLeaves implements overview.PendingLeaveCounter.
func (c *StatusCounter) CountPendingLeaves(ctx context.Context) (int64, error) {
	return c.count(func(status string) bool { return status == LeaveStatusPending }), nil
}

func (c *StatusCounter) count(match func(string) bool) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for _, status := range c.items {
		if match(status) {
			n++
		}
	}
	return n
}
