package sse

import (
	"testing"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(name string) realtime.Event {
	return realtime.Event{Name: name, Payload: realtime.Payload{EmployeeID: "emp-1"}}
}

func TestHub_PublishReachesOnlyJoinedGroup(t *testing.T) {
	hub := NewHub(4)

	mine, leaveMine := hub.Join("emp-1")
	defer leaveMine()
	other, leaveOther := hub.Join("emp-2")
	defer leaveOther()

	delivered, dropped := hub.Publish("emp-1", event(realtime.EventAttendanceRefresh))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 0, dropped)

	require.Len(t, mine, 1)
	got := <-mine
	assert.Equal(t, realtime.EventAttendanceRefresh, got.Name)
	assert.Len(t, other, 0)
}

func TestHub_PublishWithoutJoinIsNoop(t *testing.T) {
	hub := NewHub(4)

	delivered, dropped := hub.Publish("nobody", event(realtime.EventDashboardUpdate))
	assert.Equal(t, 0, delivered)
	assert.Equal(t, 0, dropped)
}

func TestHub_BroadcastReachesEverySession(t *testing.T) {
	hub := NewHub(4)

	a1, leaveA1 := hub.Join("emp-1")
	defer leaveA1()
	a2, leaveA2 := hub.Join("emp-1")
	defer leaveA2()
	b, leaveB := hub.Join("emp-2")
	defer leaveB()

	delivered, _ := hub.Broadcast(event(realtime.EventAdminAttendanceUpdate))
	assert.Equal(t, 3, delivered)
	assert.Len(t, a1, 1)
	assert.Len(t, a2, 1)
	assert.Len(t, b, 1)
}

func TestHub_FullBufferDrops(t *testing.T) {
	hub := NewHub(1)

	ch, leave := hub.Join("emp-1")
	defer leave()

	delivered, dropped := hub.Publish("emp-1", event("first"))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 0, dropped)

	delivered, dropped = hub.Publish("emp-1", event("second"))
	assert.Equal(t, 0, delivered)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, uint64(1), hub.Dropped())

	got := <-ch
	assert.Equal(t, "first", got.Name)
}

func TestHub_LeaveClosesAndForgets(t *testing.T) {
	hub := NewHub(0)

	ch, leave := hub.Join("emp-1")
	assert.Equal(t, 1, hub.SessionCount("emp-1"))
	assert.Equal(t, 1, hub.TotalSessions())

	leave()
	leave()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SessionCount("emp-1"))
	assert.Equal(t, 0, hub.TotalSessions())

	delivered, dropped := hub.Publish("emp-1", event("late"))
	assert.Equal(t, 0, delivered)
	assert.Equal(t, 0, dropped)
}
