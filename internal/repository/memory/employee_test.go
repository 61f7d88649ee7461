package memory

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	ada, err := repo.Upsert(ctx, employee.Employee{Name: "Ada", Email: "ada@example.com", Role: employee.RoleEmployee})
	require.NoError(t, err)
	assert.NotEmpty(t, ada.ID)

	_, err = repo.Upsert(ctx, employee.Employee{Name: "Bo", Email: "bo@example.com", Role: employee.RoleAdmin})
	require.NoError(t, err)

	// Same email updates the existing entry
	renamed, err := repo.Upsert(ctx, employee.Employee{Name: "Ada L.", Email: "ada@example.com", Role: employee.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, ada.ID, renamed.ID)
	assert.Equal(t, ada.CreatedAt, renamed.CreatedAt)

	got, err := repo.GetByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", got.Name)

	count, err := repo.CountByRole(ctx, employee.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	ids, err := repo.ListIDsByRole(ctx, employee.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	_, err = repo.Upsert(ctx, employee.Employee{Name: "X", Email: "x@example.com", Role: "owner"})
	assert.ErrorIs(t, err, employee.ErrInvalidRole)
}

func TestStatusCounter(t *testing.T) {
	ctx := context.Background()

	tasks := NewStatusCounter()
	tasks.Set("t1", "todo")
	tasks.Set("t2", "in-progress")
	tasks.Set("t3", TaskStatusDone)
	pending, err := tasks.CountPendingTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	leaves := NewStatusCounter()
	leaves.Set("l1", LeaveStatusPending)
	leaves.Set("l2", "approved")
	pending, err = leaves.CountPendingLeaves(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}
