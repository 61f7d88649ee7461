package postgresql

import (
	"context"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
)

// CounterRepository answers the pending counts shown on the admin overview
type CounterRepository struct {
	db *database.DB
}

func NewCounterRepository(db *database.DB) *CounterRepository {
	return &CounterRepository{
		db: db,
	}
}

// CountPendingTasks implements overview.PendingTaskCounter.
func (r *CounterRepository) CountPendingTasks(ctx context.Context) (int64, error) {
	return r.count(ctx, "failed to count pending tasks", `SELECT COUNT(*) FROM tasks WHERE status <> 'done'`)
}

// CountPendingLeaves implements overview.PendingLeaveCounter.
func (r *CounterRepository) CountPendingLeaves(ctx context.Context) (int64, error) {
	return r.count(ctx, "failed to count pending leaves", `SELECT COUNT(*) FROM leave_requests WHERE status = 'pending'`)
}

func (r *CounterRepository) count(ctx context.Context, op, query string) (int64, error) {
	var count int64
	if err := GetQuerier(ctx, r.db).QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, database.Wrap(op, err)
	}
	return count, nil
}
