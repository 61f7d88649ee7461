package mongodb

import (
	"context"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// CounterRepository answers the pending counts shown on the admin overview
type CounterRepository struct {
	tasks  *mongo.Collection
	leaves *mongo.Collection
}

func NewCounterRepository(db *database.MongoDB) *CounterRepository {
	return &CounterRepository{
		tasks:  db.Collection(TaskCollection),
		leaves: db.Collection(LeaveRequestCollection),
	}
}

// CountPendingTasks implements overview.PendingTaskCounter.
func (r *CounterRepository) CountPendingTasks(ctx context.Context) (int64, error) {
	count, err := r.tasks.CountDocuments(ctx, bson.D{{Key: "status", Value: bson.D{{Key: "$ne", Value: "done"}}}})
	if err != nil {
		return 0, database.Wrap("failed to count pending tasks", err)
	}
	return count, nil
}

// CountPendingLeaves implements overview.PendingLeaveCounter.
func (r *CounterRepository) CountPendingLeaves(ctx context.Context) (int64, error) {
	count, err := r.leaves.CountDocuments(ctx, bson.D{{Key: "status", Value: "pending"}})
	if err != nil {
		return 0, database.Wrap("failed to count pending leaves", err)
	}
	return count, nil
}
