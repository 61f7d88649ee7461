package mongodb

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names
const (
	AttendanceCollection   = "attendances"
	EmployeeCollection     = "employees"
	TaskCollection         = "tasks"
	LeaveRequestCollection = "leave_requests"
)

// EnsureIndexes creates the unique keys the repositories rely on
func EnsureIndexes(ctx context.Context, db *database.MongoDB) error {
	indexes := map[string][]mongo.IndexModel{
		AttendanceCollection: {
			{
				Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("employee_date_unique"),
			},
			{
				Keys: bson.D{{Key: "date", Value: -1}},
			},
		},
		EmployeeCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("email_unique"),
			},
			{
				Keys: bson.D{{Key: "role", Value: 1}},
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return database.Wrap("ensure indexes on "+collection, err)
		}
	}

	slog.Info("MongoDB indexes ensured", "collections", len(indexes))
	return nil
}
