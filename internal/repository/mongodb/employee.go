package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type employeeDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash,omitempty"`
	Role         string    `bson:"role,omitempty"`
	Department   *string   `bson:"department,omitempty"`
	Position     *string   `bson:"position,omitempty"`
	CreatedAt    time.Time `bson:"created_at,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty"`
}

func (d employeeDocument) toEntity() employee.Employee {
	return employee.Employee{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         employee.Role(d.Role),
		Department:   d.Department,
		Position:     d.Position,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type employeeRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewEmployeeRepository(db *database.MongoDB) employee.EmployeeRepository {
	return &employeeRepository{
		collection: db.Collection(EmployeeCollection),
		now:        time.Now,
	}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var doc employeeDocument
	if err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return employee.Employee{}, fmt.Errorf("employee with id %s: %w", id, employee.ErrEmployeeNotFound)
		}
		return employee.Employee{}, database.Wrap("failed to get employee", err)
	}
	return doc.toEntity(), nil
}

// ListIDsByRole implements employee.EmployeeRepository.
func (r *employeeRepository) ListIDsByRole(ctx context.Context, role employee.Role) ([]string, error) {
	cursor, err := r.collection.Find(ctx,
		bson.D{{Key: "role", Value: string(role)}},
		options.Find().
			SetProjection(bson.D{{Key: "_id", Value: 1}}).
			SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, database.Wrap("failed to list employees", err)
	}

	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, database.Wrap("failed to decode employees", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// CountByRole implements employee.EmployeeRepository.
func (r *employeeRepository) CountByRole(ctx context.Context, role employee.Role) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.D{{Key: "role", Value: string(role)}})
	if err != nil {
		return 0, database.Wrap("failed to count employees", err)
	}
	return count, nil
}

// Upsert implements employee.EmployeeRepository. Without an ID the employee is
// matched by email.
func (r *employeeRepository) Upsert(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if !e.Role.IsValid() {
		return employee.Employee{}, employee.ErrInvalidRole
	}

	filter := bson.D{{Key: "_id", Value: e.ID}}
	onInsert := bson.D{{Key: "created_at", Value: r.now().UTC()}}
	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		filter = bson.D{{Key: "email", Value: e.Email}}
		onInsert = append(onInsert, bson.E{Key: "_id", Value: id.String()})
	}

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: e.Name},
			{Key: "email", Value: e.Email},
			{Key: "password_hash", Value: e.PasswordHash},
			{Key: "role", Value: string(e.Role)},
			{Key: "department", Value: e.Department},
			{Key: "position", Value: e.Position},
			{Key: "updated_at", Value: r.now().UTC()},
		}},
		{Key: "$setOnInsert", Value: onInsert},
	}

	var doc employeeDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return employee.Employee{}, database.Wrap("failed to upsert employee", err)
	}

	return doc.toEntity(), nil
}
