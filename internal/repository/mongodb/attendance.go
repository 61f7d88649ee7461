package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type punchDocument struct {
	Type string    `bson:"type"`
	Time time.Time `bson:"time"`
}

// attendanceDocument stores the day as YYYY-MM-DD so equality and ranges
// compare lexically
type attendanceDocument struct {
	ID           string          `bson:"_id"`
	EmployeeID   string          `bson:"employee_id"`
	Date         string          `bson:"date"`
	Punches      []punchDocument `bson:"punches"`
	TotalHours   float64         `bson:"total_hours"`
	BreakMinutes int             `bson:"break_minutes"`
	Status       string          `bson:"status"`
	Note         *string         `bson:"note,omitempty"`
	Version      int             `bson:"version"`
	CreatedAt    time.Time       `bson:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at"`
}

func toAttendanceDocument(att attendance.Attendance) attendanceDocument {
	punches := make([]punchDocument, 0, len(att.Punches))
	for _, p := range att.Punches {
		punches = append(punches, punchDocument{Type: string(p.Type), Time: p.Time.UTC()})
	}
	return attendanceDocument{
		ID:           att.ID,
		EmployeeID:   att.EmployeeID,
		Date:         att.Date.Format(attendance.DateLayout),
		Punches:      punches,
		TotalHours:   att.TotalHours,
		BreakMinutes: att.BreakMinutes,
		Status:       string(att.Status),
		Note:         att.Note,
		Version:      att.Version,
		CreatedAt:    att.CreatedAt.UTC(),
		UpdatedAt:    att.UpdatedAt.UTC(),
	}
}

func (d attendanceDocument) toEntity() (attendance.Attendance, error) {
	date, err := time.Parse(attendance.DateLayout, d.Date)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("parse date of %s: %w", d.ID, err)
	}
	punches := make([]attendance.Punch, 0, len(d.Punches))
	for _, p := range d.Punches {
		punches = append(punches, attendance.Punch{Type: attendance.PunchType(p.Type), Time: p.Time.UTC()})
	}
	return attendance.Attendance{
		ID:           d.ID,
		EmployeeID:   d.EmployeeID,
		Date:         date,
		Punches:      punches,
		TotalHours:   d.TotalHours,
		BreakMinutes: d.BreakMinutes,
		Status:       attendance.Status(d.Status),
		Note:         d.Note,
		Version:      d.Version,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

type attendanceRepository struct {
	collection *mongo.Collection
	employees  *mongo.Collection
	now        func() time.Time
}

func NewAttendanceRepository(db *database.MongoDB) attendance.AttendanceRepository {
	return &attendanceRepository{
		collection: db.Collection(AttendanceCollection),
		employees:  db.Collection(EmployeeCollection),
		now:        time.Now,
	}
}

func dayFilter(employeeID string, date time.Time) bson.D {
	return bson.D{
		{Key: "employee_id", Value: employeeID},
		{Key: "date", Value: attendance.DateOf(date).Format(attendance.DateLayout)},
	}
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	var doc attendanceDocument
	err := r.collection.FindOne(ctx, dayFilter(employeeID, date)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, database.Wrap("failed to get attendance", err)
	}

	att, err := doc.toEntity()
	if err != nil {
		return nil, database.Wrap("failed to decode attendance", err)
	}
	return &att, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	now := r.now().UTC()

	newAttendance.ID = id.String()
	newAttendance.Date = attendance.DateOf(newAttendance.Date)
	newAttendance.Version = 1
	newAttendance.CreatedAt = now
	newAttendance.UpdatedAt = now
	newAttendance.EmployeeName = nil
	newAttendance.EmployeeEmail = nil

	if _, err := r.collection.InsertOne(ctx, toAttendanceDocument(newAttendance)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Attendance{}, attendance.ErrStaleRecord
		}
		return attendance.Attendance{}, database.Wrap("failed to create attendance", err)
	}

	return newAttendance, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, updated attendance.Attendance) (attendance.Attendance, error) {
	doc := toAttendanceDocument(updated)
	filter := append(dayFilter(updated.EmployeeID, updated.Date), bson.E{Key: "version", Value: updated.Version})

	set := bson.D{
		{Key: "punches", Value: doc.Punches},
		{Key: "total_hours", Value: doc.TotalHours},
		{Key: "break_minutes", Value: doc.BreakMinutes},
		{Key: "status", Value: doc.Status},
		{Key: "note", Value: doc.Note},
		{Key: "updated_at", Value: r.now().UTC()},
	}
	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	}

	var saved attendanceDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return attendance.Attendance{}, database.Wrap("failed to update attendance", err)
		}

		count, err := r.collection.CountDocuments(ctx, dayFilter(updated.EmployeeID, updated.Date))
		if err != nil {
			return attendance.Attendance{}, database.Wrap("failed to check attendance", err)
		}
		if count == 0 {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, attendance.ErrStaleRecord
	}

	att, err := saved.toEntity()
	if err != nil {
		return attendance.Attendance{}, database.Wrap("failed to decode attendance", err)
	}
	return att, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to *time.Time) ([]attendance.Attendance, error) {
	records, err := r.find(ctx, attendance.Query{EmployeeID: &employeeID, From: from, To: to})
	return records, err
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	day := attendance.DateOf(date)
	return r.find(ctx, attendance.Query{From: &day, To: &day})
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, q attendance.Query) ([]attendance.Attendance, int64, error) {
	total, err := r.collection.CountDocuments(ctx, queryFilter(q))
	if err != nil {
		return nil, 0, database.Wrap("failed to count attendances", err)
	}

	records, err := r.find(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachEmployees(ctx, records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func queryFilter(q attendance.Query) bson.D {
	filter := bson.D{}
	if q.EmployeeID != nil && *q.EmployeeID != "" {
		filter = append(filter, bson.E{Key: "employee_id", Value: *q.EmployeeID})
	}
	if q.Status != nil && *q.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: string(*q.Status)})
	}

	dateRange := bson.D{}
	if q.From != nil {
		dateRange = append(dateRange, bson.E{Key: "$gte", Value: attendance.DateOf(*q.From).Format(attendance.DateLayout)})
	}
	if q.To != nil {
		dateRange = append(dateRange, bson.E{Key: "$lte", Value: attendance.DateOf(*q.To).Format(attendance.DateLayout)})
	}
	if len(dateRange) > 0 {
		filter = append(filter, bson.E{Key: "date", Value: dateRange})
	}
	return filter
}

func (r *attendanceRepository) find(ctx context.Context, q attendance.Query) ([]attendance.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "employee_id", Value: 1}})
	if q.Limit > 0 {
		opts.SetSkip(int64(q.Offset)).SetLimit(int64(q.Limit))
	}

	cursor, err := r.collection.Find(ctx, queryFilter(q), opts)
	if err != nil {
		return nil, database.Wrap("failed to list attendances", err)
	}

	var docs []attendanceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, database.Wrap("failed to decode attendances", err)
	}

	records := make([]attendance.Attendance, 0, len(docs))
	for _, doc := range docs {
		att, err := doc.toEntity()
		if err != nil {
			return nil, database.Wrap("failed to decode attendance", err)
		}
		records = append(records, att)
	}
	return records, nil
}

// attachEmployees fills name and email from the employees collection
func (r *attendanceRepository) attachEmployees(ctx context.Context, records []attendance.Attendance) error {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, att := range records {
		if _, ok := seen[att.EmployeeID]; !ok {
			seen[att.EmployeeID] = struct{}{}
			ids = append(ids, att.EmployeeID)
		}
	}

	cursor, err := r.employees.Find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}},
		options.Find().SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}}),
	)
	if err != nil {
		return database.Wrap("failed to load employees", err)
	}

	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return database.Wrap("failed to decode employees", err)
	}

	byID := make(map[string]employeeDocument, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}
	for i := range records {
		if doc, ok := byID[records[i].EmployeeID]; ok {
			name, email := doc.Name, doc.Email
			records[i].EmployeeName = &name
			records[i].EmployeeEmail = &email
		}
	}
	return nil
}
