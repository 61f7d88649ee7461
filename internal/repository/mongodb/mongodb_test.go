package mongodb_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/repository/mongodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// setupTestDB connects to TEST_MONGO_URI using a throwaway database
func setupTestDB(t *testing.T) *database.MongoDB {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	db, err := database.NewMongoDB(ctx, uri, fmt.Sprintf("trackwise_test_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = db.Close(context.Background())
	})

	require.NoError(t, mongodb.EnsureIndexes(ctx, db))
	return db
}

func seedEmployees(t *testing.T, repo employee.EmployeeRepository) {
	t.Helper()
	for _, e := range []employee.Employee{
		{ID: "emp-1", Name: "Ada", Email: "ada@example.com", Role: employee.RoleEmployee},
		{ID: "emp-2", Name: "Grace", Email: "grace@example.com", Role: employee.RoleEmployee},
		{ID: "adm-1", Name: "Ken", Email: "ken@example.com", Role: employee.RoleAdmin},
	} {
		_, err := repo.Upsert(context.Background(), e)
		require.NoError(t, err)
	}
}

func day(s string) time.Time {
	d, _ := time.Parse(attendance.DateLayout, s)
	return d
}

func TestEmployeeRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := mongodb.NewEmployeeRepository(db)
	seedEmployees(t, repo)

	got, err := repo.GetByID(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.Name)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	ids, err := repo.ListIDsByRole(ctx, employee.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, []string{"emp-1", "emp-2"}, ids)

	count, err := repo.CountByRole(ctx, employee.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	updated, err := repo.Upsert(ctx, employee.Employee{Name: "Ada L.", Email: "ada@example.com", Role: employee.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, "emp-1", updated.ID)
	assert.Equal(t, "Ada L.", updated.Name)

	created, err := repo.Upsert(ctx, employee.Employee{Name: "New", Email: "new@example.com", Role: employee.RoleManager})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestAttendanceRepository_CompareAndSwap(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := mongodb.NewAttendanceRepository(db)

	in := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: "emp-1",
		Date:       day("2024-01-15"),
		Punches:    []attendance.Punch{{Type: attendance.PunchIn, Time: in}},
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day("2024-01-15"), Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, attendance.ErrStaleRecord)

	created.TotalHours = 8
	saved, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)
	assert.Equal(t, 8.0, saved.TotalHours)

	_, err = repo.Update(ctx, created)
	assert.ErrorIs(t, err, attendance.ErrStaleRecord)

	_, err = repo.Update(ctx, attendance.Attendance{EmployeeID: "emp-9", Date: day("2024-01-15"), Version: 1})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	got, err := repo.GetByEmployeeAndDate(ctx, "emp-1", day("2024-01-15"))
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Punches, 1)
	assert.True(t, in.Equal(got.Punches[0].Time))
}

func TestAttendanceRepository_Lists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedEmployees(t, mongodb.NewEmployeeRepository(db))
	repo := mongodb.NewAttendanceRepository(db)

	for _, rec := range []struct {
		employeeID string
		date       string
		status     attendance.Status
	}{
		{"emp-1", "2024-01-15", attendance.StatusPresent},
		{"emp-1", "2024-01-16", attendance.StatusLeave},
		{"emp-2", "2024-01-16", attendance.StatusAbsent},
	} {
		_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: rec.employeeID, Date: day(rec.date), Status: rec.status})
		require.NoError(t, err)
	}

	to := day("2024-01-15")
	mine, err := repo.ListByEmployee(ctx, "emp-1", nil, &to)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, day("2024-01-15"), mine[0].Date)

	sameDay, err := repo.ListByDate(ctx, day("2024-01-16"))
	require.NoError(t, err)
	assert.Len(t, sameDay, 2)

	page, total, err := repo.List(ctx, attendance.Query{Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "emp-2", page[0].EmployeeID)
	require.NotNil(t, page[0].EmployeeEmail)
	assert.Equal(t, "grace@example.com", *page[0].EmployeeEmail)
}

func TestCounterRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.Collection(mongodb.TaskCollection).InsertMany(ctx, []interface{}{
		bson.D{{Key: "_id", Value: "t1"}, {Key: "status", Value: "todo"}},
		bson.D{{Key: "_id", Value: "t2"}, {Key: "status", Value: "done"}},
	})
	require.NoError(t, err)
	_, err = db.Collection(mongodb.LeaveRequestCollection).InsertMany(ctx, []interface{}{
		bson.D{{Key: "_id", Value: "l1"}, {Key: "status", Value: "pending"}},
		bson.D{{Key: "_id", Value: "l2"}, {Key: "status", Value: "pending"}},
		bson.D{{Key: "_id", Value: "l3"}, {Key: "status", Value: "rejected"}},
	})
	require.NoError(t, err)

	counters := mongodb.NewCounterRepository(db)
	tasks, err := counters.CountPendingTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tasks)

	leaves, err := counters.CountPendingLeaves(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), leaves)
}
