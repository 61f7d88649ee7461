package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DATABASE_URL and resets the tables
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.EnsureSchema(ctx, db))
	_, err = db.Exec(ctx, `TRUNCATE attendances, leave_requests, tasks, employees CASCADE`)
	require.NoError(t, err)

	return db
}

func seedEmployees(t *testing.T, repo employee.EmployeeRepository) {
	t.Helper()
	ctx := context.Background()
	for _, e := range []employee.Employee{
		{ID: "emp-1", Name: "Ada", Email: "ada@example.com", Role: employee.RoleEmployee},
		{ID: "emp-2", Name: "Grace", Email: "grace@example.com", Role: employee.RoleEmployee},
		{ID: "adm-1", Name: "Ken", Email: "ken@example.com", Role: employee.RoleAdmin},
	} {
		_, err := repo.Upsert(ctx, e)
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
	repo := postgresql.NewEmployeeRepository(db)
	seedEmployees(t, repo)

	got, err := repo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, employee.RoleEmployee, got.Role)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	ids, err := repo.ListIDsByRole(ctx, employee.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, []string{"emp-1", "emp-2"}, ids)

	count, err := repo.CountByRole(ctx, employee.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Matched by email when no id is given
	updated, err := repo.Upsert(ctx, employee.Employee{Name: "Ada L.", Email: "ada@example.com", Role: employee.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "emp-1", updated.ID)

	_, err = repo.Upsert(ctx, employee.Employee{Name: "X", Email: "x@example.com", Role: "owner"})
	assert.ErrorIs(t, err, employee.ErrInvalidRole)
}

func TestAttendanceRepository_CreateUpdate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedEmployees(t, postgresql.NewEmployeeRepository(db))
	repo := postgresql.NewAttendanceRepository(db)

	in := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: "emp-1",
		Date:       day("2024-01-15"),
		Punches:    []attendance.Punch{{Type: attendance.PunchIn, Time: in}},
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "emp-1", Date: day("2024-01-15"), Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, attendance.ErrStaleRecord)

	created.Punches = append(created.Punches, attendance.Punch{Type: attendance.PunchOut, Time: in.Add(8*time.Hour + 30*time.Minute)})
	created.TotalHours = 8.5
	saved, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)

	// The caller still holds version 1
	_, err = repo.Update(ctx, created)
	assert.ErrorIs(t, err, attendance.ErrStaleRecord)

	_, err = repo.Update(ctx, attendance.Attendance{EmployeeID: "emp-2", Date: day("2024-01-15"), Version: 1})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	got, err := repo.GetByEmployeeAndDate(ctx, "emp-1", day("2024-01-15"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 8.5, got.TotalHours)
	require.Len(t, got.Punches, 2)
	assert.Equal(t, in, got.Punches[0].Time)
	assert.Equal(t, day("2024-01-15"), got.Date)

	missing, err := repo.GetByEmployeeAndDate(ctx, "emp-2", day("2024-01-15"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendanceRepository_Lists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedEmployees(t, postgresql.NewEmployeeRepository(db))
	repo := postgresql.NewAttendanceRepository(db)

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

	mine, err := repo.ListByEmployee(ctx, "emp-1", nil, nil)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, day("2024-01-16"), mine[0].Date)

	from := day("2024-01-16")
	mine, err = repo.ListByEmployee(ctx, "emp-1", &from, nil)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	sameDay, err := repo.ListByDate(ctx, day("2024-01-16"))
	require.NoError(t, err)
	assert.Len(t, sameDay, 2)

	page, total, err := repo.List(ctx, attendance.Query{Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "emp-1", page[0].EmployeeID)
	require.NotNil(t, page[0].EmployeeName)
	assert.Equal(t, "Ada", *page[0].EmployeeName)

	absent := attendance.StatusAbsent
	filtered, total, err := repo.List(ctx, attendance.Query{Status: &absent})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "emp-2", filtered[0].EmployeeID)
}

func TestCounterRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedEmployees(t, postgresql.NewEmployeeRepository(db))

	_, err := db.Exec(ctx, `INSERT INTO tasks (id, status) VALUES ('t1', 'todo'), ('t2', 'done'), ('t3', 'in_progress')`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO leave_requests (id, employee_id, status) VALUES ('l1', 'emp-1', 'pending'), ('l2', 'emp-2', 'approved')`)
	require.NoError(t, err)

	counters := postgresql.NewCounterRepository(db)
	tasks, err := counters.CountPendingTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), tasks)

	leaves, err := counters.CountPendingLeaves(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), leaves)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	err := postgresql.WithTransaction(ctx, db, func(ctx context.Context) error {
		if _, err := repo.Upsert(ctx, employee.Employee{ID: "tmp-1", Name: "Tmp", Email: "tmp@example.com", Role: employee.RoleEmployee}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = repo.GetByID(ctx, "tmp-1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
