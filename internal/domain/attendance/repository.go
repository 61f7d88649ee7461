package attendance

import (
	"context"
	"time"
)

// Query selects records for the admin listing and export. A zero Limit
// returns every matching record.
type Query struct {
	EmployeeID *string
	Status     *Status
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

// AttendanceRepository defines data access methods for attendance records.
// Create and Update are compare-and-swap operations: Create fails with
// ErrStaleRecord when the (employee, date) key already exists and Update fails
// with ErrStaleRecord when Version no longer matches the stored record.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when the day has no record yet
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update persists the record and returns it with Version incremented
	Update(ctx context.Context, attendance Attendance) (Attendance, error)

	// ListByEmployee returns records newest date first, with inclusive bounds
	ListByEmployee(ctx context.Context, employeeID string, from, to *time.Time) ([]Attendance, error)

	// ListByDate returns every employee's record for one day
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// List returns a page of records newest date first and the total match count
	List(ctx context.Context, q Query) ([]Attendance, int64, error)
}
