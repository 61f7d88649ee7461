package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
)

// AttendanceService defines business logic for attendance operations. The
// caller identity is always passed explicitly.
type AttendanceService interface {
	// Punch appends an in/out punch to the caller's record for today
	Punch(ctx context.Context, actor employee.Identity, req PunchRequest) (AttendanceResponse, error)

	// RequestLeave marks a day of the caller as Leave; it always succeeds
	RequestLeave(ctx context.Context, actor employee.Identity, req LeaveRequest) (AttendanceResponse, error)

	// SetStatus changes the caller's status for a day
	SetStatus(ctx context.Context, actor employee.Identity, req SetStatusRequest) (AttendanceResponse, error)

	// ManualCorrect overwrites the supplied fields of any employee's day (admin)
	ManualCorrect(ctx context.Context, actor employee.Identity, req ManualCorrectionRequest) (AttendanceResponse, error)

	// ListForEmployee lists one employee's records newest first
	ListForEmployee(ctx context.Context, actor employee.Identity, employeeID string, filter ListFilter) ([]AttendanceResponse, error)

	// ListAll lists every employee's records with pagination (admin)
	ListAll(ctx context.Context, actor employee.Identity, filter AttendanceFilter) (ListAttendanceResponse, error)

	// Export returns every record matching the filter, ignoring pagination (admin)
	Export(ctx context.Context, actor employee.Identity, filter AttendanceFilter) ([]AttendanceResponse, error)

	// MarkAbsent creates Absent records for employees without a record on date
	MarkAbsent(ctx context.Context, date time.Time) (int, error)
}
