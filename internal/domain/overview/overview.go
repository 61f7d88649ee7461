package overview

import (
	"context"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
)

type Overview struct {
	Date               string  `json:"date"`
	PresentCount       int     `json:"present_count"`
	AbsentCount        int     `json:"absent_count"`
	AverageHours       float64 `json:"average_hours"`
	PendingTaskCount   int64   `json:"pending_task_count"`
	PendingLeaveCount  int64   `json:"pending_leave_count"`
	TotalEmployeeCount int64   `json:"total_employee_count"`
}

type OverviewRequest struct {
	Date *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

// PendingTaskCounter counts tasks whose status is not done.
type PendingTaskCounter interface {
	CountPendingTasks(ctx context.Context) (int64, error)
}

// PendingLeaveCounter counts leave requests still awaiting a decision.
type PendingLeaveCounter interface {
	CountPendingLeaves(ctx context.Context) (int64, error)
}

type Service interface {
	Compute(ctx context.Context, actor employee.Identity, req OverviewRequest) (Overview, error)
}
