package overview

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/overview"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type OverviewServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	tasks          overview.PendingTaskCounter
	leaves         overview.PendingLeaveCounter
	now            func() time.Time
}

func NewOverviewService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	tasks overview.PendingTaskCounter,
	leaves overview.PendingLeaveCounter,
	now func() time.Time,
) overview.Service {
	if now == nil {
		now = time.Now
	}
	return &OverviewServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		tasks:          tasks,
		leaves:         leaves,
		now:            now,
	}
}

// Compute returns the overview for one day using parallel reads
func (s *OverviewServiceImpl) Compute(ctx context.Context, actor employee.Identity, req overview.OverviewRequest) (overview.Overview, error) {
	if !actor.IsAdmin() {
		return overview.Overview{}, attendance.ErrForbidden
	}

	date := attendance.DateOf(s.now())
	if req.Date != nil && !validator.IsEmpty(*req.Date) {
		d, ok := validator.ParseDay(*req.Date)
		if !ok {
			return overview.Overview{}, validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
		date = d
	}

	start := time.Now()
	defer func() {
		metrics.OverviewDuration.Observe(time.Since(start).Seconds())
	}()

	var (
		records       []attendance.Attendance
		pendingTasks  int64
		pendingLeaves int64
		employees     int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Attendance records for the day
	g.Go(func() error {
		rows, err := s.attendanceRepo.ListByDate(gCtx, date)
		if err != nil {
			return fmt.Errorf("failed to list attendance for date: %w", err)
		}
		records = rows
		return nil
	})

	// 2. Pending tasks
	g.Go(func() error {
		count, err := s.tasks.CountPendingTasks(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count pending tasks: %w", err)
		}
		pendingTasks = count
		return nil
	})

	// 3. Pending leave requests
	g.Go(func() error {
		count, err := s.leaves.CountPendingLeaves(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count pending leaves: %w", err)
		}
		pendingLeaves = count
		return nil
	})

	// 4. Employee headcount
	g.Go(func() error {
		count, err := s.employeeRepo.CountByRole(gCtx, employee.RoleEmployee)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		employees = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return overview.Overview{}, err
	}

	result := Summarize(records)
	result.Date = date.Format(attendance.DateLayout)
	result.PendingTaskCount = pendingTasks
	result.PendingLeaveCount = pendingLeaves
	result.TotalEmployeeCount = employees
	return result, nil
}

// Summarize counts Present and Absent records and averages hours over all of them
func Summarize(records []attendance.Attendance) overview.Overview {
	var result overview.Overview
	if len(records) == 0 {
		return result
	}

	var totalHours float64
	for _, att := range records {
		switch att.Status {
		case attendance.StatusPresent:
			result.PresentCount++
		case attendance.StatusAbsent:
			result.AbsentCount++
		}
		totalHours += att.TotalHours
	}
	result.AverageHours = attendance.RoundHours(totalHours / float64(len(records)))
	return result
}
