package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/realtime"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/validator"
)

// maxAttempts bounds the load-modify-save loop when another writer wins the race
const maxAttempts = 3

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	broadcaster realtime.Broadcaster
	locks       *keylock.KeyLock
	now         func() time.Time
}

type Option func(*AttendanceServiceImpl)

// WithClock overrides the service clock used for punches and "today".
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) {
		s.now = now
	}
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	broadcaster realtime.Broadcaster,
	opts ...Option,
) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		broadcaster:          broadcaster,
		locks:                keylock.New(),
		now:                  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Punch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Punch(ctx context.Context, actor employee.Identity, req attendance.PunchRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowUTC := s.now().UTC()
	date := attendance.DateOf(nowUTC)

	saved, err := s.mutate(ctx, "punch", actor.EmployeeID, date, func(current *attendance.Attendance) (attendance.Attendance, error) {
		att := s.newRecord(actor.EmployeeID, date, attendance.StatusPresent)
		if current != nil {
			att = *current
		}

		if last := att.LastPunch(); last != nil && last.Type == req.Type {
			return attendance.Attendance{}, attendance.ErrDoublePunch
		}

		att.Punches = append(att.Punches, attendance.Punch{Type: req.Type, Time: nowUTC})
		att.TotalHours = attendance.ComputeHours(att.Punches)
		return att, nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.notify(ctx, saved, realtime.ActionPunch)
	return attendance.ToResponse(saved), nil
}

// RequestLeave implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RequestLeave(ctx context.Context, actor employee.Identity, req attendance.LeaveRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date := s.resolveDate(req.Date)
	reason := nonEmpty(req.Reason)

	saved, err := s.mutate(ctx, "leave", actor.EmployeeID, date, func(current *attendance.Attendance) (attendance.Attendance, error) {
		att := s.newRecord(actor.EmployeeID, date, attendance.StatusLeave)
		if current != nil {
			att = *current
		}

		att.Status = attendance.StatusLeave
		att.TotalHours = 0
		if reason != nil {
			att.Note = reason
		}
		return att, nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.notify(ctx, saved, realtime.ActionLeave)
	return attendance.ToResponse(saved), nil
}

// SetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SetStatus(ctx context.Context, actor employee.Identity, req attendance.SetStatusRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date := s.resolveDate(req.Date)
	reason := nonEmpty(req.Reason)

	saved, err := s.mutate(ctx, "status", actor.EmployeeID, date, func(current *attendance.Attendance) (attendance.Attendance, error) {
		att := s.newRecord(actor.EmployeeID, date, req.Status)
		if current != nil {
			att = *current
		}

		// A finalized day can be downgraded but never turned back into Present
		if att.IsFinalized() && req.Status == attendance.StatusPresent {
			return attendance.Attendance{}, attendance.ErrCompletedDay
		}

		att.Status = req.Status
		if req.Status != attendance.StatusPresent {
			att.TotalHours = 0
		}
		if reason != nil {
			att.Note = reason
		}
		return att, nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.notify(ctx, saved, realtime.ActionStatus)
	return attendance.ToResponse(saved), nil
}

// ManualCorrect implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ManualCorrect(ctx context.Context, actor employee.Identity, req attendance.ManualCorrectionRequest) (attendance.AttendanceResponse, error) {
	if !actor.IsAdmin() {
		return attendance.AttendanceResponse{}, attendance.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	date, _ := validator.ParseDay(req.Date)
	punches := req.ParsedPunches()

	saved, err := s.mutate(ctx, "manual", req.EmployeeID, date, func(current *attendance.Attendance) (attendance.Attendance, error) {
		att := s.newRecord(req.EmployeeID, date, attendance.StatusPresent)
		if current != nil {
			att = *current
		}

		// Only supplied fields are written; hours are never derived here
		if req.Punches != nil {
			att.Punches = punches
		}
		if req.TotalHours != nil {
			att.TotalHours = attendance.RoundHours(*req.TotalHours)
		}
		if req.Status != nil {
			att.Status = *req.Status
		}
		if req.Note != nil {
			note := *req.Note
			att.Note = &note
		}
		return att, nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance manually corrected",
		"admin_id", actor.EmployeeID,
		"employee_id", saved.EmployeeID,
		"date", saved.Date.Format(attendance.DateLayout))

	s.notify(ctx, saved, realtime.ActionManual)
	return attendance.ToResponse(saved), nil
}

// ListForEmployee implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListForEmployee(ctx context.Context, actor employee.Identity, employeeID string, filter attendance.ListFilter) ([]attendance.AttendanceResponse, error) {
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}

	if employeeID != actor.EmployeeID {
		if !actor.CanViewOthers() {
			return nil, attendance.ErrForbidden
		}
		if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
			return nil, fmt.Errorf("failed to get employee: %w", err)
		}
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	from, to := filter.Range()

	records, err := s.AttendanceRepository.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	return mapAttendances(records), nil
}

// ListAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAll(ctx context.Context, actor employee.Identity, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if !actor.IsAdmin() {
		return attendance.ListAttendanceResponse{}, attendance.ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter.ToQuery(true))
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: mapAttendances(records),
	}, nil
}

// Export implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Export(ctx context.Context, actor employee.Identity, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if !actor.IsAdmin() {
		return nil, attendance.ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, _, err := s.AttendanceRepository.List(ctx, filter.ToQuery(false))
	if err != nil {
		return nil, fmt.Errorf("failed to export attendances: %w", err)
	}

	return mapAttendances(records), nil
}

// MarkAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, date time.Time) (int, error) {
	date = attendance.DateOf(date)

	employeeIDs, err := s.EmployeeRepository.ListIDsByRole(ctx, employee.RoleEmployee)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees: %w", err)
	}

	marked := 0
	for _, employeeID := range employeeIDs {
		if err := ctx.Err(); err != nil {
			return marked, err
		}

		saved, err := s.mutate(ctx, "absent", employeeID, date, func(current *attendance.Attendance) (attendance.Attendance, error) {
			if current != nil {
				return attendance.Attendance{}, errAlreadyRecorded
			}
			return s.newRecord(employeeID, date, attendance.StatusAbsent), nil
		})
		if errors.Is(err, errAlreadyRecorded) {
			continue
		}
		if err != nil {
			slog.Error("Failed to mark employee absent", "employee_id", employeeID, "date", date.Format(attendance.DateLayout), "error", err)
			continue
		}

		marked++
		s.notify(ctx, saved, realtime.ActionAbsent)
	}

	return marked, nil
}

// errAlreadyRecorded skips days that already carry a record during absent marking
var errAlreadyRecorded = errors.New("attendance already recorded")

// mutate runs one serialized load-modify-save for an employee day. apply gets
// the stored record (nil when the day is empty) and returns the record to
// persist. Stale writes are retried with a fresh load.
func (s *AttendanceServiceImpl) mutate(
	ctx context.Context,
	operation string,
	employeeID string,
	date time.Time,
	apply func(current *attendance.Attendance) (attendance.Attendance, error),
) (saved attendance.Attendance, err error) {
	defer func() {
		metrics.ObserveMutation(operation, err, isRejection(err))
	}()

	unlock := s.locks.Lock(attendance.DayKey(employeeID, date))
	defer unlock()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		current, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
		}

		next, err := apply(current)
		if err != nil {
			return attendance.Attendance{}, err
		}

		if current == nil {
			saved, err = s.AttendanceRepository.Create(ctx, next)
		} else {
			saved, err = s.AttendanceRepository.Update(ctx, next)
		}
		if errors.Is(err, attendance.ErrStaleRecord) {
			metrics.AttendanceRetries.WithLabelValues(operation).Inc()
			slog.Warn("Attendance modified concurrently, retrying",
				"operation", operation,
				"employee_id", employeeID,
				"attempt", attempt)
			continue
		}
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to save attendance: %w", err)
		}
		return saved, nil
	}

	return attendance.Attendance{}, attendance.ErrStaleRecord
}

func (s *AttendanceServiceImpl) notify(ctx context.Context, att attendance.Attendance, action realtime.Action) {
	if s.broadcaster == nil {
		return
	}

	payload := realtime.Payload{
		EmployeeID: att.EmployeeID,
		Date:       att.Date.Format(attendance.DateLayout),
		Status:     string(att.Status),
		TotalHours: att.TotalHours,
		Action:     action,
		At:         s.now().UTC(),
	}
	if err := s.broadcaster.PublishAttendanceChange(ctx, att.EmployeeID, payload); err != nil {
		slog.Warn("Failed to publish attendance change", "employee_id", att.EmployeeID, "action", action, "error", err)
	}
}

func (s *AttendanceServiceImpl) newRecord(employeeID string, date time.Time, status attendance.Status) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID: employeeID,
		Date:       date,
		Punches:    []attendance.Punch{},
		TotalHours: 0,
		Status:     status,
	}
}

// resolveDate parses an optional validated day, defaulting to today
func (s *AttendanceServiceImpl) resolveDate(date *string) time.Time {
	if date != nil {
		if d, ok := validator.ParseDay(*date); ok {
			return d
		}
	}
	return attendance.DateOf(s.now())
}

func isRejection(err error) bool {
	return errors.Is(err, attendance.ErrDoublePunch) ||
		errors.Is(err, attendance.ErrCompletedDay) ||
		errors.Is(err, attendance.ErrStaleRecord) ||
		errors.Is(err, errAlreadyRecorded)
}

func nonEmpty(s *string) *string {
	if s == nil || validator.IsEmpty(*s) {
		return nil
	}
	v := *s
	return &v
}

func mapAttendances(records []attendance.Attendance) []attendance.AttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, attendance.ToResponse(att))
	}
	return responses
}
