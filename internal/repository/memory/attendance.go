package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type AttendanceRepository struct {
	mu        sync.RWMutex
	records   map[string]attendance.Attendance // keyed by attendance.DayKey
	employees *EmployeeRepository
	now       func() time.Time
}

// NewAttendanceRepository returns an in-process attendance store. When
// employees is non-nil, List populates employee name and email from it.
func NewAttendanceRepository(employees *EmployeeRepository) *AttendanceRepository {
	return &AttendanceRepository{
		records:   make(map[string]attendance.Attendance),
		employees: employees,
		now:       time.Now,
	}
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	att, ok := r.records[attendance.DayKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	att = clone(att)
	return &att, nil
}

// Create implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendance.DayKey(newAttendance.EmployeeID, newAttendance.Date)
	if _, exists := r.records[key]; exists {
		return attendance.Attendance{}, attendance.ErrStaleRecord
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, err
	}
	now := r.now().UTC()

	newAttendance.ID = id.String()
	newAttendance.Date = attendance.DateOf(newAttendance.Date)
	newAttendance.Version = 1
	newAttendance.CreatedAt = now
	newAttendance.UpdatedAt = now
	newAttendance.EmployeeName = nil
	newAttendance.EmployeeEmail = nil

	r.records[key] = clone(newAttendance)
	return newAttendance, nil
}

// Update implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Update(ctx context.Context, updated attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendance.DayKey(updated.EmployeeID, updated.Date)
	current, exists := r.records[key]
	if !exists {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if current.Version != updated.Version {
		return attendance.Attendance{}, attendance.ErrStaleRecord
	}

	updated.ID = current.ID
	updated.Date = current.Date
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = r.now().UTC()
	updated.Version = current.Version + 1
	updated.EmployeeName = nil
	updated.EmployeeEmail = nil

	r.records[key] = clone(updated)
	return updated, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to *time.Time) ([]attendance.Attendance, error) {
	records, _ := r.filter(attendance.Query{EmployeeID: &employeeID, From: from, To: to})
	return records, nil
}

// ListByDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	day := attendance.DateOf(date)
	records, _ := r.filter(attendance.Query{From: &day, To: &day})
	return records, nil
}

// List implements attendance.AttendanceRepository.
func (r *AttendanceRepository) List(ctx context.Context, q attendance.Query) ([]attendance.Attendance, int64, error) {
	records, total := r.filter(q)

	if r.employees != nil {
		for i := range records {
			if e, ok := r.employees.lookup(records[i].EmployeeID); ok {
				name, email := e.Name, e.Email
				records[i].EmployeeName = &name
				records[i].EmployeeEmail = &email
			}
		}
	}
	return records, total, nil
}

// filter returns matching records newest date first, then the total before paging
func (r *AttendanceRepository) filter(q attendance.Query) ([]attendance.Attendance, int64) {
	r.mu.RLock()
	matched := make([]attendance.Attendance, 0)
	for _, att := range r.records {
		if q.EmployeeID != nil && att.EmployeeID != *q.EmployeeID {
			continue
		}
		if q.Status != nil && att.Status != *q.Status {
			continue
		}
		if q.From != nil && att.Date.Before(attendance.DateOf(*q.From)) {
			continue
		}
		if q.To != nil && att.Date.After(attendance.DateOf(*q.To)) {
			continue
		}
		matched = append(matched, clone(att))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].EmployeeID < matched[j].EmployeeID
	})

	total := int64(len(matched))
	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return []attendance.Attendance{}, total
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, total
}

func clone(att attendance.Attendance) attendance.Attendance {
	if att.Punches != nil {
		punches := make([]attendance.Punch, len(att.Punches))
		copy(punches, att.Punches)
		att.Punches = punches
	}
	if att.Note != nil {
		note := *att.Note
		att.Note = &note
	}
	return att
}
