package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/google/uuid"
)

type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

// NewEmployeeRepository returns an in-process employee directory.
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		employees: make(map[string]employee.Employee),
	}
}

// GetByID implements employee.EmployeeRepository.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// ListIDsByRole implements employee.EmployeeRepository.
func (r *EmployeeRepository) ListIDsByRole(ctx context.Context, role employee.Role) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, e := range r.employees {
		if e.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// CountByRole implements employee.EmployeeRepository.
func (r *EmployeeRepository) CountByRole(ctx context.Context, role employee.Role) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, e := range r.employees {
		if e.Role == role {
			count++
		}
	}
	return count, nil
}

// Upsert implements employee.EmployeeRepository. Employees are matched by ID,
// then by email.
func (r *EmployeeRepository) Upsert(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if !e.Role.IsValid() {
		return employee.Employee{}, employee.ErrInvalidRole
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if e.ID == "" {
		for id, existing := range r.employees {
			if existing.Email == e.Email {
				e.ID = id
				break
			}
		}
	}
	if existing, ok := r.employees[e.ID]; ok {
		e.CreatedAt = existing.CreatedAt
	} else {
		if e.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return employee.Employee{}, err
			}
			e.ID = id.String()
		}
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	r.employees[e.ID] = e
	return e, nil
}

func (r *EmployeeRepository) lookup(id string) (employee.Employee, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employees[id]
	return e, ok
}
