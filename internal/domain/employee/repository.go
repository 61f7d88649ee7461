package employee

import "context"

// EmployeeRepository is the read side of the employee directory plus the
// upsert used by the seed tool. Directory CRUD lives in another service.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListIDsByRole(ctx context.Context, role Role) ([]string, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	Upsert(ctx context.Context, e Employee) (Employee, error)
}
