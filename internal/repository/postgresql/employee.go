package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{
		db: db,
	}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, email, password_hash, role, department, position, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var (
		e    employee.Employee
		role string
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Email, &e.PasswordHash, &role, &e.Department, &e.Position, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, fmt.Errorf("employee with id %s: %w", id, employee.ErrEmployeeNotFound)
		}
		return employee.Employee{}, database.Wrap("failed to get employee", err)
	}

	e.Role = employee.Role(role)
	return e, nil
}

// ListIDsByRole implements employee.EmployeeRepository.
func (r *employeeRepository) ListIDsByRole(ctx context.Context, role employee.Role) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM employees WHERE role = $1 ORDER BY id`, string(role))
	if err != nil {
		return nil, database.Wrap("failed to list employees", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, database.Wrap("failed to scan employee ids", err)
	}
	return ids, nil
}

// CountByRole implements employee.EmployeeRepository.
func (r *employeeRepository) CountByRole(ctx context.Context, role employee.Role) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE role = $1`, string(role)).Scan(&count); err != nil {
		return 0, database.Wrap("failed to count employees", err)
	}
	return count, nil
}

// Upsert implements employee.EmployeeRepository. Without an ID the employee is
// matched by email.
func (r *employeeRepository) Upsert(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if !e.Role.IsValid() {
		return employee.Employee{}, employee.ErrInvalidRole
	}

	q := GetQuerier(ctx, r.db)

	conflict := "id"
	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		e.ID = id.String()
		conflict = "email"
	}

	query := fmt.Sprintf(`
		INSERT INTO employees (id, name, email, password_hash, role, department, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (%s) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			department = EXCLUDED.department,
			position = EXCLUDED.position,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, conflict)

	err := q.QueryRow(ctx, query,
		e.ID, e.Name, e.Email, e.PasswordHash, string(e.Role), e.Department, e.Position,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return employee.Employee{}, database.Wrap("failed to upsert employee", err)
	}

	return e, nil
}
