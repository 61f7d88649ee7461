package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.punches, a.total_hours::float8, a.break_minutes,
	a.status, a.note, a.version, a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{
		db: db,
	}
}

// punchRow is the JSONB shape of one punch
type punchRow struct {
	Type string    `json:"type"`
	Time time.Time `json:"time"`
}

func encodePunches(punches []attendance.Punch) ([]byte, error) {
	rows := make([]punchRow, 0, len(punches))
	for _, p := range punches {
		rows = append(rows, punchRow{Type: string(p.Type), Time: p.Time.UTC()})
	}
	return json.Marshal(rows)
}

func decodePunches(raw []byte) ([]attendance.Punch, error) {
	var rows []punchRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	punches := make([]attendance.Punch, 0, len(rows))
	for _, r := range rows {
		punches = append(punches, attendance.Punch{Type: attendance.PunchType(r.Type), Time: r.Time.UTC()})
	}
	return punches, nil
}

func scanAttendance(row pgx.Row, extra ...any) (attendance.Attendance, error) {
	var (
		att     attendance.Attendance
		punches []byte
	)
	dest := append([]any{
		&att.ID, &att.EmployeeID, &att.Date, &punches, &att.TotalHours, &att.BreakMinutes,
		&att.Status, &att.Note, &att.Version, &att.CreatedAt, &att.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}

	decoded, err := decodePunches(punches)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("decode punches of %s: %w", att.ID, err)
	}
	att.Punches = decoded
	att.Date = attendance.DateOf(att.Date)
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, attendance.DateOf(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Wrap("failed to get attendance", err)
	}

	return &att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	punches, err := encodePunches(newAttendance.Punches)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to encode punches: %w", err)
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date, punches, total_hours, break_minutes, status, note, version
		) VALUES (
			$1, $2, $3, $4::jsonb, $5, $6, $7, $8, 1
		) RETURNING version, created_at, updated_at
	`

	newAttendance.ID = id.String()
	newAttendance.Date = attendance.DateOf(newAttendance.Date)
	err = q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		newAttendance.Date,
		string(punches),
		newAttendance.TotalHours,
		newAttendance.BreakMinutes,
		string(newAttendance.Status),
		newAttendance.Note,
	).Scan(&newAttendance.Version, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return attendance.Attendance{}, attendance.ErrStaleRecord
		}
		return attendance.Attendance{}, database.Wrap("failed to create attendance", err)
	}

	newAttendance.EmployeeName = nil
	newAttendance.EmployeeEmail = nil
	return newAttendance, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, updated attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	punches, err := encodePunches(updated.Punches)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to encode punches: %w", err)
	}

	query := `
		UPDATE attendances
		SET punches = $1::jsonb,
			total_hours = $2,
			break_minutes = $3,
			status = $4,
			note = $5,
			version = version + 1,
			updated_at = NOW()
		WHERE employee_id = $6 AND date = $7 AND version = $8
		RETURNING id, version, created_at, updated_at
	`

	date := attendance.DateOf(updated.Date)
	err = q.QueryRow(ctx, query,
		string(punches),
		updated.TotalHours,
		updated.BreakMinutes,
		string(updated.Status),
		updated.Note,
		updated.EmployeeID,
		date,
		updated.Version,
	).Scan(&updated.ID, &updated.Version, &updated.CreatedAt, &updated.UpdatedAt)

	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, database.Wrap("failed to update attendance", err)
		}

		// No row matched: either the day is gone or the version moved on
		var exists bool
		if err := q.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM attendances WHERE employee_id = $1 AND date = $2)`,
			updated.EmployeeID, date,
		).Scan(&exists); err != nil {
			return attendance.Attendance{}, database.Wrap("failed to check attendance", err)
		}
		if !exists {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, attendance.ErrStaleRecord
	}

	updated.Date = date
	updated.EmployeeName = nil
	updated.EmployeeEmail = nil
	return updated, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to *time.Time) ([]attendance.Attendance, error) {
	records, _, err := a.list(ctx, attendance.Query{EmployeeID: &employeeID, From: from, To: to}, false)
	return records, err
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	day := attendance.DateOf(date)
	records, _, err := a.list(ctx, attendance.Query{From: &day, To: &day}, false)
	return records, err
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Query) ([]attendance.Attendance, int64, error) {
	return a.list(ctx, filter, true)
}

func (a *attendanceRepository) list(ctx context.Context, filter attendance.Query, join bool) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}

	// Date range filters
	if filter.From != nil {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, attendance.DateOf(*filter.From))
		argIdx++
	}
	if filter.To != nil {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, attendance.DateOf(*filter.To))
		argIdx++
	}

	var total int64
	if join {
		countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + baseWhere
		if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, database.Wrap("failed to count attendances", err)
		}
	}

	selectQuery := `SELECT ` + attendanceColumns
	if join {
		selectQuery += `, e.name, e.email
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id`
	} else {
		selectQuery += `
		FROM attendances a`
	}
	selectQuery += `
		WHERE ` + baseWhere + `
		ORDER BY a.date DESC, a.employee_id ASC`

	if filter.Limit > 0 {
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, database.Wrap("failed to list attendances", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var (
			att attendance.Attendance
			err error
		)
		if join {
			var name, email *string
			att, err = scanAttendance(rows, &name, &email)
			att.EmployeeName = name
			att.EmployeeEmail = email
		} else {
			att, err = scanAttendance(rows)
		}
		if err != nil {
			return nil, 0, database.Wrap("failed to scan attendance", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, database.Wrap("failed to iterate attendances", err)
	}

	if !join {
		total = int64(len(records))
	}
	return records, total, nil
}
