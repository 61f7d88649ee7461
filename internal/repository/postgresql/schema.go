package postgresql

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL CHECK (role IN ('employee', 'manager', 'admin')),
		department    TEXT,
		position      TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendances (
		id            TEXT PRIMARY KEY,
		employee_id   TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		date          DATE NOT NULL,
		punches       JSONB NOT NULL DEFAULT '[]'::jsonb,
		total_hours   NUMERIC(7,2) NOT NULL DEFAULT 0 CHECK (total_hours >= 0),
		break_minutes INTEGER NOT NULL DEFAULT 0,
		status        TEXT NOT NULL,
		note          TEXT,
		version       INTEGER NOT NULL DEFAULT 1,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT attendances_employee_date_key UNIQUE (employee_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS attendances_date_idx ON attendances (date)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS leave_requests (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		status      TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tables the service reads and writes
func EnsureSchema(ctx context.Context, db *database.DB) error {
	err := WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)
		for _, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return database.Wrap("ensure schema", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Database schema ensured", "statements", len(schema))
	return nil
}
