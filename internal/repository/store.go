package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/config"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/repository/mongodb"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/repository/postgresql"
)

// Counter answers both pending counts of the admin overview
type Counter interface {
	CountPendingTasks(ctx context.Context) (int64, error)
	CountPendingLeaves(ctx context.Context) (int64, error)
}

// Stores bundles the repositories of the configured driver
type Stores struct {
	Driver     string
	Attendance attendance.AttendanceRepository
	Employees  employee.EmployeeRepository
	Counters   Counter

	// Postgres is set only for the postgres driver
	Postgres *database.DB

	close func(ctx context.Context) error
}

// Open connects the store selected by STORE_DRIVER. When migrate is true the
// schema or indexes are created first.
func Open(ctx context.Context, cfg *config.Config, migrate bool) (*Stores, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if migrate {
			if err := postgresql.EnsureSchema(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &Stores{
			Driver:     config.DriverPostgres,
			Attendance: postgresql.NewAttendanceRepository(db),
			Employees:  postgresql.NewEmployeeRepository(db),
			Counters:   postgresql.NewCounterRepository(db),
			Postgres:   db,
			close: func(context.Context) error {
				db.Close()
				return nil
			},
		}, nil

	case config.DriverMongo:
		db, err := database.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if migrate {
			if err := mongodb.EnsureIndexes(ctx, db); err != nil {
				_ = db.Close(ctx)
				return nil, err
			}
		}
		return &Stores{
			Driver:     config.DriverMongo,
			Attendance: mongodb.NewAttendanceRepository(db),
			Employees:  mongodb.NewEmployeeRepository(db),
			Counters:   mongodb.NewCounterRepository(db),
			close:      db.Close,
		}, nil

	case config.DriverMemory:
		slog.Warn("Using in-memory store; data is lost on restart")
		employees := memory.NewEmployeeRepository()
		return &Stores{
			Driver:     config.DriverMemory,
			Attendance: memory.NewAttendanceRepository(employees),
			Employees:  employees,
			Counters:   memory.NewStatusCounter(),
			close:      func(context.Context) error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.Database.Driver)
}

// Close releases the underlying connections
func (s *Stores) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}
