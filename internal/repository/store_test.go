package repository

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/config"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverMemory}}

	stores, err := Open(ctx, cfg, true)
	require.NoError(t, err)
	defer stores.Close(ctx)

	assert.Equal(t, config.DriverMemory, stores.Driver)
	assert.Nil(t, stores.Postgres)

	_, err = stores.Employees.Upsert(ctx, employee.Employee{ID: "emp-1", Name: "Ada", Email: "ada@example.com", Role: employee.RoleEmployee})
	require.NoError(t, err)

	count, err := stores.Employees.CountByRole(ctx, employee.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	pending, err := stores.Counters.CountPendingTasks(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Database: config.DatabaseConfig{Driver: "sqlite"}}, false)
	assert.ErrorContains(t, err, "sqlite")
}

func TestStores_CloseNil(t *testing.T) {
	var s *Stores
	assert.NoError(t, s.Close(context.Background()))
}
