package main

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/config"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDemoEmployees(t *testing.T) {
	demo, err := demoEmployees("secret-pass")
	require.NoError(t, err)
	require.Len(t, demo, 4)

	roles := map[employee.Role]int{}
	for _, e := range demo {
		roles[e.Role]++
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte("secret-pass")))
	}
	assert.Equal(t, map[employee.Role]int{
		employee.RoleAdmin:    1,
		employee.RoleManager:  1,
		employee.RoleEmployee: 2,
	}, roles)
}

func TestSeedEmployees_Idempotent(t *testing.T) {
	ctx := context.Background()
	stores, err := repository.Open(ctx, &config.Config{Database: config.DatabaseConfig{Driver: config.DriverMemory}}, false)
	require.NoError(t, err)

	demo, err := demoEmployees(DefaultPassword)
	require.NoError(t, err)

	first, err := seedEmployees(ctx, stores, demo)
	require.NoError(t, err)
	second, err := seedEmployees(ctx, stores, demo)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	count, err := stores.Employees.CountByRole(ctx, employee.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestIssueToken(t *testing.T) {
	service, err := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	require.NoError(t, err)

	token, expiresAt, err := issueToken(service, "adm-1", employee.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	_, _, err = issueToken(service, "", employee.RoleAdmin)
	assert.Error(t, err)

	_, _, err = issueToken(service, "adm-1", "owner")
	assert.ErrorIs(t, err, employee.ErrInvalidRole)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["schema"])
	assert.True(t, names["employees"])
	assert.True(t, names["token"])
}
