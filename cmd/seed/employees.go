package main

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/config"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/repository"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/repository/postgresql"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the demo password of every seeded account
const DefaultPassword = "Password123!"

const bcryptCost = 10

func init() {
	rootCmd.AddCommand(employeesCmd)
	employeesCmd.Flags().String("password", DefaultPassword, "Password for every seeded account")
}

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Insert or refresh the demo admin, manager and employees",
	Long: `Insert demo accounts matched by email, so running it twice updates rather
than duplicates them. Password hashes use bcrypt and are read by the auth service.`,
	Args: cobra.NoArgs,
	RunE: runEmployees,
}

func runEmployees(cmd *cobra.Command, args []string) error {
	password, _ := cmd.Flags().GetString("password")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	stores, err := repository.Open(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer stores.Close(cmd.Context())

	demo, err := demoEmployees(password)
	if err != nil {
		return err
	}

	seeded, err := seedEmployees(cmd.Context(), stores, demo)
	if err != nil {
		return err
	}

	for _, e := range seeded {
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-28s %s\n", e.Role, e.Email, e.ID)
	}
	return nil
}

func demoEmployees(password string) ([]employee.Employee, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	department := "Operations"
	demo := []employee.Employee{
		{Name: "Admin", Email: "admin@trackwise.local", Role: employee.RoleAdmin},
		{Name: "Morgan Manager", Email: "manager@trackwise.local", Role: employee.RoleManager, Department: &department},
		{Name: "Riley Employee", Email: "riley@trackwise.local", Role: employee.RoleEmployee, Department: &department},
		{Name: "Sam Employee", Email: "sam@trackwise.local", Role: employee.RoleEmployee, Department: &department},
	}
	for i := range demo {
		demo[i].PasswordHash = string(hash)
	}
	return demo, nil
}

// seedEmployees upserts every employee, in one transaction on postgres
func seedEmployees(ctx context.Context, stores *repository.Stores, list []employee.Employee) ([]employee.Employee, error) {
	seeded := make([]employee.Employee, 0, len(list))
	upsertAll := func(ctx context.Context) error {
		for _, e := range list {
			saved, err := stores.Employees.Upsert(ctx, e)
			if err != nil {
				return fmt.Errorf("failed to seed %s: %w", e.Email, err)
			}
			seeded = append(seeded, saved)
		}
		return nil
	}

	if stores.Postgres != nil {
		if err := postgresql.WithTransaction(ctx, stores.Postgres, upsertAll); err != nil {
			return nil, err
		}
		return seeded, nil
	}

	if err := upsertAll(ctx); err != nil {
		return nil, err
	}
	return seeded, nil
}
