package main

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/config"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("employee-id", "", "Employee ID placed in the token")
	tokenCmd.Flags().String("role", string(employee.RoleEmployee), "Role placed in the token: employee, manager or admin")
	_ = tokenCmd.MarkFlagRequired("employee-id")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a development access token",
	Long: `Print an access token signed with JWT_SECRET_KEY, valid for
JWT_ACCESS_EXPIRATION_TIME. Use it as a Bearer token against the API.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		employeeID, _ := cmd.Flags().GetString("employee-id")
		role, _ := cmd.Flags().GetString("role")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		service, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
		if err != nil {
			return fmt.Errorf("error creating jwt service: %w", err)
		}

		token, expiresAt, err := issueToken(service, employeeID, employee.Role(role))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
		return nil
	},
}

func issueToken(service jwt.Service, employeeID string, role employee.Role) (string, int64, error) {
	if employeeID == "" {
		return "", 0, fmt.Errorf("--employee-id is required")
	}
	token, expiresAt, err := service.GenerateAccessToken(employeeID, role)
	if err != nil {
		return "", 0, fmt.Errorf("failed to issue token for role %q: %w", role, err)
	}
	return token, expiresAt, nil
}
