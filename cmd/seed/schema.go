package main

import (
	"fmt"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/config"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/repository"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create tables or indexes for the configured store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		stores, err := repository.Open(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}
		defer stores.Close(cmd.Context())

		fmt.Fprintf(cmd.OutOrStdout(), "Schema ready for %s store\n", stores.Driver)
		return nil
	},
}
