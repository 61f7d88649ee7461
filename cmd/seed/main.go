package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Prepare a Trackwise store for development",
	Long: `Seed creates the schema of the configured store, inserts demo employees
and prints development access tokens. It reads the same environment as the API
server, including STORE_DRIVER.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
