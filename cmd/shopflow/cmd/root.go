// Package cmd provides the CLI commands for shopflow.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "shopflow",
	Short: "shopflow - storefront journey harness",
	Long: `shopflow drives a SauceDemo-style storefront through real browser journeys:
login, sorting, cart, checkout and logout.

Configuration:
  Settings come from SHOPFLOW_* environment variables, optionally loaded
  from a .env file. Command flags override them.
  Example: SHOPFLOW_BASE_URL=http://localhost:8080/ shopflow run

Commands:
  run         Run journeys and print a summary
  journeys    List the available journeys
  fixture     Serve the local fixture storefront
  version     Print version information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default: ./.env if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// newLogger builds the stderr text logger for level.
func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}
