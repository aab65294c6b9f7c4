package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thesyncim/shopflow/cmd/storefront-fixture/server"
)

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Serve the local fixture storefront",
	Long: `Serve a local storefront with the SauceDemo element and route contract.

Examples:
  # Serve on :8080 and point a second shell at it
  shopflow fixture --addr :8080
  SHOPFLOW_BASE_URL=http://localhost:8080/ shopflow run`,
	Args: cobra.NoArgs,
	RunE: runFixture,
}

var fixtureAddr string

func init() {
	fixtureCmd.Flags().StringVar(&fixtureAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(fixtureCmd)
}

func runFixture(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	cfg.Addr = fixtureAddr
	cfg.Logger = logger
	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create fixture: %w", err)
	}
	if _, err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start fixture: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Fixture storefront at %s (password %s)\n", srv.URL(), server.Password)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
