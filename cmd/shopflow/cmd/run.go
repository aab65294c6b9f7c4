package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thesyncim/shopflow/cmd/storefront-fixture/server"
	"github.com/thesyncim/shopflow/pkg/shopflow/browser"
	"github.com/thesyncim/shopflow/pkg/shopflow/config"
	"github.com/thesyncim/shopflow/pkg/shopflow/journey"
	"github.com/thesyncim/shopflow/pkg/shopflow/storefront"
)

// errJourneysFailed makes the process exit non-zero after the summary.
var errJourneysFailed = errors.New("one or more journeys failed")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run journeys and print a summary",
	Long: `Run launches Chrome, runs each selected journey in its own incognito
context and prints a PASS/FAIL summary. The exit code is non-zero if any
journey failed.

Examples:
  # Every journey against the public site
  shopflow run

  # Against an in-process fixture, three at a time
  shopflow run --fixture --parallel 3

  # Selected journeys with a visible browser
  shopflow run --headed --journey logout --journey cart-badge`,
	Args: cobra.NoArgs,
	RunE: runJourneys,
}

var (
	runBaseURL     string
	runUser        string
	runPassword    string
	runTimeout     time.Duration
	runParallel    int
	runHeaded      bool
	runJourney     []string
	runWithFixture bool
)

func init() {
	f := runCmd.Flags()
	f.StringVar(&runBaseURL, "base-url", "", "storefront base URL (env SHOPFLOW_BASE_URL)")
	f.StringVar(&runUser, "user", "", "login username (env SHOPFLOW_USERNAME)")
	f.StringVar(&runPassword, "password", "", "login password (env SHOPFLOW_PASSWORD)")
	f.DurationVar(&runTimeout, "timeout", 0, "bound on every wait (env SHOPFLOW_TIMEOUT)")
	f.IntVar(&runParallel, "parallel", 0, "journeys run at once (env SHOPFLOW_PARALLEL)")
	f.BoolVar(&runHeaded, "headed", false, "show the browser window")
	f.StringSliceVar(&runJourney, "journey", nil, "journey to run, repeatable (default: all)")
	f.BoolVar(&runWithFixture, "fixture", false, "start the fixture storefront and run against it")
	rootCmd.AddCommand(runCmd)
}

func loadConfig() (config.Config, error) {
	if envFile != "" {
		return config.LoadFile(envFile)
	}
	return config.Load()
}

// applyFlags overrides cfg with every flag the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("base-url") {
		cfg.BaseURL = runBaseURL
	}
	if f.Changed("user") {
		cfg.Username = runUser
	}
	if f.Changed("password") {
		cfg.Password = runPassword
	}
	if f.Changed("timeout") {
		cfg.Timeout = runTimeout
	}
	if f.Changed("parallel") {
		cfg.Parallel = runParallel
	}
	if f.Changed("headed") {
		cfg.Headless = !runHeaded
	}
	if f.Changed("journey") {
		cfg.Journeys = runJourney
	}
	return cfg.Validate()
}

func runJourneys(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	journeys, err := journey.Lookup(cfg.Journeys...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runWithFixture {
		srv, err := startFixture(logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		cfg.BaseURL = srv.URL()
	}

	client, err := browser.NewClient(browser.Config{
		Headless: cfg.Headless,
		Timeout:  cfg.Timeout,
		Bin:      cfg.ChromeBin,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	opener := &journey.BrowserOpener{
		Client:  client,
		BaseURL: cfg.BaseURL,
		Options: []storefront.Option{storefront.WithLogger(logger)},
	}
	runner, err := journey.NewRunner(opener, cfg.Credentials(),
		journey.WithParallel(cfg.Parallel),
		journey.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Shopflow Journeys\n")
	fmt.Fprintf(out, "=================\n")
	fmt.Fprintf(out, "Target:   %s\n", cfg.BaseURL)
	fmt.Fprintf(out, "User:     %s\n", cfg.Username)
	fmt.Fprintf(out, "Journeys: %d (parallel %d)\n", len(journeys), cfg.Parallel)

	report := runner.Run(ctx, journeys...)
	printSummary(out, report)
	if !report.Passed() {
		return errJourneysFailed
	}
	return nil
}

func startFixture(logger *slog.Logger) (*server.Server, error) {
	cfg := server.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.Logger = logger
	srv, err := server.NewServer(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := srv.Start(); err != nil {
		return nil, err
	}
	return srv, nil
}

func printSummary(w io.Writer, report journey.Report) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Results\n")
	fmt.Fprintf(w, "=======\n")
	for _, res := range report.Results {
		fmt.Fprintf(w, "  %-22s %s  %v\n", res.Name, checkMark(res.Passed()), res.Duration.Round(time.Millisecond))
		if res.Err != nil {
			fmt.Fprintf(w, "    %s: %v\n", res.Kind, res.Err)
		}
	}
	failed := len(report.Failed())
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Duration: %v\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Passed:   %d\n", len(report.Results)-failed)
	fmt.Fprintf(w, "Failed:   %d\n", failed)
	fmt.Fprintf(w, "Status:   %s\n", checkMark(report.Passed()))
}

func checkMark(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}
