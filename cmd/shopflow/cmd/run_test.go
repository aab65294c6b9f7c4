package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/shopflow/pkg/shopflow"
	"github.com/thesyncim/shopflow/pkg/shopflow/config"
	"github.com/thesyncim/shopflow/pkg/shopflow/journey"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "journeys", "fixture", "version"} {
		assert.True(t, names[want], "%s not registered", want)
	}
}

func TestRunCmd_FlagDefaults(t *testing.T) {
	parallel, err := runCmd.Flags().GetInt("parallel")
	require.NoError(t, err)
	assert.Zero(t, parallel)

	fixture, err := runCmd.Flags().GetBool("fixture")
	require.NoError(t, err)
	assert.False(t, fixture)
}

func TestApplyFlags(t *testing.T) {
	cfg, err := config.FromMap(nil)
	require.NoError(t, err)

	require.NoError(t, runCmd.Flags().Set("base-url", "http://localhost:9000/"))
	require.NoError(t, runCmd.Flags().Set("parallel", "3"))
	require.NoError(t, runCmd.Flags().Set("headed", "true"))
	require.NoError(t, runCmd.Flags().Set("journey", "logout,cart-badge"))
	t.Cleanup(func() {
		runCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		runBaseURL, runParallel, runHeaded, runJourney = "", 0, false, nil
	})

	require.NoError(t, applyFlags(runCmd, &cfg))
	assert.Equal(t, "http://localhost:9000/", cfg.BaseURL)
	assert.Equal(t, 3, cfg.Parallel)
	assert.False(t, cfg.Headless)
	assert.Equal(t, []string{"logout", "cart-badge"}, cfg.Journeys)
	assert.Equal(t, "standard_user", cfg.Username, "unset flags keep config values")
}

func TestNewLogger(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "WARN", "error"} {
		_, err := newLogger(lvl)
		assert.NoError(t, err, lvl)
	}
	_, err := newLogger("loud")
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	report := journey.Report{
		Duration: 1500 * time.Millisecond,
		Results: []journey.Result{
			{Name: "logout", Kind: journey.Passed, Duration: 400 * time.Millisecond},
			{
				Name:     "cart-badge",
				Kind:     journey.Assertion,
				Err:      shopflow.Expect("badge", "3", "2"),
				Duration: 900 * time.Millisecond,
			},
		},
	}

	var buf bytes.Buffer
	printSummary(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "logout")
	assert.Contains(t, out, "assertion: badge: expected 3, got 2")
	assert.Contains(t, out, "Passed:   1")
	assert.Contains(t, out, "Failed:   1")
	assert.Contains(t, out, "Status:   FAIL")

	buf.Reset()
	printSummary(&buf, journey.Report{Results: report.Results[:1]})
	assert.Contains(t, buf.String(), "Status:   PASS")
}

func TestJourneysCmd(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"journeys"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	for _, j := range journey.All() {
		assert.Contains(t, buf.String(), j.Name)
	}
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "shopflow "+Version)
}
