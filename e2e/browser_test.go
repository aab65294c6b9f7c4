//go:build e2e

package e2e

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/thesyncim/shopflow/cmd/storefront-fixture/server"
	"github.com/thesyncim/shopflow/pkg/shopflow"
	"github.com/thesyncim/shopflow/pkg/shopflow/browser"
)

// startFixture starts a fixture storefront on a random port and stops it
// when the test ends.
func startFixture(t *testing.T) *server.Server {
	t.Helper()
	srv, err := server.NewServer(server.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	if _, err := srv.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("server shutdown error: %v", err)
		}
	})
	return srv
}

// newBrowser launches headless Chrome and closes it when the test ends.
func newBrowser(t *testing.T) *browser.Client {
	t.Helper()
	cfg := browser.DefaultConfig()
	cfg.Timeout = 20 * time.Second
	client, err := browser.NewClient(cfg)
	if err != nil {
		t.Fatalf("failed to create browser: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("browser close error: %v", err)
		}
	})
	return client
}

// TestChrome_CanConnect verifies the E2E infrastructure:
// 1. Fixture can start programmatically on random port
// 2. Browser can launch in headless mode
// 3. An incognito context can load the login page
// 4. Cleanup works (no orphaned processes)
//
// This is a smoke test - it validates infrastructure, not journeys.
func TestChrome_CanConnect(t *testing.T) {
	srv := startFixture(t)
	client := newBrowser(t)

	bc, err := client.NewContext()
	if err != nil {
		t.Fatalf("failed to open context: %v", err)
	}
	defer bc.Close()

	page := bc.Page().Timeout(client.Timeout())
	t.Logf("Navigating to %s", srv.URL())
	if err := page.Navigate(srv.URL()); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	if err := page.WaitLoad(); err != nil {
		t.Fatalf("page not loaded: %v", err)
	}

	title, err := bc.Eval(`() => document.title`)
	if err != nil {
		t.Fatalf("failed to read title: %v", err)
	}
	if s, _ := title.(string); !strings.Contains(s, "Swag Labs") {
		t.Errorf("unexpected page title: got %q, want contains 'Swag Labs'", title)
	}

	if _, err := page.Element(`[data-test="username"]`); err != nil {
		t.Errorf("username input missing: %v", err)
	}
}

// TestChrome_ContextsAreIsolated checks that a session cookie set in one
// incognito context is not visible in another.
func TestChrome_ContextsAreIsolated(t *testing.T) {
	srv := startFixture(t)
	client := newBrowser(t)

	first, err := client.NewContext()
	if err != nil {
		t.Fatalf("failed to open context: %v", err)
	}
	defer first.Close()
	second, err := client.NewContext()
	if err != nil {
		t.Fatalf("failed to open context: %v", err)
	}
	defer second.Close()

	page := first.Page().Timeout(client.Timeout())
	if err := page.Navigate(srv.URL()); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	page.MustWaitLoad()
	page.MustElement(`[data-test="username"]`).MustInput("standard_user")
	page.MustElement(`[data-test="password"]`).MustInput(server.Password)
	wait := page.WaitNavigation(proto.PageLifecycleEventNameLoad)
	page.MustElement(`[data-test="login-button"]`).MustClick()
	wait()

	if got := srv.Sessions(); got != 1 {
		t.Fatalf("sessions after login = %d, want 1", got)
	}

	other := second.Page().Timeout(client.Timeout())
	if err := other.Navigate(srv.URL() + "inventory.html"); err != nil {
		t.Fatalf("failed to navigate: %v", err)
	}
	other.MustWaitLoad()
	info, err := other.Info()
	if err != nil {
		t.Fatalf("failed to read page info: %v", err)
	}
	if !shopflow.RouteLogin.Matches(info.URL) {
		t.Errorf("second context reached %s, want redirect to login", info.URL)
	}
}
