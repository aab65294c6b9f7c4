//go:build e2e

// Package e2e provides end-to-end tests for the shopflow journeys.
//
// These tests are isolated from the standard test suite via build tags.
// They require a Chrome browser (auto-downloaded by Rod if not present)
// and are intended for CI pipelines or explicit local testing.
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// Running all tests except E2E:
//
//	go test ./...
//
// E2E tests use:
//   - Rod for browser automation (Chrome DevTools Protocol)
//   - the storefront-fixture server as the site under test
//   - browser.Client from pkg/shopflow/browser for Chrome helpers
//
// Test isolation:
// Each test starts its own fixture on a random port and launches its own
// browser instance. Every journey runs in its own incognito context.
package e2e
