// Package browser wraps Rod to launch Chrome and hand out isolated
// browsing contexts, one per journey.
package browser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config configures Chrome launch options.
type Config struct {
	Headless bool          // Run in headless mode (default: true)
	Timeout  time.Duration // Default operation timeout (default: 30s)
	Bin      string        // Chrome binary; empty lets Rod find or download one
	Logger   *slog.Logger
}

// DefaultConfig returns sensible defaults for journeys.
func DefaultConfig() Config {
	return Config{
		Headless: true,
		Timeout:  30 * time.Second,
	}
}

// Client owns one Chrome process. Journeys never share pages; each one
// calls NewContext for an incognito context of its own.
type Client struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	contexts map[*Context]struct{}
	closed   bool
}

// NewClient launches Chrome and connects to it.
// The browser is configured with:
//   - No sandbox (for container compatibility)
//   - No GPU
func NewClient(cfg Config) (*Client, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}

	return &Client{
		browser:  b,
		launcher: l,
		timeout:  timeout,
		logger:   logger,
		contexts: make(map[*Context]struct{}),
	}, nil
}

// Timeout returns the default operation timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// NewContext opens an incognito browsing context with one blank page.
// Cookies and storage are not shared with any other context.
func (c *Client) NewContext() (*Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, errors.New("browser client is closed")
	}

	incognito, err := c.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	bc := &Context{client: c, browser: incognito, page: page}
	c.contexts[bc] = struct{}{}
	c.logger.Debug("browser context opened", "open", len(c.contexts))
	return bc, nil
}

// Close closes every open context and the browser, then kills Chrome.
// Always call this (via defer) to prevent orphaned Chrome processes.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	open := make([]*Context, 0, len(c.contexts))
	for bc := range c.contexts {
		open = append(open, bc)
	}
	c.mu.Unlock()

	var errs []error
	for _, bc := range open {
		errs = append(errs, bc.Close())
	}
	if c.browser != nil {
		errs = append(errs, c.browser.Close())
	}
	if c.launcher != nil {
		c.launcher.Kill()
	}
	return errors.Join(errs...)
}

func (c *Client) release(bc *Context) {
	c.mu.Lock()
	delete(c.contexts, bc)
	n := len(c.contexts)
	c.mu.Unlock()
	c.logger.Debug("browser context closed", "open", n)
}

// Context is one isolated browsing context.
type Context struct {
	client  *Client
	browser *rod.Browser
	page    *rod.Page
	once    sync.Once
	err     error
}

// Page returns the context's page.
func (bc *Context) Page() *rod.Page {
	return bc.page
}

// Eval executes JavaScript on the page and returns the result.
func (bc *Context) Eval(js string, args ...any) (any, error) {
	result, err := bc.page.Eval(js, args...)
	if err != nil {
		return nil, fmt.Errorf("eval failed: %w", err)
	}
	return result.Value.Val(), nil
}

// Close disposes the context. It is safe to call more than once.
func (bc *Context) Close() error {
	bc.once.Do(func() {
		bc.err = bc.browser.Close()
		bc.client.release(bc)
	})
	return bc.err
}
