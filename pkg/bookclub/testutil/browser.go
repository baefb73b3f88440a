// browser.go provides browser automation utilities for E2E testing.
// It wraps Rod to hand out isolated sessions against the book club site.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/StacyCash/bookclub-e2e/internal/logging"
)

// BrowserConfig configures Chrome launch options.
type BrowserConfig struct {
	Headless   bool          // Run in headless mode (default: true)
	Timeout    time.Duration // Default wait window for commands and expectations (default: 4s)
	SlowMotion time.Duration // Delay inserted between input actions, for watching a run
	Bin        string        // Chrome binary; empty lets Rod find or download one
	ControlURL string        // Connect to an already running browser instead of launching
	Logger     *log.Logger   // Optional; nil discards
}

// DefaultTimeout is how long commands and expectations wait before failing.
const DefaultTimeout = 4 * time.Second

// DefaultBrowserConfig returns sensible defaults for E2E testing.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless: true,
		Timeout:  DefaultTimeout,
	}
}

// BrowserClient owns one Chrome process and hands out Sessions.
type BrowserClient struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	logger   *log.Logger
}

// NewBrowserClient launches (or connects to) Chrome.
// The browser is configured with:
//   - No sandbox (for container compatibility)
//   - GPU disabled
//   - Optional slow motion between input actions
func NewBrowserClient(cfg BrowserConfig) (*BrowserClient, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	controlURL := cfg.ControlURL
	var l *launcher.Launcher
	if controlURL == "" {
		l = launcher.New().
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
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if cfg.SlowMotion > 0 {
		browser = browser.SlowMotion(cfg.SlowMotion)
	}
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}
	logger.Debug("browser connected", "control_url", controlURL, "headless", cfg.Headless)

	return &BrowserClient{
		browser:  browser,
		launcher: l,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Timeout returns the wait window sessions use.
func (c *BrowserClient) Timeout() time.Duration {
	return c.timeout
}

// NewSession opens a blank page in a fresh incognito context, so cookies,
// storage and route mocks never carry over from a previous session. The
// session's commands stop waiting once ctx is done.
func (c *BrowserClient) NewSession(ctx context.Context) (*Session, error) {
	if c.browser == nil {
		return nil, errors.New("browser is closed")
	}
	ctxBrowser, err := c.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := ctxBrowser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = ctxBrowser.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return newSession(ctx, ctxBrowser, page, c.timeout, c.logger), nil
}

// Close cleans up browser resources.
// Always call this (via defer) to prevent orphaned Chrome processes.
func (c *BrowserClient) Close() error {
	if c.browser == nil {
		return nil
	}
	err := c.browser.Close()
	c.browser = nil
	if c.launcher != nil {
		c.launcher.Cleanup()
	}
	return err
}
