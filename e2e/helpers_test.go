//go:build e2e

package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/StacyCash/bookclub-e2e/cmd/fixture-site/server"
	"github.com/StacyCash/bookclub-e2e/internal/config"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/scenario"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/testutil"
)

// startEnv returns the scenario environment: the application named by
// BOOKCLUB_BASE_URL/BOOKCLUB_API_URL, or a fixture site started for this
// test on a random port.
func startEnv(t *testing.T) scenario.Env {
	t.Helper()

	env := scenario.DefaultEnv()
	if base := os.Getenv(config.EnvPrefix + "BASE_URL"); base != "" {
		env.BaseURL = base
		if api := os.Getenv(config.EnvPrefix + "API_URL"); api != "" {
			env.APIURL = api
		}
		return env
	}

	srv, err := server.NewServer(server.DefaultConfig())
	require.NoError(t, err)
	addr, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("server shutdown error: %v", err)
		}
	})
	t.Logf("Fixture site started on %s", addr)

	env.BaseURL = srv.URL()
	env.APIURL = srv.APIURL()
	return env
}

// openBrowser launches Chrome for one test.
func openBrowser(t *testing.T) *testutil.BrowserClient {
	t.Helper()

	cfg := testutil.DefaultBrowserConfig()
	if os.Getenv(config.EnvPrefix+"HEADLESS") == "false" {
		cfg.Headless = false
	}
	client, err := testutil.NewBrowserClient(cfg)
	require.NoError(t, err, "failed to create browser")
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("browser close error: %v", err)
		}
	})
	return client
}

// openSession opens a fresh incognito session closed at test end.
func openSession(t *testing.T, client *testutil.BrowserClient) *testutil.Session {
	t.Helper()

	s, err := client.NewSession(context.Background())
	require.NoError(t, err, "failed to open session")
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("session close error: %v", err)
		}
	})
	return s
}
