package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/StacyCash/bookclub-e2e/cmd/fixture-site/server"
	"github.com/StacyCash/bookclub-e2e/internal/config"
	"github.com/StacyCash/bookclub-e2e/internal/logging"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/scenario"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/testutil"
)

// ErrScenariosFailed is returned by run when at least one scenario failed.
var ErrScenariosFailed = errors.New("scenarios failed")

// launchFunc starts a browser and returns how to open pages in it and how
// to shut it down. Tests replace it.
type launchFunc func(cfg testutil.BrowserConfig) (scenario.OpenFunc, func() error, error)

var launchBrowser launchFunc = func(cfg testutil.BrowserConfig) (scenario.OpenFunc, func() error, error) {
	client, err := testutil.NewBrowserClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	open := func(ctx context.Context) (scenario.Page, error) {
		s, err := client.NewSession(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return open, client.Close, nil
}

type runOptions struct {
	serveFixtureSite bool
	headed           bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run scenarios (all by default)",
		Long: `Run the named scenarios, or all of them, each in a fresh incognito page.
A name may be a full scenario name or a group such as "sign-up".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			if opts.headed {
				cfg.Headless = false
			}
			logger := logging.New(logging.Options{Level: cfg.LogLevel, Output: cmd.ErrOrStderr(), Prefix: "bookclub-e2e"})
			return runScenarios(cmd, cfg, logger, opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.serveFixtureSite, "serve-fixture-site", false,
		"start the local fixture site and point base_url/api_url at it")
	cmd.Flags().BoolVar(&opts.headed, "headed", false, "show the browser window")
	return cmd
}

func runScenarios(cmd *cobra.Command, cfg *config.Config, logger *log.Logger, opts *runOptions, names []string) error {
	scenarios, err := scenario.Select(names...)
	if err != nil {
		return err
	}

	env := scenario.Env{
		BaseURL:    cfg.BaseURL,
		APIURL:     cfg.APIURL,
		Fixtures:   bookclub.DirFixtures(cfg.FixturesDir),
		BookIndex:  cfg.BookIndex,
		StubSignUp: cfg.StubSignUp,
	}

	if opts.serveFixtureSite {
		srvCfg := server.DefaultConfig()
		srvCfg.Logger = logger.WithPrefix("fixture-site")
		srv, err := server.NewServer(srvCfg)
		if err != nil {
			return err
		}
		if _, err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("fixture site shutdown", "err", err)
			}
		}()
		env.BaseURL = srv.URL()
		env.APIURL = srv.APIURL()
	}

	open, closeBrowser, err := launchBrowser(testutil.BrowserConfig{
		Headless:   cfg.Headless,
		Timeout:    cfg.Timeout,
		SlowMotion: cfg.SlowMotion,
		Bin:        cfg.BrowserBin,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := closeBrowser(); err != nil {
			logger.Warn("browser close", "err", err)
		}
	}()

	logger.Info("running scenarios", "count", len(scenarios), "base_url", env.BaseURL, "api_url", env.APIURL)
	report, err := scenario.NewRunner(open, env, scenario.WithLogger(logger)).Run(cmd.Context(), scenarios...)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Summary())
	if !report.Passed() {
		return fmt.Errorf("%w: %d of %d", ErrScenariosFailed, len(report.Failed()), len(report.Results))
	}
	return nil
}
