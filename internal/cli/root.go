// Package cli implements the bookclub-e2e command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/StacyCash/bookclub-e2e/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "bookclub-e2e",
		Short: "End-to-end browser scenarios for the book club application",
		Long: `bookclub-e2e drives Chrome through the book club sign-up and book-list
pages, serving fixture data in place of the API, and reports which
scenarios passed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = Version
	cmd.SetVersionTemplate("bookclub-e2e version {{.Version}}\n")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultConfigPath, "config file")

	cmd.AddCommand(
		newRunCommand(opts),
		newListCommand(),
		newSlugCommand(),
		newFixturesCommand(opts),
	)
	return cmd
}

// Execute runs the root command. SIGINT or SIGTERM cancels the running
// command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	required := cmd.Flags().Changed("config")
	return config.Load(o.configPath, required)
}
