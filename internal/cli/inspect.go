package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/StacyCash/bookclub-e2e/pkg/bookclub"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/scenario"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenarios in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, sc := range scenario.All() {
				fmt.Fprintln(cmd.OutOrStdout(), sc.Name)
			}
			return nil
		},
	}
}

func newSlugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "slug <title...>",
		Short: "Print the data-e2e-id the application gives a book title",
		Long: `Print the data-e2e-id for a book title. Arguments are joined with single
spaces; quote the title to keep repeated spaces.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), bookclub.TitleE2eID(strings.Join(args, " ")))
			return nil
		},
	}
}

func newFixturesCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "Validate the configured fixtures and show what scenarios will use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			fx := bookclub.DirFixtures(cfg.FixturesDir)

			books, err := fx.BookList()
			if err != nil {
				return err
			}
			person, err := fx.Person()
			if err != nil {
				return err
			}
			selected, err := books.At(cfg.BookIndex)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			source := cfg.FixturesDir
			if source == "" {
				source = "embedded"
			}
			fmt.Fprintf(out, "fixtures: %s\n", source)
			fmt.Fprintf(out, "books (%d):\n", books.Len())
			for _, b := range books.Books {
				marker := " "
				if b == selected {
					marker = "*"
				}
				fmt.Fprintf(out, " %s %-40s %s\n", marker, b.Title, b.E2eID())
			}
			fmt.Fprintf(out, "person: %s <%s> likes %s\n", person.Name, person.Email, person.Genre)
			return nil
		},
	}
}
