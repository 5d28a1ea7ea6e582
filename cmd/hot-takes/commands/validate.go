package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bristermitten/hot-takes/internal/datastore"
	"github.com/bristermitten/hot-takes/internal/generator"
	"github.com/bristermitten/hot-takes/internal/models"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a data file and summarise its contents",
		Long: `Validate a data file against the schema and print how many entries each
collection holds. Templates using unknown placeholder names are reported as
warnings; the generator ignores those names.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			path := e.cfg.Data.Path
			if len(args) == 1 {
				path = args[0]
			}

			data, err := datastore.Load(path)
			if err != nil {
				return fmt.Errorf("%s is invalid: %w", path, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s is valid\n", path)
			counts := data.Counts()
			for _, name := range models.CollectionNames {
				fmt.Fprintf(out, "  %-13s %d\n", name, counts[name])
			}

			for i, take := range data.Takes {
				unknown := generator.UnknownPlaceholders(take.Take)
				if len(unknown) == 0 {
					continue
				}
				fmt.Fprintf(out, "warning: take %d uses unknown placeholder(s) %s: %q\n",
					i, strings.Join(unknown, ", "), take.Take)
			}
			return nil
		},
	}
}
