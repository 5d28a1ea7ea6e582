package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bristermitten/hot-takes/internal/datastore"
)

func newSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Write the data file JSON Schema",
		Long: `Write the JSON Schema the data file is validated against, for editor support.

The target defaults to data.schema_output; "-" prints to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := datastore.SchemaJSON()
			if err != nil {
				return fmt.Errorf("failed to render schema: %w", err)
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(schema)
				return err
			}

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			target := output
			if target == "" {
				target = e.cfg.Data.SchemaOutput
			}
			if err := os.WriteFile(target, schema, 0o644); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}

			e.log.Info("Wrote data file schema", map[string]interface{}{"path": target})
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, overrides data.schema_output")
	return cmd
}
