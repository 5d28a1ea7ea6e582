package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bristermitten/hot-takes/internal/common/metrics"
	"github.com/bristermitten/hot-takes/internal/models"
)

func newGenerateCmd() *cobra.Command {
	var (
		extra      []string
		asJSON     bool
		withSuffix bool
		count      int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print generated hot takes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			gen, _, err := e.openGenerator(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for i := 0; i < count; i++ {
				start := time.Now()
				result, err := gen.Generate(extra)
				metrics.RecordTake(metrics.SurfaceCLI, result, err, time.Since(start))
				if err != nil {
					return fmt.Errorf("failed to generate take: %w", err)
				}

				if withSuffix {
					result.Take = applySuffix(result.Take, e.cfg.Post.Suffix)
				}

				if asJSON {
					if err := enc.Encode(result); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintln(out, formatTake(result))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&extra, "extra", "e", nil, "Extra candidate for every non-numeric placeholder (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print each take as a JSON object")
	cmd.Flags().BoolVar(&withSuffix, "suffix", false, "Append post.suffix the way posts are formatted")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of takes to generate")
	return cmd
}

// applySuffix formats post text as "<take> <suffix>".
func applySuffix(take, suffix string) string {
	if suffix == "" {
		return take
	}
	return take + " " + suffix
}

func formatTake(result *models.HotTakeResult) string {
	if !result.HasImages() {
		return result.Take
	}
	return fmt.Sprintf("%s %v", result.Take, result.Images)
}
