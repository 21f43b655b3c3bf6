package cli

import (
	"runtime"

	"github.com/grendel/noprints/internal/scanner"
	"github.com/grendel/noprints/pkg/ui"
	"github.com/spf13/cobra"
)

func newScanCommand(e *env) *cobra.Command {
	var (
		opts    scanner.Options
		verbose bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "scan <paths...>",
		Short: "Classify text files for keys, seed phrases and other secrets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-size") {
				opts.MaxFileSizeMB = e.container.Config.Scan.MaxFileSizeMB
			}
			res, err := scanner.Scan(cmd.Context(), e.container.Classifier, args, opts)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			cs := ui.NewColorScheme(cmd.OutOrStdout())
			ui.PrintHeader(cs, "NoPrints scan")
			for _, r := range res.Files {
				if r.Flagged() || r.Err != "" || verbose {
					ui.PrintFileReport(cs, r)
				}
			}
			ui.PrintScanSummary(cs, res)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", true, "Descend into subdirectories")
	cmd.Flags().IntVar(&opts.Workers, "threads", runtime.NumCPU(), "Number of worker threads")
	cmd.Flags().Int64Var(&opts.MaxFileSizeMB, "max-size", 10, "Maximum file size in MB")
	cmd.Flags().StringSliceVar(&opts.ExcludePatterns, "exclude", nil, "File name globs to skip")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List clean files too")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the results as JSON")
	return cmd
}
