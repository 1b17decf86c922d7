package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/outline/monitor"
)

var batchReport bool

var batchCmd = &cobra.Command{
	Use:   "batch <input-dir> <output-dir>",
	Short: "Extract every document in a directory",
	Long: `Extract every PDF and layout fixture in input-dir with a pool of
performance.max_workers workers and write <name>.json for each into
output-dir. Documents that fail are written with an empty outline.

Example:
  outline batch --preset fast ./input ./output`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, closeFn, err := newPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		report, err := p.ProcessDir(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "processed %d documents (%d failed), run %s\n",
			len(report.Items), report.Failed, report.RunID)
		if batchReport {
			printReport(cmd, report.Performance)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchReport, "report", false, "print a performance report to stderr")
}

func printReport(cmd *cobra.Command, r monitor.Report) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "files:        %d\n", r.Files)
	fmt.Fprintf(w, "elapsed:      %s\n", r.Elapsed)
	fmt.Fprintf(w, "per file:     %s\n", r.AvgPerFile)
	fmt.Fprintf(w, "peak heap:    %.1f MB\n", r.PeakHeapMB)
	if r.Compliant() {
		fmt.Fprintln(w, "compliance:   ok")
		return
	}
	for _, v := range r.Violations {
		fmt.Fprintf(w, "violation:    %s\n", v)
	}
}
