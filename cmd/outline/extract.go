package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/outline/export"
)

var (
	extractFormat    string
	extractOutput    string
	extractNoMetrics bool
	extractReport    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Extract the outline of one or more documents",
	Long: `Extract the title and outline of each document and print it.

Files ending in .json, .yaml or .yml are read as layout fixtures instead of
PDF.

Examples:
  outline extract report.pdf
  outline extract -f html report.pdf > toc.html
  outline extract -o out/ a.pdf b.pdf      # writes out/a.json and out/b.json
  outline extract --preset academic --report paper.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, err := export.ParseFormat(extractFormat)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, closeFn, err := newPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		span := p.Monitor().Start(len(args))
		for _, path := range args {
			result, err := p.Extract(ctx, path)
			if err != nil {
				return err
			}
			if extractNoMetrics {
				result = result.Persistable()
			}

			if extractOutput == "" {
				if err := export.Write(cmd.OutOrStdout(), result, format); err != nil {
					return err
				}
				continue
			}
			if err := os.MkdirAll(extractOutput, 0o755); err != nil {
				return err
			}
			out := filepath.Join(extractOutput, export.BaseName(path)+format.FileExtension())
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.Write(f, result, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			logger.Info("wrote outline", "input", path, "output", out)
		}

		report := span.Stop()
		if extractReport {
			printReport(cmd, report)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "output format: json, yaml, html or markdown")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write one file per input into this directory")
	extractCmd.Flags().BoolVar(&extractNoMetrics, "no-metrics", false, "omit the accuracy metrics block")
	extractCmd.Flags().BoolVar(&extractReport, "report", false, "print a performance report to stderr")
}
