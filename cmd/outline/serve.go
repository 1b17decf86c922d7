package main

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/outline"
	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/multimodal"
	"github.com/tsawler/outline/server"
)

var (
	serveAddr      string
	serveMaxUpload int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

The configuration file is watched and changes take effect for the next
request without a restart.

Routes:
  POST /v1/extract   upload a document (multipart "file" field or raw body)
  GET  /v1/presets   list presets
  GET  /healthz      liveness probe

Examples:
  outline serve
  outline serve --addr :9000 --config outline.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		watcher, err := config.NewWatcher(cfgFile, preset, logger)
		if err != nil {
			return err
		}
		watcher.Watch()

		srv := server.New(server.Options{
			Config:      watcher,
			Logger:      logger,
			MaxUploadMB: serveMaxUpload,
			NewPipeline: func(cfg *config.Config) *outline.Pipeline {
				mm, err := multimodal.FromConfig(ctx, cfg, logger)
				if err != nil {
					logger.Warn("multimodal enhancer disabled", "error", err)
				}
				return outline.New(cfg, outline.WithLogger(logger), outline.WithMultimodal(mm))
			},
		})
		return srv.ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "address to listen on")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload-mb", 64, "maximum upload size in megabytes")
}
