package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/outline/config"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List configuration presets",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range config.Presets() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}
