// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/rollrate/internal/config"
	"github.com/katalvlaran/rollrate/internal/logging"
	"github.com/katalvlaran/rollrate/panel"
)

var rootCmd = &cobra.Command{
	Use:   "rollrate",
	Short: "Estimate bucket transition matrices from panel data",
	Long: `rollrate reads entity/period/value panels, counts month-over-month moves
between value buckets and prints the resulting transition matrices.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file with ROLLRATE_* overrides")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides log_level)")
}

// setup loads configuration and builds the logger shared by subcommands.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(path, config.WithEnvFile(envFile))
	if err != nil {
		return nil, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

// readFrame reads a CSV panel from path, or stdin when path is "-".
func readFrame(path string) (*panel.Frame, error) {
	if path == "-" {
		return panel.ReadCSV(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return panel.ReadCSV(f)
}
