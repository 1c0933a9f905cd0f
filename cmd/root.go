// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the t3compat command-line interface. It exposes the
// legacy query builder, the clause parser, the extension lookups and the
// frontend user repository for inspection and scripting, and serves legacy
// plugins over HTTP.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"t3compat/internal/config"
	"t3compat/internal/logging"
)

var (
	showVersion bool
	logLevel    string

	// cfg and logger are set by the root command before any subcommand runs.
	cfg    config.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "t3compat",
	Short: "Legacy CMS compatibility tools",
	Long: `t3compat runs code written against the legacy CMS database, plugin and
extension APIs on top of PostgreSQL or MySQL and a package registry.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.LogLevel = logLevel
		}
		l, err := logging.New(c.LogLevel)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		logger.Debug("configuration loaded",
			zap.String("driver", cfg.DB.Driver),
			zap.String("registry", cfg.Registry.Path),
			zap.Bool("dsn_from_env", cfg.DB.DSN != ""))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion()
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("t3compat", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+config.EnvLogLevel)
}
