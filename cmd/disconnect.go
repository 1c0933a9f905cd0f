// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"t3compat/internal/config"
	"t3compat/internal/keychain"
)

// disconnectCmd removes the stored database connection.
var disconnectCmd = &cobra.Command{
	Use:     "disconnect",
	Aliases: []string{"logout"},
	Short:   "Remove the stored database connection",
	Long: `The disconnect command removes the DSN saved by "t3compat connect" from the OS
keychain. A DSN passed through ` + config.EnvDSN + ` is not affected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if km, err := keychain.GetManager(); err == nil {
			_ = km.ClearDB()
		} else {
			logger.Debug("keychain unavailable; nothing to clear")
		}

		if cfg.DB.Provided {
			err := updateStoredConfig(func(c *config.Config) {
				c.DB.Provided = false
				c.DB.Driver = ""
			})
			if err != nil {
				return err
			}
		}

		pterm.Success.Println("Stored database connection removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
}
