// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/sqlbuild"
)

var splitFormat string

var splitCmd = &cobra.Command{
	Use:   "split <clause>",
	Short: "Split a WHERE tail into WHERE, GROUP BY, ORDER BY and LIMIT",
	Example: `  t3compat split "uid=123 GROUP BY title ORDER BY title LIMIT 5,2"
  t3compat split --format json "deleted=0 ORDER BY sorting"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeParts(os.Stdout, splitFormat, sqlbuild.SplitGroupOrderLimit(strings.Join(args, " ")))
	},
}

// writeParts renders p as a table, JSON or YAML. The table goes to stdout.
func writeParts(w io.Writer, format string, p sqlbuild.QueryParts) error {
	switch format {
	case "table":
		return printKeyValues([][2]string{
			{"WHERE", p.Where},
			{"GROUP BY", p.GroupBy},
			{"ORDER BY", p.OrderBy},
			{"LIMIT", p.Limit},
		})
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(p)
	}
	return cerrors.New(cerrors.InvalidArgument, "unknown format "+format+" (table, json, yaml)")
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().StringVar(&splitFormat, "format", "table", "Output format (table, json, yaml)")
}
