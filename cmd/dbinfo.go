// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"net"
	"net/url"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"t3compat/internal/dsn"
	cerrors "t3compat/internal/errors"
	"t3compat/internal/logging"
	"t3compat/internal/neterrors"
	"t3compat/internal/sqlexec"
)

var (
	dbinfoTables bool
	dbinfoFields string
)

// dbinfoCmd shows the configured connection with the password masked and,
// on request, the tables or the columns of one table.
var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo",
	Short: "Show the current database connection",
	Long: `The dbinfo command displays the configured database connection string (DSN)
with the password masked and where it was taken from. With --tables it lists
the tables of the database, with --fields the columns of one table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, driver, source, err := resolveDSN()
		if err != nil {
			if cerrors.IsKind(err, cerrors.NotFound) {
				pterm.Warning.Println("No database connection configured")
				pterm.Println("   Please run: t3compat connect")
				return nil
			}
			return err
		}
		if driver == "" {
			driver = "derived from scheme"
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Database Connection")).
			WithPadding(1).
			Println(maskPassword(raw) + "\n\nsource: " + source + "\ndriver: " + driver)

		if !dbinfoTables && dbinfoFields == "" {
			return nil
		}

		e, closeConn, err := openExecutor(cmd.Context())
		if err != nil {
			if !neterrors.Present(err, dsnTarget(raw)) {
				logging.PresentQueryError(err)
			}
			return err
		}
		defer closeConn()

		if dbinfoTables {
			tables, err := e.AdminGetTables(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([]map[string]any, len(tables))
			for i, t := range tables {
				rows[i] = map[string]any{"table": t}
			}
			if err := printRows([]string{"table"}, rows, false); err != nil {
				return err
			}
		}
		if dbinfoFields != "" {
			fields, err := e.AdminGetFields(cmd.Context(), dbinfoFields)
			if err != nil {
				return err
			}
			return printRows([]string{"Field", "Type", "Null", "Key", "Default"}, fieldRows(fields), false)
		}
		return nil
	},
}

func fieldRows(fields []sqlexec.FieldInfo) []map[string]any {
	rows := make([]map[string]any, len(fields))
	for i, f := range fields {
		def := "NULL"
		if f.Default != nil {
			def = *f.Default
		}
		null := "NO"
		if f.Null {
			null = "YES"
		}
		rows[i] = map[string]any{"Field": f.Field, "Type": f.Type, "Null": null, "Key": f.Key, "Default": def}
	}
	return rows
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
	dbinfoCmd.Flags().BoolVar(&dbinfoTables, "tables", false, "List the tables of the database")
	dbinfoCmd.Flags().StringVar(&dbinfoFields, "fields", "", "List the columns of the given table")
}

// maskPassword replaces the password in a postgres:// or mysql:// DSN with
// asterisks. DSNs the parser rejects are masked with logging.Mask.
func maskPassword(raw string) string {
	info, err := dsn.ParseInfo(raw)
	if err != nil || info.Password == "" {
		return logging.Mask(raw)
	}
	scheme, _, _ := strings.Cut(raw, "://")
	// url.UserPassword would percent-encode the asterisks
	out := strings.ToLower(scheme) + "://" + url.User(info.User).String() + ":***@" +
		net.JoinHostPort(info.Host, info.Port) + "/" + info.Database
	if len(info.Params) > 0 {
		q := url.Values{}
		for k, v := range info.Params {
			q.Set(k, v)
		}
		out += "?" + q.Encode()
	}
	return out
}
