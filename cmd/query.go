// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/logging"
	"t3compat/internal/neterrors"
	"t3compat/internal/sqlbuild"
	"t3compat/internal/sqlexec"
)

var (
	queryExec    bool
	queryDialect string
	queryJSON    bool
)

// Statement parts shared by the query subcommands.
var (
	qFields  string
	qFrom    string
	qTable   string
	qWhere   string
	qGroupBy string
	qOrderBy string
	qLimit   string
	qSet     []string
	qNoQuote string
)

// queryCmd groups the statement builders. Without --exec the statement is
// only printed, quoted for --dialect.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Build legacy SQL statements and optionally run them",
	Long: `The query commands build statements exactly like the legacy database API.
By default the SQL is printed; with --exec it is run on the configured
connection and the result is shown.`,
}

// offlineBuilder returns a builder for printing statements.
func offlineBuilder() (*sqlbuild.Builder, error) {
	switch strings.ToLower(queryDialect) {
	case "", "postgres", "postgresql":
		return sqlbuild.New(sqlbuild.PostgresQuoter), nil
	case "mysql":
		return sqlbuild.New(sqlbuild.MySQLQuoter), nil
	}
	return nil, cerrors.New(cerrors.InvalidArgument, "unknown dialect "+queryDialect)
}

// withExecutor runs fn on a connected executor and presents database errors.
func withExecutor(ctx context.Context, fn func(e *sqlexec.Executor) error) error {
	e, closeConn, err := openExecutor(ctx)
	if err != nil {
		return err
	}
	defer closeConn()
	if err := fn(e); err != nil {
		if !neterrors.Present(err, "the database server") {
			logging.PresentQueryError(err)
		}
		return err
	}
	return nil
}

// parseSet turns repeated col=value flags into a Row in flag order.
func parseSet(pairs []string) (sqlbuild.Row, error) {
	row := make(sqlbuild.Row, 0, len(pairs))
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, cerrors.New(cerrors.InvalidArgument, "--set expects column=value, got "+p)
		}
		row = append(row, sqlbuild.Field{Column: strings.TrimSpace(col), Value: val})
	}
	return row, nil
}

func reportWrite(ctx context.Context, e *sqlexec.Executor) {
	n, err := e.AffectedRows(ctx)
	if err != nil {
		logger.Debug("affected rows unavailable", zap.Error(err))
		pterm.Success.Println("Statement executed")
		return
	}
	pterm.Success.Printfln("%d row(s) affected", n)
}

var querySelectCmd = &cobra.Command{
	Use:   "select",
	Short: "SELECT fields FROM table [WHERE ...] [GROUP BY ...] [ORDER BY ...] [LIMIT ...]",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !queryExec {
			b, err := offlineBuilder()
			if err != nil {
				return err
			}
			fmt.Println(b.SelectQuery(qFields, qFrom, qWhere, qGroupBy, qOrderBy, qLimit))
			return nil
		}
		return withExecutor(cmd.Context(), func(e *sqlexec.Executor) error {
			res, err := e.ExecSelectQuery(cmd.Context(), qFields, qFrom, qWhere, qGroupBy, qOrderBy, qLimit)
			if err != nil {
				return err
			}
			return printResult(e, res)
		})
	},
}

func printResult(e *sqlexec.Executor, res *sqlexec.Result) error {
	defer e.FreeResult(res)
	rows := make([]map[string]any, 0, e.NumRows(res))
	for {
		row, ok := e.FetchAssoc(res)
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	return printRows(res.Columns, rows, queryJSON)
}

var queryInsertCmd = &cobra.Command{
	Use:   "insert",
	Short: "INSERT INTO table (columns) VALUES (values)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		row, err := parseSet(qSet)
		if err != nil {
			return err
		}
		noQuote := sqlbuild.ParseNoQuote(qNoQuote)
		if !queryExec {
			b, err := offlineBuilder()
			if err != nil {
				return err
			}
			sql, ok := b.InsertQuery(qTable, row, noQuote)
			if !ok {
				return cerrors.New(cerrors.InvalidArgument, "insert needs at least one --set column=value")
			}
			fmt.Println(sql)
			return nil
		}
		return withExecutor(cmd.Context(), func(e *sqlexec.Executor) error {
			if err := e.ExecInsertQuery(cmd.Context(), qTable, row, noQuote); err != nil {
				return err
			}
			reportWrite(cmd.Context(), e)
			if id, err := e.InsertID(cmd.Context()); err == nil {
				pterm.Info.Printfln("insert id %d", id)
			}
			return nil
		})
	},
}

var queryUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "UPDATE table SET column=value [WHERE ...]",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		row, err := parseSet(qSet)
		if err != nil {
			return err
		}
		noQuote := sqlbuild.ParseNoQuote(qNoQuote)
		if !queryExec {
			b, err := offlineBuilder()
			if err != nil {
				return err
			}
			sql, err := b.UpdateQuery(qTable, qWhere, row, noQuote)
			if err != nil {
				return err
			}
			fmt.Println(sql)
			return nil
		}
		return withExecutor(cmd.Context(), func(e *sqlexec.Executor) error {
			if err := e.ExecUpdateQuery(cmd.Context(), qTable, qWhere, row, noQuote); err != nil {
				return err
			}
			reportWrite(cmd.Context(), e)
			return nil
		})
	},
}

var queryDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "DELETE FROM table [WHERE ...]",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !queryExec {
			b, err := offlineBuilder()
			if err != nil {
				return err
			}
			sql, err := b.DeleteQuery(qTable, qWhere)
			if err != nil {
				return err
			}
			fmt.Println(sql)
			return nil
		}
		return withExecutor(cmd.Context(), func(e *sqlexec.Executor) error {
			if err := e.ExecDeleteQuery(cmd.Context(), qTable, qWhere); err != nil {
				return err
			}
			reportWrite(cmd.Context(), e)
			return nil
		})
	},
}

var queryTruncateCmd = &cobra.Command{
	Use:   "truncate",
	Short: "TRUNCATE TABLE table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !queryExec {
			b, err := offlineBuilder()
			if err != nil {
				return err
			}
			fmt.Println(b.TruncateQuery(qTable))
			return nil
		}
		return withExecutor(cmd.Context(), func(e *sqlexec.Executor) error {
			if err := e.ExecTruncateQuery(cmd.Context(), qTable); err != nil {
				return err
			}
			pterm.Success.Printfln("Table %s truncated", qTable)
			return nil
		})
	},
}

var queryCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count the rows of a table matching WHERE",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExecutor(cmd.Context(), func(e *sqlexec.Executor) error {
			n, err := e.ExecSelectCountRows(cmd.Context(), qFields, qTable, qWhere)
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		})
	},
}

var queryRawCmd = &cobra.Command{
	Use:   "raw <sql>",
	Short: "Run a literal SQL statement and show its rows or affected row count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExecutor(cmd.Context(), func(e *sqlexec.Executor) error {
			res, err := e.SQLQuery(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !e.DebugCheckRecordset(res) {
				return cerrors.New(cerrors.Incompatible, "statement returned no result set")
			}
			if len(res.Columns) == 0 {
				reportWrite(cmd.Context(), e)
				return nil
			}
			return printResult(e, res)
		})
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.PersistentFlags().BoolVar(&queryExec, "exec", false, "Run the statement on the configured database")
	queryCmd.PersistentFlags().StringVar(&queryDialect, "dialect", "postgres", "Quoting used when printing (postgres, mysql)")
	queryCmd.PersistentFlags().BoolVar(&queryJSON, "json", false, "Print selected rows as JSON")

	querySelectCmd.Flags().StringVar(&qFields, "fields", "*", "Field list")
	querySelectCmd.Flags().StringVar(&qFrom, "from", "", "Table list")
	querySelectCmd.Flags().StringVar(&qWhere, "where", "", "WHERE clause")
	querySelectCmd.Flags().StringVar(&qGroupBy, "group-by", "", "GROUP BY clause")
	querySelectCmd.Flags().StringVar(&qOrderBy, "order-by", "", "ORDER BY clause")
	querySelectCmd.Flags().StringVar(&qLimit, "limit", "", "LIMIT clause")
	_ = querySelectCmd.MarkFlagRequired("from")

	for _, c := range []*cobra.Command{queryInsertCmd, queryUpdateCmd, queryDeleteCmd, queryTruncateCmd, queryCountCmd} {
		c.Flags().StringVar(&qTable, "table", "", "Table name")
		_ = c.MarkFlagRequired("table")
	}
	for _, c := range []*cobra.Command{queryInsertCmd, queryUpdateCmd} {
		c.Flags().StringArrayVar(&qSet, "set", nil, "column=value, repeatable; columns keep flag order")
		c.Flags().StringVar(&qNoQuote, "no-quote", "", "Comma separated columns whose values are SQL expressions")
	}
	for _, c := range []*cobra.Command{queryUpdateCmd, queryDeleteCmd, queryCountCmd} {
		c.Flags().StringVar(&qWhere, "where", "", "WHERE clause")
	}
	queryCountCmd.Flags().StringVar(&qFields, "field", "*", "Counted field")

	queryCmd.AddCommand(querySelectCmd, queryInsertCmd, queryUpdateCmd, queryDeleteCmd, queryTruncateCmd, queryCountCmd, queryRawCmd)
}
