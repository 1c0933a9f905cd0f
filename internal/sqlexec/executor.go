// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sqlexec runs the statements produced by sqlbuild against a single
// pinned database connection and exposes the legacy procedural result API
// (fetch assoc/row, num rows, insert id, affected rows) on top of it.
//
// Key features include:
//   - Adapters for pgx, lib/pq and go-sql-driver/mysql connections
//   - Fully materialized results with a forward-only cursor
//   - Debug logging of every statement through zap with masked credentials
//   - information_schema based table and column listing
package sqlexec

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/logging"
	"t3compat/internal/sqlbuild"
)

// Executor executes legacy style statements on a Conn.
type Executor struct {
	// Conn is the pinned database connection
	Conn Conn
	// builder creates statements quoted for Conn's dialect
	builder *sqlbuild.Builder
	// inspector provides cached information_schema lookups
	inspector *SchemaInspector
	log       *zap.Logger
}

// New creates an Executor on conn. A nil logger disables statement logging.
func New(conn Conn, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Executor{
		Conn:    conn,
		builder: sqlbuild.New(conn.Quoter()),
		log:     log,
	}
	e.inspector = newSchemaInspector(e)
	return e
}

// Builder returns the statement builder bound to the connection's quoter.
func (e *Executor) Builder() *sqlbuild.Builder {
	return e.builder
}

func (e *Executor) query(ctx context.Context, sql string) (*Result, error) {
	e.log.Debug("query", logging.Statement(sql))
	res, err := e.Conn.Query(ctx, sql)
	if err != nil {
		e.log.Debug("query failed", logging.Statement(sql), zap.Error(err))
		return nil, err
	}
	return res, nil
}

func (e *Executor) exec(ctx context.Context, sql string) error {
	e.log.Debug("exec", logging.Statement(sql))
	n, err := e.Conn.Exec(ctx, sql)
	if err != nil {
		e.log.Debug("exec failed", logging.Statement(sql), zap.Error(err))
		return err
	}
	e.log.Debug("exec done", zap.Int64("rows_affected", n))
	return nil
}

// ExecInsertQuery inserts row into table. An empty row is a no-op.
func (e *Executor) ExecInsertQuery(ctx context.Context, table string, row sqlbuild.Row, noQuote sqlbuild.NoQuote) error {
	q, ok := e.builder.InsertQuery(table, row, noQuote)
	if !ok {
		return nil
	}
	return e.exec(ctx, q)
}

// ExecInsertMultipleRows inserts rows into table with a single statement.
func (e *Executor) ExecInsertMultipleRows(ctx context.Context, table string, fields []string, rows [][]any, noQuote sqlbuild.NoQuote) error {
	q, ok := e.builder.InsertMultipleRowsQuery(table, fields, rows, noQuote)
	if !ok {
		return nil
	}
	return e.exec(ctx, q)
}

// ExecUpdateQuery updates table. where must be a string.
func (e *Executor) ExecUpdateQuery(ctx context.Context, table string, where any, row sqlbuild.Row, noQuote sqlbuild.NoQuote) error {
	q, err := e.builder.UpdateQuery(table, where, row, noQuote)
	if err != nil {
		return err
	}
	return e.exec(ctx, q)
}

// ExecDeleteQuery deletes from table. where must be a string.
func (e *Executor) ExecDeleteQuery(ctx context.Context, table string, where any) error {
	q, err := e.builder.DeleteQuery(table, where)
	if err != nil {
		return err
	}
	return e.exec(ctx, q)
}

// ExecTruncateQuery empties table.
func (e *Executor) ExecTruncateQuery(ctx context.Context, table string) error {
	return e.exec(ctx, e.builder.TruncateQuery(table))
}

// ExecSelectQuery runs a SELECT statement.
func (e *Executor) ExecSelectQuery(ctx context.Context, fields, from, where, groupBy, orderBy, limit string) (*Result, error) {
	return e.query(ctx, e.builder.SelectQuery(fields, from, where, groupBy, orderBy, limit))
}

// ExecSelectQueryArray runs a SELECT statement described by a parts record.
func (e *Executor) ExecSelectQueryArray(ctx context.Context, p sqlbuild.QueryParts) (*Result, error) {
	return e.query(ctx, e.builder.SelectQueryParts(p))
}

// ExecSelectMMQuery runs a SELECT across an MM relation table. When the local
// and foreign tables are the same, the foreign side gets a unique alias.
func (e *Executor) ExecSelectMMQuery(ctx context.Context, fields, localTable, mmTable, foreignTable, where, groupBy, orderBy, limit string) (*Result, error) {
	suffix := ""
	if foreignTable != "" && foreignTable == localTable {
		suffix = "_join" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	tables, mmWhere := sqlbuild.MMQuery(localTable, mmTable, foreignTable, suffix)
	return e.ExecSelectQuery(ctx, fields, tables, mmWhere+" "+where, groupBy, orderBy, limit)
}

// ExecSelectGetRows returns all selected rows as column keyed maps.
func (e *Executor) ExecSelectGetRows(ctx context.Context, fields, from, where, groupBy, orderBy, limit string) ([]map[string]any, error) {
	res, err := e.ExecSelectQuery(ctx, fields, from, where, groupBy, orderBy, limit)
	if err != nil {
		return nil, err
	}
	defer e.FreeResult(res)

	out := make([]map[string]any, 0, res.Len())
	for {
		row, ok := e.FetchAssoc(res)
		if !ok {
			break
		}
		out = append(out, row)
	}
	return out, nil
}

// ExecSelectGetRowsIndexed returns the selected rows keyed by the value of
// indexField. Rows sharing a key overwrite earlier ones.
func (e *Executor) ExecSelectGetRowsIndexed(ctx context.Context, fields, from, where, groupBy, orderBy, limit, indexField string) (map[string]map[string]any, error) {
	res, err := e.ExecSelectQuery(ctx, fields, from, where, groupBy, orderBy, limit)
	if err != nil {
		return nil, err
	}
	defer e.FreeResult(res)

	out := make(map[string]map[string]any, res.Len())
	for {
		row, ok := e.FetchAssoc(res)
		if !ok {
			break
		}
		out[sqlbuild.Stringify(row[indexField])] = row
	}
	return out, nil
}

// ExecSelectGetSingleRow returns the first selected row, or nil when nothing
// matched. The limit is always 1.
func (e *Executor) ExecSelectGetSingleRow(ctx context.Context, fields, from, where, groupBy, orderBy string) (map[string]any, error) {
	res, err := e.ExecSelectQuery(ctx, fields, from, where, groupBy, orderBy, "1")
	if err != nil {
		return nil, err
	}
	row, _ := e.FetchAssoc(res)
	return row, nil
}

// ExecSelectGetSingleRowNum is ExecSelectGetSingleRow with a positional row.
func (e *Executor) ExecSelectGetSingleRowNum(ctx context.Context, fields, from, where, groupBy, orderBy string) ([]any, error) {
	res, err := e.ExecSelectQuery(ctx, fields, from, where, groupBy, orderBy, "1")
	if err != nil {
		return nil, err
	}
	row, _ := e.FetchRow(res)
	return row, nil
}

// ExecSelectCountRows counts the rows of table matching where.
func (e *Executor) ExecSelectCountRows(ctx context.Context, field, table, where string) (int64, error) {
	if field == "" {
		field = "*"
	}
	res, err := e.ExecSelectQuery(ctx, "COUNT("+field+")", table, where, "", "", "")
	if err != nil {
		return 0, err
	}
	row, ok := e.FetchRow(res)
	if !ok || len(row) == 0 {
		return 0, nil
	}
	return toInt64(row[0]), nil
}

// PrepareSelectQuery prepares a SELECT statement.
func (e *Executor) PrepareSelectQuery(ctx context.Context, fields, from, where, groupBy, orderBy, limit string) (Stmt, error) {
	return e.prepare(ctx, e.builder.SelectQuery(fields, from, where, groupBy, orderBy, limit))
}

// PrepareSelectQueryArray prepares a SELECT statement described by a parts record.
func (e *Executor) PrepareSelectQueryArray(ctx context.Context, p sqlbuild.QueryParts) (Stmt, error) {
	return e.prepare(ctx, e.builder.SelectQueryParts(p))
}

// PreparePreparedQuery prepares query as is. The legacy query components are
// accepted for signature compatibility and not used.
func (e *Executor) PreparePreparedQuery(ctx context.Context, query string, _ map[string]any) (Stmt, error) {
	return e.prepare(ctx, query)
}

func (e *Executor) prepare(ctx context.Context, sql string) (Stmt, error) {
	e.log.Debug("prepare", logging.Statement(sql))
	return e.Conn.Prepare(ctx, sql)
}

// SQLQuery runs an arbitrary statement. Data changing statements without a
// RETURNING clause are executed so that AffectedRows reports their count;
// they yield an empty result.
func (e *Executor) SQLQuery(ctx context.Context, sql string) (*Result, error) {
	if !isWriteStatement(sql) {
		return e.query(ctx, sql)
	}
	if err := e.exec(ctx, sql); err != nil {
		return nil, err
	}
	return NewResult(nil, nil, nil), nil
}

var writeKeywords = map[string]bool{
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"REPLACE":  true,
	"TRUNCATE": true,
	"CREATE":   true,
	"DROP":     true,
	"ALTER":    true,
}

func isWriteStatement(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 || !writeKeywords[strings.ToUpper(fields[0])] {
		return false
	}
	for _, f := range fields[1:] {
		if strings.EqualFold(f, "RETURNING") {
			return false
		}
	}
	return true
}

// NumRows returns the number of rows in res.
func (e *Executor) NumRows(res *Result) int {
	return res.Len()
}

// FetchAssoc returns the next row of res keyed by column name. It returns
// false when the set is exhausted or freed.
func (e *Executor) FetchAssoc(res *Result) (map[string]any, bool) {
	row, ok := res.next()
	if !ok {
		return nil, false
	}
	return res.assoc(normalizeRow(row)), true
}

// FetchRow returns the next row of res by position.
func (e *Executor) FetchRow(res *Result) ([]any, bool) {
	row, ok := res.next()
	if !ok {
		return nil, false
	}
	return normalizeRow(row), true
}

// FreeResult releases res. Fetching from a freed result yields no rows.
func (e *Executor) FreeResult(res *Result) bool {
	if res == nil {
		return false
	}
	res.freed = true
	res.Rows = nil
	return true
}

// InsertID returns the id generated by the last INSERT on the connection.
func (e *Executor) InsertID(ctx context.Context) (int64, error) {
	return e.Conn.LastInsertID(ctx)
}

// AffectedRows returns the number of rows changed by the last statement.
// Only MySQL connections fall back to the session's ROW_COUNT().
func (e *Executor) AffectedRows(ctx context.Context) (int64, error) {
	if r, ok := e.Conn.(RowsAffectedReporter); ok {
		if n, ok := r.LastRowsAffected(); ok {
			return n, nil
		}
	}
	if e.Conn.Dialect() != DialectMySQL {
		return 0, cerrors.New(cerrors.Incompatible, "no row count is known for the last statement")
	}
	res, err := e.query(ctx, "SELECT ROW_COUNT()")
	if err != nil {
		return 0, err
	}
	row, ok := e.FetchRow(res)
	if !ok || len(row) == 0 {
		return 0, nil
	}
	return toInt64(row[0]), nil
}

// DataSeek always fails: results are consumed forward only.
func (e *Executor) DataSeek(_ *Result, _ int) error {
	return cerrors.New(cerrors.Incompatible, "data seek is not supported by the connection")
}

var legacyFieldTypes = map[string]string{
	"tinyint":   "tinyint",
	"smallint":  "smallint",
	"int2":      "smallint",
	"int":       "int",
	"integer":   "int",
	"int4":      "int",
	"float":     "float",
	"float4":    "float",
	"real":      "float",
	"double":    "double",
	"float8":    "double",
	"timestamp": "timestamp",
	"bigint":    "bigint",
	"int8":      "bigint",
	"mediumint": "mediumint",
	"date":      "date",
	"time":      "time",
	"datetime":  "datetime",
	"year":      "year",
	"bit":       "bit",
	"varchar":   "varchar",
	"char":      "char",
	"bpchar":    "char",
	"decimal":   "decimal",
	"numeric":   "decimal",
}

// FieldType returns the legacy type name of column pointer in res. Types the
// legacy API had no name for (text and blob columns among them) report false.
func (e *Executor) FieldType(res *Result, pointer int) (string, bool) {
	if res == nil || pointer < 0 || pointer >= len(res.Types) {
		return "", false
	}
	t := strings.ToLower(res.Types[pointer])
	t = strings.TrimPrefix(t, "unsigned ")
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}
	name, ok := legacyFieldTypes[t]
	return name, ok
}

// IsConnected reports whether the connection answers a ping.
func (e *Executor) IsConnected(ctx context.Context) bool {
	return e.Conn != nil && e.Conn.Ping(ctx) == nil
}

// DatabaseHandle returns the underlying connection.
func (e *Executor) DatabaseHandle() Conn {
	return e.Conn
}

// DebugCheckRecordset reports whether res is a usable result.
func (e *Executor) DebugCheckRecordset(res *Result) bool {
	return res != nil
}

func normalizeRow(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = normalizeValue(v)
	}
	return out
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	}
	s := sqlbuild.Stringify(normalizeValue(v))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return sqlbuild.CleanIntArray([]string{s})[0]
}
