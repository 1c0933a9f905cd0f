// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"
	"strings"
	"sync"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/sqlbuild"
)

// FieldInfo describes one column the way the legacy admin API listed it.
type FieldInfo struct {
	Field   string  `json:"field"`
	Type    string  `json:"type"`
	Null    bool    `json:"null"`
	Default *string `json:"default,omitempty"`
	// Key is "PRI" for primary key columns and "" otherwise. MySQL also
	// reports "UNI" and "MUL".
	Key string `json:"key,omitempty"`
}

// SchemaInspector lists tables and columns through information_schema and
// caches column lists per table to minimize database roundtrips.
type SchemaInspector struct {
	exec *Executor
	// cache stores column lists keyed by table name
	cache map[string][]FieldInfo
	// mu protects concurrent access to the cache
	mu sync.RWMutex
}

func newSchemaInspector(e *Executor) *SchemaInspector {
	return &SchemaInspector{exec: e, cache: make(map[string][]FieldInfo)}
}

// ClearCache clears all cached column information.
// This is useful when schema changes are expected.
func (si *SchemaInspector) ClearCache() {
	si.mu.Lock()
	defer si.mu.Unlock()
	si.cache = make(map[string][]FieldInfo)
}

// schemaExpr returns the SQL expression selecting the schema of table. A
// qualified "schema.table" name selects that schema, otherwise the current
// one of the session is used.
func (si *SchemaInspector) schemaExpr(tableName string) (expr, table string, err error) {
	b := si.exec.builder
	if i := strings.Index(tableName, "."); i >= 0 {
		return b.FullQuoteStr(tableName[:i], false), tableName[i+1:], nil
	}
	switch si.exec.Conn.Dialect() {
	case DialectPostgres:
		return "current_schema()", tableName, nil
	case DialectMySQL:
		return "DATABASE()", tableName, nil
	}
	return "", "", cerrors.New(cerrors.Incompatible, "schema inspection is not supported by this driver")
}

// Tables returns the base tables of the current schema in name order.
func (si *SchemaInspector) Tables(ctx context.Context) ([]string, error) {
	schema, _, err := si.schemaExpr("")
	if err != nil {
		return nil, err
	}
	res, err := si.exec.ExecSelectQuery(ctx, "table_name", "information_schema.tables",
		"table_schema = "+schema+" AND table_type = 'BASE TABLE'", "", "table_name", "")
	if err != nil {
		return nil, err
	}
	defer si.exec.FreeResult(res)

	var tables []string
	for {
		row, ok := si.exec.FetchRow(res)
		if !ok {
			break
		}
		tables = append(tables, sqlbuild.Stringify(row[0]))
	}
	return tables, nil
}

// Fields retrieves or caches the column list of a table. The tableName can
// be either "table" or "schema.table".
func (si *SchemaInspector) Fields(ctx context.Context, tableName string) ([]FieldInfo, error) {
	si.mu.RLock()
	if fields, exists := si.cache[tableName]; exists {
		si.mu.RUnlock()
		return fields, nil
	}
	si.mu.RUnlock()

	schema, table, err := si.schemaExpr(tableName)
	if err != nil {
		return nil, err
	}
	where := "c.table_schema = " + schema + " AND c.table_name = " + si.exec.builder.FullQuoteStr(table, false)

	var fields string
	if si.exec.Conn.Dialect() == DialectMySQL {
		fields = "c.column_name, c.column_type, c.is_nullable, c.column_default, c.column_key"
	} else {
		fields = "c.column_name, c.data_type, c.is_nullable, c.column_default, " +
			"COALESCE((" + si.exec.builder.SelectSubquery("'PRI'",
			"information_schema.table_constraints tc JOIN information_schema.key_column_usage kc"+
				" ON tc.constraint_name = kc.constraint_name AND tc.table_schema = kc.table_schema",
			"tc.constraint_type = 'PRIMARY KEY' AND kc.table_schema = c.table_schema"+
				" AND kc.table_name = c.table_name AND kc.column_name = c.column_name") + " LIMIT 1), '')"
	}

	res, err := si.exec.ExecSelectQuery(ctx, fields, "information_schema.columns c", where, "", "c.ordinal_position", "")
	if err != nil {
		return nil, err
	}
	defer si.exec.FreeResult(res)

	var out []FieldInfo
	for {
		row, ok := si.exec.FetchRow(res)
		if !ok {
			break
		}
		if len(row) < 5 {
			continue
		}
		fi := FieldInfo{
			Field: sqlbuild.Stringify(row[0]),
			Type:  sqlbuild.Stringify(row[1]),
			Null:  strings.EqualFold(sqlbuild.Stringify(row[2]), "YES"),
			Key:   sqlbuild.Stringify(row[4]),
		}
		if row[3] != nil {
			def := sqlbuild.Stringify(row[3])
			fi.Default = &def
		}
		out = append(out, fi)
	}

	si.mu.Lock()
	si.cache[tableName] = out
	si.mu.Unlock()

	return out, nil
}

// AdminGetTables lists the tables of the current schema.
func (e *Executor) AdminGetTables(ctx context.Context) ([]string, error) {
	return e.inspector.Tables(ctx)
}

// AdminGetFields lists the columns of tableName in ordinal order.
func (e *Executor) AdminGetFields(ctx context.Context, tableName string) ([]FieldInfo, error) {
	return e.inspector.Fields(ctx, tableName)
}

// Inspector returns the schema inspector of the executor.
func (e *Executor) Inspector() *SchemaInspector {
	return e.inspector
}
