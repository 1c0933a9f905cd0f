// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sqlbuild assembles SQL text the way the legacy database API did.
// Table and field names are assumed to be injection-safe when passed in;
// values are always quoted through the connection's Quoter unless a column is
// listed in NoQuote.
//
// The package also contains the clause parser that splits the tail of a
// statement into WHERE, GROUP BY, ORDER BY and LIMIT parts.
package sqlbuild

import (
	"fmt"
	"strings"

	cerrors "t3compat/internal/errors"
)

// Constraint joins multiple search words in SearchQuery.
type Constraint string

const (
	AndConstraint Constraint = "AND"
	OrConstraint  Constraint = "OR"
)

// Builder creates SQL statements. It holds no state besides the quoter and
// is safe for concurrent use.
type Builder struct {
	quoter Quoter
}

// New creates a Builder that quotes values through q.
func New(q Quoter) *Builder {
	if q == nil {
		q = MySQLQuoter
	}
	return &Builder{quoter: q}
}

// SelectQuery creates a SELECT statement.
func (b *Builder) SelectQuery(fields, from, where, groupBy, orderBy, limit string) string {
	var q strings.Builder
	q.WriteString("SELECT " + fields + " FROM " + from)
	if where != "" {
		q.WriteString(" WHERE " + where)
	}
	if groupBy != "" {
		q.WriteString(" GROUP BY " + groupBy)
	}
	if orderBy != "" {
		q.WriteString(" ORDER BY " + orderBy)
	}
	if limit != "" {
		q.WriteString(" LIMIT " + limit)
	}
	return q.String()
}

// SelectQueryParts creates a SELECT statement from a parts record.
func (b *Builder) SelectQueryParts(p QueryParts) string {
	return b.SelectQuery(p.Select, p.From, p.Where, p.GroupBy, p.OrderBy, p.Limit)
}

// SelectSubquery creates a SELECT statement meant to be embedded in another query.
func (b *Builder) SelectSubquery(fields, from, where string) string {
	q := "SELECT " + fields + " FROM " + from
	if where != "" {
		q += " WHERE " + where
	}
	return q
}

// InsertQuery creates an INSERT statement. It returns false when row is
// empty; that is not an error.
func (b *Builder) InsertQuery(table string, row Row, noQuote NoQuote) (string, bool) {
	if len(row) == 0 {
		return "", false
	}
	values := b.FullQuoteRow(row, noQuote, true)
	q := "INSERT INTO " + table + " (" + strings.Join(row.Columns(), ",") + ") VALUES (" + strings.Join(values, ",") + ")"
	return q, true
}

// InsertMultipleRowsQuery creates a single INSERT statement for several rows.
// Each row holds values in the order of fields. It returns false when rows is
// empty.
func (b *Builder) InsertMultipleRowsQuery(table string, fields []string, rows [][]any, noQuote NoQuote) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	rowSQL := make([]string, 0, len(rows))
	for _, values := range rows {
		row := make(Row, len(values))
		for i, v := range values {
			col := ""
			if i < len(fields) {
				col = fields[i]
			}
			row[i] = Field{Column: col, Value: v}
		}
		rowSQL = append(rowSQL, "("+strings.Join(b.FullQuoteRow(row, noQuote, false), ", ")+")")
	}
	q := "INSERT INTO " + table + " (" + strings.Join(fields, ", ") + ") VALUES " + strings.Join(rowSQL, ", ")
	return q, true
}

// UpdateQuery creates an UPDATE statement. where must be a string; values in
// it are not escaped.
func (b *Builder) UpdateQuery(table string, where any, row Row, noQuote NoQuote) (string, error) {
	w, ok := where.(string)
	if !ok {
		return "", cerrors.WithCode(cerrors.InvalidArgument, cerrors.CodeUpdateWhereNotString,
			fmt.Sprintf("where clause argument for UPDATE query was not a string (got %T)", where))
	}
	sets := make([]string, 0, len(row))
	values := b.FullQuoteRow(row, noQuote, true)
	for i, f := range row {
		sets = append(sets, f.Column+"="+values[i])
	}
	q := "UPDATE " + table + " SET " + strings.Join(sets, ",")
	if w != "" {
		q += " WHERE " + w
	}
	return q, nil
}

// DeleteQuery creates a DELETE statement. where must be a string.
func (b *Builder) DeleteQuery(table string, where any) (string, error) {
	w, ok := where.(string)
	if !ok {
		return "", cerrors.WithCode(cerrors.InvalidArgument, cerrors.CodeDeleteWhereNotString,
			fmt.Sprintf("where clause argument for DELETE query was not a string (got %T)", where))
	}
	q := "DELETE FROM " + table + " "
	if w != "" {
		q += " WHERE " + w
	}
	return q, nil
}

// TruncateQuery creates a TRUNCATE TABLE statement.
func (b *Builder) TruncateQuery(table string) string {
	return "TRUNCATE TABLE " + table
}

// ListQuery returns a WHERE clause finding value in the comma list stored in
// field. value must not contain a comma.
func (b *Builder) ListQuery(field string, value any, table string) (string, error) {
	v := Stringify(value)
	if strings.Contains(v, ",") {
		return "", cerrors.WithCode(cerrors.InvalidArgument, cerrors.CodeListValueHasComma,
			"value must not contain a comma (,) in list query")
	}
	return "FIND_IN_SET('" + b.quoter.Quote(v) + "'," + field + ")", nil
}

// SearchQuery returns a WHERE clause matching every word (AND) or any word
// (OR) against any of fields.
func (b *Builder) SearchQuery(words, fields []string, table string, constraint Constraint) string {
	if constraint != OrConstraint {
		constraint = AndConstraint
	}
	parts := make([]string, 0, len(words))
	for _, w := range words {
		like := " LIKE '%" + b.quoter.Quote(w) + "%'"
		parts = append(parts, table+"."+strings.Join(fields, like+" OR "+table+".")+like)
	}
	return "(" + strings.Join(parts, ") "+string(constraint)+" (") + ")"
}

// MMQuery computes the table list and join condition for a SELECT across an
// MM relation table. Either localTable or foreignTable may be empty.
// aliasSuffix is appended to the foreign table alias when both sides are the
// same table.
func MMQuery(localTable, mmTable, foreignTable, aliasSuffix string) (tables, where string) {
	foreignAs := ""
	if foreignTable != "" && foreignTable == localTable {
		foreignAs = foreignTable + aliasSuffix
	}
	if localTable != "" {
		where = localTable + ".uid=" + mmTable + ".uid_local"
		tables = localTable + ","
	}
	if localTable != "" && foreignTable != "" {
		where += " AND "
	}
	tables += mmTable
	if foreignTable != "" {
		ref := foreignTable
		if foreignAs != "" {
			ref = foreignAs
		}
		where += ref + ".uid=" + mmTable + ".uid_foreign"
		tables += "," + foreignTable
		if foreignAs != "" {
			tables += " AS " + foreignAs
		}
	}
	return tables, where
}
