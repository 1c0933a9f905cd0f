// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result is a fully materialized result set with a forward-only read cursor.
type Result struct {
	Columns []string `json:"columns"`
	// Types holds the database type name of each column, lower case.
	Types []string `json:"types,omitempty"`
	Rows  [][]any  `json:"rows"`

	pos   int
	freed bool
}

// NewResult creates a Result. It is used by the connection adapters and by tests.
func NewResult(columns, types []string, rows [][]any) *Result {
	if rows == nil {
		rows = [][]any{}
	}
	return &Result{Columns: columns, Types: types, Rows: rows}
}

// Len returns the number of rows in the set.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// next returns the row under the cursor and advances it.
func (r *Result) next() ([]any, bool) {
	if r == nil || r.freed || r.pos >= len(r.Rows) {
		return nil, false
	}
	row := r.Rows[r.pos]
	r.pos++
	return row, true
}

// assoc returns row as a column keyed map. Later duplicate column names win.
func (r *Result) assoc(row []any) map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		if i < len(row) {
			m[c] = row[i]
		}
	}
	return m
}

// MarshalJSON implements custom JSON marshaling for Result to handle driver types properly.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias struct {
		Columns []string `json:"columns"`
		Types   []string `json:"types,omitempty"`
		Rows    [][]any  `json:"rows"`
	}
	a := alias{Columns: r.Columns, Types: r.Types, Rows: make([][]any, len(r.Rows))}
	if a.Columns == nil {
		a.Columns = []string{}
	}
	for i, row := range r.Rows {
		a.Rows[i] = make([]any, len(row))
		for j, v := range row {
			a.Rows[i][j] = normalizeValue(v)
		}
	}
	return json.Marshal(a)
}

// normalizeValue converts driver specific values to plain Go values that
// marshal cleanly and compare well in callers.
func normalizeValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case [16]byte:
		// pgx returns uuid columns in this form
		return uuid.UUID(v).String()
	case time.Time:
		return v
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return fmt.Sprint(v)
		}
		return normalizeValue(dv)
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}
