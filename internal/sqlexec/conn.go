// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"

	"t3compat/internal/sqlbuild"
)

// Dialect identifies the SQL flavour spoken by a connection.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	// DialectGeneric is any other database/sql driver. It quotes like
	// standard SQL and has no admin queries.
	DialectGeneric Dialect = "generic"
)

// Conn is a single pinned database connection. All statements of one
// Executor run on the same Conn so that session state (last insert id, row
// count) stays consistent.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (*Result, error)
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	Prepare(ctx context.Context, sql string) (Stmt, error)
	LastInsertID(ctx context.Context) (int64, error)
	Quoter() sqlbuild.Quoter
	Dialect() Dialect
	Ping(ctx context.Context) error
	Close() error
}

// Stmt is a prepared statement bound to a Conn.
type Stmt interface {
	SQL() string
	Query(ctx context.Context, args ...any) (*Result, error)
	Close() error
}

// RowsAffectedReporter is implemented by connections that know the row count
// of the last statement without another round-trip.
type RowsAffectedReporter interface {
	LastRowsAffected() (int64, bool)
}
