// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	cerrors "t3compat/internal/errors"
)

// Supported driver names for Open.
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Open connects to dsn with the named driver and pins one connection.
// Closing the returned Conn also closes the underlying pool.
func Open(ctx context.Context, driver, dsn string) (Conn, error) {
	switch driver {
	case DriverPgx, "":
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ConnectFailed, "create pgx pool", err)
		}
		c, err := NewPgxConn(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, cerrors.Wrap(cerrors.ConnectFailed, "acquire connection", err)
		}
		c.release = pool.Close
		return c, nil
	case DriverPostgres, DriverMySQL:
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ConnectFailed, "open "+driver, err)
		}
		conn, err := db.Conn(ctx)
		if err != nil {
			_ = db.Close()
			return nil, cerrors.Wrap(cerrors.ConnectFailed, "acquire connection", err)
		}
		dialect := DialectPostgres
		if driver == DriverMySQL {
			dialect = DialectMySQL
		}
		c := NewSQLConn(conn, dialect)
		c.release = func() { _ = db.Close() }
		return c, nil
	default:
		return nil, cerrors.New(cerrors.ConfigInvalid, fmt.Sprintf("unsupported driver %q (want pgx, postgres or mysql)", driver))
	}
}
