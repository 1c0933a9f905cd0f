// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"t3compat/internal/sqlbuild"
)

// PgxConn is a Conn over a connection acquired from a pgx pool.
type PgxConn struct {
	conn    *pgxpool.Conn
	release func()

	mu           sync.Mutex
	lastAffected int64
	hasAffected  bool
}

// NewPgxConn acquires a connection from pool and pins it for the lifetime of
// the returned PgxConn.
func NewPgxConn(ctx context.Context, pool *pgxpool.Pool) (*PgxConn, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &PgxConn{conn: conn}, nil
}

func (c *PgxConn) setAffected(n int64) {
	c.mu.Lock()
	c.lastAffected, c.hasAffected = n, true
	c.mu.Unlock()
}

// Query runs sql and materializes all rows.
func (c *PgxConn) Query(ctx context.Context, sql string, args ...any) (*Result, error) {
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	res, err := c.collect(rows)
	if err != nil {
		return nil, err
	}
	c.setAffected(rows.CommandTag().RowsAffected())
	return res, nil
}

func (c *PgxConn) collect(rows pgx.Rows) (*Result, error) {
	defer rows.Close()

	typeMap := c.conn.Conn().TypeMap()
	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	types := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
		if t, ok := typeMap.TypeForOID(fd.DataTypeOID); ok {
			types[i] = strings.ToLower(t.Name)
		}
	}

	var data [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		data = append(data, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewResult(cols, types, data), nil
}

// Exec runs a statement that returns no rows.
func (c *PgxConn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	ct, err := c.conn.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	c.setAffected(ct.RowsAffected())
	return ct.RowsAffected(), nil
}

// Prepare creates a named server side prepared statement.
func (c *PgxConn) Prepare(ctx context.Context, sql string) (Stmt, error) {
	name := "t3compat_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := c.conn.Conn().Prepare(ctx, name, sql); err != nil {
		return nil, err
	}
	return &pgxStmt{conn: c, name: name, sql: sql}, nil
}

// LastInsertID returns lastval() of the session.
func (c *PgxConn) LastInsertID(ctx context.Context) (int64, error) {
	var id int64
	if err := c.conn.QueryRow(ctx, "SELECT lastval()").Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// LastRowsAffected reports the command tag row count of the last statement.
func (c *PgxConn) LastRowsAffected() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAffected, c.hasAffected
}

func (c *PgxConn) Quoter() sqlbuild.Quoter { return sqlbuild.PostgresQuoter }
func (c *PgxConn) Dialect() Dialect        { return DialectPostgres }

func (c *PgxConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close releases the connection back to the pool.
func (c *PgxConn) Close() error {
	c.conn.Release()
	if c.release != nil {
		c.release()
	}
	return nil
}

type pgxStmt struct {
	conn *PgxConn
	name string
	sql  string
}

func (s *pgxStmt) SQL() string { return s.sql }

func (s *pgxStmt) Query(ctx context.Context, args ...any) (*Result, error) {
	// pgx resolves a prepared statement name passed in place of the SQL text
	return s.conn.Query(ctx, s.name, args...)
}

func (s *pgxStmt) Close() error {
	return s.conn.conn.Conn().Deallocate(context.Background(), s.name)
}
