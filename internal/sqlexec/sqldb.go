// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"t3compat/internal/sqlbuild"
)

// SQLConn is a Conn over a database/sql connection. The dialect decides the
// quoting and how the last insert id and row count are obtained.
type SQLConn struct {
	conn    *sql.Conn
	dialect Dialect
	release func()

	mu           sync.Mutex
	lastAffected int64
	lastInsertID int64
	hasAffected  bool
}

// NewSQLConn wraps conn. An empty dialect means DialectGeneric.
func NewSQLConn(conn *sql.Conn, dialect Dialect) *SQLConn {
	if dialect == "" {
		dialect = DialectGeneric
	}
	return &SQLConn{conn: conn, dialect: dialect}
}

// Query runs query and materializes all rows. database/sql reports no row
// count for queries, so the count of an earlier Exec is forgotten.
func (c *SQLConn) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	c.mu.Lock()
	c.lastAffected, c.hasAffected = 0, false
	c.mu.Unlock()

	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) (*Result, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types := make([]string, len(cols))
	if cts, err := rows.ColumnTypes(); err == nil {
		for i, ct := range cts {
			types[i] = strings.ToLower(ct.DatabaseTypeName())
		}
	}

	var data [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			// drivers may reuse the buffer on the next Scan
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		data = append(data, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewResult(cols, types, data), nil
}

// Exec runs a statement that returns no rows.
func (c *SQLConn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAffected, err = res.RowsAffected()
	c.hasAffected = err == nil
	if id, idErr := res.LastInsertId(); idErr == nil {
		c.lastInsertID = id
	}
	return c.lastAffected, nil
}

// Prepare prepares query on the pinned connection.
func (c *SQLConn) Prepare(ctx context.Context, query string) (Stmt, error) {
	stmt, err := c.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &sqlStmt{stmt: stmt, sql: query}, nil
}

// LastInsertID uses lastval() on PostgreSQL and the driver's insert id
// otherwise.
func (c *SQLConn) LastInsertID(ctx context.Context) (int64, error) {
	if c.dialect == DialectPostgres {
		var id int64
		if err := c.conn.QueryRowContext(ctx, "SELECT lastval()").Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	if c.dialect == DialectMySQL {
		var id int64
		if err := c.conn.QueryRowContext(ctx, "SELECT LAST_INSERT_ID()").Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastInsertID, nil
}

// LastRowsAffected reports the driver row count of the last Exec. MySQL
// connections report false so that the session's ROW_COUNT() is used.
func (c *SQLConn) LastRowsAffected() (int64, bool) {
	if c.dialect == DialectMySQL {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAffected, c.hasAffected
}

func (c *SQLConn) Quoter() sqlbuild.Quoter {
	if c.dialect == DialectMySQL {
		return sqlbuild.MySQLQuoter
	}
	return sqlbuild.PostgresQuoter
}

func (c *SQLConn) Dialect() Dialect { return c.dialect }

func (c *SQLConn) Ping(ctx context.Context) error {
	return c.conn.PingContext(ctx)
}

// Close returns the connection to the database/sql pool.
func (c *SQLConn) Close() error {
	err := c.conn.Close()
	if c.release != nil {
		c.release()
	}
	return err
}

type sqlStmt struct {
	stmt *sql.Stmt
	sql  string
}

func (s *sqlStmt) SQL() string { return s.sql }

func (s *sqlStmt) Query(ctx context.Context, args ...any) (*Result, error) {
	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

func (s *sqlStmt) Close() error { return s.stmt.Close() }
