// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/proullon/ramsql/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/sqlbuild"
)

func openRamSQL(t *testing.T) *Executor {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("ramsql", t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	c := NewSQLConn(conn, "")
	t.Cleanup(func() { _ = c.Close() })

	_, err = c.Exec(ctx, `CREATE TABLE pages (title TEXT, slug TEXT)`)
	require.NoError(t, err)
	return New(c, nil)
}

func TestSQLConn_RoundTrip(t *testing.T) {
	ctx := context.Background()
	e := openRamSQL(t)

	require.NoError(t, e.ExecInsertQuery(ctx, "pages", sqlbuild.Row{
		{Column: "title", Value: "Home"},
		{Column: "slug", Value: "home"},
	}, nil))
	require.NoError(t, e.ExecInsertQuery(ctx, "pages", sqlbuild.Row{
		{Column: "title", Value: "About"},
		{Column: "slug", Value: "about"},
	}, nil))

	rows, err := e.ExecSelectGetRows(ctx, "title, slug", "pages", "slug = 'about'", "", "", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "About", rows[0]["title"])

	require.NoError(t, e.ExecUpdateQuery(ctx, "pages", "slug = 'home'", sqlbuild.Row{
		{Column: "title", Value: "Start"},
	}, nil))

	row, err := e.ExecSelectGetSingleRow(ctx, "title", "pages", "slug = 'home'", "", "")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Start", row["title"])

	require.NoError(t, e.ExecDeleteQuery(ctx, "pages", "slug = 'about'"))
	rows, err = e.ExecSelectGetRows(ctx, "title", "pages", "slug = 'about'", "", "", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSQLConn_AffectedRowsAfterSQLQuery(t *testing.T) {
	ctx := context.Background()
	e := openRamSQL(t)

	_, err := e.AffectedRows(ctx)
	assert.True(t, cerrors.IsKind(err, cerrors.Incompatible), "no statement has run yet")

	for _, slug := range []string{"a", "b", "c"} {
		require.NoError(t, e.ExecInsertQuery(ctx, "pages", sqlbuild.Row{
			{Column: "title", Value: "Page"},
			{Column: "slug", Value: slug},
		}, nil))
	}

	_, err = e.SQLQuery(ctx, "DELETE FROM pages WHERE title = 'Page'")
	require.NoError(t, err)
	n, err := e.AffectedRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = e.SQLQuery(ctx, "SELECT title FROM pages")
	require.NoError(t, err)
	_, err = e.AffectedRows(ctx)
	assert.True(t, cerrors.IsKind(err, cerrors.Incompatible), "a query must not report the count of an earlier write")
}

func TestSQLConn_GenericDialect(t *testing.T) {
	e := openRamSQL(t)

	assert.Equal(t, DialectGeneric, e.Conn.Dialect())
	assert.Equal(t, "a''b", e.Builder().QuoteStr("a'b"))
	assert.True(t, e.IsConnected(context.Background()))
}
