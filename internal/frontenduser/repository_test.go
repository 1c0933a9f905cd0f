// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package frontenduser

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/proullon/ramsql/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/sqlbuild"
	"t3compat/internal/sqlexec"
)

func openRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("ramsql", t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	c := sqlexec.NewSQLConn(conn, "")
	t.Cleanup(func() { _ = c.Close() })

	cols := make([]string, len(userColumns))
	for i, col := range userColumns {
		cols[i] = col + " TEXT"
	}
	_, err = c.Exec(ctx, "CREATE TABLE fe_users ("+strings.Join(cols, ", ")+")")
	require.NoError(t, err)
	return NewRepository(sqlexec.New(c, nil), "")
}

func TestRepository_AddFindRemove(t *testing.T) {
	ctx := context.Background()
	repo := openRepository(t)

	jane := newPersonUser("jane")
	require.NoError(t, jane.SetName("Dr Jane Doe"))
	jane.City = "Espelkamp"
	jane.Telephone = "+49 5772 0"
	require.NoError(t, repo.Add(ctx, jane))
	assert.NotEqual(t, uuid.Nil, jane.ID)

	bob := newPersonUser("bob")
	require.NoError(t, bob.SetName("Bob Marley"))
	require.NoError(t, repo.Add(ctx, bob))

	got, err := repo.FindByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, got.ID)
	assert.Equal(t, "Dr Jane Doe", got.Name())
	assert.Equal(t, "Espelkamp", got.City)

	got, err = repo.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Marley", got.LastName())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, repo.Remove(ctx, bob))
	_, err = repo.FindByUsername(ctx, "bob")
	assert.True(t, cerrors.IsKind(err, cerrors.NotFound))
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := openRepository(t)

	u := newPersonUser("jane")
	require.NoError(t, u.SetName("Jane Doe"))
	require.NoError(t, repo.Add(ctx, u))

	u.Company = "Mittwald"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.FindByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, "Mittwald", got.Company)
}

func TestRepository_RequiresIdentifier(t *testing.T) {
	repo := openRepository(t)
	u := newPersonUser("nobody")

	assert.True(t, cerrors.IsKind(repo.Update(context.Background(), u), cerrors.InvalidArgument))
	assert.True(t, cerrors.IsKind(repo.Remove(context.Background(), u), cerrors.InvalidArgument))
}

type countConn struct {
	queries []string
}

func (c *countConn) Query(_ context.Context, sql string, _ ...any) (*sqlexec.Result, error) {
	c.queries = append(c.queries, sql)
	return sqlexec.NewResult([]string{"count"}, []string{"int8"}, [][]any{{int64(7)}}), nil
}

func (c *countConn) Exec(context.Context, string, ...any) (int64, error) { return 0, nil }

func (c *countConn) Prepare(context.Context, string) (sqlexec.Stmt, error) { return nil, nil }

func (c *countConn) LastInsertID(context.Context) (int64, error) { return 0, nil }

func (c *countConn) Quoter() sqlbuild.Quoter    { return sqlbuild.PostgresQuoter }
func (c *countConn) Dialect() sqlexec.Dialect   { return sqlexec.DialectPostgres }
func (c *countConn) Ping(context.Context) error { return nil }
func (c *countConn) Close() error               { return nil }

func TestRepository_CountAll(t *testing.T) {
	conn := &countConn{}
	repo := NewRepository(sqlexec.New(conn, nil), "legacy_users")

	n, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, []string{"SELECT COUNT(*) FROM legacy_users"}, conn.queries)
}
