// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/sqlbuild"
	"t3compat/internal/sqlexec"
)

func TestParseSet(t *testing.T) {
	row, err := parseSet([]string{"title=Home", "uid = 4", "bodytext=a=b"})
	require.NoError(t, err)
	assert.Equal(t, sqlbuild.Row{
		{Column: "title", Value: "Home"},
		{Column: "uid", Value: " 4"},
		{Column: "bodytext", Value: "a=b"},
	}, row)

	_, err = parseSet([]string{"title"})
	assert.True(t, cerrors.IsKind(err, cerrors.InvalidArgument))
	_, err = parseSet([]string{"=x"})
	assert.True(t, cerrors.IsKind(err, cerrors.InvalidArgument))
}

func TestOfflineBuilder_Dialects(t *testing.T) {
	t.Cleanup(func() { queryDialect = "postgres" })

	queryDialect = "mysql"
	b, err := offlineBuilder()
	require.NoError(t, err)
	assert.Equal(t, `it\'s`, b.QuoteStr("it's"))

	queryDialect = "postgres"
	b, err = offlineBuilder()
	require.NoError(t, err)
	assert.Equal(t, "it''s", b.QuoteStr("it's"))

	queryDialect = "oracle"
	_, err = offlineBuilder()
	assert.Error(t, err)
}

func TestConnString_DriverMismatch(t *testing.T) {
	driver, _, err := connString("mysql://typo3:secret@db:3306/typo3", "")
	require.NoError(t, err)
	assert.Equal(t, sqlexec.DriverMySQL, driver)

	_, _, err = connString("mysql://typo3:secret@db:3306/typo3", sqlexec.DriverPgx)
	assert.True(t, cerrors.IsKind(err, cerrors.ConfigInvalid))
}

func TestMaskPassword(t *testing.T) {
	got := maskPassword("postgres://typo3:secret@db:5432/typo3?sslmode=disable")
	assert.Equal(t, "postgres://typo3:***@db:5432/typo3?sslmode=disable", got)

	assert.NotContains(t, maskPassword("mysql://root:hunter2@db/typo3"), "hunter2")
}

func TestFieldRows(t *testing.T) {
	def := "0"
	rows := fieldRows([]sqlexec.FieldInfo{
		{Field: "uid", Type: "int(11)", Key: "PRI"},
		{Field: "pid", Type: "int(11)", Null: true, Default: &def},
	})
	assert.Equal(t, "NO", rows[0]["Null"])
	assert.Equal(t, "NULL", rows[0]["Default"])
	assert.Equal(t, "YES", rows[1]["Null"])
	assert.Equal(t, "0", rows[1]["Default"])
}

func TestWriteParts(t *testing.T) {
	p := sqlbuild.SplitGroupOrderLimit("uid=123 ORDER BY title LIMIT 5")

	var buf bytes.Buffer
	require.NoError(t, writeParts(&buf, "json", p))
	assert.Contains(t, buf.String(), `"ORDERBY": "title"`)

	buf.Reset()
	require.NoError(t, writeParts(&buf, "yaml", p))
	assert.Contains(t, buf.String(), "LIMIT: \"5\"")

	buf.Reset()
	err := writeParts(&buf, "xml", p)
	assert.True(t, cerrors.IsKind(err, cerrors.InvalidArgument))
	assert.Empty(t, buf.String())
}
