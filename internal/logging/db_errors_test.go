// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	cerrors "t3compat/internal/errors"
)

func TestParseQueryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want QueryErrorType
	}{
		{"nil", nil, QueryErrorUnknown},
		{"incompatible", cerrors.New(cerrors.Incompatible, "seek"), QueryErrorIncompatible},
		{"argument", cerrors.WithCode(cerrors.InvalidArgument, cerrors.CodeDeleteWhereNotString, "where"), QueryErrorArgument},
		{"pgx syntax", &pgconn.PgError{Code: "42601"}, QueryErrorSyntax},
		{"pgx undefined table", fmt.Errorf("select: %w", &pgconn.PgError{Code: "42P01"}), QueryErrorUndefined},
		{"pgx auth", &pgconn.PgError{Code: "28P01"}, QueryErrorAuth},
		{"pq unique", &pq.Error{Code: "23505"}, QueryErrorConstraint},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, QueryErrorConstraint},
		{"mysql no table", &mysql.MySQLError{Number: 1146}, QueryErrorUndefined},
		{"mysql denied", &mysql.MySQLError{Number: 1045}, QueryErrorAuth},
		{"refused", stderrors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), QueryErrorConnection},
		{"other", stderrors.New("boom"), QueryErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQueryError(tt.err))
		})
	}
}

func TestFormatQueryError_MasksDetails(t *testing.T) {
	out := FormatQueryError(stderrors.New("connect postgres://u:p@db/cms: connection refused"))
	assert.Contains(t, out, "could not be reached")
	assert.Contains(t, out, "postgres://*:*@db/cms")
	assert.NotContains(t, out, "u:p@")
}

func TestPresentError(t *testing.T) {
	assert.Equal(t, "", PresentError("ctx", nil))
	assert.Equal(t, "connect: password=***", PresentError("connect", stderrors.New("password=x")))
}
