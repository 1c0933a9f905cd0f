// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pterm/pterm"

	cerrors "t3compat/internal/errors"
)

// QueryErrorType represents the category of a database error
type QueryErrorType int

const (
	QueryErrorUnknown QueryErrorType = iota
	QueryErrorConnection
	QueryErrorAuth
	QueryErrorSyntax
	QueryErrorUndefined
	QueryErrorConstraint
	QueryErrorIncompatible
	QueryErrorArgument
)

// ParseQueryError categorizes an error returned by the executor. It looks at
// the driver error codes first and falls back to the message text.
func ParseQueryError(err error) QueryErrorType {
	if err == nil {
		return QueryErrorUnknown
	}
	switch cerrors.KindOf(err) {
	case cerrors.Incompatible:
		return QueryErrorIncompatible
	case cerrors.InvalidArgument:
		return QueryErrorArgument
	case cerrors.ConnectFailed:
		return QueryErrorConnection
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return sqlStateType(pgErr.Code)
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return sqlStateType(string(pqErr.Code))
	}
	var myErr *mysql.MySQLError
	if stderrors.As(err, &myErr) {
		switch myErr.Number {
		case 1044, 1045:
			return QueryErrorAuth
		case 1064:
			return QueryErrorSyntax
		case 1054, 1146:
			return QueryErrorUndefined
		case 1062, 1451, 1452:
			return QueryErrorConstraint
		}
		return QueryErrorUnknown
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") {
		return QueryErrorConnection
	}
	if strings.Contains(lower, "syntax") {
		return QueryErrorSyntax
	}
	return QueryErrorUnknown
}

// sqlStateType maps a SQLSTATE code to a category by its class.
func sqlStateType(code string) QueryErrorType {
	if len(code) < 2 {
		return QueryErrorUnknown
	}
	switch code[:2] {
	case "08":
		return QueryErrorConnection
	case "28":
		return QueryErrorAuth
	case "23":
		return QueryErrorConstraint
	case "42":
		// 42601 syntax_error, the rest of the class is undefined objects and privileges
		if code == "42601" {
			return QueryErrorSyntax
		}
		return QueryErrorUndefined
	}
	return QueryErrorUnknown
}

// FormatQueryError formats a database error in a user-friendly way
func FormatQueryError(err error) string {
	var builder strings.Builder

	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Query failed"))
	builder.WriteString("\n\n")

	switch ParseQueryError(err) {
	case QueryErrorConnection:
		builder.WriteString("The database could not be reached.\n")
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Check the DSN with 't3compat dbinfo'"))
	case QueryErrorAuth:
		builder.WriteString("The database rejected the credentials.\n")
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Run 't3compat connect' with a valid DSN"))
	case QueryErrorSyntax:
		builder.WriteString("The statement is not valid SQL for this database.\n")
	case QueryErrorUndefined:
		builder.WriteString("The statement references a table or column that does not exist.\n")
	case QueryErrorConstraint:
		builder.WriteString("The statement violates a constraint of the table.\n")
	case QueryErrorIncompatible:
		builder.WriteString("This legacy operation is not supported by the current backend.\n")
	case QueryErrorArgument:
		builder.WriteString("The call was made with invalid arguments.\n")
	default:
		builder.WriteString("The database returned an error.\n")
	}
	builder.WriteString("\n")

	if err != nil {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(err.Error())))
	}

	return builder.String()
}

// PresentQueryError displays a formatted database error
func PresentQueryError(err error) {
	fmt.Println()
	fmt.Println(FormatQueryError(err))
	fmt.Println()
}

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}
