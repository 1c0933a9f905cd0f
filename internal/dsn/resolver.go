// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn parses PostgreSQL and MySQL connection URLs, including ones
// with unencoded special characters in the password, and turns them into
// the connection string each driver expects.
package dsn

import (
	"strings"
)

// DetectDBType detects the database type from a DSN string
func DetectDBType(dsn string) DBType {
	lower := strings.ToLower(dsn)

	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DBTypePostgreSQL
	}
	if strings.HasPrefix(lower, "mysql://") {
		return DBTypeMySQL
	}
	return DBTypeUnknown
}

func resolverFor(dsn string) (Resolver, error) {
	if dsn == "" {
		return nil, NewParseError(dsn, "empty DSN", "provide a valid database connection string")
	}
	switch DetectDBType(dsn) {
	case DBTypePostgreSQL:
		return NewPostgreSQLResolver(), nil
	case DBTypeMySQL:
		return NewMySQLResolver(), nil
	}
	return nil, NewParseError(dsn, "unknown database type", "use postgres:// or mysql://")
}

// Parse parses a DSN string and returns the normalized connection string.
// This is the main entry point for DSN parsing
func Parse(dsn string) (string, error) {
	_, normalized, err := Resolve(dsn)
	return normalized, err
}

// Resolve parses dsn and returns the driver name together with the
// connection string for that driver.
func Resolve(dsn string) (driver, conn string, err error) {
	resolver, err := resolverFor(dsn)
	if err != nil {
		return "", "", err
	}
	info, err := resolver.Parse(dsn)
	if err != nil {
		return "", "", err
	}
	conn, err = resolver.Normalize(info)
	if err != nil {
		return "", "", err
	}
	return resolver.Driver(), conn, nil
}

// Validate validates a DSN string without normalizing it
func Validate(dsn string) error {
	resolver, err := resolverFor(dsn)
	if err != nil {
		return err
	}
	return resolver.Validate(dsn)
}

// ParseInfo parses a DSN string and returns detailed DSN info
// Useful for inspecting connection details
func ParseInfo(dsn string) (*DSNInfo, error) {
	resolver, err := resolverFor(dsn)
	if err != nil {
		return nil, err
	}
	return resolver.Parse(dsn)
}
