// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package frontenduser

import (
	"context"
	"strings"

	"github.com/google/uuid"

	cerrors "t3compat/internal/errors"
	"t3compat/internal/sqlbuild"
	"t3compat/internal/sqlexec"
)

// DefaultTable is the legacy frontend user table.
const DefaultTable = "fe_users"

var userColumns = []string{
	"persistence_object_identifier",
	"username",
	"title",
	"first_name",
	"middle_name",
	"last_name",
	"address",
	"zip",
	"city",
	"country",
	"www",
	"company",
	"image",
	"telephone",
	"fax",
}

// Repository stores frontend users in a flat table through the legacy
// executor.
type Repository struct {
	exec  *sqlexec.Executor
	table string
}

// NewRepository creates a repository on table. An empty table means
// DefaultTable.
func NewRepository(exec *sqlexec.Executor, table string) *Repository {
	if table == "" {
		table = DefaultTable
	}
	return &Repository{exec: exec, table: table}
}

// FindAll returns all users ordered by username.
func (r *Repository) FindAll(ctx context.Context) ([]*User, error) {
	rows, err := r.exec.ExecSelectGetRows(ctx, strings.Join(userColumns, ","), r.table, "", "", "username", "")
	if err != nil {
		return nil, err
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, userFromRow(row))
	}
	return users, nil
}

// FindByUsername returns the user with username, or a NotFound error.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	where := "username=" + r.exec.Builder().FullQuoteStr(username, false)
	row, err := r.exec.ExecSelectGetSingleRow(ctx, strings.Join(userColumns, ","), r.table, where, "", "")
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, cerrors.New(cerrors.NotFound, "frontend user "+username+" does not exist")
	}
	return userFromRow(row), nil
}

// Add inserts u, assigning an identifier when it has none.
func (r *Repository) Add(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return r.exec.ExecInsertQuery(ctx, r.table, userRow(u), nil)
}

// Update writes all fields of u.
func (r *Repository) Update(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		return cerrors.New(cerrors.InvalidArgument, "cannot update a frontend user without identifier")
	}
	return r.exec.ExecUpdateQuery(ctx, r.table, r.whereID(u), userRow(u)[1:], nil)
}

// Remove deletes u.
func (r *Repository) Remove(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		return cerrors.New(cerrors.InvalidArgument, "cannot remove a frontend user without identifier")
	}
	return r.exec.ExecDeleteQuery(ctx, r.table, r.whereID(u))
}

// CountAll returns the number of stored users.
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	return r.exec.ExecSelectCountRows(ctx, "*", r.table, "")
}

func (r *Repository) whereID(u *User) string {
	return "persistence_object_identifier=" + r.exec.Builder().FullQuoteStr(u.ID.String(), false)
}

func userRow(u *User) sqlbuild.Row {
	return sqlbuild.Row{
		{Column: "persistence_object_identifier", Value: u.ID.String()},
		{Column: "username", Value: u.Username()},
		{Column: "title", Value: u.Title()},
		{Column: "first_name", Value: u.FirstName()},
		{Column: "middle_name", Value: u.MiddleName()},
		{Column: "last_name", Value: u.LastName()},
		{Column: "address", Value: u.Address},
		{Column: "zip", Value: u.Zip},
		{Column: "city", Value: u.City},
		{Column: "country", Value: u.Country},
		{Column: "www", Value: u.WWW},
		{Column: "company", Value: u.Company},
		{Column: "image", Value: u.Image},
		{Column: "telephone", Value: u.Telephone},
		{Column: "fax", Value: u.Fax},
	}
}

func userFromRow(row map[string]any) *User {
	str := func(col string) string { return sqlbuild.Stringify(row[col]) }

	id, _ := uuid.Parse(str("persistence_object_identifier"))
	return &User{
		ID: id,
		Account: &Account{
			Identifier: str("username"),
			Party: &Person{Name: PersonName{
				Title:      str("title"),
				FirstName:  str("first_name"),
				MiddleName: str("middle_name"),
				LastName:   str("last_name"),
			}},
		},
		Address:   str("address"),
		Zip:       str("zip"),
		City:      str("city"),
		Country:   str("country"),
		WWW:       str("www"),
		Company:   str("company"),
		Image:     str("image"),
		Telephone: str("telephone"),
		Fax:       str("fax"),
	}
}
