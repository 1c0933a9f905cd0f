// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package frontenduser provides the legacy frontend user and group records
// on top of an account and its party, plus a repository for the fe_users
// table.
package frontenduser

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	cerrors "t3compat/internal/errors"
)

var reNameTitle = regexp.MustCompile(`^(Herr|Frau|Mrs?|Ms|Prof|Dr|Ph\.D|Dipl)\.?$`)

// User is a frontend user. Name accessors proxy onto the account's Person;
// without a Person they read empty and writes are dropped.
type User struct {
	ID      uuid.UUID
	Account *Account

	Address   string
	Zip       string
	City      string
	Country   string
	WWW       string
	Company   string
	Image     string
	Telephone string
	Fax       string
}

// FromAccount creates a user for account.
func FromAccount(account *Account) *User {
	return &User{Account: account}
}

func (u *User) person() *Person {
	if u.Account == nil {
		return nil
	}
	p, _ := u.Account.Party.(*Person)
	return p
}

func (u *User) Username() string {
	if u.Account == nil {
		return ""
	}
	return u.Account.Identifier
}

func (u *User) SetUsername(username string) {
	if u.Account == nil {
		u.Account = &Account{}
	}
	u.Account.Identifier = username
}

// Name returns the full name of the person, or "" without one.
func (u *User) Name() string {
	if p := u.person(); p != nil {
		return p.Name.FullName()
	}
	return ""
}

// SetName splits a display name on single spaces. A leading salutation or
// academic title ("Dr", "Frau", ...) becomes the title; the remaining two
// parts are first and last name, three parts are first, middle and last
// name. Any other shape is Incompatible.
func (u *User) SetName(name string) error {
	parts := strings.Split(name, " ")
	title := ""
	if reNameTitle.MatchString(parts[0]) {
		title, parts = parts[0], parts[1:]
	}

	if len(parts) != 2 && len(parts) != 3 {
		return cerrors.New(cerrors.Incompatible, `don't know what to do with name "`+name+`"`)
	}
	if title != "" {
		u.SetTitle(title)
	}
	u.SetFirstName(parts[0])
	if len(parts) == 3 {
		u.SetMiddleName(parts[1])
	}
	u.SetLastName(parts[len(parts)-1])
	return nil
}

func (u *User) Title() string {
	if p := u.person(); p != nil {
		return p.Name.Title
	}
	return ""
}

func (u *User) SetTitle(title string) {
	if p := u.person(); p != nil {
		p.Name.Title = title
	}
}

func (u *User) FirstName() string {
	if p := u.person(); p != nil {
		return p.Name.FirstName
	}
	return ""
}

func (u *User) SetFirstName(firstName string) {
	if p := u.person(); p != nil {
		p.Name.FirstName = firstName
	}
}

func (u *User) MiddleName() string {
	if p := u.person(); p != nil {
		return p.Name.MiddleName
	}
	return ""
}

func (u *User) SetMiddleName(middleName string) {
	if p := u.person(); p != nil {
		p.Name.MiddleName = middleName
	}
}

func (u *User) LastName() string {
	if p := u.person(); p != nil {
		return p.Name.LastName
	}
	return ""
}

func (u *User) SetLastName(lastName string) {
	if p := u.person(); p != nil {
		p.Name.LastName = lastName
	}
}
