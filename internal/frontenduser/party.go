// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package frontenduser

import "strings"

// Account is the security account a frontend user logs in with.
type Account struct {
	Identifier string
	Party      Party
}

// Party is the owner of an account. Only a *Person carries name data.
type Party interface {
	isParty()
}

// Person is a natural person party.
type Person struct {
	Name PersonName
}

func (*Person) isParty() {}

// PersonName holds the parts of a person's name.
type PersonName struct {
	Title      string
	FirstName  string
	MiddleName string
	LastName   string
}

// FullName joins the non-empty name parts with a space.
func (n PersonName) FullName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{n.Title, n.FirstName, n.MiddleName, n.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
