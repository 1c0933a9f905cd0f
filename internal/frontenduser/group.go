// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package frontenduser

import (
	"slices"

	"github.com/google/uuid"
)

// Group is a frontend user group. Groups form a tree through Parent and
// Subgroups; nothing keeps the two sides consistent or prevents cycles.
type Group struct {
	ID          uuid.UUID
	Title       string
	Description string
	Parent      *Group
	Subgroups   []*Group
}

// NewGroup creates a group with a fresh identifier.
func NewGroup(title string) *Group {
	return &Group{ID: uuid.New(), Title: title}
}

// AddSubgroup appends g to the subgroups.
func (gr *Group) AddSubgroup(g *Group) {
	gr.Subgroups = append(gr.Subgroups, g)
}

// RemoveSubgroup removes every occurrence of g and reports whether one was
// found.
func (gr *Group) RemoveSubgroup(g *Group) bool {
	n := len(gr.Subgroups)
	gr.Subgroups = slices.DeleteFunc(gr.Subgroups, func(s *Group) bool { return s == g })
	return len(gr.Subgroups) != n
}
