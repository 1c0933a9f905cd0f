// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package frontenduser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "t3compat/internal/errors"
)

func newPersonUser(username string) *User {
	return FromAccount(&Account{Identifier: username, Party: &Person{}})
}

func TestSetName(t *testing.T) {
	tests := []struct {
		name                             string
		in                               string
		title, first, middle, last, full string
	}{
		{name: "first last", in: "Jane Doe", first: "Jane", last: "Doe", full: "Jane Doe"},
		{name: "with middle", in: "Jane Mary Doe", first: "Jane", middle: "Mary", last: "Doe", full: "Jane Mary Doe"},
		{name: "title", in: "Dr. Jane Doe", title: "Dr.", first: "Jane", last: "Doe", full: "Dr. Jane Doe"},
		{name: "salutation and middle", in: "Frau Anna Maria Schmidt", title: "Frau", first: "Anna", middle: "Maria", last: "Schmidt", full: "Frau Anna Maria Schmidt"},
		{name: "name starting like a title", in: "Drake Smith", first: "Drake", last: "Smith", full: "Drake Smith"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newPersonUser("jdoe")
			require.NoError(t, u.SetName(tt.in))
			assert.Equal(t, tt.title, u.Title())
			assert.Equal(t, tt.first, u.FirstName())
			assert.Equal(t, tt.middle, u.MiddleName())
			assert.Equal(t, tt.last, u.LastName())
			assert.Equal(t, tt.full, u.Name())
		})
	}
}

func TestSetName_Incompatible(t *testing.T) {
	for _, in := range []string{"Cher", "Dr Cher", "A B C D", ""} {
		u := newPersonUser("x")
		err := u.SetName(in)
		require.Error(t, err, in)
		assert.True(t, cerrors.IsKind(err, cerrors.Incompatible))
		assert.Empty(t, u.Title())
	}
}

func TestUser_WithoutPerson(t *testing.T) {
	u := FromAccount(&Account{Identifier: "robot"})
	require.NoError(t, u.SetName("Jane Doe"))
	assert.Empty(t, u.FirstName())
	assert.Empty(t, u.Name())
	assert.Equal(t, "robot", u.Username())

	var bare User
	assert.Empty(t, bare.Username())
	bare.SetUsername("late")
	assert.Equal(t, "late", bare.Username())
}

func TestGroupTree(t *testing.T) {
	root := NewGroup("Editors")
	child := NewGroup("News editors")
	other := NewGroup("Other")
	child.Parent = root

	root.AddSubgroup(child)
	root.AddSubgroup(other)
	require.Len(t, root.Subgroups, 2)
	assert.NotEqual(t, root.ID, child.ID)

	assert.True(t, root.RemoveSubgroup(child))
	assert.Equal(t, []*Group{other}, root.Subgroups)
	assert.False(t, root.RemoveSubgroup(child))

	// cycles are not prevented
	other.AddSubgroup(root)
	assert.Same(t, root, other.Subgroups[0])
}

func TestGroup_RemoveSubgroupReleasesRemoved(t *testing.T) {
	root := NewGroup("root")
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	root.AddSubgroup(a)
	root.AddSubgroup(b)
	root.AddSubgroup(c)
	backing := root.Subgroups[:3]

	require.True(t, root.RemoveSubgroup(b))
	assert.Equal(t, []*Group{a, c}, root.Subgroups)
	assert.Nil(t, backing[2], "removed groups must not stay reachable through the backing array")
}
