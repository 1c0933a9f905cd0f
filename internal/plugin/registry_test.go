// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "t3compat/internal/errors"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("news", func() any { return &newsPlugin{} }))
	require.NoError(t, r.Register("archive", func() any { return &noMain{} }))

	err := r.Register("news", func() any { return nil })
	assert.True(t, cerrors.IsKind(err, cerrors.InvalidArgument))
	assert.True(t, cerrors.IsKind(r.Register("", nil), cerrors.InvalidArgument))

	f, ok := r.Lookup("news")
	require.True(t, ok)
	assert.IsType(t, &newsPlugin{}, f())

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"archive", "news"}, r.Names())
}
