// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package contentobject

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "t3compat/internal/errors"
)

func TestRenderer_Wrap(t *testing.T) {
	r := NewRenderer(afero.NewMemMapFs())

	tests := []struct {
		name    string
		content string
		wrap    string
		want    string
	}{
		{"both sides", "x", "<b> | </b>", "<b>x</b>"},
		{"left only", "x", "<p>|", "<p>x"},
		{"right only", "x", "|</p>", "x</p>"},
		{"no separator", "x", "<hr>", "<hr>x"},
		{"extra parts ignored", "x", "<a>|</a>|<c>", "<a>x</a>"},
		{"empty wrap", "x", "  ", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Wrap(tt.content, tt.wrap))
		})
	}
}

func TestRenderer_StdWrapIsIdentity(t *testing.T) {
	r := NewRenderer(nil)
	assert.Equal(t, "value", r.StdWrap("value", map[string]any{"wrap": "<b>|</b>"}))
	assert.Equal(t, 42, r.StdWrap(42, nil))
}

func TestRenderer_FileResource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/templates/list.html", []byte("<ul>###ITEMS###</ul>"), 0o644))
	r := NewRenderer(fs)

	got, err := r.FileResource("/templates/list.html")
	require.NoError(t, err)
	assert.Equal(t, "<ul>###ITEMS###</ul>", got)

	_, err = r.FileResource("/templates/missing.html")
	require.Error(t, err)
	assert.True(t, cerrors.IsKind(err, cerrors.NotFound))
	assert.Contains(t, err.Error(), "/templates/missing.html does not exist")
}

func TestRenderer_Delegates(t *testing.T) {
	r := NewRenderer(afero.NewMemMapFs())
	tpl := "<h1>###TITLE###</h1><!-- ###ROW### -->[###VALUE###]<!-- ###ROW### -->"

	row := r.GetSubpart(tpl, "###ROW###")
	assert.Equal(t, "[###VALUE###]", row)

	filled := r.SubstituteMarkerArrayCached(row, map[string]string{"###VALUE###": "1"})
	assert.Equal(t, "[1]", filled)

	out := r.SubstituteSubpart(tpl, "###ROW###", filled)
	out = r.SubstituteMarkerArray(out, map[string]string{"###TITLE###": "News"})
	assert.Equal(t, "<h1>News</h1>[1]", out)
}
