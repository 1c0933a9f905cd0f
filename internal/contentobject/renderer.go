// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package contentobject provides the small subset of the legacy content
// object that plugins still call: wrapping, reading template files and the
// ###MARKER### template substitutions.
package contentobject

import (
	"strings"

	"github.com/spf13/afero"

	cerrors "t3compat/internal/errors"
)

// Renderer is the content object handed to plugins.
type Renderer struct {
	fs afero.Fs
}

// NewRenderer creates a Renderer reading files from fs. A nil fs means the
// operating system file system.
func NewRenderer(fs afero.Fs) *Renderer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Renderer{fs: fs}
}

// StdWrap returns value unchanged. The legacy stdWrap options are not
// interpreted.
func (r *Renderer) StdWrap(value any, _ map[string]any) any {
	return value
}

// Wrap surrounds content with the two halves of wrap, split on the first
// "|". Both halves are trimmed.
func (r *Renderer) Wrap(content, wrap string) string {
	if strings.TrimSpace(wrap) == "" {
		return content
	}
	left, right, _ := strings.Cut(wrap, "|")
	if i := strings.Index(right, "|"); i >= 0 {
		right = right[:i]
	}
	return strings.TrimSpace(left) + content + strings.TrimSpace(right)
}

// FileResource returns the content of filename.
func (r *Renderer) FileResource(filename string) (string, error) {
	ok, err := afero.Exists(r.fs, filename)
	if err != nil {
		return "", cerrors.Wrap(cerrors.NotFound, "stat "+filename, err)
	}
	if !ok {
		return "", cerrors.New(cerrors.NotFound, "file "+filename+" does not exist")
	}
	b, err := afero.ReadFile(r.fs, filename)
	if err != nil {
		return "", cerrors.Wrap(cerrors.NotFound, "read "+filename, err)
	}
	return string(b), nil
}

// GetSubpart returns the content between the first two occurrences of marker.
func (r *Renderer) GetSubpart(template, marker string) string {
	return GetSubpart(template, marker)
}

// SubstituteMarkerArray replaces every marker key with its value.
func (r *Renderer) SubstituteMarkerArray(template string, markers map[string]string) string {
	return SubstituteMarkerArray(template, markers)
}

// SubstituteMarkerArrayCached is SubstituteMarkerArray. Results are not cached.
func (r *Renderer) SubstituteMarkerArrayCached(template string, markers map[string]string) string {
	return SubstituteMarkerArray(template, markers)
}

// SubstituteSubpart replaces every subpart enclosed by marker with content.
func (r *Renderer) SubstituteSubpart(template, marker, content string) string {
	return SubstituteSubpart(template, marker, content)
}
