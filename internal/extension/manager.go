// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package extension maps legacy extension key lookups onto a package
// registry: load state, paths, namespaces and versions.
package extension

import (
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"

	cerrors "t3compat/internal/errors"
)

// NamespaceMode selects how NamespaceFor derives a namespace from a key.
// There is no default; the integrator has to pick one.
type NamespaceMode int

const (
	namespaceUnset NamespaceMode = iota
	// NamespaceFromRegistry returns the namespace stored in the registry.
	NamespaceFromRegistry
	// NamespaceFromKey derives the namespace from the key alone, e.g.
	// "Acme.news_list" becomes `Acme\NewsList`.
	NamespaceFromKey
)

func (m NamespaceMode) String() string {
	switch m {
	case NamespaceFromRegistry:
		return "registry"
	case NamespaceFromKey:
		return "key"
	}
	return "unset"
}

// ParseNamespaceMode parses "registry" or "key".
func ParseNamespaceMode(s string) (NamespaceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "registry":
		return NamespaceFromRegistry, nil
	case "key":
		return NamespaceFromKey, nil
	}
	return namespaceUnset, cerrors.New(cerrors.ConfigInvalid, `namespace mode must be "registry" or "key"`)
}

// Manager answers the legacy extension management lookups.
type Manager struct {
	reg  Registry
	mode NamespaceMode
}

// NewManager creates a Manager over reg.
func NewManager(reg Registry, mode NamespaceMode) (*Manager, error) {
	if reg == nil {
		return nil, cerrors.New(cerrors.InvalidArgument, "extension manager needs a registry")
	}
	if mode != NamespaceFromRegistry && mode != NamespaceFromKey {
		return nil, cerrors.New(cerrors.InvalidArgument, "extension manager needs an explicit namespace mode")
	}
	return &Manager{reg: reg, mode: mode}, nil
}

// IsLoaded reports whether key is active. With exitOnError an inactive
// package is an error.
func (m *Manager) IsLoaded(key string, exitOnError bool) (bool, error) {
	ok := m.reg.IsPackageActive(key)
	if !ok && exitOnError {
		return false, cerrors.New(cerrors.PackageNotLoaded, "package "+key+" was not loaded")
	}
	return ok, nil
}

// ExtPath returns the package path of key joined with script. It reports
// false when there is no such package.
func (m *Manager) ExtPath(key, script string) (string, bool) {
	p, ok := m.reg.Package(key)
	if !ok || p == nil {
		return "", false
	}
	return p.Path + script, true
}

// ExtRelPath is ExtPath without a script.
func (m *Manager) ExtRelPath(key string) (string, bool) {
	return m.ExtPath(key, "")
}

// SiteRelPath returns the public resource path of key. The path is derived
// by convention and not checked.
func (m *Manager) SiteRelPath(key string) string {
	return "_Resources/Static/" + key
}

// NamespaceFor returns the namespace of key according to the manager's
// NamespaceMode. In registry mode it reports false for unknown packages.
func (m *Manager) NamespaceFor(key string) (string, bool) {
	if m.mode == NamespaceFromKey {
		return namespaceFromKey(key), key != ""
	}
	p, ok := m.reg.Package(key)
	if !ok || p == nil {
		return "", false
	}
	return p.Namespace, true
}

// ExtensionKeyByPrefix turns a namespace prefix into a package key.
func (m *Manager) ExtensionKeyByPrefix(prefix string) string {
	return strings.ReplaceAll(prefix, `\`, ".")
}

// LoadedExtensionList returns the keys of all active packages.
func (m *Manager) LoadedExtensionList() []string {
	return keys(m.reg.ActivePackages())
}

// RequiredExtensionList returns the keys of the active framework packages.
func (m *Manager) RequiredExtensionList() []string {
	return keys(m.reg.FilteredPackages(StateActive, TypeFramework))
}

// ExtensionVersion returns the version of key.
func (m *Manager) ExtensionVersion(key string) (*semver.Version, error) {
	p, ok := m.reg.Package(key)
	if !ok || p == nil {
		return nil, cerrors.New(cerrors.NotFound, "package "+key+" is not installed")
	}
	v, err := semver.NewVersion(p.Version)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.InvalidArgument, "package "+key+" has an invalid version", err)
	}
	return v, nil
}

// SatisfiesVersion reports whether the version of key matches constraint,
// e.g. ">= 2.0, < 3".
func (m *Manager) SatisfiesVersion(key, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, cerrors.Wrap(cerrors.InvalidArgument, "invalid version constraint", err)
	}
	v, err := m.ExtensionVersion(key)
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}

func keys(pkgs []*Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Key)
	}
	return out
}

// namespaceFromKey joins the dot separated segments of key with a backslash
// and writes each segment in UpperCamelCase.
func namespaceFromKey(key string) string {
	segments := strings.Split(key, ".")
	for i, s := range segments {
		segments[i] = upperCamel(s)
	}
	return strings.Join(segments, `\`)
}

func upperCamel(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
