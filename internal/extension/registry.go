// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package extension

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	cerrors "t3compat/internal/errors"
)

// Package states and types used by FilteredPackages.
const (
	StateActive    = "active"
	StateAvailable = "available"

	TypeFramework = "Framework"
)

// Package is one installed package.
type Package struct {
	Key       string `yaml:"key" json:"key"`
	Path      string `yaml:"path" json:"path"`
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Type      string `yaml:"type,omitempty" json:"type,omitempty"`
	Version   string `yaml:"version,omitempty" json:"version,omitempty"`
	Active    bool   `yaml:"active" json:"active"`
}

// Registry is the package manager the lookups run against.
type Registry interface {
	IsPackageActive(key string) bool
	// Package returns the package registered under key, active or not.
	Package(key string) (*Package, bool)
	ActivePackages() []*Package
	// FilteredPackages returns the packages in state ("active" or
	// "available") whose type equals typ. An empty typ matches every type.
	FilteredPackages(state, typ string) []*Package
}

// FileRegistry is a Registry over a fixed package list, usually read from a
// YAML file:
//
//	packages:
//	  - key: Acme.News
//	    path: /srv/app/Packages/Application/Acme.News/
//	    namespace: Acme\News
//	    type: Application
//	    version: 2.1.0
//	    active: true
type FileRegistry struct {
	packages []*Package
	byKey    map[string]*Package
}

type registryFile struct {
	Packages []Package `yaml:"packages"`
}

// NewFileRegistry creates a registry from pkgs. Later duplicates of a key
// replace earlier ones.
func NewFileRegistry(pkgs []Package) *FileRegistry {
	r := &FileRegistry{byKey: make(map[string]*Package, len(pkgs))}
	for i := range pkgs {
		p := pkgs[i]
		if existing, ok := r.byKey[p.Key]; ok {
			*existing = p
			continue
		}
		r.packages = append(r.packages, &p)
		r.byKey[p.Key] = &p
	}
	return r
}

// LoadFileRegistry reads a YAML package list from path on fs.
func LoadFileRegistry(fs afero.Fs, path string) (*FileRegistry, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ConfigInvalid, "read package registry", err)
	}
	return parseRegistry(b, path)
}

func parseRegistry(b []byte, source string) (*FileRegistry, error) {
	var f registryFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, cerrors.Wrap(cerrors.ConfigInvalid, "parse package registry "+source, err)
	}
	for i, p := range f.Packages {
		if strings.TrimSpace(p.Key) == "" {
			return nil, cerrors.New(cerrors.ConfigInvalid, fmt.Sprintf("package registry %s: entry %d has no key", source, i))
		}
	}
	return NewFileRegistry(f.Packages), nil
}

func (r *FileRegistry) IsPackageActive(key string) bool {
	p, ok := r.byKey[key]
	return ok && p.Active
}

func (r *FileRegistry) Package(key string) (*Package, bool) {
	p, ok := r.byKey[key]
	return p, ok
}

func (r *FileRegistry) ActivePackages() []*Package {
	return r.FilteredPackages(StateActive, "")
}

func (r *FileRegistry) FilteredPackages(state, typ string) []*Package {
	var out []*Package
	for _, p := range r.packages {
		if state == StateActive && !p.Active {
			continue
		}
		if typ != "" && p.Type != typ {
			continue
		}
		out = append(out, p)
	}
	return out
}
