// Package catalog holds the fixed template catalogs, one per scaffolding style.
//
// Overview:
//   - Responsibility: Decode the embedded manifest into ordered, validated catalogs
//   - Key Types: Style, Catalog, Entry, Registry
//   - Concurrency Model: Catalogs are immutable after loading, safe for concurrent reads
//   - Error Semantics: A malformed manifest is an INTERNAL error; an unknown style is INVALID_INPUT
//   - Performance Notes: The embedded registry is decoded once per process
//
// Usage:
//
//	cat, err := catalog.Lookup(catalog.StyleModular)
//	for _, entry := range cat.Entries { ... }
package catalog

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"go.eggybyte.com/egg/crudgen/internal/core/errors"
	"go.eggybyte.com/egg/crudgen/internal/templates"
)

// Style selects one of the supported backend layouts.
type Style string

const (
	// StyleMinimal is the minimalist web-framework layout (Express).
	StyleMinimal Style = "minimal"
	// StyleModular is the modular-framework layout (NestJS).
	StyleModular Style = "modular"
)

// StyleFromFlag maps the boolean style flag to a Style.
func StyleFromFlag(modular bool) Style {
	if modular {
		return StyleModular
	}
	return StyleMinimal
}

// String implements fmt.Stringer.
func (s Style) String() string {
	return string(s)
}

// Entry is one template in a catalog.
// Path and Dirs may contain placeholders; Body is loaded from Template.
type Entry struct {
	Name     string   `yaml:"name"`
	Path     string   `yaml:"path"`
	Template string   `yaml:"template"`
	Dirs     []string `yaml:"dirs"`
	Body     string   `yaml:"-"`
}

// Catalog is the ordered set of entries for one style.
type Catalog struct {
	Style      Style    `yaml:"style"`
	Framework  string   `yaml:"framework"`
	SharedDirs []string `yaml:"shared_dirs"`
	Entries    []Entry  `yaml:"entries"`
}

type manifest struct {
	Catalogs []Catalog `yaml:"catalogs"`
}

// Validate checks the structural invariants of the catalog: every entry has a
// body, paths are clean and relative, paths are unique, and each path's
// parent directory is declared by the entry or by the catalog.
func (c *Catalog) Validate() error {
	if c.Style == "" {
		return fmt.Errorf("catalog without style")
	}
	if c.Framework == "" {
		return fmt.Errorf("catalog %s: missing framework", c.Style)
	}
	if len(c.Entries) == 0 {
		return fmt.Errorf("catalog %s: no entries", c.Style)
	}

	for _, dir := range c.SharedDirs {
		if err := checkRelative(dir); err != nil {
			return fmt.Errorf("catalog %s: shared dir: %w", c.Style, err)
		}
	}

	seen := make(map[string]bool, len(c.Entries))
	for _, entry := range c.Entries {
		if err := checkRelative(entry.Path); err != nil {
			return fmt.Errorf("catalog %s: entry %q: %w", c.Style, entry.Name, err)
		}
		if seen[entry.Path] {
			return fmt.Errorf("catalog %s: duplicate path %s", c.Style, entry.Path)
		}
		seen[entry.Path] = true

		if entry.Body == "" {
			return fmt.Errorf("catalog %s: entry %q has an empty body", c.Style, entry.Name)
		}

		for _, dir := range entry.Dirs {
			if err := checkRelative(dir); err != nil {
				return fmt.Errorf("catalog %s: entry %q dir: %w", c.Style, entry.Name, err)
			}
		}

		parent := path.Dir(entry.Path)
		if !contains(entry.Dirs, parent) && !contains(c.SharedDirs, parent) {
			return fmt.Errorf("catalog %s: parent %s of %s is not declared", c.Style, parent, entry.Path)
		}
	}

	return nil
}

func checkRelative(p string) error {
	switch {
	case p == "" || p == ".":
		return fmt.Errorf("empty path")
	case path.IsAbs(p):
		return fmt.Errorf("absolute path %s", p)
	case path.Clean(p) != p:
		return fmt.Errorf("unclean path %s", p)
	case p == ".." || strings.HasPrefix(p, "../"):
		return fmt.Errorf("path %s escapes the root", p)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Registry maps styles to their catalogs.
type Registry struct {
	catalogs map[Style]*Catalog
	order    []Style
}

// Load decodes the manifest served by loader, attaches template bodies and
// validates every catalog. A template file no entry refers to is an error.
func Load(loader *templates.Loader) (*Registry, error) {
	raw, err := loader.Manifest()
	if err != nil {
		return nil, err
	}

	var m manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "decode manifest", err)
	}

	reg := &Registry{catalogs: make(map[Style]*Catalog, len(m.Catalogs))}
	used := make(map[string]bool)
	for i := range m.Catalogs {
		cat := &m.Catalogs[i]
		if _, dup := reg.catalogs[cat.Style]; dup {
			return nil, errors.New(errors.CodeInternal, fmt.Sprintf("duplicate catalog for style %s", cat.Style))
		}

		for j := range cat.Entries {
			body, err := loader.LoadTemplate(cat.Entries[j].Template)
			if err != nil {
				return nil, err
			}
			cat.Entries[j].Body = body
			used[path.Clean(cat.Entries[j].Template)] = true
		}

		if err := cat.Validate(); err != nil {
			return nil, errors.Wrap(errors.CodeInternal, "validate catalog", err)
		}

		reg.catalogs[cat.Style] = cat
		reg.order = append(reg.order, cat.Style)
	}

	files, err := loader.ListTemplates()
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if !used[file] {
			return nil, errors.New(errors.CodeInternal, fmt.Sprintf("template %s is not referenced by any catalog", file))
		}
	}

	return reg, nil
}

// Lookup returns the catalog for style. Callers must not modify it.
func (r *Registry) Lookup(style Style) (*Catalog, error) {
	cat, ok := r.catalogs[style]
	if !ok {
		names := make([]string, 0, len(r.order))
		for _, s := range r.Styles() {
			names = append(names, s.String())
		}
		msg := fmt.Sprintf("unknown style %q (available: %s)", style, strings.Join(names, ", "))
		return nil, errors.New(errors.CodeInvalidInput, msg)
	}
	return cat, nil
}

// Styles lists the registered styles in manifest order.
func (r *Registry) Styles() []Style {
	return append([]Style(nil), r.order...)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry decoded from the embedded templates.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Load(templates.NewLoader())
	})
	return defaultRegistry, defaultErr
}

// Lookup returns the embedded catalog for style.
func Lookup(style Style) (*Catalog, error) {
	reg, err := Default()
	if err != nil {
		return nil, err
	}
	return reg.Lookup(style)
}
