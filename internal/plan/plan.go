// Package plan turns a normalized name and a style into the directories and
// files to materialize. It performs no I/O.
package plan

import (
	"path"

	"go.eggybyte.com/egg/crudgen/internal/catalog"
	"go.eggybyte.com/egg/crudgen/internal/naming"
	"go.eggybyte.com/egg/crudgen/internal/templates"
)

// File is a rendered template ready to be written.
type File struct {
	Path    string // slash-separated, relative to the target root
	Content string
}

// Plan is the full output of one generator run, in write order.
type Plan struct {
	Style     catalog.Style
	Framework string
	Name      naming.Name
	Dirs      []string // created before any file, parents first
	Files     []File
}

// Values is the closed set of placeholders available to templates.
type Values struct {
	Lower  string
	Pascal string
	Plural string
}

// ValuesOf builds the substitution values for name.
func ValuesOf(name naming.Name) Values {
	return Values{
		Lower:  name.Lower,
		Pascal: name.Pascal,
		Plural: name.Plural(),
	}
}

// Substitute renders one path or body against name.
func Substitute(label, text string, name naming.Name) (string, error) {
	return templates.Render(label, text, ValuesOf(name))
}

// Build selects the embedded catalog for style and renders it for name.
func Build(name naming.Name, style catalog.Style) (*Plan, error) {
	cat, err := catalog.Lookup(style)
	if err != nil {
		return nil, err
	}
	return Render(cat, name)
}

// Render renders every entry of cat in order. The directory set is the
// catalog's shared dirs, then each entry's declared dirs, then each file's
// parent, de-duplicated in first-seen order.
func Render(cat *catalog.Catalog, name naming.Name) (*Plan, error) {
	p := &Plan{
		Style:     cat.Style,
		Framework: cat.Framework,
		Name:      name,
		Files:     make([]File, 0, len(cat.Entries)),
	}

	dirs := newDirSet()
	for _, dir := range cat.SharedDirs {
		rendered, err := Substitute(cat.Style.String()+" shared dir", dir, name)
		if err != nil {
			return nil, err
		}
		dirs.add(rendered)
	}

	for _, entry := range cat.Entries {
		for _, dir := range entry.Dirs {
			rendered, err := Substitute(entry.Name+" dir", dir, name)
			if err != nil {
				return nil, err
			}
			dirs.add(rendered)
		}

		filePath, err := Substitute(entry.Name+" path", entry.Path, name)
		if err != nil {
			return nil, err
		}
		content, err := Substitute(entry.Template, entry.Body, name)
		if err != nil {
			return nil, err
		}

		dirs.add(path.Dir(filePath))
		p.Files = append(p.Files, File{Path: filePath, Content: content})
	}

	p.Dirs = dirs.list
	return p, nil
}

// Paths returns the file paths of the plan in write order.
func (p *Plan) Paths() []string {
	paths := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// dirSet keeps insertion order and adds missing ancestors before a directory.
type dirSet struct {
	seen map[string]bool
	list []string
}

func newDirSet() *dirSet {
	return &dirSet{seen: make(map[string]bool)}
}

func (s *dirSet) add(dir string) {
	if dir == "." || dir == "/" || dir == "" || s.seen[dir] {
		return
	}
	s.add(path.Dir(dir))
	s.seen[dir] = true
	s.list = append(s.list, dir)
}
