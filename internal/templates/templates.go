// Package templates provides template loading and rendering functionality.
//
// Overview:
//   - Responsibility: Serve the embedded catalog manifest and template bodies, render placeholders
//   - Key Types: Loader over an fs.FS, Render as the single substitution function
//   - Concurrency Model: Read-only embedded data, safe for concurrent use
//   - Error Semantics: Missing or malformed templates are INTERNAL errors
//   - Performance Notes: Templates are parsed on every render; catalogs are tiny
//
// Usage:
//
//	loader := templates.NewLoader()
//	body, err := loader.LoadTemplate("minimal/app.js.tmpl")
//	rendered, err := templates.Render("app.js", body, values)
package templates

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"go.eggybyte.com/egg/crudgen/internal/core/errors"
)

//go:embed templates
var templateFS embed.FS

// ManifestFile is the catalog manifest path inside the template root.
const ManifestFile = "catalog.yaml"

// Loader provides template loading from a file system.
//
// Parameters:
//   - fsys: File system holding the manifest and template files
//
// Concurrency:
//   - Safe for concurrent use
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a loader over the embedded templates.
func NewLoader() *Loader {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return &Loader{fsys: sub}
}

// NewLoaderFS creates a loader over an arbitrary file system, rooted at the
// directory that holds ManifestFile.
func NewLoaderFS(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadTemplate loads a template file.
//
// Parameters:
//   - templatePath: Slash-separated path relative to the template root
//
// Returns:
//   - string: Template content
//   - error: INTERNAL error if the file is missing
func (l *Loader) LoadTemplate(templatePath string) (string, error) {
	content, err := fs.ReadFile(l.fsys, path.Clean(templatePath))
	if err != nil {
		return "", errors.Wrapf(errors.CodeInternal, "load template", err, "failed to load template %s", templatePath)
	}
	return string(content), nil
}

// Manifest returns the raw catalog manifest.
func (l *Loader) Manifest() ([]byte, error) {
	content, err := fs.ReadFile(l.fsys, ManifestFile)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "load manifest", err)
	}
	return content, nil
}

// ListTemplates lists all template files, sorted.
func (l *Loader) ListTemplates() ([]string, error) {
	var list []string

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".tmpl") {
			list = append(list, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "list templates", err)
	}

	sort.Strings(list)
	return list, nil
}

// Render substitutes placeholders in text from data.
//
// Only fields present on data may be referenced; any other placeholder is an
// INTERNAL error rather than a silently empty value.
//
// Parameters:
//   - name: Template name used in error messages
//   - text: Template content
//   - data: Substitution values
//
// Returns:
//   - string: Rendered content
//   - error: Parse or execution error if any
func Render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", errors.Wrapf(errors.CodeInternal, "render", err, "failed to parse template %s", name)
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", errors.Wrapf(errors.CodeInternal, "render", err, "failed to render template %s", name)
	}

	return result.String(), nil
}
