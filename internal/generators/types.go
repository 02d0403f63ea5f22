package generators

import (
	"go.eggybyte.com/egg/crudgen/internal/catalog"
	"go.eggybyte.com/egg/crudgen/internal/naming"
)

// Input is everything one generator run depends on.
//
// Usage:
//
//	in := Input{Name: "User", Style: catalog.StyleMinimal}
//
// Concurrency:
//
//	Immutable value, safe to share.
type Input struct {
	Name   string        `validate:"required"` // raw model name, e.g. "User"
	Style  catalog.Style `validate:"required"` // minimal or modular
	DryRun bool          // plan only, no filesystem changes
}

// FileResult describes one planned or written file.
type FileResult struct {
	Path        string `json:"path"`
	Overwritten bool   `json:"overwritten"` // a file already existed at Path
}

// Result summarizes a generator run.
type Result struct {
	Style     catalog.Style `json:"style"`
	Framework string        `json:"framework"`
	Name      naming.Name   `json:"name"`
	Dirs      []string      `json:"dirs"`
	Files     []FileResult  `json:"files"`
	DryRun    bool          `json:"dry_run"`
}

// Overwritten lists the paths whose previous content was replaced.
func (r *Result) Overwritten() []string {
	var paths []string
	for _, f := range r.Files {
		if f.Overwritten {
			paths = append(paths, f.Path)
		}
	}
	return paths
}
