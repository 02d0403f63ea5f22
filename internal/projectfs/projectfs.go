// Package projectfs provides project file system operations for scaffolding.
//
// Overview:
//   - Responsibility: Create directories and write rendered files under a root directory
//   - Key Types: ProjectFS
//   - Concurrency Model: Sequential file operations, no locking across processes
//   - Error Semantics: Every failure is an IO error wrapping the os error
//   - Performance Notes: Idempotent directory creation, whole-file overwrites
//
// Usage:
//
//	pfs := projectfs.NewProjectFS(".", projectfs.WithLogger(logger))
//	err := pfs.EnsureDirectory("src/config")
//	err = pfs.WriteFile("src/config/db.js", content)
package projectfs

import (
	"io/fs"
	"os"
	"path/filepath"

	"go.eggybyte.com/egg/crudgen/internal/core/errors"
	"go.eggybyte.com/egg/crudgen/internal/core/log"
)

// Default permissions for created entries.
const (
	DefaultDirMode  fs.FileMode = 0o755
	DefaultFileMode fs.FileMode = 0o644
)

// ProjectFS provides file system operations rooted at a directory.
//
// Parameters:
//   - rootDir: Root directory for operations
//   - dirMode: Permissions for new directories
//   - fileMode: Permissions for new files
//   - logger: Structured logger for file operations
//
// Concurrency:
//   - Safe for concurrent use; concurrent runs on one root are not coordinated
type ProjectFS struct {
	rootDir  string
	dirMode  fs.FileMode
	fileMode fs.FileMode
	logger   log.Logger
}

// Option configures a ProjectFS.
type Option func(*ProjectFS)

// WithLogger sets the logger for file operations.
func WithLogger(logger log.Logger) Option {
	return func(p *ProjectFS) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithModes sets the permissions for new directories and files.
func WithModes(dirMode, fileMode fs.FileMode) Option {
	return func(p *ProjectFS) {
		p.dirMode = dirMode
		p.fileMode = fileMode
	}
}

// NewProjectFS creates a new project file system.
//
// Parameters:
//   - rootDir: Root directory for operations
//   - opts: Optional logger and permission settings
//
// Returns:
//   - *ProjectFS: Project file system instance
func NewProjectFS(rootDir string, opts ...Option) *ProjectFS {
	p := &ProjectFS{
		rootDir:  rootDir,
		dirMode:  DefaultDirMode,
		fileMode: DefaultFileMode,
		logger:   log.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RootDir returns the root directory.
func (p *ProjectFS) RootDir() string {
	return p.rootDir
}

// AbsolutePath returns the on-disk path for a slash-separated relative path.
func (p *ProjectFS) AbsolutePath(path string) string {
	return filepath.Join(p.rootDir, filepath.FromSlash(path))
}

// EnsureDirectory creates a directory and any missing parents.
// An existing directory is not an error.
//
// Parameters:
//   - path: Directory path relative to root
//
// Returns:
//   - error: IO error if the directory cannot be created
func (p *ProjectFS) EnsureDirectory(path string) error {
	fullPath := p.AbsolutePath(path)

	if info, err := os.Stat(fullPath); err == nil && info.IsDir() {
		p.logger.Debug("directory already exists", log.Str("dir", path))
		return nil
	}

	if err := os.MkdirAll(fullPath, p.dirMode); err != nil {
		return errors.Wrapf(errors.CodeIO, "mkdir", err, "failed to create directory %s", path)
	}

	p.logger.Debug("directory created", log.Str("dir", path))
	return nil
}

// WriteFile replaces the content of a file, creating it if needed.
// The parent directory must already exist.
//
// Parameters:
//   - path: File path relative to root
//   - content: File content
//
// Returns:
//   - error: IO error if the file cannot be written
func (p *ProjectFS) WriteFile(path, content string) error {
	fullPath := p.AbsolutePath(path)

	if err := os.WriteFile(fullPath, []byte(content), p.fileMode); err != nil {
		return errors.Wrapf(errors.CodeIO, "write", err, "failed to write file %s", path)
	}

	p.logger.Debug("file written", log.Str("path", path), log.Int("bytes", len(content)))
	return nil
}

// FileExists checks if a regular file exists.
//
// Parameters:
//   - path: File path relative to root
//
// Returns:
//   - bool: True if file exists
//   - error: IO error other than not-exist
func (p *ProjectFS) FileExists(path string) (bool, error) {
	info, err := os.Stat(p.AbsolutePath(path))
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(errors.CodeIO, "stat", err, "failed to stat %s", path)
}
