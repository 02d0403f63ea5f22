// Package generators provides CRUD scaffolding generation.
//
// Overview:
//   - Responsibility: Run normalize, plan and materialize for one model name
//   - Key Types: Generator, Input, Result, FileSystem
//   - Concurrency Model: Sequential generation; directories strictly before files
//   - Error Semantics: INVALID_INPUT before any I/O, IO on the first failed operation, no rollback
//   - Performance Notes: Template-based generation, one write per file
//
// Usage:
//
//	gen := generators.NewGenerator(projectfs.NewProjectFS("."), generators.WithLogger(logger))
//	result, err := gen.Generate(ctx, generators.Input{Name: "User", Style: catalog.StyleMinimal})
package generators

import (
	"context"

	"github.com/go-playground/validator/v10"

	"go.eggybyte.com/egg/crudgen/internal/configx"
	"go.eggybyte.com/egg/crudgen/internal/core/errors"
	"go.eggybyte.com/egg/crudgen/internal/core/log"
	"go.eggybyte.com/egg/crudgen/internal/naming"
	"go.eggybyte.com/egg/crudgen/internal/plan"
)

// FileSystem is the file system surface needed to materialize a plan.
// *projectfs.ProjectFS implements it.
type FileSystem interface {
	EnsureDirectory(path string) error
	WriteFile(path, content string) error
	FileExists(path string) (bool, error)
}

// Generator scaffolds CRUD files for a model.
//
// Parameters:
//   - fs: Target file system
//   - logger: Structured logger
//   - validate: Input validator
//
// Concurrency:
//   - Safe for concurrent use; runs against the same root are not coordinated
type Generator struct {
	fs       FileSystem
	logger   log.Logger
	validate *validator.Validate
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the generator logger.
func WithLogger(logger log.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a generator writing through fs.
func NewGenerator(fs FileSystem, opts ...Option) *Generator {
	g := &Generator{
		fs:       fs,
		logger:   log.Nop(),
		validate: configx.NewValidator(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate normalizes the name, builds the plan for the style and, unless
// DryRun is set, materializes it.
//
// Parameters:
//   - ctx: Context checked between file system operations
//   - in: Model name, style and dry-run flag
//
// Returns:
//   - *Result: Directories and files of the run (partial on IO failure)
//   - error: INVALID_INPUT, IO or INTERNAL error
func (g *Generator) Generate(ctx context.Context, in Input) (*Result, error) {
	if err := g.validateInput(in); err != nil {
		return nil, err
	}

	name, err := naming.Normalize(in.Name)
	if err != nil {
		return nil, err
	}

	p, err := plan.Build(name, in.Style)
	if err != nil {
		return nil, err
	}

	logger := g.logger.With("style", p.Style.String(), "model", name.Pascal)
	logger.Debug("plan built", log.Int("dirs", len(p.Dirs)), log.Int("files", len(p.Files)))

	result := &Result{
		Style:     p.Style,
		Framework: p.Framework,
		Name:      name,
		Dirs:      p.Dirs,
		DryRun:    in.DryRun,
	}

	if in.DryRun {
		for _, path := range p.Paths() {
			exists, err := g.fs.FileExists(path)
			if err != nil {
				return result, err
			}
			result.Files = append(result.Files, FileResult{Path: path, Overwritten: exists})
		}
		logger.Debug("dry run, nothing written", log.Int("files", len(p.Files)))
		return result, nil
	}

	err = g.materialize(ctx, p, func(f FileResult) {
		result.Files = append(result.Files, f)
	})
	if err != nil {
		logger.Error(err, "generation aborted", log.Int("written", len(result.Files)))
		return result, err
	}

	logger.Debug("generation complete", log.Int("files", len(result.Files)))
	return result, nil
}

// Materialize creates every directory of p, then writes every file in order.
// Existing files are replaced. The first failure stops the run and files
// already written stay on disk.
func (g *Generator) Materialize(ctx context.Context, p *plan.Plan) error {
	return g.materialize(ctx, p, func(FileResult) {})
}

func (g *Generator) materialize(ctx context.Context, p *plan.Plan, written func(FileResult)) error {
	for _, dir := range p.Dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.fs.EnsureDirectory(dir); err != nil {
			return err
		}
	}

	for _, f := range p.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		exists, err := g.fs.FileExists(f.Path)
		if err != nil {
			return err
		}
		if err := g.fs.WriteFile(f.Path, f.Content); err != nil {
			return err
		}
		written(FileResult{Path: f.Path, Overwritten: exists})
	}

	return nil
}

func (g *Generator) validateInput(in Input) error {
	err := g.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Field() {
		case "Name":
			return errors.Wrapf(errors.CodeInvalidInput, "generate", err, "missing required name")
		case "Style":
			return errors.Wrapf(errors.CodeInvalidInput, "generate", err, "missing style")
		}
	}
	return errors.Wrap(errors.CodeInvalidInput, "generate", err)
}
