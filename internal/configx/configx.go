// Package configx provides environment-driven configuration for the generator.
//
// Overview:
//   - Responsibility: Bind env variables into structs with defaults, then validate them
//   - Key Types: Config, LookupFunc
//   - Concurrency Model: Stateless functions; the validator is safe for concurrent use
//   - Error Semantics: Binding and validation failures are INVALID_INPUT errors
//   - Performance Notes: Reflection over a handful of fields, once per run
//
// Usage:
//
//	cfg, err := configx.Load(os.Getenv)
//	if err != nil { return err }
package configx

import (
	"io/fs"

	"github.com/go-playground/validator/v10"

	"go.eggybyte.com/egg/crudgen/internal/core/errors"
)

// LookupFunc resolves an environment key. An empty result means unset.
type LookupFunc func(key string) string

// Config holds generator settings read from the environment.
// Command-line flags take precedence over these values.
type Config struct {
	Dir      string `env:"CRUDGEN_DIR" default:"." validate:"required"`
	LogLevel string `env:"CRUDGEN_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogColor bool   `env:"CRUDGEN_LOG_COLOR" default:"false"`

	// Prefix log lines with an RFC3339 timestamp.
	LogTimestamp bool `env:"CRUDGEN_LOG_TIMESTAMP" default:"false"`

	// Permission bits, octal notation accepted ("0644").
	FileMode uint32 `env:"CRUDGEN_FILE_MODE" default:"0644" validate:"min=256,max=511"`
	DirMode  uint32 `env:"CRUDGEN_DIR_MODE" default:"0755" validate:"min=256,max=511"`
}

// FilePerm returns FileMode as an fs.FileMode.
func (c *Config) FilePerm() fs.FileMode {
	return fs.FileMode(c.FileMode)
}

// DirPerm returns DirMode as an fs.FileMode.
func (c *Config) DirPerm() fs.FileMode {
	return fs.FileMode(c.DirMode)
}

// Load binds and validates a Config from the given lookup.
// A nil lookup yields the defaults.
func Load(lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = func(string) string { return "" }
	}

	cfg := &Config{}
	if err := Bind(lookup, cfg); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, "load config", err)
	}
	if err := ValidateStruct(NewValidator(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidatorOption configures the validator.
type ValidatorOption func(*validator.Validate)

// NewValidator creates a new validator instance.
func NewValidator(opts ...ValidatorOption) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateStruct validates a struct using validator tags.
func ValidateStruct(v *validator.Validate, target any) error {
	if v == nil {
		v = NewValidator()
	}

	if err := v.Struct(target); err != nil {
		return errors.Wrap(errors.CodeInvalidInput, "validate", err)
	}

	return nil
}
