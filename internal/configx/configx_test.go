package configx

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/egg/crudgen/internal/core/errors"
)

func envMap(values map[string]string) LookupFunc {
	return func(key string) string { return values[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Dir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogColor)
	assert.False(t, cfg.LogTimestamp)
	assert.Equal(t, fs.FileMode(0o644), cfg.FilePerm())
	assert.Equal(t, fs.FileMode(0o755), cfg.DirPerm())
}

func TestLoad_FromEnv(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{
		"CRUDGEN_DIR":       "/tmp/app",
		"CRUDGEN_LOG_LEVEL": "debug",
		"CRUDGEN_LOG_COLOR": "true",
		"CRUDGEN_FILE_MODE": "0600",
		"CRUDGEN_DIR_MODE":  "0700",

		"CRUDGEN_LOG_TIMESTAMP": "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/app", cfg.Dir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogColor)
	assert.True(t, cfg.LogTimestamp)
	assert.Equal(t, fs.FileMode(0o600), cfg.FilePerm())
	assert.Equal(t, fs.FileMode(0o700), cfg.DirPerm())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown level", map[string]string{"CRUDGEN_LOG_LEVEL": "trace"}},
		{"unparsable bool", map[string]string{"CRUDGEN_LOG_COLOR": "sometimes"}},
		{"mode too wide", map[string]string{"CRUDGEN_FILE_MODE": "01777"}},
		{"mode not readable", map[string]string{"CRUDGEN_DIR_MODE": "0000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(envMap(tt.env))
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))
		})
	}
}

func TestLoad_ErrorCodeAppearsOnce(t *testing.T) {
	_, err := Load(envMap(map[string]string{"CRUDGEN_LOG_LEVEL": "trace"}))
	require.Error(t, err)

	assert.Equal(t, 1, strings.Count(err.Error(), string(errors.CodeInvalidInput)), err.Error())
	assert.True(t, strings.HasPrefix(err.Error(), "INVALID_INPUT: validate: "), err.Error())

	_, err = Load(envMap(map[string]string{"CRUDGEN_LOG_COLOR": "sometimes"}))
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), string(errors.CodeInvalidInput)), err.Error())
}

func TestBind(t *testing.T) {
	type nested struct {
		Timeout time.Duration `env:"TIMEOUT" default:"2s"`
	}
	type target struct {
		Name    string `env:"NAME" default:"fallback"`
		Retries int    `env:"RETRIES"`
		Skipped string
		Nested  nested
	}

	var got target
	err := Bind(envMap(map[string]string{"RETRIES": "3"}), &got)
	require.NoError(t, err)

	assert.Equal(t, "fallback", got.Name)
	assert.Equal(t, 3, got.Retries)
	assert.Empty(t, got.Skipped)
	assert.Equal(t, 2*time.Second, got.Nested.Timeout)
}

func TestBind_RejectsNonPointer(t *testing.T) {
	err := Bind(envMap(nil), Config{})
	assert.Error(t, err)
}
