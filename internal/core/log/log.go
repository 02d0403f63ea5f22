// Package log provides a minimal logging interface compatible with slog concepts.
//
// Overview:
//   - Responsibility: Define a stable logging interface for the generator packages
//   - Key Types: Logger interface with structured key-value logging
//   - Concurrency Model: Logger implementations must be safe for concurrent use
//   - Error Semantics: Error method accepts error as first parameter for structured logging
//   - Performance Notes: Interface designed for zero-allocation key-value pairs
//
// Usage:
//
//	logger.Debug("file written", log.Str("path", "src/app.js"), log.Int("bytes", 212))
package log

// Logger defines a structured logging interface compatible with slog concepts.
// Implementations must be safe for concurrent use.
type Logger interface {
	// With returns a new Logger with the given key-value pairs attached.
	With(kv ...any) Logger

	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, kv ...any)

	// Info logs an informational message with optional key-value pairs.
	Info(msg string, kv ...any)

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, kv ...any)

	// Error logs an error message with the error and optional key-value pairs.
	// The error should be the first parameter for structured error handling.
	Error(err error, msg string, kv ...any)
}

// Str creates a string key-value pair for structured logging.
func Str(k, v string) any {
	return []any{k, v}
}

// Int creates an integer key-value pair for structured logging.
func Int(k string, v int) any {
	return []any{k, v}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nop{}
}

type nop struct{}

func (n nop) With(...any) Logger { return n }

func (nop) Debug(string, ...any) {}

func (nop) Info(string, ...any) {}

func (nop) Warn(string, ...any) {}

func (nop) Error(error, string, ...any) {}
