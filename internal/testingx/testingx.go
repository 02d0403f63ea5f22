// Package testingx provides testing helpers and fakes for crudgen packages.
//
// Overview:
//   - Responsibility: Capturing logger, in-memory recording file system, error code assertions
//   - Key Types: MockLogger, RecordingFS
//   - Concurrency Model: Thread-safe where needed
//   - Error Semantics: Test failures via testing.T
//   - Performance Notes: Optimized for test execution
//
// Usage:
//
//	logger := testingx.NewMockLogger(t)
//	fsys := testingx.NewRecordingFS()
//	gen := generators.NewGenerator(fsys, generators.WithLogger(logger))
package testingx

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"testing"

	"go.eggybyte.com/egg/crudgen/internal/core/errors"
	"go.eggybyte.com/egg/crudgen/internal/core/log"
)

// LogEntry represents a single log entry.
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
	Error   error
}

// Field returns the value logged under key, or nil.
func (e LogEntry) Field(key string) any {
	for i := 0; i+1 < len(e.Fields); i += 2 {
		if k, ok := e.Fields[i].(string); ok && k == key {
			return e.Fields[i+1]
		}
	}
	return nil
}

type logSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// MockLogger is a log.Logger that keeps every entry in memory.
// Loggers derived with With share the parent's entries.
type MockLogger struct {
	t      *testing.T
	sink   *logSink
	fields []any
}

// NewMockLogger creates a new mock logger.
func NewMockLogger(t *testing.T) *MockLogger {
	return &MockLogger{t: t, sink: &logSink{}}
}

// With returns a logger that prepends kv to every entry.
func (m *MockLogger) With(kv ...any) log.Logger {
	fields := flatten(nil, m.fields)
	return &MockLogger{t: m.t, sink: m.sink, fields: flatten(fields, kv)}
}

// flatten expands pairs built with log.Str and log.Int.
func flatten(dst, kv []any) []any {
	for _, v := range kv {
		if pair, ok := v.([]any); ok {
			dst = flatten(dst, pair)
			continue
		}
		dst = append(dst, v)
	}
	return dst
}

// Debug logs a debug message.
func (m *MockLogger) Debug(msg string, kv ...any) {
	m.log("DEBUG", msg, nil, kv)
}

// Info logs an info message.
func (m *MockLogger) Info(msg string, kv ...any) {
	m.log("INFO", msg, nil, kv)
}

// Warn logs a warning message.
func (m *MockLogger) Warn(msg string, kv ...any) {
	m.log("WARN", msg, nil, kv)
}

// Error logs an error message.
func (m *MockLogger) Error(err error, msg string, kv ...any) {
	m.log("ERROR", msg, err, kv)
}

func (m *MockLogger) log(level, msg string, err error, kv []any) {
	fields := flatten(nil, m.fields)
	fields = flatten(fields, kv)

	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.entries = append(m.sink.entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  fields,
		Error:   err,
	})
}

// Entries returns all log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	entries := make([]LogEntry, len(m.sink.entries))
	copy(entries, m.sink.entries)
	return entries
}

// AssertLogged asserts that a message was logged and returns the first match.
func (m *MockLogger) AssertLogged(level, msg string) LogEntry {
	m.t.Helper()
	for _, entry := range m.Entries() {
		if entry.Level == level && entry.Message == msg {
			return entry
		}
	}
	m.t.Errorf("Expected log message not found: level=%s msg=%q", level, msg)
	return LogEntry{}
}

// Clear clears all log entries.
func (m *MockLogger) Clear() {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.entries = nil
}

// AssertErrorCode asserts that err carries the expected code.
func AssertErrorCode(t *testing.T, err error, expectedCode errors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error with code %s, got nil", expectedCode)
	}

	if code := errors.CodeOf(err); code != expectedCode {
		t.Errorf("Expected error code %s, got %s (%v)", expectedCode, code, err)
	}
}

// RecordingFS is an in-memory file system that records every operation as
// "mkdir <dir>" or "write <path>". Writes fail when the parent directory was
// never created.
type RecordingFS struct {
	mu    sync.Mutex
	ops   []string
	dirs  map[string]bool
	files map[string]string
	fail  map[string]error
}

// NewRecordingFS creates an empty recording file system.
func NewRecordingFS() *RecordingFS {
	return &RecordingFS{
		dirs:  map[string]bool{".": true},
		files: map[string]string{},
		fail:  map[string]error{},
	}
}

// FailOn makes the operation on p return an IO error wrapping err.
func (r *RecordingFS) FailOn(p string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		err = fs.ErrPermission
	}
	r.fail[p] = err
}

// Seed stores a file without recording an operation.
func (r *RecordingFS) Seed(p, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[p] = content
}

// EnsureDirectory records the directory and its ancestors.
func (r *RecordingFS) EnsureDirectory(dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, "mkdir "+dir)
	if err, ok := r.fail[dir]; ok {
		return errors.Wrapf(errors.CodeIO, "mkdir", err, "failed to create directory %s", dir)
	}
	for d := dir; d != "." && d != "/"; d = path.Dir(d) {
		r.dirs[d] = true
	}
	return nil
}

// WriteFile stores content at p.
func (r *RecordingFS) WriteFile(p, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, "write "+p)
	if err, ok := r.fail[p]; ok {
		return errors.Wrapf(errors.CodeIO, "write", err, "failed to write file %s", p)
	}
	if !r.dirs[path.Dir(p)] {
		return errors.Wrapf(errors.CodeIO, "write", fs.ErrNotExist, "failed to write file %s: parent directory missing", p)
	}
	r.files[p] = content
	return nil
}

// FileExists reports whether a file was written or seeded at p.
func (r *RecordingFS) FileExists(p string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.files[p]
	return ok, nil
}

// Ops returns the recorded operations in order.
func (r *RecordingFS) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

// Files returns a copy of the stored files.
func (r *RecordingFS) Files() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	files := make(map[string]string, len(r.files))
	for p, c := range r.files {
		files[p] = c
	}
	return files
}

// AssertDirsBeforeFiles fails the test if any mkdir was recorded after a write.
func (r *RecordingFS) AssertDirsBeforeFiles(t *testing.T) {
	t.Helper()
	wrote := false
	for i, op := range r.Ops() {
		switch {
		case strings.HasPrefix(op, "write "):
			wrote = true
		case strings.HasPrefix(op, "mkdir ") && wrote:
			t.Errorf("directory created after a file write at op %d: %s", i, fmt.Sprint(r.Ops()))
			return
		}
	}
}
