// Package ui provides user-facing output for the crudgen CLI.
//
// Overview:
//   - Responsibility: Prefixed console messages, JSON output mode, result summaries
//   - Key Types: UI, Message, Field
//   - Concurrency Model: Thread-safe output operations
//   - Error Semantics: Encoding failures are reported on stderr, never returned
//   - Performance Notes: One write per message
//
// Usage:
//
//	out := ui.New(os.Stdout, os.Stderr, ui.WithVerbose(true))
//	out.Report(ui.LevelSuccess, result, "Express project structure and CRUD files for %q generated", "User")
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// OutputLevel represents the severity level of a message.
type OutputLevel string

const (
	LevelDebug   OutputLevel = "debug"
	LevelInfo    OutputLevel = "info"
	LevelWarning OutputLevel = "warning"
	LevelError   OutputLevel = "error"
	LevelSuccess OutputLevel = "success"
)

// Message represents a structured output message.
//
// Parameters:
//   - Level: Message severity level
//   - Text: Human-readable message content
//   - Data: Optional structured data for JSON output
//   - Timestamp: When the message was created
type Message struct {
	Level     OutputLevel `json:"level"`
	Text      string      `json:"text"`
	Data      any         `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Field is a label-value pair printed by Fields.
type Field struct {
	Label string
	Value string
}

// UI writes messages to a pair of streams.
//
// Concurrency:
//   - Safe for concurrent use
type UI struct {
	mu      sync.Mutex
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
	json    bool
	now     func() time.Time

	prefixes map[OutputLevel]string
	check    string
	label    lipgloss.Style
}

// Option configures a UI.
type Option func(*UI)

// WithVerbose shows debug messages.
func WithVerbose(enabled bool) Option {
	return func(u *UI) { u.verbose = enabled }
}

// WithJSON writes each message as its own JSON document on stdout.
// A run may emit several documents, decode them as a stream.
func WithJSON(enabled bool) Option {
	return func(u *UI) { u.json = enabled }
}

// WithClock sets the timestamp source for JSON messages.
func WithClock(now func() time.Time) Option {
	return func(u *UI) {
		if now != nil {
			u.now = now
		}
	}
}

// New creates a UI. Colors are only emitted when stdout is a terminal.
//
// Parameters:
//   - stdout: Stream for regular messages
//   - stderr: Stream for errors
//   - opts: Verbose, JSON and clock settings
//
// Returns:
//   - *UI: Output instance
func New(stdout, stderr io.Writer, opts ...Option) *UI {
	u := &UI{
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}

	out := lipgloss.NewRenderer(stdout)
	errOut := lipgloss.NewRenderer(stderr)
	gray := lipgloss.Color("#bababa")
	green := lipgloss.Color("#27ca3f")

	u.prefixes = map[OutputLevel]string{
		LevelDebug:   out.NewStyle().Foreground(gray).Render("🔍 DEBUG:"),
		LevelInfo:    out.NewStyle().Foreground(lipgloss.Color("#48dbfb")).Render("ℹ️  INFO:"),
		LevelWarning: out.NewStyle().Foreground(lipgloss.Color("#f9ca24")).Render("⚠️  WARN:"),
		LevelError:   errOut.NewStyle().Foreground(lipgloss.Color("#ff6b6b")).Bold(true).Render("❌ ERROR:"),
		LevelSuccess: out.NewStyle().Foreground(green).Render("✅ SUCCESS:"),
	}
	u.check = out.NewStyle().Foreground(green).Render("✓")
	u.label = out.NewStyle().Foreground(gray)
	return u
}

// JSON reports whether JSON mode is enabled.
func (u *UI) JSON() bool {
	return u.json
}

// Debug outputs a debug message, only in verbose mode.
func (u *UI) Debug(format string, args ...any) {
	u.output(LevelDebug, nil, format, args...)
}

// Warning outputs a warning message.
func (u *UI) Warning(format string, args ...any) {
	u.output(LevelWarning, nil, format, args...)
}

// Error outputs an error message on stderr.
func (u *UI) Error(format string, args ...any) {
	u.output(LevelError, nil, format, args...)
}

// Report outputs a message carrying structured data.
// The data is only visible in JSON mode.
//
// Parameters:
//   - level: Message severity level
//   - data: Value encoded under "data"
//   - format: Printf-style format string
//   - args: Format arguments
func (u *UI) Report(level OutputLevel, data any, format string, args ...any) {
	u.output(level, data, format, args...)
}

// Fields prints a summary of label-value pairs with green check marks.
// Nothing is printed in JSON mode.
func (u *UI) Fields(fields []Field) {
	if u.json {
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	for _, f := range fields {
		fmt.Fprintf(u.stdout, "  %s %s %s\n", u.check, u.label.Render(f.Label+":"), f.Value)
	}
}

func (u *UI) output(level OutputLevel, data any, format string, args ...any) {
	if level == LevelDebug && !u.verbose {
		return
	}

	text := fmt.Sprintf(format, args...)

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.json {
		message := Message{
			Level:     level,
			Text:      text,
			Data:      data,
			Timestamp: u.now().UTC(),
		}
		encoder := json.NewEncoder(u.stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(message); err != nil {
			fmt.Fprintf(u.stderr, "Failed to encode JSON output: %v\n", err)
		}
		return
	}

	writer := u.stdout
	if level == LevelError {
		writer = u.stderr
	}
	fmt.Fprintf(writer, "%s %s\n", u.prefixes[level], text)
}
