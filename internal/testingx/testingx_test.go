package testingx

import (
	"io/fs"
	"testing"

	"go.eggybyte.com/egg/crudgen/internal/core/errors"
	"go.eggybyte.com/egg/crudgen/internal/core/log"
)

func TestMockLogger_WithSharesEntries(t *testing.T) {
	logger := NewMockLogger(t)
	child := logger.With("style", "minimal")

	child.Info("plan built", log.Int("files", 6))
	logger.Error(errors.New(errors.CodeIO, "disk full"), "generation aborted")

	entries := logger.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := logger.AssertLogged("INFO", "plan built")
	if got := first.Field("style"); got != "minimal" {
		t.Errorf("style field = %v, want minimal", got)
	}
	if got := first.Field("files"); got != 6 {
		t.Errorf("files field = %v, want 6", got)
	}
	if got := first.Field("missing"); got != nil {
		t.Errorf("missing field = %v, want nil", got)
	}

	last := logger.AssertLogged("ERROR", "generation aborted")
	AssertErrorCode(t, last.Error, errors.CodeIO)

	logger.Clear()
	if len(logger.Entries()) != 0 {
		t.Error("Clear should remove all entries")
	}
}

func TestRecordingFS_ParentRequired(t *testing.T) {
	r := NewRecordingFS()

	AssertErrorCode(t, r.WriteFile("src/app.js", "x"), errors.CodeIO)

	if err := r.EnsureDirectory("src/config"); err != nil {
		t.Fatalf("EnsureDirectory: %v", err)
	}
	if err := r.WriteFile("src/app.js", "x"); err != nil {
		t.Fatalf("ancestor of a created dir should exist: %v", err)
	}
	if err := r.WriteFile("src/config/db.js", "y"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	want := []string{"write src/app.js", "mkdir src/config", "write src/app.js", "write src/config/db.js"}
	got := r.Ops()
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecordingFS_FailOnAndSeed(t *testing.T) {
	r := NewRecordingFS()
	r.Seed("main.ts", "old")
	r.FailOn("main.ts", nil)

	exists, err := r.FileExists("main.ts")
	if err != nil || !exists {
		t.Fatalf("FileExists = %v, %v; want true, nil", exists, err)
	}

	err = r.WriteFile("main.ts", "new")
	AssertErrorCode(t, err, errors.CodeIO)
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("expected wrapped permission error, got %v", err)
	}
	if got := r.Files()["main.ts"]; got != "old" {
		t.Errorf("content = %q, want old", got)
	}
}
