package launcher

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnviron_OverlaysEnvFile(t *testing.T) {
	t.Setenv("LAPIN_TEST_KEEP", "kept")
	t.Setenv("LAPIN_TEST_OVERRIDE", "old")

	path := filepath.Join(t.TempDir(), "env")
	if err := os.WriteFile(path, []byte("LAPIN_TEST_OVERRIDE=new\nLAPIN_TEST_ADDED=\"with space\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	env := New(path, discard()).Environ()

	for _, want := range []string{"LAPIN_TEST_KEEP=kept", "LAPIN_TEST_OVERRIDE=new", "LAPIN_TEST_ADDED=with space"} {
		if !slices.Contains(env, want) {
			t.Errorf("expected %q in environment", want)
		}
	}
	if slices.Contains(env, "LAPIN_TEST_OVERRIDE=old") {
		t.Errorf("expected overridden value to be dropped")
	}
}

func TestEnviron_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("LAPIN_TEST_KEEP", "kept")
	env := New(filepath.Join(t.TempDir(), "missing"), discard()).Environ()
	if !slices.Contains(env, "LAPIN_TEST_KEEP=kept") {
		t.Fatalf("expected process environment to pass through")
	}
}

func TestSpawn(t *testing.T) {
	l := New("", discard())
	if err := l.Spawn("   "); err == nil {
		t.Fatalf("expected error for empty command")
	}
	if err := l.Spawn("lapin-test-no-such-program --flag"); err == nil {
		t.Fatalf("expected error for missing program")
	}
	if err := l.Spawn("true ignored args"); err != nil {
		t.Fatalf("spawn true: %v", err)
	}
}
