package fs

import (
	"os"
	"path/filepath"
	"testing"
)

// TestReal_Exists_ReturnsFalseForNonExistent verifies that a missing path is
// not an error.
func TestReal_Exists_ReturnsFalseForNonExistent(t *testing.T) {
	t.Parallel()

	exists, err := NewReal().Exists(filepath.Join(t.TempDir(), "missing.actions"))
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}

	if exists {
		t.Fatal("exists=true, want false")
	}
}

func TestReal_Exists_ReturnsTrueForFileAndDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.actions")

	if err := os.WriteFile(path, []byte("(x) a\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	for _, p := range []string{dir, path} {
		exists, err := NewReal().Exists(p)
		if err != nil || !exists {
			t.Fatalf("Exists(%s) = %v, %v; want true, nil", p, exists, err)
		}
	}
}

// TestReal_WriteFileAtomic_CreatesParentsAndSetsMode verifies that a file in
// a directory that does not exist yet is written with the requested mode.
func TestReal_WriteFileAtomic_CreatesParentsAndSetsMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "cliche", "config.json")

	if err := NewReal().WriteFileAtomic(path, []byte(`{"data":"x"}`), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if string(got) != `{"data":"x"}` {
		t.Fatalf("content=%q", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if info.Mode().Perm() != 0o644 {
		t.Fatalf("mode=%v, want 0644", info.Mode().Perm())
	}
}

func TestReal_WriteFileAtomic_ReplacesExistingContent(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	path := filepath.Join(t.TempDir(), "config.json")

	for _, content := range []string{"first, longer content", "second"} {
		if err := fsys.WriteFileAtomic(path, []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFileAtomic(%q): %v", content, err)
		}
	}

	got, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(got) != "second" {
		t.Fatalf("content=%q, want %q", got, "second")
	}

	entries, err := fsys.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (temp file left behind?)", len(entries))
	}
}
