package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSourceFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.ej")
	if err := os.WriteFile(path, []byte(`print("hi")`), 0644); err != nil {
		t.Fatalf("failed to write temp file: %s", err)
	}

	src, err := ReadSource(Options{Src: path})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if src != `print("hi")` {
		t.Errorf("got %q, want %q", src, `print("hi")`)
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	_, err := ReadSource(Options{Src: "/nonexistent/path/does-not-exist.ej"})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
