package fsutil

import (
	"errors"
	"os"
	"testing"
)

func TestMemoryFileSystemRoundTrip(t *testing.T) {
	fs := NewMemoryFileSystem()

	w, err := fs.Create("out/metrics.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := w.Write([]byte("id,length_m\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := fs.ReadFile("out/metrics.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "id,length_m\n" {
		t.Errorf("contents = %q", data)
	}
	if !fs.Exists("out/metrics.csv") {
		t.Error("written file must exist")
	}
}

func TestMemoryFileSystemContentVisibleOnClose(t *testing.T) {
	fs := NewMemoryFileSystem()
	w, _ := fs.Create("pending.csv")
	_, _ = w.Write([]byte("row"))

	if fs.Exists("pending.csv") {
		t.Error("file must not be visible before Close")
	}
	_ = w.Close()
	if !fs.Exists("pending.csv") {
		t.Error("file must be visible after Close")
	}
}

func TestMemoryFileSystemMissingFile(t *testing.T) {
	fs := NewMemoryFileSystem()
	_, err := fs.ReadFile("nope.csv")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystemMkdirAll(t *testing.T) {
	fs := NewMemoryFileSystem()
	if err := fs.MkdirAll("a/b/c", 0755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fs.Exists("a/b/c") {
		t.Error("created directory must exist")
	}
}

func TestMemoryFileSystemFilesSorted(t *testing.T) {
	fs := NewMemoryFileSystem()
	for _, name := range []string{"b.csv", "a.csv", "c.csv"} {
		w, _ := fs.Create(name)
		_ = w.Close()
	}
	files := fs.Files()
	if len(files) != 3 || files[0] != "a.csv" || files[2] != "c.csv" {
		t.Errorf("files = %v", files)
	}
}
