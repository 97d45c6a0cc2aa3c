package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemory(t *testing.T) {
	m := NewMemory()

	if _, ok, err := m.Get("missing"); ok || err != nil {
		t.Fatalf("Get(missing) = ok %v, err %v; expected absent", ok, err)
	}

	if err := m.Set("k", "v1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := m.Set("k", "v2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, ok, err := m.Get("k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("Get(k) = %q, %v, %v; expected v2", v, ok, err)
	}
}

func TestFileMissingReadsEmpty(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "store.json"))

	_, ok, err := f.Get("anything")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Fatal("expected key to be absent in a missing file")
	}
}

func TestFileEmptyReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("  \n"), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	if _, ok, err := NewFile(path).Get("k"); ok || err != nil {
		t.Fatalf("Get() = ok %v, err %v; expected absent", ok, err)
	}
}

func TestFilePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	first := NewFile(path)
	if err := first.Set("a", "1"); err != nil {
		t.Fatalf("Set(a) error = %v", err)
	}
	if err := first.Set("b", `{"1":0.8}`); err != nil {
		t.Fatalf("Set(b) error = %v", err)
	}

	second := NewFile(path)
	if second.Path() != path {
		t.Errorf("Path() = %s, expected %s", second.Path(), path)
	}
	for key, want := range map[string]string{"a": "1", "b": `{"1":0.8}`} {
		got, ok, err := second.Get(key)
		if err != nil || !ok || got != want {
			t.Errorf("Get(%s) = %q, %v, %v; expected %q", key, got, ok, err, want)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to list store directory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the store file to remain, found %d entries", len(entries))
	}
}

func TestFileCorruptContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	f := NewFile(path)
	if _, _, err := f.Get("k"); err == nil {
		t.Fatal("expected an error reading a corrupt store file")
	}

	if err := f.Set("k", "v"); err != nil {
		t.Fatalf("Set() should replace a corrupt file, got %v", err)
	}
	if v, ok, err := f.Get("k"); err != nil || !ok || v != "v" {
		t.Fatalf("Get() after repair = %q, %v, %v", v, ok, err)
	}
}

func TestFileUnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write blocker file: %v", err)
	}

	// The parent "directory" is a regular file, so no write can succeed.
	f := NewFile(filepath.Join(blocker, "store.json"))
	if err := f.Set("k", "v"); err == nil {
		t.Fatal("expected Set() to fail when the parent path is a file")
	}
}
