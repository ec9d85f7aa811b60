package export

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWriteArchive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module x")
	writeFile(t, root, "README.md", "# hi")
	writeFile(t, root, "internal/core/store.go", "package core")
	writeFile(t, root, "static/app.JS", "alert(1)")
	writeFile(t, root, "bin/ledger", "\x7fELF")
	writeFile(t, root, "classbank.db", "bolt")
	writeFile(t, root, ".git/config", "[core]")
	writeFile(t, root, "_examples/other/main.go", "package main")
	writeFile(t, root, "web/node_modules/lib/index.js", "x")

	var buf bytes.Buffer
	n, err := WriteArchive(&buf, root)
	if err != nil {
		t.Fatalf("write archive: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)

	want := []string{"README.md", "go.mod", "internal/core/store.go", "static/app.JS"}
	if n != len(want) || len(names) != len(want) {
		t.Fatalf("expected %v, got %v (n=%d)", want, names, n)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestWriteArchive_MissingRoot(t *testing.T) {
	var buf bytes.Buffer
	if _, err := WriteArchive(&buf, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing root")
	}
}
