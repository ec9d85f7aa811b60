// Package export builds the developer artifact archive: a zip of the
// readable source and documentation files under a root directory.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	includedExtensions = []string{".go", ".md", ".txt", ".html", ".css", ".js", ".json", ".yaml", ".yml", ".sql", ".mod"}
	skippedDirs        = []string{".git", "_examples", "node_modules"}
)

// Included reports whether a file name belongs in the archive.
func Included(name string) bool {
	return slices.Contains(includedExtensions, strings.ToLower(filepath.Ext(name)))
}

// WriteArchive streams a zip of root to w and returns the number of files
// written. Paths inside the archive are relative to root and use forward
// slashes.
func WriteArchive(w io.Writer, root string) (int, error) {
	zw := zip.NewWriter(w)
	count := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && slices.Contains(skippedDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !Included(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := addFile(zw, path, filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("add %s: %w", rel, err)
		}
		count++
		return nil
	})
	if err != nil {
		_ = zw.Close()
		return count, err
	}
	return count, zw.Close()
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dst, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, f)
	return err
}
