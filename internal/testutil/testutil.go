// Package testutil provides shared test helpers for setting up documents and asset directories.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Logger returns a logger that discards all output.
func Logger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// WriteDocument creates a Markdown file under dir and returns its path.
func WriteDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

// WriteAssets creates the asset directory paired with docPath (extension
// replaced by suffix) containing the named files, and returns its path.
func WriteAssets(t *testing.T, docPath, suffix string, names ...string) string {
	t.Helper()
	assetDir := strings.TrimSuffix(docPath, filepath.Ext(docPath)) + suffix
	if err := os.MkdirAll(assetDir, 0o755); err != nil {
		t.Fatalf("mkdir asset dir: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(assetDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write asset %s: %v", name, err)
		}
	}
	return assetDir
}

// ListDir returns the sorted entry names of dir.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
