package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DiskStore implements document storage against the local filesystem.
type DiskStore struct{}

// ReadAll reads the document at path and decodes it to plain UTF-8 text.
func (DiskStore) ReadAll(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	text, _, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return text, nil
}

// WriteAll replaces the document at path with text, re-encoded to the
// file's prior encoding. The new content is written to a temp file in the
// same directory and renamed over the original, so the replacement is whole
// and the old length never leaks through.
func (DiskStore) WriteAll(path string, text string) error {
	prior, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s before rewrite: %w", path, err)
	}
	_, enc, err := Decode(prior)
	if err != nil {
		return fmt.Errorf("decode %s before rewrite: %w", path, err)
	}
	data, err := Encode(text, enc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".subsync-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ListEntries returns the paths of the regular files directly inside dir.
// Subdirectories are not descended into.
func (DiskStore) ListEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
