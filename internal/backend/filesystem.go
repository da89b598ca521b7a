package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"shelf-go/internal/shelf"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileSystemBackend stores each key as its own file:
//
//	<root>/
//	  <key>.json
//
// Writes go through a temp file and a rename so a reader never sees a
// half-written blob.
type FileSystemBackend struct {
	root string
}

// NewFileSystemBackend creates a backend rooted at root, creating the
// directory if needed.
func NewFileSystemBackend(root string) (*FileSystemBackend, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileSystemBackend{root: root}, nil
}

// Root returns the directory holding the blobs.
func (f *FileSystemBackend) Root() string {
	return f.root
}

func (f *FileSystemBackend) pathFor(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(f.root, key+".json"), nil
}

// Get reads the blob stored under key. A missing file is reported as ok=false.
func (f *FileSystemBackend) Get(key string) ([]byte, bool, error) {
	path, err := f.pathFor(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set atomically replaces the blob stored under key.
func (f *FileSystemBackend) Set(key string, data []byte) error {
	path, err := f.pathFor(key)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// Close is a no-op; files are opened per call.
func (f *FileSystemBackend) Close() error {
	return nil
}

// writeFileAtomic writes data to a temp file next to destPath and renames it into place.
func writeFileAtomic(destPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemBackend implements shelf.Backend
var _ shelf.Backend = (*FileSystemBackend)(nil)
