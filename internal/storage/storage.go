// Package storage provides the blob store backing photo uploads.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BlobStore persists named blobs. Implementations must tolerate Remove on a
// name that no longer exists.
type BlobStore interface {
	Save(name string, r io.Reader) error
	Remove(name string) error
}

// DiskStore stores blobs as files under a root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Save writes the blob to <root>/<name>, replacing any existing file.
func (d *DiskStore) Save(name string, r io.Reader) error {
	path := filepath.Join(d.root, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

// Remove deletes the named blob. A missing blob is not an error.
func (d *DiskStore) Remove(name string) error {
	err := os.Remove(filepath.Join(d.root, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
