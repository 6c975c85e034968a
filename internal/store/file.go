package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore writes objects below root as root/<container>/<key>.
type FileStore struct {
	root string
}

// NewFileStore creates root if needed.
func NewFileStore(root string) (*FileStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("file store root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create file store root: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (f *FileStore) path(container, key string) (string, error) {
	p := filepath.Join(f.root, container, filepath.FromSlash(key))
	rel, err := filepath.Rel(f.root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid object path %q/%q", container, key)
	}
	return p, nil
}

// Put writes obj.Data to a pending file next to the destination and renames
// it into place, so a reader never sees a partially written object.
func (f *FileStore) Put(ctx context.Context, obj Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(obj); err != nil {
		return err
	}

	destination, err := f.path(obj.Container, obj.Key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(destination)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create container dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "pending-")
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(obj.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("write pending file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync pending file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close pending file: %w", err)
	}

	if err := os.Rename(tmp.Name(), destination); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Get reads the object file, returning ErrObjectNotFound when it is absent.
func (f *FileStore) Get(_ context.Context, container, key string) ([]byte, error) {
	p, err := f.path(container, key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	return b, err
}

// Ping checks that the root directory is still there.
func (f *FileStore) Ping(_ context.Context) error {
	info, err := os.Stat(f.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.root)
	}
	return nil
}

// Close is a no-op.
func (f *FileStore) Close() error {
	return nil
}
