// Package storage provides the destinations uploaded files can be written to.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Save(ctx context.Context, name string, reader io.Reader) error
}

// Disk persists uploads under a fixed directory on the local filesystem.
type Disk struct {
	dir string
}

// NewDisk creates the upload directory (recursively, if absent) and returns a
// disk-backed store rooted there.
func NewDisk(dir string) (*Disk, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Disk{dir: dir}, nil
}

// Dir returns the directory uploads are written to.
func (d *Disk) Dir() string {
	return d.dir
}

// Save writes the reader's content under the given name. The name must already
// be a bare, sanitized filename; anything resembling a path is rejected.
func (d *Disk) Save(ctx context.Context, name string, reader io.Reader) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid upload filename %q", name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := os.Create(filepath.Join(d.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		os.Remove(out.Name())
		return fmt.Errorf("failed to write upload file: %w", err)
	}

	return out.Close()
}
