// Package share hands exported documents to the outside world. On a phone
// this would be the native share sheet; here the default implementation
// writes shareable files into an export directory.
package share

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Sharer receives a finished export document under a suggested file name.
type Sharer interface {
	Share(ctx context.Context, filename string, payload []byte) error
}

// Compile-time interface check.
var _ Sharer = (*FileSharer)(nil)

// FileSharer writes export documents into a directory.
type FileSharer struct {
	dir string
	log *zap.Logger
}

// NewFileSharer creates a sharer targeting dir. The directory is created
// lazily on first share.
func NewFileSharer(dir string, log *zap.Logger) *FileSharer {
	return &FileSharer{dir: dir, log: log}
}

// Share writes payload to dir/filename.
func (f *FileSharer) Share(ctx context.Context, filename string, payload []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(f.dir, filename)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	f.log.Info("wrote export file", zap.String("path", path))
	return nil
}
