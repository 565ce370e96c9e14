package diagnostics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// FileSink overwrites a single file with the latest response.
type FileSink struct {
	path string
}

// NewFileSink creates a sink writing to path. The parent directory must exist.
func NewFileSink(path string) (*FileSink, error) {
	if path == "" {
		return nil, errors.New("diagnostics: file path is required")
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("diagnostics: %s is not a directory", dir)
	}
	return &FileSink{path: path}, nil
}

// Path returns the target file.
func (s *FileSink) Path() string { return s.path }

// Record replaces the file contents with raw. Readers never see a partial write.
func (s *FileSink) Record(ctx context.Context, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("diagnostics: write %s: %w", s.path, err)
	}
	return nil
}
