// Package fsys writes saved and exported documents to the local file system.
package fsys

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/docshell/internal/persist"
	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

// Local is a file system backed by the host OS.
type Local struct {
	perm os.FileMode
}

// NewLocal constructs a Local file system writing files with mode 0644.
func NewLocal() *Local {
	return &Local{perm: 0o644}
}

// WriteFile writes the request contents atomically. A plain save refuses to
// create missing directories; save-as and exports create them.
func (l *Local) WriteFile(ctx context.Context, req schema.WriteRequest, opts schema.WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("write path is required")
	}
	path := filepath.Clean(req.Path)
	if !opts.SaveAs && req.FileType == "" {
		if _, err := os.Stat(filepath.Dir(path)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := persist.WriteFileAtomic(path, req.Contents, l.perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	pslog.Ctx(ctx).Debug("fsys file written", "path", path, "bytes", len(req.Contents), "file_type", req.FileType)
	return nil
}

// ReadFile returns the contents of path.
func (l *Local) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
