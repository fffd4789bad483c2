package persist

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

// DefaultFileName is the workspace file created under the state directory.
const DefaultFileName = "workspace.json"

// Store persists the workspace snapshot to a JSON file.
type Store struct {
	path string
	log  pslog.Logger
}

// NewStore constructs a workspace store writing to path.
func NewStore(path string) (*Store, error) {
	return NewStoreWithLogger(path, nil)
}

// NewStoreWithLogger constructs a workspace store with logging.
func NewStoreWithLogger(path string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("workspace path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("workspace", path)
	}
	return &Store{path: path, log: logger}, nil
}

// Path returns the workspace file location.
func (s *Store) Path() string {
	return s.path
}

// Restore reads the workspace snapshot. ok is false when nothing was saved yet.
func (s *Store) Restore(ctx context.Context) (schema.WorkspaceSnapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return schema.WorkspaceSnapshot{}, false, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.log != nil {
				s.log.Debug("workspace load miss")
			}
			return schema.WorkspaceSnapshot{}, false, nil
		}
		if s.log != nil {
			s.log.Warn("workspace load failed", "err", err)
		}
		return schema.WorkspaceSnapshot{}, false, err
	}
	var snapshot schema.WorkspaceSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		if s.log != nil {
			s.log.Warn("workspace load failed", "err", err)
		}
		return schema.WorkspaceSnapshot{}, false, err
	}
	snapshot = Sanitize(snapshot)
	if s.log != nil {
		s.log.Debug("workspace load ok", "files", len(snapshot.Files))
	}
	return snapshot, true, nil
}

// Save writes the workspace snapshot atomically.
func (s *Store) Save(ctx context.Context, snapshot schema.WorkspaceSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(Sanitize(snapshot), "", "  ")
	if err != nil {
		if s.log != nil {
			s.log.Warn("workspace save failed", "err", err)
		}
		return err
	}
	if err := WriteFileAtomic(s.path, data, 0o600); err != nil {
		if s.log != nil {
			s.log.Warn("workspace save failed", "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Trace("workspace save ok", "files", len(snapshot.Files))
	}
	return nil
}

// Clear removes the saved workspace.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op for the file store.
func (s *Store) Close() error {
	return nil
}

// Sanitize drops an out-of-range active index and replaces a nil layout.
func Sanitize(snapshot schema.WorkspaceSnapshot) schema.WorkspaceSnapshot {
	if snapshot.Files == nil {
		snapshot.Files = []schema.WorkspaceFile{}
	}
	if idx := snapshot.ActiveIndex(); idx >= len(snapshot.Files) {
		snapshot.ActiveTab = nil
	}
	if snapshot.Layout == nil {
		snapshot.Layout = schema.Layout{}
	}
	return snapshot
}

// WriteFileAtomic writes data to a temp file next to path and renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
