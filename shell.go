// Package docshell composes the document shell from its configuration.
package docshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"pkt.systems/docshell/core"
	"pkt.systems/docshell/internal/appconfig"
	"pkt.systems/docshell/internal/clientconfig"
	"pkt.systems/docshell/internal/command"
	"pkt.systems/docshell/internal/dialog"
	"pkt.systems/docshell/internal/eventbus"
	"pkt.systems/docshell/internal/fsys"
	"pkt.systems/docshell/internal/persist"
	"pkt.systems/docshell/internal/persist/sqlite"
	"pkt.systems/docshell/internal/provider"
	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

// FileSystem reads and writes documents.
type FileSystem interface {
	core.FileSystem
	provider.FileReader
}

// WorkspaceStore is a workspace backend owned by the shell.
type WorkspaceStore interface {
	core.WorkspaceStore
	Clear(ctx context.Context) error
	Close() error
}

// ShellConfig configures the compositor.
type ShellConfig struct {
	App                 appconfig.Config
	DisableAuditLogging bool
}

// ShellDeps captures optional collaborators. Nil fields get defaults: a scripted
// dialog that cancels every prompt and the local file system.
type ShellDeps struct {
	Dialog     core.Dialog
	FileSystem FileSystem
	EventSink  core.EventSink
	Output     io.Writer
	Logger     pslog.Logger
}

// ShellOption toggles compositor components.
type ShellOption func(*shellOptions)

type shellOptions struct {
	ephemeral bool
	noLock    bool
}

// WithoutWorkspace runs without restoring or persisting the workspace.
func WithoutWorkspace() ShellOption {
	return func(o *shellOptions) { o.ephemeral = true }
}

// WithoutLock skips the single-instance lock on the state directory.
func WithoutLock() ShellOption {
	return func(o *shellOptions) { o.noLock = true }
}

// Shell is a running document shell.
type Shell struct {
	cfg     ShellConfig
	service core.Service
	handler *command.Handler
	bus     *eventbus.Bus
	store   WorkspaceStore
	lock    *persist.Lock
	linting *clientconfig.LintingProvider
	log     pslog.Logger

	mu      sync.Mutex
	started bool
	closed  bool
}

// New constructs a shell from cfg.
func New(cfg ShellConfig, deps ShellDeps, opts ...ShellOption) (*Shell, error) {
	options := shellOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	serviceCfg, err := schema.NormalizeServiceConfig(cfg.App.ServiceConfig())
	if err != nil {
		return nil, err
	}

	shell := &Shell{
		cfg:     cfg,
		linting: clientconfig.NewLintingProvider(cfg.App.Linting.SearchPaths),
		log:     logger,
	}
	if !options.ephemeral {
		if cfg.App.StateDir == "" {
			return nil, errors.New("state dir is required")
		}
		if err := os.MkdirAll(cfg.App.StateDir, 0o700); err != nil {
			return nil, err
		}
		if !options.noLock {
			lock, err := persist.AcquireLock(cfg.App.StateDir)
			if err != nil {
				return nil, err
			}
			shell.lock = lock
		}
		store, err := openStore(cfg.App, logger)
		if err != nil {
			shell.releaseLock()
			return nil, err
		}
		shell.store = store
	}

	files := deps.FileSystem
	if files == nil {
		files = fsys.NewLocal()
	}
	dlg := deps.Dialog
	if dlg == nil {
		dlg = dialog.NewScripted()
	}
	shell.bus = eventbus.New(logger)
	var sink core.EventSink = shell.bus
	if deps.EventSink != nil {
		sink = eventFanout{sinks: []core.EventSink{deps.EventSink, shell.bus}}
	}
	serviceDeps := core.ServiceDeps{
		Provider:   provider.New(files),
		Dialog:     dlg,
		FileSystem: files,
		EventSink:  sink,
		Logger:     logger,
	}
	if shell.store != nil {
		serviceDeps.Workspace = shell.store
	}
	service, err := core.NewService(serviceCfg, serviceDeps)
	if err != nil {
		_ = shell.Close()
		return nil, err
	}
	shell.service = service
	shell.handler = command.NewHandler(service, deps.Output, command.HandlerConfig{
		DisableAuditLogging: cfg.DisableAuditLogging,
		Files:               files,
	})
	return shell, nil
}

func openStore(cfg appconfig.Config, logger pslog.Logger) (WorkspaceStore, error) {
	switch cfg.Workspace.Backend {
	case "", appconfig.BackendJSON:
		return persist.NewStoreWithLogger(cfg.WorkspacePath(), logger)
	case appconfig.BackendSQLite:
		return sqlite.NewStore(cfg.WorkspacePath(), logger)
	default:
		return nil, fmt.Errorf("unsupported workspace backend %q", cfg.Workspace.Backend)
	}
}

// Service returns the core service.
func (s *Shell) Service() core.Service {
	return s.service
}

// Handler returns the action line handler.
func (s *Shell) Handler() *command.Handler {
	return s.handler
}

// Events returns the shell event bus.
func (s *Shell) Events() *eventbus.Bus {
	return s.bus
}

// Start restores the persisted workspace. It may be called once.
func (s *Shell) Start(ctx context.Context) (schema.RestoreWorkspaceResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return schema.RestoreWorkspaceResponse{}, errors.New("shell closed")
	}
	if s.started {
		s.mu.Unlock()
		pslog.Ctx(ctx).Warn("shell start rejected", "reason", "already started")
		return schema.RestoreWorkspaceResponse{}, errors.New("shell already started")
	}
	s.started = true
	s.mu.Unlock()

	log := pslog.Ctx(ctx)
	resp, err := s.service.RestoreWorkspace(ctx, schema.RestoreWorkspaceRequest{})
	if err != nil {
		log.Error("shell restore failed", "err", err)
		return resp, err
	}
	log.Info("shell started", "tabs", len(resp.Tabs), "skipped", len(resp.Skipped), "backend", s.cfg.App.Workspace.Backend)
	return resp, nil
}

// Workspace returns the persisted snapshot without touching open tabs.
func (s *Shell) Workspace(ctx context.Context) (schema.WorkspaceSnapshot, bool, error) {
	if s.store == nil {
		return schema.WorkspaceSnapshot{}, false, nil
	}
	return s.store.Restore(ctx)
}

// ClearWorkspace removes the persisted snapshot.
func (s *Shell) ClearWorkspace(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Clear(ctx)
}

// LintConfig compiles the first linting configuration in the configured search paths.
func (s *Shell) LintConfig(ctx context.Context) (clientconfig.LintConfig, error) {
	return s.linting.Get(ctx)
}

// Close releases the workspace store and the state directory lock.
func (s *Shell) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn("shell store close failed", "err", err)
			errs = append(errs, err)
		}
	}
	if err := s.releaseLock(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Shell) releaseLock() error {
	if s.lock == nil {
		return nil
	}
	err := s.lock.Release()
	s.lock = nil
	if err != nil {
		s.log.Warn("shell lock release failed", "err", err)
	}
	return err
}
