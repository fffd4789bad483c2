package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pkt.systems/docshell/internal/logx"
	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

// service implements the core service behavior.
type service struct {
	cfg      schema.ServiceConfig
	provider TabProvider
	dialog   Dialog
	files    FileSystem
	store    WorkspaceStore
	sink     EventSink
	logger   pslog.Logger

	mu      sync.Mutex
	tabs    tabCollection
	history *tabHistory
	closed  *closedStack
	layout  schema.Layout
	// generation counts activations; shown is the generation already reported as shown.
	generation uint64
	shown      uint64
	outbox     []pendingEvent
	delivering bool

	persistMu sync.Mutex
}

// pendingEvent is a queued lifecycle event. Exactly one field is set.
type pendingEvent struct {
	changed *schema.TabChangedEvent
	shown   *schema.TabShownEvent
}

// NewService constructs the core service implementation.
func NewService(cfg schema.ServiceConfig, deps ServiceDeps) (Service, error) {
	normalized, err := schema.NormalizeServiceConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg = normalized
	if deps.Provider == nil {
		return nil, errors.New("tab provider is required")
	}
	if deps.Dialog == nil {
		return nil, errors.New("dialog is required")
	}
	if deps.FileSystem == nil {
		return nil, errors.New("file system is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &service{
		cfg:      cfg,
		provider: deps.Provider,
		dialog:   deps.Dialog,
		files:    deps.FileSystem,
		store:    deps.Workspace,
		sink:     deps.EventSink,
		logger:   logger,
		history:  newTabHistory(cfg.HistoryMax),
		closed:   newClosedStack(cfg.ClosedMax),
		layout:   schema.Layout{},
	}, nil
}

func (s *service) SelectTab(ctx context.Context, req schema.SelectTabRequest) (schema.SelectTabResponse, error) {
	if ctx == nil {
		return schema.SelectTabResponse{}, errors.New("missing context")
	}
	if err := schema.ValidateTabID(req.TabID); err != nil {
		return schema.SelectTabResponse{}, err
	}
	log := logx.WithTab(ctx, req.TabID)

	s.mu.Lock()
	t := s.tabs.byID(string(req.TabID))
	if t == nil {
		s.mu.Unlock()
		return schema.SelectTabResponse{}, schema.ErrTabNotFound
	}
	changed := s.activateLocked(t, true)
	snapshot := t.Snapshot(true)
	s.mu.Unlock()

	s.deliver()
	if changed {
		s.persistWorkspace(ctx, log)
		log.Info("service tab selected")
	} else {
		log.Debug("service tab already active")
	}
	return schema.SelectTabResponse{Tab: snapshot}, nil
}

func (s *service) Navigate(ctx context.Context, req schema.NavigateRequest) (schema.NavigateResponse, error) {
	if ctx == nil {
		return schema.NavigateResponse{}, errors.New("missing context")
	}
	if req.Delta == 0 {
		return schema.NavigateResponse{}, fmt.Errorf("%w: navigate delta must be non-zero", schema.ErrInvalidRequest)
	}
	log := pslog.Ctx(ctx)

	s.mu.Lock()
	target, err := s.history.navigate(req.Delta, s.tabs.contains)
	if err != nil {
		s.mu.Unlock()
		log.Debug("service navigate failed", "delta", req.Delta, "err", err)
		return schema.NavigateResponse{}, err
	}
	s.activateLocked(target, false)
	snapshot := target.Snapshot(true)
	s.mu.Unlock()

	s.deliver()
	s.persistWorkspace(ctx, log)
	log.Info("service navigated", "delta", req.Delta, "tab", snapshot.ID)
	return schema.NavigateResponse{Tab: snapshot}, nil
}

func (s *service) CycleTab(ctx context.Context, req schema.CycleTabRequest) (schema.CycleTabResponse, error) {
	if ctx == nil {
		return schema.CycleTabResponse{}, errors.New("missing context")
	}
	if req.Delta == 0 {
		return schema.CycleTabResponse{}, fmt.Errorf("%w: cycle delta must be non-zero", schema.ErrInvalidRequest)
	}
	log := pslog.Ctx(ctx)

	s.mu.Lock()
	count := s.tabs.len()
	if count == 0 {
		s.mu.Unlock()
		return schema.CycleTabResponse{}, schema.ErrTabNotFound
	}
	idx := s.tabs.indexOf(s.tabs.active)
	if idx < 0 {
		idx = 0
	}
	next := ((idx+req.Delta)%count + count) % count
	target := s.tabs.tabs[next]
	changed := s.activateLocked(target, true)
	snapshot := target.Snapshot(true)
	s.mu.Unlock()

	s.deliver()
	if changed {
		s.persistWorkspace(ctx, log)
	}
	log.Info("service tab cycled", "delta", req.Delta, "tab", snapshot.ID)
	return schema.CycleTabResponse{Tab: snapshot}, nil
}

func (s *service) HandleTabShown(ctx context.Context, req schema.TabShownRequest) (schema.TabShownResponse, error) {
	if ctx == nil {
		return schema.TabShownResponse{}, errors.New("missing context")
	}
	if err := schema.ValidateTabID(req.TabID); err != nil {
		return schema.TabShownResponse{}, err
	}
	log := logx.WithTab(ctx, req.TabID)

	s.mu.Lock()
	t := s.tabs.byID(string(req.TabID))
	if t == nil {
		s.mu.Unlock()
		return schema.TabShownResponse{}, schema.ErrTabNotFound
	}
	if t != s.tabs.active {
		s.mu.Unlock()
		log.Debug("service tab shown ignored", "reason", "not active")
		return schema.TabShownResponse{}, nil
	}
	if s.shown == s.generation {
		s.mu.Unlock()
		log.Debug("service tab shown ignored", "reason", "already shown")
		return schema.TabShownResponse{}, nil
	}
	s.shown = s.generation
	// Queued behind the tab-changed event of this activation.
	s.outbox = append(s.outbox, pendingEvent{shown: &schema.TabShownEvent{Tab: t.Snapshot(true)}})
	s.mu.Unlock()

	s.deliver()
	log.Debug("service tab shown")
	return schema.TabShownResponse{Emitted: true}, nil
}

func (s *service) ListTabs(ctx context.Context, req schema.ListTabsRequest) (schema.ListTabsResponse, error) {
	if ctx == nil {
		return schema.ListTabsResponse{}, errors.New("missing context")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tabs := make([]schema.TabSnapshot, 0, s.tabs.len())
	for _, t := range s.tabs.tabs {
		tabs = append(tabs, t.Snapshot(t == s.tabs.active))
	}
	var active schema.TabID
	if s.tabs.active != nil {
		active = s.tabs.active.ID
	}
	return schema.ListTabsResponse{Tabs: tabs, ActiveTab: active, Layout: s.layout.Clone()}, nil
}

func (s *service) SetTabDirty(ctx context.Context, req schema.SetTabDirtyRequest) (schema.SetTabDirtyResponse, error) {
	if ctx == nil {
		return schema.SetTabDirtyResponse{}, errors.New("missing context")
	}
	if err := schema.ValidateTabID(req.TabID); err != nil {
		return schema.SetTabDirtyResponse{}, err
	}
	s.mu.Lock()
	t := s.tabs.byID(string(req.TabID))
	if t == nil {
		s.mu.Unlock()
		return schema.SetTabDirtyResponse{}, schema.ErrTabNotFound
	}
	t.setDirty(req.Dirty)
	snapshot := t.Snapshot(t == s.tabs.active)
	s.mu.Unlock()
	logx.WithTab(ctx, req.TabID).Trace("service tab dirty updated", "dirty", req.Dirty, "state", snapshot.State)
	return schema.SetTabDirtyResponse{Tab: snapshot}, nil
}

func (s *service) EditTab(ctx context.Context, req schema.EditTabRequest) (schema.EditTabResponse, error) {
	if ctx == nil {
		return schema.EditTabResponse{}, errors.New("missing context")
	}
	if err := schema.ValidateTabID(req.TabID); err != nil {
		return schema.EditTabResponse{}, err
	}
	log := logx.WithTab(ctx, req.TabID)
	s.mu.Lock()
	t := s.tabs.byID(string(req.TabID))
	if t == nil {
		s.mu.Unlock()
		return schema.EditTabResponse{}, schema.ErrTabNotFound
	}
	if t.State == schema.TabStateClosing {
		s.mu.Unlock()
		return schema.EditTabResponse{}, schema.ErrTabBusy
	}
	setter, ok := t.editor.(ContentSetter)
	if !ok {
		s.mu.Unlock()
		return schema.EditTabResponse{}, fmt.Errorf("%w: tab editor is read-only", schema.ErrInvalidRequest)
	}
	// Held across SetContents so a concurrent close cannot release the editor.
	if err := setter.SetContents(req.Contents); err != nil {
		s.mu.Unlock()
		return schema.EditTabResponse{}, err
	}
	t.setDirty(true)
	snapshot := t.Snapshot(t == s.tabs.active)
	s.mu.Unlock()
	log.Info("service tab edited", "bytes", len(req.Contents), "state", snapshot.State)
	return schema.EditTabResponse{Tab: snapshot}, nil
}

func (s *service) SetLayout(ctx context.Context, req schema.SetLayoutRequest) (schema.SetLayoutResponse, error) {
	if ctx == nil {
		return schema.SetLayoutResponse{}, errors.New("missing context")
	}
	s.mu.Lock()
	s.layout = req.Layout.Clone()
	s.mu.Unlock()
	s.persistWorkspace(ctx, pslog.Ctx(ctx))
	return schema.SetLayoutResponse{}, nil
}

// activateLocked flips the active pointer and queues a tab-changed event.
// record pushes the activation onto the history. Returns false when t was already active.
func (s *service) activateLocked(t *tab, record bool) bool {
	if t != nil && record {
		s.history.push(t)
	}
	prev := s.tabs.active
	if prev == t {
		return false
	}
	s.tabs.active = t
	s.generation++
	event := schema.TabChangedEvent{}
	if t != nil {
		event.Tab = t.Snapshot(true)
	}
	if prev != nil {
		previous := prev.Snapshot(false)
		event.Previous = &previous
	}
	s.outbox = append(s.outbox, pendingEvent{changed: &event})
	return true
}

// deliver drains queued events to the sink in the order they were queued.
// A call made while another goroutine (or a re-entrant sink handler) is
// delivering leaves its events to that deliverer.
func (s *service) deliver() {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.outbox) > 0 {
		batch := s.outbox
		s.outbox = nil
		s.mu.Unlock()
		for _, event := range batch {
			s.emit(event)
		}
		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

func (s *service) emit(event pendingEvent) {
	if s.sink == nil {
		return
	}
	switch {
	case event.changed != nil:
		s.sink.OnTabChanged(*event.changed)
	case event.shown != nil:
		s.sink.OnTabShown(*event.shown)
	}
}

func (s *service) workspaceSnapshotLocked() schema.WorkspaceSnapshot {
	files := make([]schema.WorkspaceFile, 0, s.tabs.len())
	active := -1
	for _, t := range s.tabs.tabs {
		if !t.File.HasPath() {
			continue
		}
		if t == s.tabs.active {
			active = len(files)
		}
		files = append(files, schema.WorkspaceFile{Name: t.File.Name, Path: t.File.Path})
	}
	return schema.WorkspaceSnapshot{
		Files:     files,
		ActiveTab: schema.IndexPtr(active),
		Layout:    s.layout.Clone(),
	}
}

// persistWorkspace saves the current workspace snapshot. Failures are logged, not returned.
func (s *service) persistWorkspace(ctx context.Context, log pslog.Logger) {
	if s.store == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	s.mu.Lock()
	snapshot := s.workspaceSnapshotLocked()
	s.mu.Unlock()
	if err := s.store.Save(ctx, snapshot); err != nil {
		if log != nil {
			log.Warn("service workspace persist failed", "err", err)
		}
		return
	}
	if log != nil {
		log.Trace("service workspace persisted", "files", len(snapshot.Files))
	}
}

func (s *service) releaseEditor(log pslog.Logger, editor Editor) {
	if editor == nil {
		return
	}
	if err := editor.Close(); err != nil && log != nil {
		log.Warn("service editor release failed", "err", err)
	}
}
