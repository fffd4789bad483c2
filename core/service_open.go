package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"pkt.systems/docshell/internal/logx"
	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

func (s *service) CreateDiagram(ctx context.Context, req schema.CreateDiagramRequest) (schema.CreateDiagramResponse, error) {
	if ctx == nil {
		return schema.CreateDiagramResponse{}, errors.New("missing context")
	}
	docType := s.cfg.DefaultType
	if strings.TrimSpace(string(req.Type)) != "" {
		normalized, err := schema.NormalizeDocumentType(string(req.Type))
		if err != nil {
			return schema.CreateDiagramResponse{}, err
		}
		docType = normalized
	}
	if !s.cfg.Supports(docType) {
		return schema.CreateDiagramResponse{}, fmt.Errorf("%w: %s", schema.ErrUnsupportedType, docType)
	}
	log := pslog.Ctx(ctx).With("type", docType)
	log.Info("service diagram create start")

	spec, err := s.provider.CreateTab(ctx, docType)
	if err != nil {
		log.Warn("service diagram create failed", "err", err)
		return schema.CreateDiagramResponse{}, newFileOpenError("create", schema.FileDescriptor{}, err)
	}
	if spec.Type == "" {
		spec.Type = docType
	}
	t := s.materialize(spec)

	s.mu.Lock()
	s.tabs.insertAfterActive(t)
	s.activateLocked(t, true)
	snapshot := t.Snapshot(true)
	s.mu.Unlock()

	s.deliver()
	s.persistWorkspace(ctx, log)
	logx.WithFile(log.With("tab", t.ID), t.File).Info("service diagram created")
	return schema.CreateDiagramResponse{Tab: snapshot}, nil
}

func (s *service) OpenFiles(ctx context.Context, req schema.OpenFilesRequest) (schema.OpenFilesResponse, error) {
	if ctx == nil {
		return schema.OpenFilesResponse{}, errors.New("missing context")
	}
	if len(req.Files) == 0 {
		return schema.OpenFilesResponse{}, fmt.Errorf("%w: no files to open", schema.ErrInvalidRequest)
	}
	log := pslog.Ctx(ctx)

	opened := make([]*tab, 0, len(req.Files))
	var openErr error
	for _, file := range req.Files {
		t, created, err := s.openFile(ctx, file)
		if err != nil {
			openErr = err
			break
		}
		opened = append(opened, t)
		if created {
			logx.WithFile(log.With("tab", t.ID), t.File).Info("service file opened")
		} else {
			logx.WithFile(log.With("tab", t.ID), t.File).Debug("service file already open")
		}
	}

	if len(opened) == 0 {
		log.Warn("service open files failed", "err", openErr)
		return schema.OpenFilesResponse{}, openErr
	}

	s.mu.Lock()
	last := opened[len(opened)-1]
	if s.tabs.contains(last) {
		s.activateLocked(last, true)
	}
	tabs := make([]schema.TabSnapshot, 0, len(opened))
	for _, t := range opened {
		tabs = append(tabs, t.Snapshot(t == s.tabs.active))
	}
	s.mu.Unlock()

	s.deliver()
	s.persistWorkspace(ctx, log)
	if openErr != nil {
		log.Warn("service open files partially failed", "opened", len(opened), "requested", len(req.Files), "err", openErr)
		return schema.OpenFilesResponse{Tabs: tabs}, openErr
	}
	return schema.OpenFilesResponse{Tabs: tabs}, nil
}

// openFile returns the tab holding file, creating it through the provider when the
// path is not open yet. The new tab is appended but not activated.
func (s *service) openFile(ctx context.Context, file schema.FileDescriptor) (*tab, bool, error) {
	if strings.TrimSpace(file.Path) == "" {
		return nil, false, newFileOpenError("open", file, fmt.Errorf("%w: file path is required", schema.ErrInvalidRequest))
	}
	file.Path = filepath.Clean(file.Path)
	if file.Name == "" {
		file.Name = filepath.Base(file.Path)
	}

	s.mu.Lock()
	existing := s.tabs.findByPath(file.Path)
	s.mu.Unlock()
	if existing != nil {
		return existing, false, nil
	}

	docType, err := schema.DocumentTypeForName(file.Name)
	if err == nil && !s.cfg.Supports(docType) {
		err = fmt.Errorf("%w: %s", schema.ErrUnsupportedType, docType)
	}
	if err != nil {
		return nil, false, newFileOpenError("open", file, err)
	}
	spec, err := s.provider.CreateTabForFile(ctx, file)
	if err != nil {
		return nil, false, newFileOpenError("open", file, err)
	}
	if spec.Type == "" {
		spec.Type = docType
	}
	if !spec.File.HasPath() {
		spec.File = file
	}
	spec.File.Path = filepath.Clean(spec.File.Path)
	t := s.materialize(spec)

	s.mu.Lock()
	// Another caller may have opened the same path while the provider was busy.
	if existing := s.tabs.findByPath(t.File.Path); existing != nil {
		s.mu.Unlock()
		s.releaseEditor(pslog.Ctx(ctx), t.editor)
		return existing, false, nil
	}
	s.tabs.insert(t, -1)
	s.mu.Unlock()
	return t, true, nil
}

func (s *service) ReopenLastTab(ctx context.Context, req schema.ReopenLastTabRequest) (schema.ReopenLastTabResponse, error) {
	if ctx == nil {
		return schema.ReopenLastTabResponse{}, errors.New("missing context")
	}
	log := pslog.Ctx(ctx)

	s.mu.Lock()
	file, ok := s.closed.pop()
	s.mu.Unlock()
	if !ok {
		log.Debug("service reopen skipped", "reason", "empty closed stack")
		return schema.ReopenLastTabResponse{}, schema.ErrNoLastTab
	}

	resp, err := s.OpenFiles(ctx, schema.OpenFilesRequest{Files: []schema.FileDescriptor{file}})
	if err != nil {
		s.mu.Lock()
		s.closed.push(file)
		s.mu.Unlock()
		logx.WithFile(log, file).Warn("service reopen failed", "err", err)
		return schema.ReopenLastTabResponse{}, err
	}
	tab := resp.Tabs[0]
	logx.WithFile(log.With("tab", tab.ID), tab.File).Info("service tab reopened")
	return schema.ReopenLastTabResponse{Tab: tab}, nil
}

func (s *service) RestoreWorkspace(ctx context.Context, req schema.RestoreWorkspaceRequest) (schema.RestoreWorkspaceResponse, error) {
	if ctx == nil {
		return schema.RestoreWorkspaceResponse{}, errors.New("missing context")
	}
	log := pslog.Ctx(ctx)
	if s.store == nil {
		log.Debug("service workspace restore skipped", "reason", "no store")
		return schema.RestoreWorkspaceResponse{}, nil
	}
	s.mu.Lock()
	empty := s.tabs.len() == 0
	s.mu.Unlock()
	if !empty {
		return schema.RestoreWorkspaceResponse{}, fmt.Errorf("%w: workspace restore requires an empty shell", schema.ErrInvalidRequest)
	}

	snapshot, ok, err := s.store.Restore(ctx)
	if err != nil {
		log.Warn("service workspace restore failed", "err", err)
		return schema.RestoreWorkspaceResponse{}, err
	}
	if !ok {
		log.Debug("service workspace restore skipped", "reason", "no snapshot")
		return schema.RestoreWorkspaceResponse{}, nil
	}

	var restored []*tab
	var skipped []schema.FileDescriptor
	activeIdx := snapshot.ActiveIndex()
	var activeTab *tab
	for i, file := range snapshot.Descriptors() {
		t, _, err := s.openFile(ctx, file)
		if err != nil {
			logx.WithFile(log, file).Warn("service workspace file skipped", "err", err)
			skipped = append(skipped, file)
			continue
		}
		restored = append(restored, t)
		if i == activeIdx {
			activeTab = t
		}
	}

	s.mu.Lock()
	if snapshot.Layout != nil {
		s.layout = snapshot.Layout.Clone()
	}
	if activeTab == nil && len(restored) > 0 {
		activeTab = restored[len(restored)-1]
	}
	s.history.reset()
	if activeTab != nil && s.tabs.contains(activeTab) {
		s.activateLocked(activeTab, true)
	}
	tabs := make([]schema.TabSnapshot, 0, len(restored))
	for _, t := range restored {
		tabs = append(tabs, t.Snapshot(t == s.tabs.active))
	}
	s.mu.Unlock()

	s.deliver()
	log.Info("service workspace restored", "tabs", len(tabs), "skipped", len(skipped))
	return schema.RestoreWorkspaceResponse{Tabs: tabs, Skipped: skipped}, nil
}

// materialize turns a provider spec into a tab, assigning a fresh id when needed.
func (s *service) materialize(spec TabSpec) *tab {
	if strings.TrimSpace(string(spec.ID)) == "" {
		spec.ID = NewTabID()
	}
	return newTab(spec)
}
