package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"pkt.systems/docshell/internal/logx"
	"pkt.systems/docshell/schema"
)

func (s *service) SaveTab(ctx context.Context, req schema.SaveTabRequest) (schema.SaveTabResponse, error) {
	if ctx == nil {
		return schema.SaveTabResponse{}, errors.New("missing context")
	}
	if err := schema.ValidateTabID(req.TabID); err != nil {
		return schema.SaveTabResponse{}, err
	}
	log := logx.WithTab(ctx, req.TabID)
	ctx = logx.ContextWithTabLogger(ctx, log, req.TabID)

	s.mu.Lock()
	t := s.tabs.byID(string(req.TabID))
	if t == nil {
		s.mu.Unlock()
		return schema.SaveTabResponse{}, schema.ErrTabNotFound
	}
	if t.State == schema.TabStateClosing {
		s.mu.Unlock()
		return schema.SaveTabResponse{}, schema.ErrTabBusy
	}
	s.mu.Unlock()

	saved, err := s.saveTab(ctx, t, req.SaveAs)
	if err != nil {
		log.Warn("service tab save failed", "err", err)
		return schema.SaveTabResponse{Tab: s.snapshotByID(req.TabID)}, err
	}
	return schema.SaveTabResponse{Tab: s.snapshotByID(req.TabID), Saved: saved}, nil
}

// saveTab writes the tab contents, prompting for a location when the tab has no
// path or saveAs is set. It reports false when the user cancelled the prompt.
func (s *service) saveTab(ctx context.Context, t *tab, saveAs bool) (bool, error) {
	log := logx.WithTab(ctx, t.ID)

	s.mu.Lock()
	snapshot := t.Snapshot(t == s.tabs.active)
	file := t.File
	editor := t.editor
	s.mu.Unlock()

	promptForPath := saveAs || !file.HasPath()
	target := file
	if promptForPath {
		res, err := s.dialog.AskSaveAs(ctx, snapshot)
		if err != nil {
			return false, newSaveError(t, file.Path, err)
		}
		if res.Cancelled {
			log.Info("service tab save cancelled")
			return false, nil
		}
		if strings.TrimSpace(res.Path) == "" {
			return false, newSaveError(t, "", fmt.Errorf("%w: save path is required", schema.ErrInvalidRequest))
		}
		target = schema.FileDescriptor{Name: res.Name, Path: filepath.Clean(res.Path)}
		if target.Name == "" {
			target.Name = filepath.Base(target.Path)
		}
	}

	s.mu.Lock()
	other := s.tabs.findByPath(target.Path)
	s.mu.Unlock()
	if other != nil && other != t {
		return false, newSaveError(t, target.Path, schema.ErrPathInUse)
	}

	if editor == nil {
		return false, newSaveError(t, target.Path, errors.New("tab has no editor"))
	}
	contents, err := editor.Contents(ctx)
	if err != nil {
		return false, newSaveError(t, target.Path, err)
	}
	req := schema.WriteRequest{Name: target.Name, Path: target.Path, Contents: contents}
	if err := s.files.WriteFile(ctx, req, schema.WriteOptions{SaveAs: promptForPath}); err != nil {
		return false, newSaveError(t, target.Path, err)
	}

	s.mu.Lock()
	t.markSaved(target)
	s.mu.Unlock()

	s.persistWorkspace(ctx, log)
	logx.WithFile(log, target).Info("service tab saved", "bytes", len(contents), "save_as", promptForPath)
	return true, nil
}

func (s *service) ExportTab(ctx context.Context, req schema.ExportTabRequest) (schema.ExportTabResponse, error) {
	if ctx == nil {
		return schema.ExportTabResponse{}, errors.New("missing context")
	}
	if err := schema.ValidateTabID(req.TabID); err != nil {
		return schema.ExportTabResponse{}, err
	}
	log := logx.WithTab(ctx, req.TabID)
	ctx = logx.ContextWithTabLogger(ctx, log, req.TabID)

	s.mu.Lock()
	t := s.tabs.byID(string(req.TabID))
	if t == nil {
		s.mu.Unlock()
		return schema.ExportTabResponse{}, schema.ErrTabNotFound
	}
	if t.State == schema.TabStateClosing {
		s.mu.Unlock()
		return schema.ExportTabResponse{}, schema.ErrTabBusy
	}
	snapshot := t.Snapshot(t == s.tabs.active)
	editor := t.editor
	s.mu.Unlock()

	target, err := s.dialog.AskExportAs(ctx, snapshot)
	if err != nil {
		return schema.ExportTabResponse{Tab: snapshot}, newExportError(t, "", err)
	}
	if target.Cancelled {
		log.Info("service tab export cancelled")
		return schema.ExportTabResponse{Tab: snapshot, Target: target}, nil
	}
	if strings.TrimSpace(target.Path) == "" {
		return schema.ExportTabResponse{Tab: snapshot}, newExportError(t, "", fmt.Errorf("%w: export path is required", schema.ErrInvalidRequest))
	}
	target.Path = filepath.Clean(target.Path)
	if target.Name == "" {
		target.Name = filepath.Base(target.Path)
	}
	if target.FileType == "" {
		target.FileType = strings.ToLower(strings.TrimPrefix(filepath.Ext(target.Path), "."))
	}
	if target.FileType == "" {
		return schema.ExportTabResponse{Tab: snapshot}, newExportError(t, target.Path, schema.ErrUnsupportedExport)
	}
	if editor == nil {
		return schema.ExportTabResponse{Tab: snapshot}, newExportError(t, target.Path, errors.New("tab has no editor"))
	}

	contents, err := editor.Export(ctx, target.FileType)
	if err != nil {
		log.Warn("service tab export failed", "err", err)
		return schema.ExportTabResponse{Tab: snapshot}, newExportError(t, target.Path, err)
	}
	write := schema.WriteRequest{Name: target.Name, Path: target.Path, Contents: contents, FileType: target.FileType}
	if err := s.files.WriteFile(ctx, write, schema.WriteOptions{}); err != nil {
		log.Warn("service tab export failed", "err", err)
		return schema.ExportTabResponse{Tab: snapshot}, newExportError(t, target.Path, err)
	}
	log.Info("service tab exported", "path", target.Path, "file_type", target.FileType, "bytes", len(contents))
	return schema.ExportTabResponse{Tab: snapshot, Target: target, Exported: true}, nil
}
