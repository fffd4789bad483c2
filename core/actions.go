package core

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/docshell/internal/logx"
	"pkt.systems/docshell/schema"
)

func (s *service) TriggerAction(ctx context.Context, req schema.TriggerActionRequest) (schema.TriggerActionResponse, error) {
	if ctx == nil {
		return schema.TriggerActionResponse{}, errors.New("missing context")
	}
	log := logx.WithAction(ctx, req.Action)
	ctx = logx.ContextWithActionLogger(ctx, log, req.Action)
	log.Debug("service action triggered", "tab", req.TabID)

	switch req.Action {
	case schema.ActionCreateDiagram:
		resp, err := s.CreateDiagram(ctx, schema.CreateDiagramRequest{Type: req.Type})
		return actionResult(resp.Tab, err)
	case schema.ActionCloseAllTabs:
		_, err := s.CloseTabs(ctx, schema.CloseTabsRequest{})
		return s.activeResult(err)
	case schema.ActionReopenLastTab:
		resp, err := s.ReopenLastTab(ctx, schema.ReopenLastTabRequest{})
		return actionResult(resp.Tab, err)
	case schema.ActionSelectTab:
		delta := req.Delta
		if delta == 0 {
			delta = 1
		}
		resp, err := s.CycleTab(ctx, schema.CycleTabRequest{Delta: delta})
		return actionResult(resp.Tab, err)
	case schema.ActionNavigateBack:
		resp, err := s.Navigate(ctx, schema.NavigateRequest{Delta: -1})
		return actionResult(resp.Tab, err)
	case schema.ActionNavigateForward:
		resp, err := s.Navigate(ctx, schema.NavigateRequest{Delta: 1})
		return actionResult(resp.Tab, err)
	case schema.ActionSave, schema.ActionSaveAs, schema.ActionExportAs, schema.ActionCloseTab:
	default:
		return schema.TriggerActionResponse{}, fmt.Errorf("%w: %s", schema.ErrUnknownAction, req.Action)
	}

	tabID, err := s.targetTab(req.TabID)
	if err != nil {
		return schema.TriggerActionResponse{}, err
	}
	switch req.Action {
	case schema.ActionSave, schema.ActionSaveAs:
		resp, err := s.SaveTab(ctx, schema.SaveTabRequest{TabID: tabID, SaveAs: req.Action == schema.ActionSaveAs})
		return actionResult(resp.Tab, err)
	case schema.ActionExportAs:
		resp, err := s.ExportTab(ctx, schema.ExportTabRequest{TabID: tabID})
		return actionResult(resp.Tab, err)
	default:
		if _, err := s.CloseTab(ctx, schema.CloseTabRequest{TabID: tabID}); err != nil {
			return schema.TriggerActionResponse{}, err
		}
		return s.activeResult(nil)
	}
}

// targetTab resolves the tab an action applies to, defaulting to the active tab.
func (s *service) targetTab(id schema.TabID) (schema.TabID, error) {
	if id != "" {
		return id, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tabs.active == nil {
		return "", schema.ErrTabNotFound
	}
	return s.tabs.active.ID, nil
}

func (s *service) activeResult(err error) (schema.TriggerActionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tabs.active == nil {
		return schema.TriggerActionResponse{}, err
	}
	snapshot := s.tabs.active.Snapshot(true)
	return schema.TriggerActionResponse{Tab: &snapshot}, err
}

func actionResult(tab schema.TabSnapshot, err error) (schema.TriggerActionResponse, error) {
	if err != nil || tab.ID == "" {
		return schema.TriggerActionResponse{}, err
	}
	return schema.TriggerActionResponse{Tab: &tab}, nil
}
