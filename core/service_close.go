package core

import (
	"context"
	"errors"

	"pkt.systems/docshell/internal/logx"
	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

func (s *service) CloseTab(ctx context.Context, req schema.CloseTabRequest) (schema.CloseTabResponse, error) {
	if ctx == nil {
		return schema.CloseTabResponse{}, errors.New("missing context")
	}
	if err := schema.ValidateTabID(req.TabID); err != nil {
		return schema.CloseTabResponse{}, err
	}
	baseLog := logx.WithTab(ctx, req.TabID)
	ctx = logx.ContextWithTabLogger(ctx, baseLog, req.TabID)
	log := baseLog

	s.mu.Lock()
	t := s.tabs.byID(string(req.TabID))
	if t == nil {
		s.mu.Unlock()
		return schema.CloseTabResponse{}, schema.ErrTabNotFound
	}
	if !t.beginClose() {
		s.mu.Unlock()
		log.Debug("service tab close rejected", "state", t.State)
		return schema.CloseTabResponse{}, schema.ErrTabBusy
	}
	confirm := t.needsConfirmation()
	snapshot := t.Snapshot(t == s.tabs.active)
	s.mu.Unlock()

	if confirm {
		choice, err := s.dialog.AskSave(ctx, snapshot)
		if err != nil {
			s.abortClose(t)
			log.Warn("service tab close prompt failed", "err", err)
			return schema.CloseTabResponse{}, err
		}
		switch choice {
		case schema.SaveChoiceSave:
			saved, err := s.saveTab(ctx, t, false)
			if err != nil {
				s.abortClose(t)
				log.Warn("service tab close save failed", "err", err)
				return schema.CloseTabResponse{}, err
			}
			if !saved {
				return s.cancelClose(log, t), nil
			}
		case schema.SaveChoiceDiscard:
			log.Debug("service tab changes discarded")
		default:
			return s.cancelClose(log, t), nil
		}
	}

	s.mu.Lock()
	idx := s.tabs.remove(t)
	s.history.pruneClosed(t)
	s.closed.push(t.File)
	editor := t.finishClose()
	if s.tabs.active == t || !s.cfg.PreserveActiveOnClose {
		s.activateSuccessorLocked(s.tabs.successor(idx))
	}
	closed := t.Snapshot(false)
	s.mu.Unlock()

	s.releaseEditor(log, editor)
	s.deliver()
	s.persistWorkspace(ctx, log)
	logx.WithFile(log, closed.File).Info("service tab closed")
	return schema.CloseTabResponse{Tab: closed, Closed: true}, nil
}

// activateSuccessorLocked moves activation to next after a close. next is nil
// when the shell became empty; the queued event then carries an empty Tab.
func (s *service) activateSuccessorLocked(next *tab) {
	if next != nil {
		s.activateLocked(next, true)
		return
	}
	prev := s.tabs.active
	if prev == nil {
		return
	}
	s.tabs.active = nil
	s.generation++
	previous := prev.Snapshot(false)
	s.outbox = append(s.outbox, pendingEvent{changed: &schema.TabChangedEvent{Previous: &previous}})
}

func (s *service) abortClose(t *tab) {
	s.mu.Lock()
	t.cancelClose()
	s.mu.Unlock()
}

func (s *service) cancelClose(log pslog.Logger, t *tab) schema.CloseTabResponse {
	s.mu.Lock()
	t.cancelClose()
	snapshot := t.Snapshot(t == s.tabs.active)
	s.mu.Unlock()
	log.Info("service tab close cancelled")
	return schema.CloseTabResponse{Tab: snapshot}
}

func (s *service) CloseTabs(ctx context.Context, req schema.CloseTabsRequest) (schema.CloseTabsResponse, error) {
	if ctx == nil {
		return schema.CloseTabsResponse{}, errors.New("missing context")
	}
	log := pslog.Ctx(ctx)

	s.mu.Lock()
	var targets []schema.TabID
	for _, t := range s.tabs.tabs {
		if req.Match == nil || req.Match(t.Snapshot(t == s.tabs.active)) {
			targets = append(targets, t.ID)
		}
	}
	s.mu.Unlock()

	resp := schema.CloseTabsResponse{}
	var errs []error
	for _, id := range targets {
		closed, err := s.CloseTab(ctx, schema.CloseTabRequest{TabID: id})
		if err != nil {
			if errors.Is(err, schema.ErrTabNotFound) {
				continue
			}
			errs = append(errs, err)
			if closed.Tab.ID == "" {
				closed.Tab = s.snapshotByID(id)
			}
			resp.Kept = append(resp.Kept, closed.Tab)
			continue
		}
		if closed.Closed {
			resp.Closed = append(resp.Closed, closed.Tab)
			continue
		}
		resp.Kept = append(resp.Kept, closed.Tab)
	}
	log.Info("service tabs closed", "closed", len(resp.Closed), "kept", len(resp.Kept))
	return resp, errors.Join(errs...)
}

func (s *service) snapshotByID(id schema.TabID) schema.TabSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tabs.byID(string(id))
	if t == nil {
		return schema.TabSnapshot{ID: id}
	}
	return t.Snapshot(t == s.tabs.active)
}
