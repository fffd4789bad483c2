package core

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/docshell/schema"
)

func TestWorkspacePersistedAfterStructuralChanges(t *testing.T) {
	h := newHarness(t)
	h.open(t, "/work/a.bpmn", "/work/b.bpmn")
	snapshot := h.workspace.last(t)
	if len(snapshot.Files) != 2 || snapshot.ActiveIndex() != 1 {
		t.Fatalf("unexpected workspace %+v", snapshot)
	}

	h.create(t)
	snapshot = h.workspace.last(t)
	if len(snapshot.Files) != 2 || snapshot.ActiveTab != nil {
		t.Fatalf("expected unsaved active tab to clear the index, got %+v", snapshot)
	}

	if _, err := h.svc.SetLayout(context.Background(), schema.SetLayoutRequest{Layout: schema.Layout{"sidebar": "open"}}); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	if got := h.workspace.last(t).Layout["sidebar"]; got != "open" {
		t.Fatalf("expected layout persisted, got %v", got)
	}
	if got := h.list(t).Layout["sidebar"]; got != "open" {
		t.Fatalf("expected layout listed, got %v", got)
	}
}

func TestInPlaceSavePersistsWorkspace(t *testing.T) {
	h := newHarness(t)
	tabs := h.open(t, "/work/1.bpmn", "/work/2.bpmn")
	if _, err := h.svc.SetLayout(context.Background(), schema.SetLayoutRequest{Layout: schema.Layout{"minimap": true}}); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	h.workspace.mu.Lock()
	before := len(h.workspace.saved)
	h.workspace.mu.Unlock()

	resp, err := h.svc.SaveTab(context.Background(), schema.SaveTabRequest{TabID: tabs[0].ID})
	if err != nil || !resp.Saved {
		t.Fatalf("save: %+v %v", resp, err)
	}
	h.workspace.mu.Lock()
	after := len(h.workspace.saved)
	h.workspace.mu.Unlock()
	if after != before+1 {
		t.Fatalf("expected one workspace save, before=%d after=%d", before, after)
	}
	snapshot := h.workspace.last(t)
	if snapshot.ActiveIndex() != 1 {
		t.Fatalf("expected active index 1, got %d", snapshot.ActiveIndex())
	}
	want := []schema.WorkspaceFile{{Name: "1.bpmn", Path: "/work/1.bpmn"}, {Name: "2.bpmn", Path: "/work/2.bpmn"}}
	if len(snapshot.Files) != len(want) {
		t.Fatalf("unexpected files %+v", snapshot.Files)
	}
	for i := range want {
		if snapshot.Files[i] != want[i] {
			t.Fatalf("file %d: expected %+v, got %+v", i, want[i], snapshot.Files[i])
		}
	}
	if snapshot.Layout["minimap"] != true {
		t.Fatalf("expected layout in snapshot, got %+v", snapshot.Layout)
	}
}

func TestRestoreWorkspace(t *testing.T) {
	h := newHarness(t)
	h.workspace.restore = &schema.WorkspaceSnapshot{
		Files: []schema.WorkspaceFile{
			{Name: "a.bpmn", Path: "/work/a.bpmn"},
			{Name: "b.dmn", Path: "/work/b.dmn"},
			{Name: "c.bpmn", Path: "/work/c.bpmn"},
		},
		ActiveTab: schema.IndexPtr(1),
		Layout:    schema.Layout{"properties": true},
	}
	h.provider.fail["/work/c.bpmn"] = errBoom

	resp, err := h.svc.RestoreWorkspace(context.Background(), schema.RestoreWorkspaceRequest{})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(resp.Tabs) != 2 || len(resp.Skipped) != 1 || resp.Skipped[0].Path != "/work/c.bpmn" {
		t.Fatalf("unexpected restore response %+v", resp)
	}
	list := h.list(t)
	if list.ActiveTab != resp.Tabs[1].ID {
		t.Fatalf("expected b active")
	}
	if list.Layout["properties"] != true {
		t.Fatalf("expected layout adopted, got %+v", list.Layout)
	}
	if _, err := h.svc.Navigate(context.Background(), schema.NavigateRequest{Delta: -1}); !errors.Is(err, schema.ErrNoHistoryAvailable) {
		t.Fatalf("expected history to start at the restored tab, got %v", err)
	}

	if _, err := h.svc.RestoreWorkspace(context.Background(), schema.RestoreWorkspaceRequest{}); !errors.Is(err, schema.ErrInvalidRequest) {
		t.Fatalf("expected restore into a populated shell to fail, got %v", err)
	}
}

func TestRestoreWorkspaceFallsBackToLastTab(t *testing.T) {
	h := newHarness(t)
	h.workspace.restore = &schema.WorkspaceSnapshot{
		Files: []schema.WorkspaceFile{
			{Name: "a.bpmn", Path: "/work/a.bpmn"},
			{Name: "b.bpmn", Path: "/work/b.bpmn"},
		},
	}
	resp, err := h.svc.RestoreWorkspace(context.Background(), schema.RestoreWorkspaceRequest{})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if h.active(t) != resp.Tabs[1].ID {
		t.Fatalf("expected last restored tab active")
	}
}

func TestRestoreWorkspaceWithoutSnapshot(t *testing.T) {
	h := newHarness(t)
	resp, err := h.svc.RestoreWorkspace(context.Background(), schema.RestoreWorkspaceRequest{})
	if err != nil || len(resp.Tabs) != 0 {
		t.Fatalf("expected empty restore, got %+v (err %v)", resp, err)
	}
	if h.workspace.restored != 1 {
		t.Fatalf("expected a single restore call")
	}
}
