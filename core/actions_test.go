package core

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/docshell/schema"
)

func trigger(t *testing.T, h *harness, req schema.TriggerActionRequest) schema.TriggerActionResponse {
	t.Helper()
	resp, err := h.svc.TriggerAction(context.Background(), req)
	if err != nil {
		t.Fatalf("trigger %s: %v", req.Action, err)
	}
	return resp
}

func TestTriggerActionUnknown(t *testing.T) {
	h := newHarness(t)
	if _, err := h.svc.TriggerAction(context.Background(), schema.TriggerActionRequest{Action: "zoom-in"}); !errors.Is(err, schema.ErrUnknownAction) {
		t.Fatalf("expected unknown action, got %v", err)
	}
}

func TestTriggerActionDefaultsToActiveTab(t *testing.T) {
	h := newHarness(t)
	tabs := h.open(t, "/work/a.bpmn", "/work/b.bpmn")
	resp := trigger(t, h, schema.TriggerActionRequest{Action: schema.ActionCloseTab})
	if resp.Tab == nil || resp.Tab.ID != tabs[0].ID {
		t.Fatalf("expected a left active, got %+v", resp.Tab)
	}
	if got := joined(h.order(t)); got != "a.bpmn" {
		t.Fatalf("unexpected tabs %s", got)
	}

	h.dialog.saveAs = []schema.SaveAsResult{{Path: "/work/a2.bpmn"}}
	resp = trigger(t, h, schema.TriggerActionRequest{Action: schema.ActionSaveAs})
	if resp.Tab == nil || resp.Tab.File.Path != "/work/a2.bpmn" || !h.fs.writes[0].opts.SaveAs {
		t.Fatalf("unexpected save-as result %+v", resp.Tab)
	}
}

func TestTriggerActionLifecycle(t *testing.T) {
	h := newHarness(t)
	resp := trigger(t, h, schema.TriggerActionRequest{Action: schema.ActionCreateDiagram, Type: schema.DocumentCMMN})
	if resp.Tab == nil || resp.Tab.Type != schema.DocumentCMMN {
		t.Fatalf("expected cmmn diagram, got %+v", resp.Tab)
	}
	tabs := h.open(t, "/work/a.bpmn")

	resp = trigger(t, h, schema.TriggerActionRequest{Action: schema.ActionSelectTab})
	if resp.Tab == nil || resp.Tab.ID == tabs[0].ID {
		t.Fatalf("expected select-tab to move on, got %+v", resp.Tab)
	}
	resp = trigger(t, h, schema.TriggerActionRequest{Action: schema.ActionNavigateBack})
	if resp.Tab == nil || resp.Tab.ID != tabs[0].ID {
		t.Fatalf("expected navigate-back to a, got %+v", resp.Tab)
	}
	trigger(t, h, schema.TriggerActionRequest{Action: schema.ActionNavigateForward})

	h.dialog.choices = []schema.SaveChoice{schema.SaveChoiceDiscard}
	resp = trigger(t, h, schema.TriggerActionRequest{Action: schema.ActionCloseAllTabs})
	if resp.Tab != nil || len(h.list(t).Tabs) != 0 {
		t.Fatalf("expected empty shell, got %+v", resp.Tab)
	}
	resp = trigger(t, h, schema.TriggerActionRequest{Action: schema.ActionReopenLastTab})
	if resp.Tab == nil || resp.Tab.File.Path != "/work/a.bpmn" {
		t.Fatalf("expected a reopened, got %+v", resp.Tab)
	}
}

func TestTriggerActionWithoutActiveTab(t *testing.T) {
	h := newHarness(t)
	if _, err := h.svc.TriggerAction(context.Background(), schema.TriggerActionRequest{Action: schema.ActionSave}); !errors.Is(err, schema.ErrTabNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	for _, action := range schema.Actions() {
		if action == "" {
			t.Fatalf("empty action name")
		}
	}
}
