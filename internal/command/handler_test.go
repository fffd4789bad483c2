package command

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"pkt.systems/docshell/core"
	"pkt.systems/docshell/internal/dialog"
	"pkt.systems/docshell/internal/provider"
	"pkt.systems/docshell/schema"
)

type memFS struct {
	mu     sync.Mutex
	writes map[string][]byte
}

func (m *memFS) WriteFile(_ context.Context, req schema.WriteRequest, _ schema.WriteOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writes == nil {
		m.writes = make(map[string][]byte)
	}
	m.writes[req.Path] = append([]byte(nil), req.Contents...)
	return nil
}

func (m *memFS) ReadFile(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.writes[path]
	if !ok {
		return nil, errors.New("not found: " + path)
	}
	return data, nil
}

type fixture struct {
	handler *Handler
	service core.Service
	dialog  *dialog.Scripted
	fs      *memFS
	out     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := &memFS{writes: map[string][]byte{
		"/work/a.bpmn": []byte("<a/>"),
		"/work/b.dmn":  []byte("<b/>"),
	}}
	d := dialog.NewScripted()
	svc, err := core.NewService(schema.ServiceConfig{}, core.ServiceDeps{
		Provider:   provider.New(fs),
		Dialog:     d,
		FileSystem: fs,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	out := &bytes.Buffer{}
	return &fixture{handler: NewHandler(svc, out, HandlerConfig{Files: fs}), service: svc, dialog: d, fs: fs, out: out}
}

func (f *fixture) run(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if _, err := f.handler.Handle(context.Background(), line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
}

func (f *fixture) tabs(t *testing.T) schema.ListTabsResponse {
	t.Helper()
	resp, err := f.service.ListTabs(context.Background(), schema.ListTabsRequest{})
	if err != nil {
		t.Fatalf("list tabs: %v", err)
	}
	return resp
}

func TestParse(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
		name  string
		args  int
	}{
		{input: "", ok: false},
		{input: "  # comment", ok: false},
		{input: "open a.bpmn b.dmn", ok: true, name: "open", args: 2},
		{input: "/NEW dmn", ok: true, name: "new", args: 1},
		{input: "list", ok: true, name: "list", args: 0},
	}
	for _, tc := range cases {
		cmd, ok := Parse(tc.input)
		if ok != tc.ok {
			t.Fatalf("%q: expected ok=%v", tc.input, tc.ok)
		}
		if !ok {
			continue
		}
		if cmd.Name != tc.name || len(cmd.Args) != tc.args {
			t.Fatalf("%q: unexpected command %+v", tc.input, cmd)
		}
	}
	if cmd, _ := Parse("open  a.bpmn   b.dmn"); cmd.Remainder != "a.bpmn   b.dmn" {
		t.Fatalf("unexpected remainder %q", cmd.Remainder)
	}
}

func TestHandleOpenSelectAndList(t *testing.T) {
	f := newFixture(t)
	f.run(t, "open /work/a.bpmn /work/b.dmn", "select 1", "list")
	resp := f.tabs(t)
	if len(resp.Tabs) != 2 {
		t.Fatalf("expected two tabs, got %d", len(resp.Tabs))
	}
	if resp.ActiveTab != resp.Tabs[0].ID {
		t.Fatalf("expected first tab active")
	}
	out := f.out.String()
	if !strings.Contains(out, "* 1. ") || !strings.Contains(out, "b.dmn (/work/b.dmn)") {
		t.Fatalf("unexpected list output %q", out)
	}
	f.run(t, "select b.dmn")
	if f.tabs(t).ActiveTab != resp.Tabs[1].ID {
		t.Fatalf("expected select by name to activate b.dmn")
	}
}

func TestHandleNewSaveAndClose(t *testing.T) {
	f := newFixture(t)
	f.dialog.QueueSaveAs(schema.SaveAsResult{Name: "x.bpmn", Path: "/work/x.bpmn"})
	f.run(t, "new", "dirty", "save")
	if _, ok := f.fs.writes["/work/x.bpmn"]; !ok {
		t.Fatalf("expected save to write /work/x.bpmn")
	}
	tab := f.tabs(t).Tabs[0]
	if tab.Dirty || tab.File.Path != "/work/x.bpmn" {
		t.Fatalf("unexpected tab after save %+v", tab)
	}
	f.run(t, "close", "reopen")
	resp := f.tabs(t)
	if len(resp.Tabs) != 1 || resp.Tabs[0].File.Path != "/work/x.bpmn" {
		t.Fatalf("expected reopened x.bpmn, got %+v", resp.Tabs)
	}
}

func TestHandleEditThenSave(t *testing.T) {
	f := newFixture(t)
	f.fs.writes["/drafts/a2.bpmn"] = []byte("<a revision=\"2\"/>")
	f.run(t, "open /work/a.bpmn", "edit a.bpmn /drafts/a2.bpmn")
	if tab := f.tabs(t).Tabs[0]; !tab.Dirty || tab.State != schema.TabStateDirty {
		t.Fatalf("expected edit to dirty the tab, got %+v", tab)
	}
	f.run(t, "save")
	if got := string(f.fs.writes["/work/a.bpmn"]); got != `<a revision="2"/>` {
		t.Fatalf("expected edited document saved, got %q", got)
	}
	if f.tabs(t).Tabs[0].Dirty {
		t.Fatalf("expected save to clear dirty")
	}

	ctx := context.Background()
	if _, err := f.handler.Handle(ctx, "edit a.bpmn /drafts/missing.bpmn"); err == nil || !strings.Contains(err.Error(), "read /drafts/missing.bpmn") {
		t.Fatalf("expected read failure, got %v", err)
	}
	if _, err := f.handler.Handle(ctx, "edit a.bpmn"); err == nil || !strings.Contains(err.Error(), "usage: edit") {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestHandleCloseCancelledKeepsTab(t *testing.T) {
	f := newFixture(t)
	f.run(t, "new dmn", "dirty", "close")
	if len(f.tabs(t).Tabs) != 1 {
		t.Fatalf("expected cancelled close to keep the tab")
	}
	if !strings.Contains(f.out.String(), "kept ") {
		t.Fatalf("expected kept output, got %q", f.out.String())
	}
}

func TestHandleActions(t *testing.T) {
	f := newFixture(t)
	f.run(t, "create-diagram cmmn", "create-diagram", "select-tab -1")
	resp := f.tabs(t)
	if len(resp.Tabs) != 2 || resp.Tabs[0].Type != schema.DocumentCMMN {
		t.Fatalf("unexpected tabs %+v", resp.Tabs)
	}
	if resp.ActiveTab != resp.Tabs[0].ID {
		t.Fatalf("expected select-tab -1 to activate the first tab")
	}
	f.run(t, "navigate-back")
	if f.tabs(t).ActiveTab != resp.Tabs[1].ID {
		t.Fatalf("expected navigate-back to return to the second tab")
	}
	f.dialog.QueueSave(schema.SaveChoiceDiscard, schema.SaveChoiceDiscard)
	f.run(t, "close-all-tabs")
	if len(f.tabs(t).Tabs) != 0 {
		t.Fatalf("expected close-all-tabs to close discarded tabs")
	}
	if asked := f.dialog.Asked(); len(asked) != 2 || asked[0].Kind != "save" {
		t.Fatalf("expected a save prompt per unsaved tab, got %+v", asked)
	}
}

func TestHandleErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	handled, err := f.handler.Handle(ctx, "# nothing")
	if handled || err != nil {
		t.Fatalf("expected comment to be ignored")
	}
	if _, err := f.handler.Handle(ctx, "bogus"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if _, err := f.handler.Handle(ctx, "select nope"); !errors.Is(err, schema.ErrTabNotFound) {
		t.Fatalf("expected tab not found, got %v", err)
	}
	if _, err := f.handler.Handle(ctx, "close"); err == nil {
		t.Fatalf("expected close without tabs to fail")
	}
	if _, err := f.handler.Handle(ctx, "reopen"); !errors.Is(err, schema.ErrNoLastTab) {
		t.Fatalf("expected no last tab, got %v", err)
	}
	if _, err := f.handler.Handle(ctx, "back"); !errors.Is(err, schema.ErrNoHistoryAvailable) {
		t.Fatalf("expected no history, got %v", err)
	}
}
