package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"pkt.systems/docshell/schema"
)

type fakeEditor struct {
	contents  []byte
	exportErr error
	closed    bool
}

func (e *fakeEditor) Contents(context.Context) ([]byte, error) {
	return append([]byte(nil), e.contents...), nil
}

func (e *fakeEditor) Export(_ context.Context, fileType string) ([]byte, error) {
	if e.exportErr != nil {
		return nil, e.exportErr
	}
	return []byte(fileType + ":" + string(e.contents)), nil
}

func (e *fakeEditor) SetContents(contents []byte) error {
	if e.closed {
		return errors.New("editor closed")
	}
	e.contents = append([]byte(nil), contents...)
	return nil
}

func (e *fakeEditor) Close() error {
	e.closed = true
	return nil
}

// viewEditor exposes a document without accepting edits.
type viewEditor struct {
	contents []byte
}

func (e viewEditor) Contents(context.Context) ([]byte, error) { return e.contents, nil }

func (e viewEditor) Export(context.Context, string) ([]byte, error) { return e.contents, nil }

func (e viewEditor) Close() error { return nil }

type fakeProvider struct {
	mu      sync.Mutex
	created int
	fail    map[string]error
	editors map[string]*fakeEditor
	// views lists paths opened with a viewEditor.
	views map[string]bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{fail: map[string]error{}, editors: map[string]*fakeEditor{}, views: map[string]bool{}}
}

func (p *fakeProvider) CreateTab(_ context.Context, docType schema.DocumentType) (TabSpec, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created++
	name := fmt.Sprintf("diagram_%d.%s", p.created, docType)
	editor := &fakeEditor{contents: []byte("blank " + string(docType))}
	p.editors[name] = editor
	return TabSpec{File: schema.FileDescriptor{Name: name}, Type: docType, Editor: editor}, nil
}

func (p *fakeProvider) CreateTabForFile(_ context.Context, file schema.FileDescriptor) (TabSpec, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail[file.Path]; err != nil {
		return TabSpec{}, err
	}
	if p.views[file.Path] {
		return TabSpec{File: file, Editor: viewEditor{contents: []byte("view of " + file.Name)}}, nil
	}
	editor := &fakeEditor{contents: []byte("contents of " + file.Name)}
	p.editors[file.Path] = editor
	return TabSpec{File: file, Editor: editor}, nil
}

func (p *fakeProvider) editor(key string) *fakeEditor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.editors[key]
}

// fakeDialog answers prompts from queues; an empty queue answers cancel.
type fakeDialog struct {
	mu       sync.Mutex
	choices  []schema.SaveChoice
	saveAs   []schema.SaveAsResult
	exportAs []schema.ExportAsResult
	asked    []schema.TabID
	// onAskSave runs before an AskSave answer is returned.
	onAskSave func()
}

func (d *fakeDialog) AskSave(_ context.Context, tab schema.TabSnapshot) (schema.SaveChoice, error) {
	d.mu.Lock()
	d.asked = append(d.asked, tab.ID)
	hook := d.onAskSave
	choice := schema.SaveChoiceCancel
	if len(d.choices) > 0 {
		choice = d.choices[0]
		d.choices = d.choices[1:]
	}
	d.mu.Unlock()
	if hook != nil {
		hook()
	}
	return choice, nil
}

func (d *fakeDialog) AskSaveAs(_ context.Context, _ schema.TabSnapshot) (schema.SaveAsResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.saveAs) == 0 {
		return schema.SaveAsResult{Cancelled: true}, nil
	}
	res := d.saveAs[0]
	d.saveAs = d.saveAs[1:]
	return res, nil
}

func (d *fakeDialog) AskExportAs(_ context.Context, _ schema.TabSnapshot) (schema.ExportAsResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.exportAs) == 0 {
		return schema.ExportAsResult{Cancelled: true}, nil
	}
	res := d.exportAs[0]
	d.exportAs = d.exportAs[1:]
	return res, nil
}

type writeCall struct {
	req  schema.WriteRequest
	opts schema.WriteOptions
}

type fakeFS struct {
	mu     sync.Mutex
	writes []writeCall
	err    error
}

func (f *fakeFS) WriteFile(_ context.Context, req schema.WriteRequest, opts schema.WriteOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, writeCall{req: req, opts: opts})
	return nil
}

type memWorkspace struct {
	mu       sync.Mutex
	saved    []schema.WorkspaceSnapshot
	restore  *schema.WorkspaceSnapshot
	saveErr  error
	restored int
}

func (m *memWorkspace) Save(_ context.Context, snapshot schema.WorkspaceSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, snapshot)
	return nil
}

func (m *memWorkspace) Restore(context.Context) (schema.WorkspaceSnapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restored++
	if m.restore == nil {
		return schema.WorkspaceSnapshot{}, false, nil
	}
	return *m.restore, true, nil
}

func (m *memWorkspace) last(t *testing.T) schema.WorkspaceSnapshot {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		t.Fatalf("expected a persisted workspace")
	}
	return m.saved[len(m.saved)-1]
}

// recordingSink records events as "changed:<id>" and "shown:<id>".
type recordingSink struct {
	mu      sync.Mutex
	events  []string
	changed []schema.TabChangedEvent
	// onChanged runs synchronously inside OnTabChanged.
	onChanged func(schema.TabChangedEvent)
}

func (r *recordingSink) OnTabChanged(event schema.TabChangedEvent) {
	r.mu.Lock()
	r.events = append(r.events, "changed:"+string(event.Tab.ID))
	r.changed = append(r.changed, event)
	hook := r.onChanged
	r.mu.Unlock()
	if hook != nil {
		hook(event)
	}
}

func (r *recordingSink) OnTabShown(event schema.TabShownEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "shown:"+string(event.Tab.ID))
}

func (r *recordingSink) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type harness struct {
	svc       Service
	provider  *fakeProvider
	dialog    *fakeDialog
	fs        *fakeFS
	workspace *memWorkspace
	sink      *recordingSink
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithConfig(t, schema.ServiceConfig{})
}

func newHarnessWithConfig(t *testing.T, cfg schema.ServiceConfig) *harness {
	t.Helper()
	h := &harness{
		provider:  newFakeProvider(),
		dialog:    &fakeDialog{},
		fs:        &fakeFS{},
		workspace: &memWorkspace{},
		sink:      &recordingSink{},
	}
	svc, err := NewService(cfg, ServiceDeps{
		Provider:   h.provider,
		Dialog:     h.dialog,
		FileSystem: h.fs,
		Workspace:  h.workspace,
		EventSink:  h.sink,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	h.svc = svc
	return h
}

func (h *harness) create(t *testing.T) schema.TabSnapshot {
	t.Helper()
	resp, err := h.svc.CreateDiagram(context.Background(), schema.CreateDiagramRequest{})
	if err != nil {
		t.Fatalf("create diagram: %v", err)
	}
	return resp.Tab
}

func (h *harness) open(t *testing.T, paths ...string) []schema.TabSnapshot {
	t.Helper()
	resp, err := h.svc.OpenFiles(context.Background(), schema.OpenFilesRequest{Files: files(paths...)})
	if err != nil {
		t.Fatalf("open files: %v", err)
	}
	return resp.Tabs
}

func (h *harness) list(t *testing.T) schema.ListTabsResponse {
	t.Helper()
	resp, err := h.svc.ListTabs(context.Background(), schema.ListTabsRequest{})
	if err != nil {
		t.Fatalf("list tabs: %v", err)
	}
	return resp
}

func (h *harness) active(t *testing.T) schema.TabID {
	t.Helper()
	return h.list(t).ActiveTab
}

func (h *harness) order(t *testing.T) []string {
	t.Helper()
	var names []string
	for _, tab := range h.list(t).Tabs {
		names = append(names, tab.File.Name)
	}
	return names
}

func (h *harness) dirty(t *testing.T, id schema.TabID) {
	t.Helper()
	if _, err := h.svc.SetTabDirty(context.Background(), schema.SetTabDirtyRequest{TabID: id, Dirty: true}); err != nil {
		t.Fatalf("set dirty: %v", err)
	}
}

func files(paths ...string) []schema.FileDescriptor {
	out := make([]schema.FileDescriptor, 0, len(paths))
	for _, path := range paths {
		out = append(out, schema.FileDescriptor{Name: filepath.Base(path), Path: path})
	}
	return out
}

func joined(values []string) string {
	return strings.Join(values, ",")
}

var errBoom = errors.New("boom")
