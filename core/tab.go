package core

import (
	"pkt.systems/docshell/schema"
)

// tab tracks the state of a single open document.
type tab struct {
	ID    schema.TabID
	File  schema.FileDescriptor
	Type  schema.DocumentType
	Dirty bool
	State schema.TabState
	// resume is the state a cancelled close returns to.
	resume schema.TabState
	editor Editor
}

func newTab(spec TabSpec) *tab {
	state := schema.TabStateClean
	if !spec.File.HasPath() {
		state = schema.TabStateNew
	}
	return &tab{
		ID:     spec.ID,
		File:   spec.File.Identity(),
		Type:   spec.Type,
		State:  state,
		editor: spec.Editor,
	}
}

// Snapshot returns a transport-friendly view of the tab.
func (t *tab) Snapshot(active bool) schema.TabSnapshot {
	return schema.TabSnapshot{
		ID:     t.ID,
		File:   t.File,
		Type:   t.Type,
		Dirty:  t.Dirty,
		State:  t.State,
		Active: active,
	}
}

// needsConfirmation reports whether closing the tab could lose content.
func (t *tab) needsConfirmation() bool {
	return t.Dirty || !t.File.HasPath()
}

func (t *tab) setDirty(dirty bool) {
	t.Dirty = dirty
	next := schema.TabStateClean
	switch {
	case dirty:
		next = schema.TabStateDirty
	case !t.File.HasPath():
		next = schema.TabStateNew
	}
	if t.State == schema.TabStateClosing {
		t.resume = next
		return
	}
	t.State = next
}

func (t *tab) markSaved(file schema.FileDescriptor) {
	t.File = file.Identity()
	t.setDirty(false)
}

func (t *tab) beginClose() bool {
	if t.State == schema.TabStateClosing || t.State == schema.TabStateClosed {
		return false
	}
	t.resume = t.State
	t.State = schema.TabStateClosing
	return true
}

func (t *tab) cancelClose() {
	if t.State != schema.TabStateClosing {
		return
	}
	t.State = t.resume
	t.resume = ""
}

// finishClose marks the tab closed and hands back its editor for release.
func (t *tab) finishClose() Editor {
	t.State = schema.TabStateClosed
	t.resume = ""
	editor := t.editor
	t.editor = nil
	return editor
}
