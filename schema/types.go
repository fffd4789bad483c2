package schema

// TabID identifies an open document tab for the lifetime of the process.
type TabID string

// DocumentType tags the kind of document a tab holds.
type DocumentType string

const (
	// DocumentBPMN is a BPMN process diagram.
	DocumentBPMN DocumentType = "bpmn"
	// DocumentDMN is a DMN decision table or diagram.
	DocumentDMN DocumentType = "dmn"
	// DocumentCMMN is a CMMN case diagram.
	DocumentCMMN DocumentType = "cmmn"
)

// TabState is the lifecycle state of a tab.
type TabState string

const (
	// TabStateNew is a tab that has never been saved and has no edits.
	TabStateNew TabState = "new"
	// TabStateClean is a tab whose content matches what was last loaded or saved.
	TabStateClean TabState = "clean"
	// TabStateDirty is a tab with unsaved edits.
	TabStateDirty TabState = "dirty"
	// TabStateClosing is a tab with a close request awaiting confirmation.
	TabStateClosing TabState = "closing"
	// TabStateClosed is a tab that has been removed from the shell.
	TabStateClosed TabState = "closed"
)

// FileDescriptor identifies a document on disk. Path is empty for documents
// that were never saved.
type FileDescriptor struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path" yaml:"path"`
	Contents []byte `json:"-" yaml:"-"`
}

// HasPath reports whether the descriptor points at a file on disk.
func (f FileDescriptor) HasPath() bool {
	return f.Path != ""
}

// Identity returns the descriptor without contents.
func (f FileDescriptor) Identity() FileDescriptor {
	return FileDescriptor{Name: f.Name, Path: f.Path}
}

// Layout is an opaque UI layout blob. The core round-trips it unchanged.
type Layout map[string]any

// Clone returns a shallow copy of the layout.
func (l Layout) Clone() Layout {
	out := make(Layout, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}
