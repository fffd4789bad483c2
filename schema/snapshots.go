package schema

// TabSnapshot is a read-only view of tab state for callers and event consumers.
type TabSnapshot struct {
	ID     TabID
	File   FileDescriptor
	Type   DocumentType
	Dirty  bool
	State  TabState
	Active bool
}

// WorkspaceFile is a persisted reference to an open, file-backed tab.
type WorkspaceFile struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// WorkspaceSnapshot is the persisted description of the open workspace.
// ActiveTab indexes Files and is nil when the active tab is unsaved or no tab is open.
type WorkspaceSnapshot struct {
	Files     []WorkspaceFile `json:"files" yaml:"files"`
	ActiveTab *int            `json:"active_tab,omitempty" yaml:"active_tab,omitempty"`
	Layout    Layout          `json:"layout" yaml:"layout"`
}

// ActiveIndex returns the active file index or -1.
func (w WorkspaceSnapshot) ActiveIndex() int {
	if w.ActiveTab == nil {
		return -1
	}
	return *w.ActiveTab
}

// Descriptors converts the persisted file list into file descriptors.
func (w WorkspaceSnapshot) Descriptors() []FileDescriptor {
	out := make([]FileDescriptor, 0, len(w.Files))
	for _, f := range w.Files {
		out = append(out, FileDescriptor{Name: f.Name, Path: f.Path})
	}
	return out
}

// IndexPtr returns a pointer to idx, or nil when idx is negative.
func IndexPtr(idx int) *int {
	if idx < 0 {
		return nil
	}
	return &idx
}
