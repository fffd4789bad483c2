package schema

// Tab lifecycle.

// CreateDiagramRequest asks for a blank document. Empty Type uses the configured default.
type CreateDiagramRequest struct {
	Type DocumentType
}

// CreateDiagramResponse reports the created tab.
type CreateDiagramResponse struct {
	Tab TabSnapshot
}

// OpenFilesRequest describes files to open.
type OpenFilesRequest struct {
	Files []FileDescriptor
}

// OpenFilesResponse reports the tabs for every requested file, in input order.
type OpenFilesResponse struct {
	Tabs []TabSnapshot
}

// SelectTabRequest describes a request to activate a tab.
type SelectTabRequest struct {
	TabID TabID
}

// SelectTabResponse reports the activated tab.
type SelectTabResponse struct {
	Tab TabSnapshot
}

// CloseTabRequest describes a request to close a tab.
type CloseTabRequest struct {
	TabID TabID
}

// CloseTabResponse reports the outcome of a close. Closed is false when the user cancelled.
type CloseTabResponse struct {
	Tab    TabSnapshot
	Closed bool
}

// CloseTabsRequest closes every tab Match accepts. A nil Match closes all tabs.
type CloseTabsRequest struct {
	Match func(TabSnapshot) bool
}

// CloseTabsResponse reports which tabs closed and which survived a cancel.
type CloseTabsResponse struct {
	Closed []TabSnapshot
	Kept   []TabSnapshot
}

// ReopenLastTabRequest asks to reopen the most recently closed file.
type ReopenLastTabRequest struct{}

// ReopenLastTabResponse reports the reopened tab.
type ReopenLastTabResponse struct {
	Tab TabSnapshot
}

// Saving and exporting.

// SaveTabRequest describes a save. SaveAs forces the save-location prompt.
type SaveTabRequest struct {
	TabID  TabID
	SaveAs bool
}

// SaveTabResponse reports the saved tab. Saved is false when the user cancelled.
type SaveTabResponse struct {
	Tab   TabSnapshot
	Saved bool
}

// ExportTabRequest describes an export.
type ExportTabRequest struct {
	TabID TabID
}

// ExportTabResponse reports the export target. Exported is false when the user cancelled.
type ExportTabResponse struct {
	Tab      TabSnapshot
	Target   ExportAsResult
	Exported bool
}

// Navigation.

// NavigateRequest moves through the activation history; negative is back.
type NavigateRequest struct {
	Delta int
}

// NavigateResponse reports the tab navigated to.
type NavigateResponse struct {
	Tab TabSnapshot
}

// CycleTabRequest selects the tab Delta positions away in tab order, wrapping around.
type CycleTabRequest struct {
	Delta int
}

// CycleTabResponse reports the selected tab.
type CycleTabResponse struct {
	Tab TabSnapshot
}

// TabShownRequest reports that the GUI finished showing a tab.
type TabShownRequest struct {
	TabID TabID
}

// TabShownResponse reports whether a tab-shown event was (or will be) emitted.
type TabShownResponse struct {
	Emitted bool
}

// State.

// ListTabsRequest describes a request to list tabs.
type ListTabsRequest struct{}

// ListTabsResponse reports tabs in order and the active tab id (empty when none).
type ListTabsResponse struct {
	Tabs      []TabSnapshot
	ActiveTab TabID
	Layout    Layout
}

// SetTabDirtyRequest records an editor edit (Dirty) or a return to the saved state.
type SetTabDirtyRequest struct {
	TabID TabID
	Dirty bool
}

// SetTabDirtyResponse reports the updated tab.
type SetTabDirtyResponse struct {
	Tab TabSnapshot
}

// EditTabRequest replaces the document held by a tab.
type EditTabRequest struct {
	TabID    TabID
	Contents []byte
}

// EditTabResponse reports the edited tab, now dirty.
type EditTabResponse struct {
	Tab TabSnapshot
}

// SetLayoutRequest replaces the persisted layout blob.
type SetLayoutRequest struct {
	Layout Layout
}

// SetLayoutResponse is empty.
type SetLayoutResponse struct{}

// RestoreWorkspaceRequest seeds the shell from the persisted workspace.
type RestoreWorkspaceRequest struct{}

// RestoreWorkspaceResponse reports restored tabs and files that could not be reopened.
type RestoreWorkspaceResponse struct {
	Tabs    []TabSnapshot
	Skipped []FileDescriptor
}

// Actions.

// TriggerActionRequest invokes a named action. TabID defaults to the active tab.
// Delta is used by select-tab.
type TriggerActionRequest struct {
	Action ActionName
	TabID  TabID
	Type   DocumentType
	Delta  int
}

// TriggerActionResponse reports the tab the action ended on, if any.
type TriggerActionResponse struct {
	Tab *TabSnapshot
}
