package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrTabNotFound indicates a requested tab is not open.
	ErrTabNotFound = errors.New("tab not found")
	// ErrTabBusy indicates a tab already has a pending close.
	ErrTabBusy = errors.New("tab is busy")
	// ErrNoHistoryAvailable indicates navigation past the history bounds.
	ErrNoHistoryAvailable = errors.New("no history available")
	// ErrNoLastTab indicates there is no closed tab to reopen.
	ErrNoLastTab = errors.New("no last tab")
	// ErrUnsupportedType indicates a document type the shell cannot open.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrUnsupportedExport indicates an export format the editor cannot produce.
	ErrUnsupportedExport = errors.New("unsupported export type")
	// ErrPathInUse indicates the target path is already open in another tab.
	ErrPathInUse = errors.New("path already open in another tab")
	// ErrUnknownAction indicates an action name the shell does not handle.
	ErrUnknownAction = errors.New("unknown action")

	// ErrFileOpen classifies failures to materialize a tab for a file.
	ErrFileOpen = errors.New("file open failed")
	// ErrSave classifies failures while saving a tab.
	ErrSave = errors.New("save failed")
	// ErrExport classifies failures while exporting a tab.
	ErrExport = errors.New("export failed")
)
