package schema

// SaveChoice is the user's answer to the unsaved-changes prompt.
type SaveChoice string

const (
	// SaveChoiceSave saves the tab before closing it.
	SaveChoiceSave SaveChoice = "save"
	// SaveChoiceDiscard closes the tab without saving.
	SaveChoiceDiscard SaveChoice = "discard"
	// SaveChoiceCancel aborts the close.
	SaveChoiceCancel SaveChoice = "cancel"
)

// SaveAsResult is the answer to the save-location prompt.
type SaveAsResult struct {
	Name      string
	Path      string
	Cancelled bool
}

// ExportAsResult is the answer to the export-location prompt.
type ExportAsResult struct {
	FileType  string
	Name      string
	Path      string
	Cancelled bool
}

// WriteRequest is the payload handed to the file system for a save or export.
type WriteRequest struct {
	Name     string
	Path     string
	Contents []byte
	// FileType is set for exports only.
	FileType string
}

// WriteOptions tunes a file system write.
type WriteOptions struct {
	SaveAs bool
}
