package core

import (
	"context"

	"pkt.systems/docshell/schema"
)

// Editor is the transient editing state owned by a tab. It is released when the tab closes.
type Editor interface {
	Contents(ctx context.Context) ([]byte, error)
	Export(ctx context.Context, fileType string) ([]byte, error)
	Close() error
}

// ContentSetter is implemented by editors whose document can be replaced.
type ContentSetter interface {
	SetContents(contents []byte) error
}

// TabSpec describes a tab materialized by a TabProvider.
// An empty ID is replaced with NewTabID.
type TabSpec struct {
	ID     schema.TabID
	File   schema.FileDescriptor
	Type   schema.DocumentType
	Editor Editor
}

// TabProvider creates tabs for new documents and for files.
type TabProvider interface {
	CreateTab(ctx context.Context, docType schema.DocumentType) (TabSpec, error)
	CreateTabForFile(ctx context.Context, file schema.FileDescriptor) (TabSpec, error)
}

// Dialog asks the user save and export questions. Cancellation is reported in the
// result, not as an error.
type Dialog interface {
	AskSave(ctx context.Context, tab schema.TabSnapshot) (schema.SaveChoice, error)
	AskSaveAs(ctx context.Context, tab schema.TabSnapshot) (schema.SaveAsResult, error)
	AskExportAs(ctx context.Context, tab schema.TabSnapshot) (schema.ExportAsResult, error)
}

// FileSystem persists saved and exported documents.
type FileSystem interface {
	WriteFile(ctx context.Context, req schema.WriteRequest, opts schema.WriteOptions) error
}

// WorkspaceStore persists and restores the workspace snapshot.
type WorkspaceStore interface {
	Save(ctx context.Context, snapshot schema.WorkspaceSnapshot) error
	Restore(ctx context.Context) (schema.WorkspaceSnapshot, bool, error)
}
