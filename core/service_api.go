package core

import (
	"context"

	"pkt.systems/docshell/schema"
)

// Service is the transport-agnostic API for managing document tabs in the shell.
type Service interface {
	CreateDiagram(ctx context.Context, req schema.CreateDiagramRequest) (schema.CreateDiagramResponse, error)
	OpenFiles(ctx context.Context, req schema.OpenFilesRequest) (schema.OpenFilesResponse, error)
	SelectTab(ctx context.Context, req schema.SelectTabRequest) (schema.SelectTabResponse, error)
	CloseTab(ctx context.Context, req schema.CloseTabRequest) (schema.CloseTabResponse, error)
	CloseTabs(ctx context.Context, req schema.CloseTabsRequest) (schema.CloseTabsResponse, error)
	SaveTab(ctx context.Context, req schema.SaveTabRequest) (schema.SaveTabResponse, error)
	ExportTab(ctx context.Context, req schema.ExportTabRequest) (schema.ExportTabResponse, error)
	Navigate(ctx context.Context, req schema.NavigateRequest) (schema.NavigateResponse, error)
	CycleTab(ctx context.Context, req schema.CycleTabRequest) (schema.CycleTabResponse, error)
	ReopenLastTab(ctx context.Context, req schema.ReopenLastTabRequest) (schema.ReopenLastTabResponse, error)
	HandleTabShown(ctx context.Context, req schema.TabShownRequest) (schema.TabShownResponse, error)
	ListTabs(ctx context.Context, req schema.ListTabsRequest) (schema.ListTabsResponse, error)
	SetTabDirty(ctx context.Context, req schema.SetTabDirtyRequest) (schema.SetTabDirtyResponse, error)
	EditTab(ctx context.Context, req schema.EditTabRequest) (schema.EditTabResponse, error)
	SetLayout(ctx context.Context, req schema.SetLayoutRequest) (schema.SetLayoutResponse, error)
	RestoreWorkspace(ctx context.Context, req schema.RestoreWorkspaceRequest) (schema.RestoreWorkspaceResponse, error)
	TriggerAction(ctx context.Context, req schema.TriggerActionRequest) (schema.TriggerActionResponse, error)
}
