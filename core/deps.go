package core

import "pkt.systems/pslog"

// ServiceDeps captures the collaborators of the core service.
// Provider, Dialog, and FileSystem are required; Workspace and EventSink are optional.
type ServiceDeps struct {
	Provider   TabProvider
	Dialog     Dialog
	FileSystem FileSystem
	Workspace  WorkspaceStore
	EventSink  EventSink
	Logger     pslog.Logger
}
