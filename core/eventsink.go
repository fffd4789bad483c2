package core

import "pkt.systems/docshell/schema"

// EventSink receives tab lifecycle events from the core service.
// Handlers may call back into the service; events are delivered without locks held.
type EventSink interface {
	OnTabChanged(event schema.TabChangedEvent)
	OnTabShown(event schema.TabShownEvent)
}
