package schema

// TabChangedEvent is emitted the moment the active tab pointer flips.
// Previous is nil when the shell had no active tab before the change; Tab has an
// empty ID when the change left the shell without tabs.
type TabChangedEvent struct {
	Tab      TabSnapshot
	Previous *TabSnapshot
}

// TabShownEvent is emitted once the GUI layer reports an active tab as fully shown.
// For any activation it is delivered after the matching TabChangedEvent.
type TabShownEvent struct {
	Tab TabSnapshot
}
