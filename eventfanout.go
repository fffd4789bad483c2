package docshell

import (
	"pkt.systems/docshell/core"
	"pkt.systems/docshell/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnTabChanged(event schema.TabChangedEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnTabChanged(event)
	}
}

func (f eventFanout) OnTabShown(event schema.TabShownEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnTabShown(event)
	}
}
