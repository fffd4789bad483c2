package eventbus

import (
	"context"
	"sync"

	"pkt.systems/docshell/schema"
	"pkt.systems/pslog"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventTabChanged carries an active-tab change.
	EventTabChanged EventType = "tab-changed"
	// EventTabShown carries a tab-shown notification.
	EventTabShown EventType = "tab-shown"
)

// Event represents a UI-facing event emitted by the core service.
type Event struct {
	Type    EventType
	Changed schema.TabChangedEvent
	Shown   schema.TabShownEvent
}

// TabID returns the tab the event refers to.
func (e Event) TabID() schema.TabID {
	if e.Type == EventTabShown {
		return e.Shown.Tab.ID
	}
	return e.Changed.Tab.ID
}

type subscriber struct {
	ch     chan Event
	types  map[EventType]bool
	closed bool
}

func (s *subscriber) wants(t EventType) bool {
	return len(s.types) == 0 || s.types[t]
}

// Bus fans out shell events to subscribers. Each subscriber receives events
// in publish order.
type Bus struct {
	mu    sync.Mutex
	subs  map[*subscriber]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[*subscriber]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber and returns a channel + cancel. With no
// types the subscriber receives every event. A subscriber that falls a full
// buffer behind is dropped and its channel closed, so it never sees a gap in
// the event sequence.
func (b *Bus) Subscribe(types ...EventType) (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	sub := &subscriber{ch: make(chan Event, b.depth)}
	if len(types) > 0 {
		sub.types = make(map[EventType]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.Debug("eventbus subscribe", "subs", count)
	}
	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			b.dropLocked(sub)
			b.mu.Unlock()
			if b.log != nil {
				b.log.Debug("eventbus unsubscribe")
			}
		})
	}
}

// OnTabChanged publishes a tab-changed event.
func (b *Bus) OnTabChanged(event schema.TabChangedEvent) {
	b.publish(Event{Type: EventTabChanged, Changed: event})
}

// OnTabShown publishes a tab-shown event.
func (b *Bus) OnTabShown(event schema.TabShownEvent) {
	b.publish(Event{Type: EventTabShown, Shown: event})
}

func (b *Bus) publish(event Event) {
	if b == nil {
		return
	}
	overrun := 0
	b.mu.Lock()
	// Sends never block, so holding the lock keeps cancel from closing a channel mid-send.
	for sub := range b.subs {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropLocked(sub)
			overrun++
		}
	}
	b.mu.Unlock()
	if overrun > 0 && b.log != nil {
		b.log.Warn("eventbus subscriber overrun", "type", event.Type, "tab", event.TabID(), "count", overrun)
	}
}

func (b *Bus) dropLocked(sub *subscriber) {
	if sub.closed {
		return
	}
	sub.closed = true
	delete(b.subs, sub)
	close(sub.ch)
}
