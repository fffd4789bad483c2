package core

import "pkt.systems/docshell/schema"

// tabHistory is the back/forward log of activations. elements[idx] is the
// current activation; entries before it are "back", entries after it "forward".
type tabHistory struct {
	elements []*tab
	idx      int
	max      int
}

func newTabHistory(max int) *tabHistory {
	if max <= 0 {
		max = schema.DefaultHistoryMax
	}
	return &tabHistory{idx: -1, max: max}
}

func (h *tabHistory) current() *tab {
	if h.idx < 0 || h.idx >= len(h.elements) {
		return nil
	}
	return h.elements[h.idx]
}

// push records an activation, discarding any forward entries.
func (h *tabHistory) push(t *tab) {
	if t == nil {
		return
	}
	if h.current() == t {
		return
	}
	h.elements = append(h.elements[:h.idx+1], t)
	h.idx = len(h.elements) - 1
	if len(h.elements) > h.max {
		drop := len(h.elements) - h.max
		h.elements = append([]*tab(nil), h.elements[drop:]...)
		h.idx -= drop
	}
}

// navigate moves the cursor by delta, clamped to the log bounds, after dropping
// entries for which alive reports false.
func (h *tabHistory) navigate(delta int, alive func(*tab) bool) (*tab, error) {
	if alive != nil {
		h.retain(alive)
	}
	if delta == 0 || len(h.elements) == 0 {
		return nil, schema.ErrNoHistoryAvailable
	}
	target := h.idx + delta
	if target < 0 {
		target = 0
	}
	if target > len(h.elements)-1 {
		target = len(h.elements) - 1
	}
	if target == h.idx {
		return nil, schema.ErrNoHistoryAvailable
	}
	h.idx = target
	return h.elements[target], nil
}

// pruneClosed removes every entry referencing t.
func (h *tabHistory) pruneClosed(t *tab) {
	h.retain(func(current *tab) bool { return current != t })
}

func (h *tabHistory) reset() {
	h.elements = nil
	h.idx = -1
}

// retain keeps entries accepted by keep and collapses adjacent duplicates.
// A removed cursor entry moves the cursor to the nearest earlier survivor.
func (h *tabHistory) retain(keep func(*tab) bool) {
	if len(h.elements) == 0 {
		h.idx = -1
		return
	}
	next := make([]*tab, 0, len(h.elements))
	idx := h.idx
	for i, t := range h.elements {
		drop := !keep(t) || (len(next) > 0 && next[len(next)-1] == t)
		if !drop {
			next = append(next, t)
			continue
		}
		if i <= h.idx {
			idx--
		}
	}
	h.elements = next
	switch {
	case len(next) == 0:
		h.idx = -1
	case idx < 0:
		h.idx = 0
	case idx >= len(next):
		h.idx = len(next) - 1
	default:
		h.idx = idx
	}
}

func (h *tabHistory) ids() []schema.TabID {
	out := make([]schema.TabID, 0, len(h.elements))
	for _, t := range h.elements {
		out = append(out, t.ID)
	}
	return out
}
