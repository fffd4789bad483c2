package core

// tabCollection is the ordered set of open tabs plus the active pointer.
// active is nil exactly when tabs is empty.
type tabCollection struct {
	tabs   []*tab
	active *tab
}

func (c *tabCollection) len() int {
	return len(c.tabs)
}

func (c *tabCollection) indexOf(t *tab) int {
	if t == nil {
		return -1
	}
	for i, current := range c.tabs {
		if current == t {
			return i
		}
	}
	return -1
}

func (c *tabCollection) contains(t *tab) bool {
	return c.indexOf(t) >= 0
}

func (c *tabCollection) byID(id string) *tab {
	for _, t := range c.tabs {
		if string(t.ID) == id {
			return t
		}
	}
	return nil
}

// findByPath returns the tab holding path. Tabs without a path never match.
func (c *tabCollection) findByPath(path string) *tab {
	if path == "" {
		return nil
	}
	for _, t := range c.tabs {
		if t.File.Path == path {
			return t
		}
	}
	return nil
}

// insert places t at index at; out-of-range values append.
func (c *tabCollection) insert(t *tab, at int) {
	if at < 0 || at >= len(c.tabs) {
		c.tabs = append(c.tabs, t)
		return
	}
	c.tabs = append(c.tabs, nil)
	copy(c.tabs[at+1:], c.tabs[at:])
	c.tabs[at] = t
}

// insertAfterActive places t right after the active tab, or at the end.
func (c *tabCollection) insertAfterActive(t *tab) {
	idx := c.indexOf(c.active)
	if idx < 0 {
		c.insert(t, -1)
		return
	}
	c.insert(t, idx+1)
}

// remove drops t and returns its former index, or -1. The active pointer is left
// untouched; callers reassign it with successor.
func (c *tabCollection) remove(t *tab) int {
	idx := c.indexOf(t)
	if idx < 0 {
		return -1
	}
	c.tabs = append(c.tabs[:idx], c.tabs[idx+1:]...)
	return idx
}

// successor picks the tab to activate after removing the tab at idx:
// the left neighbor, else the right neighbor, else nil.
func (c *tabCollection) successor(idx int) *tab {
	if len(c.tabs) == 0 {
		return nil
	}
	if idx-1 >= 0 && idx-1 < len(c.tabs) {
		return c.tabs[idx-1]
	}
	if idx < len(c.tabs) {
		return c.tabs[idx]
	}
	return c.tabs[len(c.tabs)-1]
}

func (c *tabCollection) snapshots() []*tab {
	return append([]*tab(nil), c.tabs...)
}
