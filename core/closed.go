package core

import (
	"github.com/emirpasic/gods/stacks/arraystack"

	"pkt.systems/docshell/schema"
)

// closedStack remembers file-backed tabs closed in this session for reopen-last-tab.
type closedStack struct {
	stack *arraystack.Stack
	max   int
}

func newClosedStack(max int) *closedStack {
	if max <= 0 {
		max = schema.DefaultClosedMax
	}
	return &closedStack{stack: arraystack.New(), max: max}
}

func (c *closedStack) push(file schema.FileDescriptor) {
	if !file.HasPath() {
		return
	}
	c.stack.Push(file.Identity())
	if c.stack.Size() <= c.max {
		return
	}
	// Values is LIFO; keep the newest max entries.
	values := c.stack.Values()[:c.max]
	c.stack.Clear()
	for i := len(values) - 1; i >= 0; i-- {
		c.stack.Push(values[i])
	}
}

func (c *closedStack) pop() (schema.FileDescriptor, bool) {
	value, ok := c.stack.Pop()
	if !ok {
		return schema.FileDescriptor{}, false
	}
	file, ok := value.(schema.FileDescriptor)
	return file, ok
}

func (c *closedStack) size() int {
	return c.stack.Size()
}
