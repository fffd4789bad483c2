package core

import (
	"github.com/google/uuid"

	"pkt.systems/docshell/schema"
)

// NewTabID returns a fresh, never reused tab identifier.
func NewTabID() schema.TabID {
	return schema.TabID(uuid.NewString())
}
