package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock is a logical counter used to stamp outgoing events.
type Clock struct {
	counter atomic.Uint64
}

// Tick increments the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	return c.counter.Add(1)
}

func (c *Clock) Now() uint64 {
	return c.counter.Load()
}

// newID mints session and subscription handles.
func newID() string {
	return uuid.NewString()
}
