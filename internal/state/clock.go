package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock stamps segments with a per-session sequence number so mirrors can
// tell when they missed one.
type Clock struct {
	session string
	seq     atomic.Uint64
}

func NewClock() *Clock {
	return &Clock{session: uuid.NewString()}
}

func (c *Clock) Session() string { return c.session }

// Stamp assigns the next sequence number to seg.
func (c *Clock) Stamp(seg *Segment) {
	seg.Seq = c.seq.Add(1)
}

// Last returns the most recently issued sequence number.
func (c *Clock) Last() uint64 {
	return c.seq.Load()
}
