package resource

import "sync/atomic"

// Counter is an Observer that tallies acquisitions and releases.
type Counter struct {
	acquired atomic.Int64
	released atomic.Int64
}

func (c *Counter) OnResourceEvent(e Event) {
	switch e.Type {
	case EventAcquired:
		c.acquired.Add(1)
	case EventReleased:
		c.released.Add(1)
	}
}

func (c *Counter) Acquired() int64 { return c.acquired.Load() }
func (c *Counter) Released() int64 { return c.released.Load() }

// Live is the number of handles acquired but not yet released.
func (c *Counter) Live() int64 { return c.acquired.Load() - c.released.Load() }
