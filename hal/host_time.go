package hal

import "time"

type hostClock struct {
	start time.Time
}

func newHostClock() *hostClock {
	return &hostClock{start: time.Now()}
}

func (c *hostClock) Now() time.Time { return time.Now() }

func (c *hostClock) Since() time.Duration { return time.Since(c.start) }

// NewClock returns the wall clock, with Since measured from this call.
func NewClock() Clock { return newHostClock() }
