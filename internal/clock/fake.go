package clock

import "time"

// FakeClock is a manually advanced Clock for tests. Timestamps on
// records are epoch millis derived from Now, so tests advance it to
// assert updatedAt movement and due-date expiry.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
