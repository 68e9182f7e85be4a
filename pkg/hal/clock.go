package hal

import "time"

var (
	_ Clock = (*SystemClock)(nil)
	_ Clock = (*VirtualClock)(nil)
)

// SystemClock reads wall time since construction, truncated to whole
// milliseconds like a platform tick counter.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock whose zero is now.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start).Truncate(time.Millisecond)
}

// Delay sleeps for d.
func (c *SystemClock) Delay(d time.Duration) {
	time.Sleep(d)
}

// VirtualClock is a manually advanced clock. Delay returns immediately after
// moving the clock forward, which makes timing-dependent code deterministic.
// It is not safe for concurrent use.
type VirtualClock struct {
	now time.Duration
}

// NewVirtualClock creates a virtual clock starting at start.
func NewVirtualClock(start time.Duration) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Duration {
	return c.now
}

// Delay advances the clock by d.
func (c *VirtualClock) Delay(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// Set moves the clock to t. Moving backwards is ignored to keep the clock monotonic.
func (c *VirtualClock) Set(t time.Duration) {
	if t > c.now {
		c.now = t
	}
}
