package core

import "time"

/**
 * @brief Clock measures the wall time spent in one frame. Start it at the
 * top of the frame, Update it just before reading Elapsed.
 */
type Clock struct {
	started time.Time
	elapsed time.Duration
}

func NewClock() *Clock {
	return &Clock{}
}

// Start resets the clock to now, clearing the elapsed time.
func (c *Clock) Start() {
	c.started = time.Now()
	c.elapsed = 0
}

// Update refreshes the elapsed time. No effect on a stopped clock.
func (c *Clock) Update() {
	if !c.started.IsZero() {
		c.elapsed = time.Since(c.started)
	}
}

// Stop halts the clock, keeping the elapsed time readable.
func (c *Clock) Stop() {
	c.started = time.Time{}
}

// Elapsed returns the time measured by the last Update since Start.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}
