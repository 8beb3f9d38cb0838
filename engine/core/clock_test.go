package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockMeasuresElapsed(t *testing.T) {
	c := NewClock()

	// Updating a never-started clock is a no-op.
	c.Update()
	assert.Equal(t, time.Duration(0), c.Elapsed())

	c.Start()
	time.Sleep(time.Millisecond)
	c.Update()
	assert.Greater(t, c.Elapsed(), time.Duration(0))
}

func TestClockStopFreezesElapsed(t *testing.T) {
	c := NewClock()
	c.Start()
	time.Sleep(time.Millisecond)
	c.Update()
	c.Stop()

	frozen := c.Elapsed()
	time.Sleep(time.Millisecond)
	c.Update()
	assert.Equal(t, frozen, c.Elapsed())
}

func TestClockStartResets(t *testing.T) {
	c := NewClock()
	c.Start()
	time.Sleep(time.Millisecond)
	c.Update()
	c.Start()
	assert.Equal(t, time.Duration(0), c.Elapsed())
}
