package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameMetricsRollingAverage(t *testing.T) {
	m := NewFrameMetrics()

	// The average only updates once a full window has been recorded.
	for i := 0; i < frameWindow-1; i++ {
		m.Update(0.010)
	}
	assert.Equal(t, 0.0, m.AverageFrameTime())

	m.Update(0.010)
	assert.InDelta(t, 10.0, m.AverageFrameTime(), 1e-9)
}

func TestFrameMetricsFPS(t *testing.T) {
	m := NewFrameMetrics()

	// Two half-second frames fit inside the first one-second window; the
	// third frame crosses the boundary and publishes the count.
	m.Update(0.5)
	m.Update(0.5)
	assert.Equal(t, 0.0, m.FPS())

	m.Update(0.5)
	assert.Equal(t, 2.0, m.FPS())

	fps, avg := m.Frame()
	assert.Equal(t, 2.0, fps)
	assert.Equal(t, 0.0, avg)
}
