package core

// frameWindow is the number of frames the rolling average covers.
const frameWindow = 30

/**
 * @brief FrameMetrics keeps a rolling average of frame times and counts
 * frames per second over one-second windows. One instance per render
 * loop; not safe for concurrent use.
 */
type FrameMetrics struct {
	window [frameWindow]float64
	cursor int
	avgMS  float64

	frames        int
	accumulatedMS float64
	fps           float64
}

func NewFrameMetrics() *FrameMetrics {
	return &FrameMetrics{}
}

// Update records one frame of the given duration in seconds.
func (m *FrameMetrics) Update(frameSeconds float64) {
	ms := frameSeconds * 1000.0

	m.window[m.cursor] = ms
	m.cursor++
	if m.cursor == frameWindow {
		sum := 0.0
		for _, t := range m.window {
			sum += t
		}
		m.avgMS = sum / frameWindow
		m.cursor = 0
	}

	m.accumulatedMS += ms
	if m.accumulatedMS > 1000.0 {
		m.fps = float64(m.frames)
		m.accumulatedMS -= 1000.0
		m.frames = 0
	}
	m.frames++
}

// FPS returns the frame count of the last completed one-second window.
func (m *FrameMetrics) FPS() float64 {
	return m.fps
}

// AverageFrameTime returns the rolling average frame time in
// milliseconds, updated every full window.
func (m *FrameMetrics) AverageFrameTime() float64 {
	return m.avgMS
}

// Frame returns the FPS and average frame time together, for logging.
func (m *FrameMetrics) Frame() (float64, float64) {
	return m.fps, m.avgMS
}
