package renderer

import "time"

const FPSUpdateInterval = 250 * time.Millisecond

// FPSCounter averages the frame rate over windows of at least Interval.
type FPSCounter struct {
	Interval time.Duration

	last   time.Time
	frames int
}

func NewFPSCounter(interval time.Duration) *FPSCounter {
	if interval <= 0 {
		interval = FPSUpdateInterval
	}
	return &FPSCounter{Interval: interval}
}

func (c *FPSCounter) Reset(now time.Time) {
	c.last = now
	c.frames = 0
}

// Tick counts one frame. Once Interval has elapsed since the last report it
// returns the frames per second over that window and starts a new one.
func (c *FPSCounter) Tick(now time.Time) (float64, bool) {
	if c.last.IsZero() {
		c.last = now
	}

	c.frames++
	elapsed := now.Sub(c.last)
	if elapsed < c.Interval {
		return 0, false
	}

	ms := float64(elapsed) / float64(time.Millisecond)
	fps := float64(c.frames) / ms * 1000
	c.Reset(now)
	return fps, true
}
