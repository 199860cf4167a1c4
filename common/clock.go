package common

// Clock is the single time source for combat deadlines, in seconds.
type Clock interface {
	Now() float64
}

// FrameClock is advanced explicitly by the game loop.
type FrameClock struct {
	now   float64
	delta float64
	frame int
}

func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

func (c *FrameClock) Now() float64 {
	if c == nil {
		return 0
	}
	return c.now
}

// Delta is the duration of the last Advance.
func (c *FrameClock) Delta() float64 {
	if c == nil {
		return 0
	}
	return c.delta
}

func (c *FrameClock) Frame() int {
	if c == nil {
		return 0
	}
	return c.frame
}

// Advance moves time forward by dt seconds. Negative steps are ignored.
func (c *FrameClock) Advance(dt float64) {
	if c == nil || dt < 0 {
		return
	}
	c.now += dt
	c.delta = dt
	c.frame++
}

// Set jumps to an absolute time. Useful for tests.
func (c *FrameClock) Set(now float64) {
	if c == nil {
		return
	}
	c.delta = now - c.now
	c.now = now
}
