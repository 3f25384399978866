package celeste

// Clock tracks game time. Advance scales real frame time by the time scale.
type Clock struct {
	scale   float64
	elapsed float64
	delta   float64
	frame   uint64
}

// SetTimeScale sets the multiplier applied to frame time. Negative values
// are treated as zero.
func (c *Clock) SetTimeScale(s float64) {
	if s < 0 {
		s = 0
	}
	c.scale = s
}

func (c *Clock) TimeScale() float64 { return c.scale }
func (c *Clock) Elapsed() float64   { return c.elapsed }
func (c *Clock) Delta() float64     { return c.delta }
func (c *Clock) Frame() uint64      { return c.frame }

// Advance moves the clock forward by dt real seconds and returns the scaled
// step.
func (c *Clock) Advance(dt float64) float64 {
	c.delta = dt * c.scale
	c.elapsed += c.delta
	c.frame++
	return c.delta
}

// TimeNotifierSystem calls its subscribers with the frame's scaled delta at
// the start of every Update.
type TimeNotifierSystem struct {
	notify Event[float64]
}

func newTimeNotifierSystem() *TimeNotifierSystem {
	return &TimeNotifierSystem{}
}

// Phase reports PhaseTime.
func (s *TimeNotifierSystem) Phase() Phase { return PhaseTime }

// Subscribe registers fn to be called once per Update.
func (s *TimeNotifierSystem) Subscribe(fn func(dt float64)) EventHandle {
	return s.notify.Subscribe(fn)
}

// Unsubscribe removes a subscription made by Subscribe.
func (s *TimeNotifierSystem) Unsubscribe(h EventHandle) bool {
	return s.notify.Unsubscribe(h)
}

// Len returns the number of subscribers.
func (s *TimeNotifierSystem) Len() int { return s.notify.Len() }

func (s *TimeNotifierSystem) Update(dt float64) {
	s.notify.Invoke(dt)
}
