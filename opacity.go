package celeste

// OpacityLerper fades the owner's SpriteRenderer between MinOpacity and
// MaxOpacity. It rises at 1/LerpUpTime per second, holds at the top for
// MaxWaitTime, falls at 1/LerpDownTime per second and holds at the bottom
// for MinWaitTime. A zero lerp time snaps.
type OpacityLerper struct {
	ComponentBase

	MinOpacity   float64
	MaxOpacity   float64
	LerpUpTime   float64
	LerpDownTime float64
	MaxWaitTime  float64
	MinWaitTime  float64
	LerpingUp    bool

	waited float64
}

// Reset implements Resetter.
func (l *OpacityLerper) Reset() {
	l.MinOpacity = 0
	l.MaxOpacity = 1
	l.LerpUpTime = 1
	l.LerpDownTime = 1
	l.MaxWaitTime = 0
	l.MinWaitTime = 0
	l.LerpingUp = false
	l.waited = 0
}

func (l *OpacityLerper) Update(dt float64) {
	l.ComponentBase.Update(dt)
	sprite := FindComponent[*SpriteRenderer](l.GameObject())
	if sprite == nil {
		debugFail("OpacityLerper requires a SpriteRenderer")
		return
	}
	opacity := sprite.Opacity

	if l.LerpingUp {
		if l.LerpUpTime == 0 {
			opacity = l.MaxOpacity
		} else {
			opacity += dt / l.LerpUpTime
		}
		if opacity >= l.MaxOpacity {
			opacity = l.MaxOpacity
			if l.waited >= l.MaxWaitTime {
				l.waited = 0
				l.LerpingUp = false
			} else {
				l.waited += dt
			}
		}
	} else {
		if l.LerpDownTime == 0 {
			opacity = l.MinOpacity
		} else {
			opacity -= dt / l.LerpDownTime
		}
		if opacity <= l.MinOpacity {
			opacity = l.MinOpacity
			if l.waited >= l.MinWaitTime {
				l.waited = 0
				l.LerpingUp = true
			} else {
				l.waited += dt
			}
		}
	}
	sprite.Opacity = opacity
}

// ApplyProperties implements PropertyApplier.
func (l *OpacityLerper) ApplyProperties(props map[string]any) error {
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"min_opacity", &l.MinOpacity},
		{"max_opacity", &l.MaxOpacity},
		{"lerp_up_time", &l.LerpUpTime},
		{"lerp_down_time", &l.LerpDownTime},
		{"max_wait_time", &l.MaxWaitTime},
		{"min_wait_time", &l.MinWaitTime},
	} {
		if err := propFloat(props, f.key, f.dst); err != nil {
			return err
		}
	}
	if v, ok := props["lerping_up"].(bool); ok {
		l.LerpingUp = v
	}
	return nil
}
