package celeste

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// easings maps prefab names to gween easing functions.
var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"out_bounce":   ease.OutBounce,
	"out_elastic":  ease.OutElastic,
}

// tweenGroup animates up to three float64 fields together. Values are written
// through apply each step, so the target may be a Transform setter.
type tweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	done   bool
}

func newTweenGroup(from, to []float64, duration float64, fn ease.TweenFunc) tweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := tweenGroup{count: len(from)}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), float32(duration), fn)
	}
	return g
}

// step advances every tween by dt and writes the current values into out.
func (g *tweenGroup) step(dt float64, out []float64) {
	if g.done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		out[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.done = allDone
}

func propEasing(props map[string]any, key string, dst *ease.TweenFunc) error {
	v, ok := props[key]
	if !ok {
		return nil
	}
	name, _ := v.(string)
	fn, ok := easings[name]
	if !ok {
		return fmt.Errorf("%s: unknown easing %v", key, v)
	}
	*dst = fn
	return nil
}

// --- ChangeScaleAnimator ---

// ChangeScaleAnimator scales its owner from the scale it had when the
// animation started to TargetScale over Duration seconds, then deactivates
// itself. A zero Duration snaps on the first update.
type ChangeScaleAnimator struct {
	ComponentBase

	TargetScale Vec3
	Duration    float64
	Easing      ease.TweenFunc

	group   tweenGroup
	started bool
}

// Reset implements Resetter.
func (a *ChangeScaleAnimator) Reset() {
	a.TargetScale = Vec3One
	a.Duration = 0
	a.Easing = ease.Linear
	a.Restart()
}

// SetTargetScale sets the target and restarts the animation from the current
// scale.
func (a *ChangeScaleAnimator) SetTargetScale(s Vec3) {
	a.TargetScale = s
	a.Restart()
}

// Restart makes the next Update start a new animation from the current scale.
func (a *ChangeScaleAnimator) Restart() { a.started = false }

func (a *ChangeScaleAnimator) Update(dt float64) {
	a.ComponentBase.Update(dt)
	t := a.Transform()
	if t == nil {
		debugFail("ChangeScaleAnimator updated without a transform")
		return
	}
	if !a.started {
		from := t.Scale()
		a.group = newTweenGroup(
			[]float64{from.X, from.Y, from.Z},
			[]float64{a.TargetScale.X, a.TargetScale.Y, a.TargetScale.Z},
			a.Duration, a.Easing)
		a.started = true
	}
	if a.Duration <= 0 {
		t.SetScale(a.TargetScale)
		a.group.done = true
	} else {
		var v [3]float64
		a.group.step(dt, v[:])
		t.SetScale(Vec3{v[0], v[1], v[2]})
	}
	if a.group.done {
		a.SetActive(false)
	}
}

// ApplyProperties implements PropertyApplier.
func (a *ChangeScaleAnimator) ApplyProperties(props map[string]any) error {
	if err := propVec3(props, "target_scale", &a.TargetScale); err != nil {
		return err
	}
	if err := propFloat(props, "duration", &a.Duration); err != nil {
		return err
	}
	return propEasing(props, "easing", &a.Easing)
}

// --- MoveToPositionAnimator ---

// MoveToPositionAnimator moves its owner's local translation to
// TargetPosition over Duration seconds, then deactivates itself.
type MoveToPositionAnimator struct {
	ComponentBase

	TargetPosition Vec3
	Duration       float64
	Easing         ease.TweenFunc

	group   tweenGroup
	started bool
}

// Reset implements Resetter.
func (a *MoveToPositionAnimator) Reset() {
	a.TargetPosition = Vec3{}
	a.Duration = 0
	a.Easing = ease.Linear
	a.Restart()
}

// SetTargetPosition sets the target and restarts the animation.
func (a *MoveToPositionAnimator) SetTargetPosition(p Vec3) {
	a.TargetPosition = p
	a.Restart()
}

// Restart makes the next Update start a new animation from the current position.
func (a *MoveToPositionAnimator) Restart() { a.started = false }

func (a *MoveToPositionAnimator) Update(dt float64) {
	a.ComponentBase.Update(dt)
	t := a.Transform()
	if t == nil {
		debugFail("MoveToPositionAnimator updated without a transform")
		return
	}
	if !a.started {
		from := t.Translation()
		a.group = newTweenGroup(
			[]float64{from.X, from.Y, from.Z},
			[]float64{a.TargetPosition.X, a.TargetPosition.Y, a.TargetPosition.Z},
			a.Duration, a.Easing)
		a.started = true
	}
	if a.Duration <= 0 {
		t.SetTranslation(a.TargetPosition)
		a.group.done = true
	} else {
		var v [3]float64
		a.group.step(dt, v[:])
		t.SetTranslation(Vec3{v[0], v[1], v[2]})
	}
	if a.group.done {
		a.SetActive(false)
	}
}

// ApplyProperties implements PropertyApplier.
func (a *MoveToPositionAnimator) ApplyProperties(props map[string]any) error {
	if err := propVec3(props, "target_position", &a.TargetPosition); err != nil {
		return err
	}
	if err := propFloat(props, "duration", &a.Duration); err != nil {
		return err
	}
	return propEasing(props, "easing", &a.Easing)
}
