package celeste

import "fmt"

// LimitedLifeTime kills its owner once Lifetime seconds have passed, or as
// soon as TriggerKey is released when UseTriggerKey is set. OnExpired is
// invoked with the owner just before it dies.
type LimitedLifeTime struct {
	ComponentBase

	Lifetime      float64
	TriggerKey    Key
	UseTriggerKey bool
	OnExpired     Event[*GameObject]

	alive float64
}

// Reset implements Resetter.
func (l *LimitedLifeTime) Reset() {
	l.Lifetime = 0
	l.TriggerKey = 0
	l.UseTriggerKey = false
	l.alive = 0
}

// TimeAlive returns the seconds accumulated so far.
func (l *LimitedLifeTime) TimeAlive() float64 { return l.alive }

// OnDeath implements DeathObserver.
func (l *LimitedLifeTime) OnDeath() { l.OnExpired.UnsubscribeAll() }

func (l *LimitedLifeTime) HandleInput() {
	l.ComponentBase.HandleInput()
	if !l.UseTriggerKey {
		return
	}
	game := l.Game()
	if game != nil && game.input.Keyboard().IsReleased(l.TriggerKey) {
		l.expire()
	}
}

func (l *LimitedLifeTime) Update(dt float64) {
	l.ComponentBase.Update(dt)
	l.alive += dt
	if l.alive >= l.Lifetime {
		l.expire()
	}
}

func (l *LimitedLifeTime) expire() {
	g := l.GameObject()
	if g == nil {
		return
	}
	l.OnExpired.Invoke(g)
	g.Die()
}

// ApplyProperties implements PropertyApplier.
func (l *LimitedLifeTime) ApplyProperties(props map[string]any) error {
	if err := propFloat(props, "lifetime", &l.Lifetime); err != nil {
		return err
	}
	if v, ok := props["trigger_key"].(string); ok {
		k, err := ParseKey(v)
		if err != nil {
			return fmt.Errorf("trigger_key: %w", err)
		}
		l.TriggerKey = k
		l.UseTriggerKey = true
	}
	return nil
}
