package celeste

import "fmt"

// TriggerMode controls how often an EventTriggerer may fire.
type TriggerMode uint8

const (
	TriggerOnce      TriggerMode = iota // fire once, then the triggerer dies
	TriggerUnlimited                    // fire every update the condition holds
)

// EventTriggerer invokes Event on each update where Condition returns true.
// With no condition it does nothing.
type EventTriggerer struct {
	ComponentBase

	Condition func(g *GameObject) bool
	Event     Event[*GameObject]
	Mode      TriggerMode
}

// Reset implements Resetter.
func (e *EventTriggerer) Reset() {
	e.Condition = nil
	e.Mode = TriggerOnce
}

// OnDeath implements DeathObserver.
func (e *EventTriggerer) OnDeath() {
	e.Condition = nil
	e.Event.UnsubscribeAll()
}

func (e *EventTriggerer) Update(dt float64) {
	e.ComponentBase.Update(dt)
	g := e.GameObject()
	if e.Condition == nil || g == nil || !e.Condition(g) {
		return
	}
	e.Event.Invoke(g)
	if e.Mode == TriggerOnce {
		e.Die()
	}
}

// ApplyProperties implements PropertyApplier.
func (e *EventTriggerer) ApplyProperties(props map[string]any) error {
	v, ok := props["mode"].(string)
	if !ok {
		return nil
	}
	switch v {
	case "once":
		e.Mode = TriggerOnce
	case "unlimited":
		e.Mode = TriggerUnlimited
	default:
		return fmt.Errorf("mode: unknown trigger mode %q", v)
	}
	return nil
}
