package celeste

import "fmt"

// InputMode selects how a KeyboardActivator maps key state to activation.
type InputMode uint8

const (
	// InputModeToggle activates the target when ActivationKey is pressed and
	// deactivates it when DeactivationKey is pressed. When both keys are the
	// same, each press flips the target.
	InputModeToggle InputMode = iota
	// InputModeContinuous keeps the target active exactly while
	// ActivationKey is held.
	InputModeContinuous
)

// KeyboardActivator toggles a target GameObject's active flag from the
// keyboard. It is driven by the InputManager. The target is resolved by
// TargetName through the SceneManager when Target is empty or stale.
type KeyboardActivator struct {
	ManagedComponent

	ActivationKey   Key
	DeactivationKey Key
	Mode            InputMode
	Target          ObjectRef
	TargetName      string
}

// Reset implements Resetter.
func (a *KeyboardActivator) Reset() {
	a.ActivationKey = 0
	a.DeactivationKey = 0
	a.Mode = InputModeToggle
	a.Target.Clear()
	a.TargetName = ""
}

// SetTarget points the activator at g. A nil g clears the target.
func (a *KeyboardActivator) SetTarget(g *GameObject) { a.Target.Set(g) }

func (a *KeyboardActivator) target() *GameObject {
	if !a.Target.IsAlive() {
		a.Target.Clear()
		if a.TargetName != "" {
			if game := a.Game(); game != nil {
				a.Target.Set(game.scenes.Find(a.TargetName))
			}
		}
	}
	return a.Target.Get()
}

func (a *KeyboardActivator) handleKeys(kb *Keyboard) {
	target := a.target()
	if target == nil {
		return
	}
	switch a.Mode {
	case InputModeContinuous:
		want := kb.IsDown(a.ActivationKey)
		if want != target.IsActive() {
			a.switchTarget(target, want)
		}
	default:
		if a.ActivationKey == a.DeactivationKey {
			if kb.IsPressed(a.ActivationKey) {
				a.switchTarget(target, !target.IsActive())
			}
			return
		}
		if kb.IsPressed(a.ActivationKey) && !target.IsActive() {
			a.switchTarget(target, true)
		} else if kb.IsPressed(a.DeactivationKey) && target.IsActive() {
			a.switchTarget(target, false)
		}
	}
}

func (a *KeyboardActivator) switchTarget(target *GameObject, active bool) {
	target.SetActive(active)
	typ := EventKeyDeactivated
	if active {
		typ = EventKeyActivated
	}
	if game := a.Game(); game != nil {
		game.emit(SceneEvent{Type: typ, ObjectID: target.ID(), Name: target.Name()})
	}
}

// ApplyProperties implements PropertyApplier. Keys are ebiten key names.
func (a *KeyboardActivator) ApplyProperties(props map[string]any) error {
	for _, field := range []struct {
		name string
		dst  *Key
	}{
		{"activation_key", &a.ActivationKey},
		{"deactivation_key", &a.DeactivationKey},
	} {
		if v, ok := props[field.name].(string); ok {
			k, err := ParseKey(v)
			if err != nil {
				return fmt.Errorf("%s: %w", field.name, err)
			}
			*field.dst = k
		}
	}
	if v, ok := props["mode"].(string); ok {
		switch v {
		case "toggle":
			a.Mode = InputModeToggle
		case "continuous":
			a.Mode = InputModeContinuous
		default:
			return fmt.Errorf("mode: unknown input mode %q", v)
		}
	}
	if v, ok := props["target"].(string); ok {
		a.TargetName = v
	}
	return nil
}
