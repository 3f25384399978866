package celeste

type syntheticKind uint8

const (
	syntheticKey syntheticKind = iota
	syntheticPointer
)

// syntheticInput represents a single injected input event. Exactly one event
// is applied per frame.
type syntheticInput struct {
	kind     syntheticKind
	key      Key
	pressed  bool
	x, y     float64
	button   MouseButton
	moveOnly bool
}

// InjectKeyDown queues a key press. The key stays down until InjectKeyUp.
func (m *InputManager) InjectKeyDown(k Key) {
	m.injectQueue = append(m.injectQueue, syntheticInput{kind: syntheticKey, key: k, pressed: true})
}

// InjectKeyUp queues a key release.
func (m *InputManager) InjectKeyUp(k Key) {
	m.injectQueue = append(m.injectQueue, syntheticInput{kind: syntheticKey, key: k, pressed: false})
}

// InjectKeyTap queues a press followed by a release. Consumes two frames.
func (m *InputManager) InjectKeyTap(k Key) {
	m.InjectKeyDown(k)
	m.InjectKeyUp(k)
}

// InjectPress queues a mouse button press at the given screen coordinates.
func (m *InputManager) InjectPress(x, y float64, b MouseButton) {
	m.injectQueue = append(m.injectQueue, syntheticInput{
		kind: syntheticPointer, x: x, y: y, pressed: true, button: b,
	})
}

// InjectRelease queues a mouse button release at the given screen coordinates.
func (m *InputManager) InjectRelease(x, y float64, b MouseButton) {
	m.injectQueue = append(m.injectQueue, syntheticInput{
		kind: syntheticPointer, x: x, y: y, pressed: false, button: b,
	})
}

// InjectMove queues a pointer move without changing button state.
func (m *InputManager) InjectMove(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticInput{
		kind: syntheticPointer, x: x, y: y, moveOnly: true,
	})
}

// InjectClick is a convenience that queues a left press followed by a release
// at the same screen coordinates. Consumes two frames.
func (m *InputManager) InjectClick(x, y float64) {
	m.InjectPress(x, y, MouseButtonLeft)
	m.InjectRelease(x, y, MouseButtonLeft)
}

// PendingInjections returns the number of queued synthetic events.
func (m *InputManager) PendingInjections() int { return len(m.injectQueue) }

// processInjectedInput pops one event from the inject queue and applies it.
// Returns true if an event was consumed (device polling should be skipped).
func (m *InputManager) processInjectedInput() bool {
	if len(m.injectQueue) == 0 {
		return false
	}
	evt := m.injectQueue[0]
	copy(m.injectQueue, m.injectQueue[1:])
	m.injectQueue = m.injectQueue[:len(m.injectQueue)-1]

	switch evt.kind {
	case syntheticKey:
		m.keyboard.SetDown(evt.key, evt.pressed)
	case syntheticPointer:
		m.mouse.Position = Vec2{evt.x, evt.y}
		if !evt.moveOnly {
			m.mouse.SetDown(evt.button, evt.pressed)
		}
	}
	return true
}
