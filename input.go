package celeste

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// Key identifies a keyboard key. It is ebiten's key code.
type Key = ebiten.Key

// Keyboard holds the key state for the current and the previous frame.
type Keyboard struct {
	down [ebiten.KeyMax + 1]bool
	prev [ebiten.KeyMax + 1]bool
}

func validKey(k Key) bool { return k >= 0 && k <= ebiten.KeyMax }

// IsDown reports whether k is held this frame.
func (kb *Keyboard) IsDown(k Key) bool { return validKey(k) && kb.down[k] }

// IsPressed reports whether k went down this frame.
func (kb *Keyboard) IsPressed(k Key) bool { return validKey(k) && kb.down[k] && !kb.prev[k] }

// IsReleased reports whether k went up this frame.
func (kb *Keyboard) IsReleased(k Key) bool { return validKey(k) && !kb.down[k] && kb.prev[k] }

// SetDown sets the current state of k. Used by input sources.
func (kb *Keyboard) SetDown(k Key, down bool) {
	if validKey(k) {
		kb.down[k] = down
	}
}

// ReleaseAll marks every key as up.
func (kb *Keyboard) ReleaseAll() { clear(kb.down[:]) }

func (kb *Keyboard) advance() { kb.prev = kb.down }

// Mouse holds the pointer position and button state for the current and the
// previous frame.
type Mouse struct {
	Position Vec2
	down     [mouseButtonCount]bool
	prev     [mouseButtonCount]bool
}

func (m *Mouse) IsDown(b MouseButton) bool {
	return b < mouseButtonCount && m.down[b]
}

func (m *Mouse) IsPressed(b MouseButton) bool {
	return b < mouseButtonCount && m.down[b] && !m.prev[b]
}

func (m *Mouse) IsReleased(b MouseButton) bool {
	return b < mouseButtonCount && !m.down[b] && m.prev[b]
}

// SetDown sets the current state of b. Used by input sources.
func (m *Mouse) SetDown(b MouseButton, down bool) {
	if b < mouseButtonCount {
		m.down[b] = down
	}
}

func (m *Mouse) advance() { m.prev = m.down }

// InputSource fills the keyboard and mouse state once per frame.
type InputSource interface {
	Poll(kb *Keyboard, m *Mouse)
}

// EbitenInput polls ebiten's keyboard and mouse state. Only valid while an
// ebiten game loop is running.
type EbitenInput struct {
	keys []ebiten.Key
}

// Poll implements InputSource.
func (e *EbitenInput) Poll(kb *Keyboard, m *Mouse) {
	kb.ReleaseAll()
	e.keys = inpututil.AppendPressedKeys(e.keys[:0])
	for _, k := range e.keys {
		kb.SetDown(k, true)
	}
	x, y := ebiten.CursorPosition()
	m.Position = Vec2{float64(x), float64(y)}
	m.SetDown(MouseButtonLeft, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	m.SetDown(MouseButtonRight, ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight))
	m.SetDown(MouseButtonMiddle, ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle))
}

// --- Manager ---

// InputManager owns the keyboard and mouse state and the input-driven managed
// components: KeyboardActivator and MouseInteractionHandler.
type InputManager struct {
	game     *Game
	source   InputSource
	keyboard Keyboard
	mouse    Mouse

	exitKey    Key
	exitKeySet bool

	injectQueue []syntheticInput
	testRunner  *TestRunner

	activators *ComponentManager[KeyboardActivator, *KeyboardActivator]
	handlers   *ComponentManager[MouseInteractionHandler, *MouseInteractionHandler]
}

func newInputManager(g *Game) *InputManager {
	m := &InputManager{
		game:       g,
		exitKey:    ebiten.KeyEscape,
		exitKeySet: true,
		activators: NewComponentManager[KeyboardActivator](g.cfg.Pools.KeyboardActivators),
		handlers:   NewComponentManager[MouseInteractionHandler](g.cfg.Pools.MouseHandlers),
	}
	registerManaged(g, m.activators)
	registerManaged(g, m.handlers)
	return m
}

// SetSource sets the device source. A nil source leaves the state to
// injected input only.
func (m *InputManager) SetSource(src InputSource) { m.source = src }

// SetExitKey sets the key that requests Game.Exit when pressed.
func (m *InputManager) SetExitKey(k Key) {
	m.exitKey = k
	m.exitKeySet = true
}

// DisableExitKey stops any key from requesting an exit.
func (m *InputManager) DisableExitKey() { m.exitKeySet = false }

func (m *InputManager) Keyboard() *Keyboard { return &m.keyboard }
func (m *InputManager) Mouse() *Mouse       { return &m.mouse }

// HandleInput advances the input state by one frame and drives the
// input-managed components. A pending synthetic event replaces device polling
// for the frame.
func (m *InputManager) HandleInput() {
	m.keyboard.advance()
	m.mouse.advance()

	if m.testRunner != nil {
		m.testRunner.step(m)
	}
	if !m.processInjectedInput() && m.source != nil {
		m.source.Poll(&m.keyboard, &m.mouse)
	}

	m.activators.Each(func(a *KeyboardActivator) { a.handleKeys(&m.keyboard) })
	m.handlers.Each(func(h *MouseInteractionHandler) { h.handleMouse(&m.mouse) })
	m.activators.Sweep()
	m.handlers.Sweep()

	if m.exitKeySet && m.keyboard.IsPressed(m.exitKey) {
		m.game.log.Debug("exit key pressed", zap.String("key", m.exitKey.String()))
		m.game.Exit()
	}
}

// ParseKey returns the key with the given ebiten name, such as "Space" or
// "ArrowLeft".
func ParseKey(name string) (Key, error) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return k, nil
}

// ParseMouseButton accepts "left", "right", "middle" or "" (left).
func ParseMouseButton(name string) (MouseButton, error) {
	switch name {
	case "", "left":
		return MouseButtonLeft, nil
	case "right":
		return MouseButtonRight, nil
	case "middle":
		return MouseButtonMiddle, nil
	}
	return 0, fmt.Errorf("unknown mouse button %q", name)
}
