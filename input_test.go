package celeste

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// scriptedSource replays fixed device state on every Poll.
type scriptedSource struct {
	keys   []Key
	pos    Vec2
	left   bool
	polled int
}

func (s *scriptedSource) Poll(kb *Keyboard, m *Mouse) {
	s.polled++
	kb.ReleaseAll()
	for _, k := range s.keys {
		kb.SetDown(k, true)
	}
	m.Position = s.pos
	m.SetDown(MouseButtonLeft, s.left)
}

func TestKeyboard_Transitions(t *testing.T) {
	var kb Keyboard
	kb.SetDown(ebiten.KeyA, true)
	if !kb.IsDown(ebiten.KeyA) || !kb.IsPressed(ebiten.KeyA) || kb.IsReleased(ebiten.KeyA) {
		t.Error("first frame should be a press")
	}

	kb.advance()
	if !kb.IsDown(ebiten.KeyA) || kb.IsPressed(ebiten.KeyA) {
		t.Error("held key should not be pressed again")
	}

	kb.advance()
	kb.SetDown(ebiten.KeyA, false)
	if kb.IsDown(ebiten.KeyA) || !kb.IsReleased(ebiten.KeyA) {
		t.Error("key should be released")
	}
}

func TestKeyboard_InvalidKeyIgnored(t *testing.T) {
	var kb Keyboard
	kb.SetDown(Key(-1), true)
	kb.SetDown(ebiten.KeyMax+1, true)
	if kb.IsDown(Key(-1)) || kb.IsPressed(ebiten.KeyMax+1) {
		t.Error("out-of-range keys should never be down")
	}
}

func TestMouse_Transitions(t *testing.T) {
	var m Mouse
	m.SetDown(MouseButtonRight, true)
	if !m.IsPressed(MouseButtonRight) || m.IsPressed(MouseButtonLeft) {
		t.Error("right press not reported")
	}
	m.advance()
	m.SetDown(MouseButtonRight, false)
	if !m.IsReleased(MouseButtonRight) || m.IsDown(MouseButtonRight) {
		t.Error("right release not reported")
	}
	m.SetDown(MouseButton(9), true)
	if m.IsDown(MouseButton(9)) {
		t.Error("unknown button should be ignored")
	}
}

func TestInputManager_PollsSource(t *testing.T) {
	game := newTestGame(t)
	src := &scriptedSource{keys: []Key{ebiten.KeySpace}, pos: Vec2{3, 4}}
	game.Input().SetSource(src)

	game.HandleInput()
	if src.polled != 1 {
		t.Fatalf("polled %d times, want 1", src.polled)
	}
	if !game.Input().Keyboard().IsPressed(ebiten.KeySpace) {
		t.Error("space should be pressed")
	}
	if game.Input().Mouse().Position != (Vec2{3, 4}) {
		t.Error("mouse position not polled")
	}

	game.HandleInput()
	if game.Input().Keyboard().IsPressed(ebiten.KeySpace) {
		t.Error("space should be held, not pressed")
	}
}

func TestInputManager_ExitKey(t *testing.T) {
	game := newTestGame(t)
	game.Input().InjectKeyDown(ebiten.KeyEscape)
	game.HandleInput()
	if game.IsRunning() {
		t.Error("escape should request exit")
	}
}

func TestInputManager_CustomAndDisabledExitKey(t *testing.T) {
	game := newTestGame(t)
	game.Input().SetExitKey(ebiten.KeyQ)
	game.Input().InjectKeyDown(ebiten.KeyEscape)
	game.HandleInput()
	if !game.IsRunning() {
		t.Fatal("escape should no longer exit")
	}

	game.Input().DisableExitKey()
	game.Input().InjectKeyDown(ebiten.KeyQ)
	game.HandleInput()
	if !game.IsRunning() {
		t.Error("disabled exit key should not exit")
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("Space")
	if err != nil || k != ebiten.KeySpace {
		t.Errorf("ParseKey(Space) = %v, %v", k, err)
	}
	if _, err := ParseKey("NotAKey"); err == nil {
		t.Error("expected error")
	}
}

func TestParseMouseButton(t *testing.T) {
	cases := map[string]MouseButton{"": MouseButtonLeft, "left": MouseButtonLeft, "right": MouseButtonRight, "middle": MouseButtonMiddle}
	for name, want := range cases {
		got, err := ParseMouseButton(name)
		if err != nil || got != want {
			t.Errorf("ParseMouseButton(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseMouseButton("thumb"); err == nil {
		t.Error("expected error")
	}
	if MouseButtonMiddle.String() != "middle" || MouseButton(7).String() != "unknown" {
		t.Error("String mismatch")
	}
}
