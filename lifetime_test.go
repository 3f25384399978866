package celeste

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLimitedLifeTime_ExpiresAfterLifetime(t *testing.T) {
	game := newTestGame(t)
	g := NewGameObject(game)
	l := AddComponent[LimitedLifeTime](g)
	l.Lifetime = 1

	var expired *GameObject
	l.OnExpired.Subscribe(func(o *GameObject) { expired = o })

	g.Update(0.6)
	if !g.IsAlive() {
		t.Fatal("died too early")
	}
	assertNear(t, "time alive", l.TimeAlive(), 0.6)

	g.Update(0.6)
	if g.IsAlive() {
		t.Error("object should die once the lifetime is reached")
	}
	if expired != g {
		t.Error("OnExpired should receive the owner")
	}
	if l.OnExpired.Len() != 0 {
		t.Error("subscribers should be dropped on death")
	}
}

func TestLimitedLifeTime_ZeroLifetimeExpiresOnFirstUpdate(t *testing.T) {
	game := newTestGame(t)
	g := NewGameObject(game)
	AddComponent[LimitedLifeTime](g)
	g.Update(0)
	if g.IsAlive() {
		t.Error("zero lifetime should expire immediately")
	}
}

func TestLimitedLifeTime_TriggerKeyRelease(t *testing.T) {
	game := newTestGame(t)
	s := game.Scenes().NewScreen("main", 2)
	g := s.AllocateGameObject()
	l := AddComponent[LimitedLifeTime](g)
	l.Lifetime = 100
	l.TriggerKey = ebiten.KeyX
	l.UseTriggerKey = true
	game.Update(0)

	game.Input().InjectKeyTap(ebiten.KeyX)
	game.HandleInput()
	if !g.IsAlive() {
		t.Fatal("press alone should not expire")
	}
	game.HandleInput()
	if g.IsAlive() {
		t.Error("release should expire the object")
	}
}

func TestLimitedLifeTime_ApplyProperties(t *testing.T) {
	game := newTestGame(t)
	l := AddComponent[LimitedLifeTime](NewGameObject(game))
	if err := l.ApplyProperties(map[string]any{"lifetime": 2.5, "trigger_key": "Space"}); err != nil {
		t.Fatal(err)
	}
	if l.Lifetime != 2.5 || l.TriggerKey != ebiten.KeySpace || !l.UseTriggerKey {
		t.Errorf("got %+v", l)
	}
	if l.ApplyProperties(map[string]any{"trigger_key": "Nope"}) == nil {
		t.Error("unknown key should fail")
	}
}
