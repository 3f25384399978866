package celeste

import "testing"

func TestEventTriggerer_OnceDiesAfterFiring(t *testing.T) {
	game := newTestGame(t)
	g := NewGameObject(game)
	e := AddComponent[EventTriggerer](g)
	armed := false
	e.Condition = func(*GameObject) bool { return armed }
	fired := 0
	e.Event.Subscribe(func(o *GameObject) {
		if o != g {
			t.Error("event should carry the owner")
		}
		fired++
	})

	g.Update(0.1)
	if fired != 0 {
		t.Fatal("fired before the condition held")
	}
	armed = true
	g.Update(0.1)
	g.Update(0.1)
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
	if e.IsAlive() {
		t.Error("once-triggerer should die after firing")
	}
	if !g.IsAlive() {
		t.Error("owner should survive")
	}
}

func TestEventTriggerer_Unlimited(t *testing.T) {
	game := newTestGame(t)
	g := NewGameObject(game)
	e := AddComponent[EventTriggerer](g)
	e.Mode = TriggerUnlimited
	e.Condition = func(*GameObject) bool { return true }
	fired := 0
	e.Event.Subscribe(func(*GameObject) { fired++ })

	for range 3 {
		g.Update(0.1)
	}
	if fired != 3 {
		t.Errorf("fired %d times, want 3", fired)
	}
}

func TestEventTriggerer_NoConditionDoesNothing(t *testing.T) {
	game := newTestGame(t)
	g := NewGameObject(game)
	e := AddComponent[EventTriggerer](g)
	e.Event.Subscribe(func(*GameObject) { t.Error("should not fire") })
	g.Update(0.1)
	if !e.IsAlive() {
		t.Error("triggerer without condition should stay alive")
	}
}

func TestEventTriggerer_ApplyProperties(t *testing.T) {
	game := newTestGame(t)
	e := AddComponent[EventTriggerer](NewGameObject(game))
	if err := e.ApplyProperties(map[string]any{"mode": "unlimited"}); err != nil || e.Mode != TriggerUnlimited {
		t.Errorf("mode = %v, err = %v", e.Mode, err)
	}
	if e.ApplyProperties(map[string]any{"mode": "twice"}) == nil {
		t.Error("unknown mode should fail")
	}
}
