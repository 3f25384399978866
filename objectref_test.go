package celeste

import "testing"

// reuseSlot kills the only object of a one-slot screen, sweeps it and
// allocates a new object into the same slot.
func reuseSlot(t *testing.T, game *Game) (old, fresh *GameObject) {
	t.Helper()
	s := game.Scenes().NewScreen("reuse", 1)
	old = s.AllocateGameObject()
	old.SetName("old")
	oldRef := RefTo(old)
	old.Die()
	s.Update(0)
	fresh = s.AllocateGameObject()
	if fresh == nil {
		t.Fatal("slot was not freed by the sweep")
	}
	if oldRef.Get() != nil {
		t.Fatal("reference to the swept object should not resolve")
	}
	return old, fresh
}

func TestObjectRef_ZeroValue(t *testing.T) {
	var r ObjectRef
	if r.Get() != nil || r.IsAlive() || r.ID() != 0 {
		t.Error("zero reference should resolve to nothing")
	}
	if RefTo(nil) != (ObjectRef{}) {
		t.Error("RefTo(nil) should be the zero reference")
	}
}

func TestObjectRef_ResolvesUntilSwept(t *testing.T) {
	game := newTestGame(t)
	s := game.Scenes().NewScreen("main", 2)
	g := s.AllocateGameObject()
	r := RefTo(g)
	if r.Get() != g || !r.IsAlive() || r.ID() != g.ID() {
		t.Fatal("fresh reference should resolve to its object")
	}

	g.Die()
	if r.Get() != g {
		t.Error("dead object should resolve until it is swept")
	}
	if r.IsAlive() {
		t.Error("dead object should not report alive")
	}

	s.Update(0)
	if r.Get() != nil {
		t.Error("swept object should not resolve")
	}
}

func TestObjectRef_SlotReuseIsNotTheOldObject(t *testing.T) {
	game := newTestGame(t)
	old, fresh := reuseSlot(t, game)
	if old != fresh {
		t.Fatal("one-slot screen should hand out the same slot")
	}
	if old.Name() == "old" {
		t.Error("reused slot should not keep the old name")
	}
	r := RefTo(fresh)
	if !r.IsAlive() || r.Get() != fresh {
		t.Error("reference to the new occupant should resolve")
	}
}

func TestObjectRef_SetAndClear(t *testing.T) {
	game := newTestGame(t)
	g := NewGameObject(game)
	var r ObjectRef
	r.Set(g)
	if r.Get() != g {
		t.Error("Set should point at g")
	}
	r.Clear()
	if r.Get() != nil {
		t.Error("Clear should empty the reference")
	}
	r.Set(g)
	r.Set(nil)
	if r.Get() != nil {
		t.Error("Set(nil) should empty the reference")
	}
}
