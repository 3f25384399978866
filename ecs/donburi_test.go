package ecs

import (
	"testing"

	"github.com/celeste2d/celeste"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []celeste.SceneEvent
	SceneEventType.Subscribe(world, func(w donburi.World, e celeste.SceneEvent) {
		received = append(received, e)
	})

	store.EmitEvent(celeste.SceneEvent{
		Type:     celeste.EventMouseDown,
		ObjectID: 42,
		X:        100,
		Y:        200,
		Button:   celeste.MouseButtonLeft,
	})
	store.EmitEvent(celeste.SceneEvent{Type: celeste.EventObjectDied, Name: "crate"})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	SceneEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != celeste.EventMouseDown || e0.ObjectID != 42 {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.X, e0.Y)
	}
	if received[1].Name != "crate" {
		t.Errorf("event 1 name = %q", received[1].Name)
	}
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	SceneEventType.Subscribe(world, func(w donburi.World, e celeste.SceneEvent) { count1++ })
	SceneEventType.Subscribe(world, func(w donburi.World, e celeste.SceneEvent) { count2++ })

	store.EmitEvent(celeste.SceneEvent{Type: celeste.EventMouseUp})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestTrackDeaths_CountsGameObjectDeaths(t *testing.T) {
	world := donburi.NewWorld()
	entity := TrackDeaths(world)

	game := celeste.NewGame(nil, nil)
	defer game.Close()
	game.SetEntityStore(NewDonburiStore(world))

	screen := game.Scenes().NewScreen("ecs", 8)
	parent := screen.AllocateGameObject()
	parent.SetName("parent")
	child := screen.AllocateGameObject()
	child.SetName("child")
	child.SetParent(parent)

	parent.Die()
	SceneEventType.ProcessEvents(world)

	c := DeathCounterComponent.Get(world.Entry(entity))
	if c.Deaths != 2 {
		t.Fatalf("Deaths = %d, want 2", c.Deaths)
	}
	// Children die first, so the parent is reported last.
	if c.Last != "parent" {
		t.Errorf("Last = %q, want parent", c.Last)
	}
}
