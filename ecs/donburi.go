package ecs

import (
	"github.com/celeste2d/celeste"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for celeste scene events.
var SceneEventType = events.NewEventType[celeste.SceneEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Events are queued on SceneEventType and delivered by ProcessEvents.
func NewDonburiStore(world donburi.World) celeste.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event celeste.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}

// DeathCounter is a Donburi component recording how many scene objects died.
type DeathCounter struct {
	Deaths int
	Last   string
}

// DeathCounterComponent is the component type of DeathCounter.
var DeathCounterComponent = donburi.NewComponentType[DeathCounter]()

// TrackDeaths creates an entity carrying a DeathCounter and subscribes it to
// EventObjectDied. The counter updates when the world's events are processed.
func TrackDeaths(world donburi.World) donburi.Entity {
	entity := world.Create(DeathCounterComponent)
	SceneEventType.Subscribe(world, func(w donburi.World, e celeste.SceneEvent) {
		if e.Type != celeste.EventObjectDied {
			return
		}
		entry := w.Entry(entity)
		if !entry.Valid() {
			return
		}
		c := DeathCounterComponent.Get(entry)
		c.Deaths++
		c.Last = e.Name
	})
	return entity
}
