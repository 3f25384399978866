// Package ecs provides ECS adapters for celeste's scene events.
//
// The primary adapter is [NewDonburiStore], which bridges celeste scene
// events (object deaths, mouse interaction, keyboard activation) into a
// [Donburi] world as typed events. Subscribe to [SceneEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	game.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
