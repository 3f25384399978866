// Package celeste is a component-based 2D game engine core.
//
// A [Game] is the engine context. It owns the transform pool, the component
// and scriptable object registries, and the managers for input, scenes,
// physics, audio and rendering. The app package drives it from an
// [Ebitengine] window, but everything here runs without one.
//
// # Quick start
//
//	game := celeste.NewGame(celeste.DefaultConfig(), logger)
//	screen := game.Scenes().NewScreen("main", 0)
//
//	player := screen.AllocateGameObject()
//	player.SetName("player")
//	player.Transform().SetTranslation(celeste.Vec3{X: 100, Y: 80})
//
//	sprite := celeste.AddComponent[celeste.SpriteRenderer](player)
//	sprite.Size = celeste.Vec2{X: 16, Y: 16}
//
//	for game.IsRunning() {
//		game.HandleInput()
//		game.Update(1.0 / 60)
//		batch := game.Render(0)
//		// submit batch
//	}
//
// # Objects and components
//
// Every [GameObject] owns one [Transform]. Transforms form the hierarchy:
// world translation and rotation add up the parent chain and world scale
// multiplies. A GameObject's active flag cascades to its components but not
// to its children.
//
// Components come in two kinds. Unmanaged components (embedding
// [ComponentBase]) are driven by their GameObject: they receive HandleInput
// and Update, and a newly added one only starts receiving calls on the next
// Update. Managed components (embedding [ManagedComponent]) are allocated
// from a manager's fixed pool and driven by that manager.
//
// Killing a GameObject kills its children first, then its components, then
// releases its transform. Dead objects and components are never driven
// again, and lookups skip them.
//
// # Scenes
//
// A [Screen] allocates GameObjects from a fixed pool and drives its root
// objects each frame. Screens are created directly or loaded from YAML
// prefabs with [SceneManager.Load]; see [ScenePrefab] for the format.
//
// # Debug mode
//
// With debug mode on, programmer errors (exhausted pools, bad deallocation,
// parenting cycles) panic. With it off they are logged as warnings and the
// operation is ignored.
//
// [Ebitengine]: https://ebitengine.org
package celeste
