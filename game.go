package celeste

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// Game is the engine context. It owns the pools, registries and managers that
// the rest of the engine reaches through GameObject.Game and
// ComponentBase.Game. Everything runs on the goroutine that calls
// HandleInput, Update and Render.
type Game struct {
	cfg *Config
	log *zap.Logger

	transforms  *TransformPool
	components  *ComponentRegistry
	scriptables *ScriptableObjectRegistry
	allocators  map[reflect.Type]componentAllocator

	runner  *Runner
	clock   Clock
	input   *InputManager
	scenes  *SceneManager
	physics *PhysicsManager
	audio   *AudioManager
	render  *RenderManager
	timers  *TimeNotifierSystem

	store   EntityStore
	running bool

	ctx     context.Context
	cancel  context.CancelFunc
	videoCh chan videoResult
}

// NewGame builds a game context from cfg. A nil cfg uses DefaultConfig and a
// nil log discards output.
func NewGame(cfg *Config, log *zap.Logger) *Game {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		cfg:         cfg,
		log:         log,
		transforms:  NewTransformPool(cfg.Pools.Transforms),
		components:  NewComponentRegistry(),
		scriptables: NewScriptableObjectRegistry(),
		allocators:  make(map[reflect.Type]componentAllocator),
		runner:      NewRunner(),
		running:     true,
		ctx:         ctx,
		cancel:      cancel,
		videoCh:     make(chan videoResult, 4),
	}
	g.clock.SetTimeScale(cfg.Game.TimeScale)

	g.input = newInputManager(g)
	g.scenes = newSceneManager(g)
	g.physics = newPhysicsManager(g)
	g.audio = newAudioManager(g)
	g.render = newRenderManager(g)
	g.timers = newTimeNotifierSystem()

	g.runner.Register(g.timers)
	g.runner.Register(g.scenes)
	g.runner.Register(g.physics)
	g.runner.Register(g.audio)
	g.runner.Register(g.render)

	registerBuiltins(g)

	debugLog = log
	g.SetDebugMode(cfg.Debug.Enabled)
	return g
}

// registerBuiltins adds the engine's component and scriptable object types.
func registerBuiltins(g *Game) {
	r := g.components
	RegisterComponent[KeyboardActivator](r, "KeyboardActivator")
	RegisterComponent[MouseInteractionHandler](r, "MouseInteractionHandler")
	RegisterComponent[RigidBody2D](r, "RigidBody2D")
	RegisterComponent[RectangleCollider](r, "RectangleCollider")
	RegisterComponent[SpriteRenderer](r, "SpriteRenderer")
	RegisterComponent[TextRenderer](r, "TextRenderer")
	RegisterComponent[AudioSource](r, "AudioSource")
	RegisterComponent[LimitedLifeTime](r, "LimitedLifeTime")
	RegisterComponent[EventTriggerer](r, "EventTriggerer")
	RegisterComponent[OpacityLerper](r, "OpacityLerper")
	RegisterComponent[ChangeScaleAnimator](r, "ChangeScaleAnimator")
	RegisterComponent[MoveToPositionAnimator](r, "MoveToPositionAnimator")
	RegisterComponent[LoadResourcesAsyncScript](r, "LoadResourcesAsyncScript")

	RegisterScriptableObject[GameSettings](g.scriptables, "GameSettings")
	RegisterScriptableObject[WindowSettings](g.scriptables, "WindowSettings")
}

func (g *Game) Config() *Config                              { return g.cfg }
func (g *Game) Logger() *zap.Logger                          { return g.log }
func (g *Game) Transforms() *TransformPool                   { return g.transforms }
func (g *Game) Components() *ComponentRegistry               { return g.components }
func (g *Game) ScriptableObjects() *ScriptableObjectRegistry { return g.scriptables }
func (g *Game) Input() *InputManager                         { return g.input }
func (g *Game) Scenes() *SceneManager                        { return g.scenes }
func (g *Game) Physics() *PhysicsManager                     { return g.physics }
func (g *Game) Audio() *AudioManager                         { return g.audio }
func (g *Game) Renderer() *RenderManager                     { return g.render }
func (g *Game) Timers() *TimeNotifierSystem                  { return g.timers }
func (g *Game) Clock() *Clock                                { return &g.clock }
func (g *Game) Runner() *Runner                              { return g.runner }

// HandleInput polls input, drives input-managed components, then forwards
// input to the scene.
func (g *Game) HandleInput() {
	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}
	g.input.HandleInput()
	g.scenes.HandleInput()
	if globalDebug {
		g.logFrame(frameStats{inputTime: time.Since(t0)})
	}
}

// Update advances the clock by dt seconds (scaled by the time scale) and runs
// every system in phase order.
func (g *Game) Update(dt float64) {
	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}
	g.drainVideos()
	scaled := g.clock.Advance(dt)
	g.runner.Tick(scaled)
	if globalDebug {
		g.logFrame(frameStats{updateTime: time.Since(t0), objectCount: g.scenes.objectCount()})
	}
}

// Render collects the frame's render commands. lag is the fraction of a
// fixed step elapsed since the last Update, for interpolation.
func (g *Game) Render(lag float64) *RenderBatch {
	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}
	batch := g.render.Render(g.scenes, lag)
	if globalDebug {
		g.logFrame(frameStats{renderTime: time.Since(t0), commandCount: batch.Len()})
	}
	return batch
}

// Exit requests the loop to stop after the current frame.
func (g *Game) Exit() {
	if g.running {
		g.log.Info("exit requested")
	}
	g.running = false
}

// IsRunning reports whether Exit has not been called.
func (g *Game) IsRunning() bool { return g.running }

// Context is cancelled by Close. Background work such as video playback
// derives from it.
func (g *Game) Context() context.Context { return g.ctx }

// Close kills every screen, stops audio and cancels background work.
func (g *Game) Close() {
	g.running = false
	for len(g.scenes.screens) > 0 {
		g.scenes.Unload(g.scenes.screens[0].Name())
	}
	g.audio.Close()
	g.cancel()
	_ = g.log.Sync()
}

// SetEntityStore sets the optional ECS bridge.
func (g *Game) SetEntityStore(store EntityStore) {
	g.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, failed
// assertions panic instead of logging, and per-frame stats are logged.
func (g *Game) SetDebugMode(enabled bool) {
	SetDebugMode(enabled)
}

// emit forwards e to the entity store, if any.
func (g *Game) emit(e SceneEvent) {
	if g == nil || g.store == nil {
		return
	}
	g.store.EmitEvent(e)
}

// ApplySettings pushes the volume settings to the audio manager.
func (g *Game) ApplySettings(s *GameSettings) {
	if s == nil {
		return
	}
	g.audio.SetMasterVolume(s.MasterVolume)
	g.audio.SetMusicVolume(s.MusicVolume)
	g.audio.SetSFXVolume(s.SFXVolume)
	g.log.Debug("settings applied",
		zap.Float64("master", s.MasterVolume),
		zap.Float64("music", s.MusicVolume),
		zap.Float64("sfx", s.SFXVolume))
}
