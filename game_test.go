package celeste

import (
	"testing"

	"go.uber.org/zap"
)

// newTestGame returns a game with small pools and a silent logger.
func newTestGame(t testing.TB) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Pools = PoolConfig{
		Transforms:         64,
		ScreenObjects:      32,
		RigidBodies:        8,
		Colliders:          8,
		Sprites:            8,
		Texts:              4,
		AudioSources:       4,
		KeyboardActivators: 4,
		MouseHandlers:      4,
	}
	game := NewGame(cfg, zap.NewNop())
	t.Cleanup(game.Close)
	return game
}

// recordingStore collects the events forwarded by the game.
type recordingStore struct {
	events []SceneEvent
}

func (s *recordingStore) EmitEvent(e SceneEvent) { s.events = append(s.events, e) }

func (s *recordingStore) ofType(typ SceneEventType) []SceneEvent {
	var out []SceneEvent
	for _, e := range s.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type phaseRecorder struct {
	phase Phase
	name  string
	log   *[]string
}

func (p *phaseRecorder) Phase() Phase      { return p.phase }
func (p *phaseRecorder) Update(dt float64) { *p.log = append(*p.log, p.name) }

func TestRunner_PhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&phaseRecorder{PhaseRender, "render", &log})
	r.Register(&phaseRecorder{PhaseTime, "time", &log})
	r.Register(&phaseRecorder{PhasePhysics, "physics-a", &log})
	r.Register(&phaseRecorder{PhaseScene, "scene", &log})
	r.Register(&phaseRecorder{PhasePhysics, "physics-b", &log})

	r.Tick(0.016)

	want := []string{"time", "scene", "physics-a", "physics-b", "render"}
	if len(log) != len(want) {
		t.Fatalf("got %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestRunner_TickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&phaseRecorder{PhaseScene, "scene", &log})
	r.Register(&phaseRecorder{PhaseAudio, "audio", &log})

	r.TickPhase(PhaseAudio, 0)
	if len(log) != 1 || log[0] != "audio" {
		t.Errorf("log = %v", log)
	}
}

func TestGame_DefaultsWithNilArgs(t *testing.T) {
	game := NewGame(nil, nil)
	defer game.Close()
	if game.Config() == nil || game.Logger() == nil {
		t.Fatal("nil config or logger")
	}
	if !game.IsRunning() {
		t.Error("new game should be running")
	}
}

func TestGame_ExitStopsRunning(t *testing.T) {
	game := newTestGame(t)
	game.Exit()
	game.Exit()
	if game.IsRunning() {
		t.Error("IsRunning after Exit")
	}
}

func TestGame_UpdateScalesTime(t *testing.T) {
	game := newTestGame(t)
	game.Clock().SetTimeScale(0.5)

	var got float64
	game.Timers().Subscribe(func(dt float64) { got = dt })
	game.Update(0.2)

	assertNear(t, "notified dt", got, 0.1)
	assertNear(t, "elapsed", game.Clock().Elapsed(), 0.1)
	if game.Clock().Frame() != 1 {
		t.Errorf("Frame = %d, want 1", game.Clock().Frame())
	}
}

func TestGame_BuiltinsRegistered(t *testing.T) {
	game := newTestGame(t)
	for _, name := range []string{
		"KeyboardActivator", "MouseInteractionHandler", "RigidBody2D",
		"RectangleCollider", "SpriteRenderer", "TextRenderer", "AudioSource",
		"LimitedLifeTime", "EventTriggerer", "OpacityLerper",
		"ChangeScaleAnimator", "MoveToPositionAnimator", "LoadResourcesAsyncScript",
	} {
		if !game.Components().Has(name) {
			t.Errorf("component %q not registered", name)
		}
	}
	if !game.ScriptableObjects().Has("GameSettings") || !game.ScriptableObjects().Has("WindowSettings") {
		t.Error("settings types not registered")
	}
}

func TestGame_CloseKillsScreensAndCancels(t *testing.T) {
	game := NewGame(nil, zap.NewNop())
	s := game.Scenes().NewScreen("main", 4)
	g := s.AllocateGameObject()

	game.Close()
	if g.IsAlive() {
		t.Error("object should die on Close")
	}
	if len(game.Scenes().Screens()) != 0 {
		t.Error("screens should be unloaded")
	}
	select {
	case <-game.Context().Done():
	default:
		t.Error("context should be cancelled")
	}
}

func TestGame_ApplySettings(t *testing.T) {
	game := newTestGame(t)
	game.ApplySettings(&GameSettings{MasterVolume: 0.5, MusicVolume: 2, SFXVolume: -1})
	assertNear(t, "master", game.Audio().MasterVolume(), 0.5)
	assertNear(t, "music", game.Audio().MusicVolume(), 1)
	assertNear(t, "sfx", game.Audio().SFXVolume(), 0)
	game.ApplySettings(nil)
}
