// Package app runs a celeste Game inside an Ebitengine window.
package app

import (
	"errors"
	"time"

	"github.com/celeste2d/celeste"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(48000)

// Runner adapts a Game to ebiten.Game. Each tick polls input, updates the
// game with a fixed step and renders the resulting batch.
type Runner struct {
	game     *celeste.Game
	window   celeste.WindowConfig
	textures TextureStore
	fps      *fpsOverlay
	step     float64

	now        func() time.Time
	lastUpdate time.Time
}

// New creates a Runner for game using its window configuration.
func New(game *celeste.Game) *Runner {
	window := game.Config().Window
	if window.TPS <= 0 {
		window.TPS = ebiten.DefaultTPS
	}
	r := &Runner{
		game:     game,
		window:   window,
		textures: make(TextureStore),
		step:     1 / float64(window.TPS),
		now:      time.Now,
	}
	if window.ShowFPS {
		r.fps = newFPSOverlay()
	}
	game.Input().SetSource(&celeste.EbitenInput{})
	return r
}

// Textures returns the texture store consulted by sprite commands.
func (r *Runner) Textures() TextureStore { return r.textures }

// ApplyWindowSettings overrides the window configuration. Call before Run.
func (r *Runner) ApplyWindowSettings(s *celeste.WindowSettings) {
	if s != nil {
		s.Apply(&r.window)
	}
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	r.game.HandleInput()
	r.game.Update(r.step)
	r.lastUpdate = r.now()
	if r.fps != nil {
		r.fps.update(r.step)
	}
	if !r.game.IsRunning() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	batch := r.game.Render(r.lag())
	submitBatch(screen, batch, r.textures)
	if r.fps != nil {
		r.fps.draw(screen)
	}
}

// lag returns the fraction of a fixed step elapsed since the last Update,
// in [0, 1]. Draw can run several times per Update on fast displays.
func (r *Runner) lag() float64 {
	if r.lastUpdate.IsZero() {
		return 0
	}
	f := r.now().Sub(r.lastUpdate).Seconds() / r.step
	return min(max(f, 0), 1)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.window.Width, r.window.Height
}

// speakerLocker guards the audio mixer with the speaker's lock.
type speakerLocker struct{}

func (speakerLocker) Lock()   { speaker.Lock() }
func (speakerLocker) Unlock() { speaker.Unlock() }

// initAudio starts the speaker and feeds it the game's mixer. Audio is
// optional; failure is logged and the game runs silent.
func initAudio(game *celeste.Game) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		game.Logger().Warn("audio disabled", zap.Error(err))
		return
	}
	game.Audio().SetLocker(speakerLocker{})
	speaker.Play(game.Audio().Mixer())
}

// Run opens the window and blocks until the game exits or the window closes.
func (r *Runner) Run() error {
	ebiten.SetWindowTitle(r.window.Title)
	ebiten.SetWindowSize(r.window.Width, r.window.Height)
	ebiten.SetFullscreen(r.window.Fullscreen)
	ebiten.SetTPS(r.window.TPS)

	initAudio(r.game)
	defer speaker.Clear()

	r.game.Logger().Info("window opened",
		zap.String("title", r.window.Title),
		zap.Int("width", r.window.Width),
		zap.Int("height", r.window.Height))

	err := ebiten.RunGame(r)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
