package app

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay displays the current FPS and TPS in the top-left corner,
// refreshed every ~0.5 seconds.
type fpsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsOverlay{img: ebiten.NewImage(100, 32), lastUpdate: 0.5}
}

func (f *fpsOverlay) update(dt float64) {
	f.lastUpdate += dt
	if f.lastUpdate < 0.5 {
		return
	}
	f.lastUpdate = 0

	f.img.Clear()
	f.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (f *fpsOverlay) draw(target *ebiten.Image) {
	target.DrawImage(f.img, nil)
}
