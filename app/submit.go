package app

import (
	"image/color"

	"github.com/celeste2d/celeste"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// for solid quads.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// TextureStore resolves RenderCommand texture names to images.
type TextureStore map[string]*ebiten.Image

// submitBatch draws the sorted commands onto target in order.
func submitBatch(target *ebiten.Image, batch *celeste.RenderBatch, textures TextureStore) {
	cmds := batch.Commands()
	if len(cmds) == 0 {
		return
	}

	var op ebiten.DrawImageOptions

	for i := range cmds {
		cmd := &cmds[i]

		switch cmd.Type {
		case celeste.CommandSprite:
			submitSprite(target, cmd, textures, &op)
		case celeste.CommandText:
			submitText(target, cmd)
		}
	}
}

// submitSprite draws a sprite command. The command transform maps the unit
// quad, so the image is first scaled down to 1x1.
func submitSprite(target *ebiten.Image, cmd *celeste.RenderCommand, textures TextureStore, op *ebiten.DrawImageOptions) {
	img := ensureWhitePixel()
	if cmd.Texture != "" {
		tex, ok := textures[cmd.Texture]
		if !ok || tex == nil {
			return
		}
		img = tex
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}

	op.GeoM.Reset()
	op.GeoM.Scale(1/w, 1/h)
	op.GeoM.Concat(commandGeoM(cmd))

	op.ColorScale.Reset()
	a := float32(cmd.Color.A)
	op.ColorScale.Scale(float32(cmd.Color.R)*a, float32(cmd.Color.G)*a, float32(cmd.Color.B)*a, a)
	op.Blend = cmd.BlendMode.EbitenBlend()

	target.DrawImage(img, op)
}

// submitText prints debug text at the command's translation.
func submitText(target *ebiten.Image, cmd *celeste.RenderCommand) {
	ebitenutil.DebugPrintAt(target, cmd.Text, int(cmd.Transform[4]), int(cmd.Transform[5]))
}

// commandGeoM converts a command's affine transform to an ebiten.GeoM.
func commandGeoM(cmd *celeste.RenderCommand) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, cmd.Transform[0])
	m.SetElement(1, 0, cmd.Transform[1])
	m.SetElement(0, 1, cmd.Transform[2])
	m.SetElement(1, 1, cmd.Transform[3])
	m.SetElement(0, 2, cmd.Transform[4])
	m.SetElement(1, 2, cmd.Transform[5])
	return m
}
