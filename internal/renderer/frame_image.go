package renderer

import (
	"image"
	"image/color"
)

// bgrFrame exposes a raw bgr24 frame buffer as a drawable image so glyph
// rasterization writes straight into the frame, with clipping handled by
// the draw package.
type bgrFrame struct {
	pix    []byte
	width  int
	height int
}

func (f *bgrFrame) ColorModel() color.Model {
	return color.RGBAModel
}

func (f *bgrFrame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

func (f *bgrFrame) At(x, y int) color.Color {
	i := (y*f.width + x) * 3
	return color.RGBA{R: f.pix[i+2], G: f.pix[i+1], B: f.pix[i], A: 255}
}

func (f *bgrFrame) Set(x, y int, c color.Color) {
	r, g, b, _ := c.RGBA()
	i := (y*f.width + x) * 3
	f.pix[i] = byte(b >> 8)
	f.pix[i+1] = byte(g >> 8)
	f.pix[i+2] = byte(r >> 8)
}
