package image

import (
	stdimage "image"
	"image/color"

	"github.com/aramiscd/gren-image/internal/pixel"
)

// StdImage adapts a forced gren-image Image to the standard library's
// image.Image interface, so a decoded Image can be handed directly to
// image/draw or any stdlib-consuming code without an intermediate copy.
// This is additive to spec.md (SPEC_FULL.md's "image.Image interop"
// supplement): it mirrors the teacher's own webp.go, which returns
// stock image.Image values from Decode so callers never see a
// WebP-specific pixel type.
type StdImage struct {
	img Image
}

// AsStdImage forces img and wraps it for stdlib image/* consumption.
func AsStdImage(img Image) StdImage {
	return StdImage{img: Eval(img)}
}

func (s StdImage) ColorModel() color.Model { return color.RGBAModel }

func (s StdImage) Bounds() stdimage.Rectangle {
	px := PixelsOf(s.img)
	return stdimage.Rect(0, 0, px.Width(), px.Height())
}

func (s StdImage) At(x, y int) color.Color {
	px := PixelsOf(s.img)
	v, ok := px.Get(x, y)
	if !ok {
		return color.RGBA{}
	}
	r, g, b, a := pixel.Unpack(v)
	return color.RGBA{R: r, G: g, B: b, A: a}
}
