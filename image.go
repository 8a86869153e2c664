// Package image implements the shared abstraction every codec in
// gren-image decodes into and encodes from: a rectangular grid of 32-bit
// RGBA pixels (internal/array2d over internal/pixel) plus a tagged Meta
// describing where the image came from.
//
// The Image and Meta sum types follow spec.md §9's guidance to prefer
// tagged variants over a subclass hierarchy -- each is a small interface
// closed by an unexported method, dispatched by a type switch
// rather than virtual methods. This is the same shape the teacher uses
// for its own closed unions (container.ParseStatus is an enum rather
// than a class hierarchy, and FrameInfo's IsLossless bool tags which of
// two payload encodings a frame carries instead of two FrameInfo types).
package image

import (
	"github.com/aramiscd/gren-image/internal/array2d"
	"github.com/aramiscd/gren-image/internal/pixel"
)

// Pixels is the materialized pixel grid type every Image forces down to.
type Pixels = array2d.Array2D[pixel.Pixel]

// Meta tags an Image with its origin and declared color shape.
type Meta interface {
	// Dimensions returns the width and height the format's header
	// declared, independent of whether pixels have been forced yet.
	Dimensions() (width, height int)
	isMeta()
}

// PngColorType enumerates the PNG color-type byte (spec.md §3).
type PngColorType uint8

const (
	PngGreyscale       PngColorType = 0
	PngTrueColour      PngColorType = 2
	PngIndexedColour   PngColorType = 3
	PngGreyscaleAlpha  PngColorType = 4
	PngTrueColourAlpha PngColorType = 6
)

// PngColor is one cell of the PNG color-type x bit-depth matrix spec.md
// §3 describes (Greyscale{1,2,4,8,16}; TrueColour{8,16}; etc).
type PngColor struct {
	Type  PngColorType
	Depth uint8
}

// MetaPng is the PNG decoder's tagged Meta variant.
type MetaPng struct {
	Width, Height int
	Color         PngColor
	Adam7         bool
	// AuxChunks maps a 4-character chunk name to the raw payload of a
	// chunk the decoder preserved but did not interpret.
	AuxChunks map[string][]byte
}

func (m MetaPng) Dimensions() (int, int) { return m.Width, m.Height }
func (MetaPng) isMeta()                  {}

// MetaBmp is the BMP decoder's tagged Meta variant.
type MetaBmp struct {
	FileSize      uint32
	PixelStart    uint32
	DibHeaderSize uint32
	Width, Height int
	ColorPlanes   uint16
	BitsPerPixel  uint16
	Compression   uint32
	DataSize      uint32
}

func (m MetaBmp) Dimensions() (int, int) { return m.Width, m.Height }
func (MetaBmp) isMeta()                  {}

// MetaGif is the GIF encoder/decoder's minimal tagged Meta variant.
type MetaGif struct {
	Width, Height int
}

func (m MetaGif) Dimensions() (int, int) { return m.Width, m.Height }
func (MetaGif) isMeta()                  {}

// Channels enumerates the channel-count x bit-depth shape of a
// synthetic/raw image (spec.md §3's FromData color).
type Channels uint8

const (
	ChannelsAlpha          Channels = 1 // alpha only
	ChannelsLuminanceAlpha Channels = 2
	ChannelsRGB            Channels = 3
	ChannelsRGBA           Channels = 4
)

// FromDataColor is the color shape carried by MetaFromData.
type FromDataColor struct {
	Channels Channels
	Depth    uint8
}

// Channel4At8 is the color shape manip.go's Get/Put results declare,
// matching spec.md §4.6's "FromData{ sw, sh, Channel4@8 }".
var Channel4At8 = FromDataColor{Channels: ChannelsRGBA, Depth: 8}

// MetaFromData tags a synthetic or user-constructed image, and is also
// what crop/paste replace a source Meta with (spec.md §9 note 4).
type MetaFromData struct {
	Width, Height int
	Color         FromDataColor
}

func (m MetaFromData) Dimensions() (int, int) { return m.Width, m.Height }
func (MetaFromData) isMeta()                  {}

// Image is either Raw (pixels materialized) or Lazy (header parsed,
// pixels not yet computed). Forcing a Lazy Image is the sole deferred
// work mechanism in this library (spec.md §5) -- a plain closure over
// the source bytes, not a goroutine, channel, or generator.
type Image interface {
	meta() Meta
	isImage()
}

type rawImage struct {
	m      Meta
	pixels Pixels
}

func (r rawImage) meta() Meta { return r.m }
func (rawImage) isImage()     {}

// producerFunc synthesizes pixels for a Lazy Image. It must be
// referentially transparent: the same source bytes always force to the
// same pixels, and it may be called more than once (force is not
// memoized, per spec.md §5).
type producerFunc func(Meta) Image

type lazyImage struct {
	m       Meta
	produce producerFunc
}

func (l lazyImage) meta() Meta { return l.m }
func (lazyImage) isImage()     {}

// FromArray builds a Raw Image directly from a materialized pixel grid.
func FromArray(m Meta, pixels Pixels) Image {
	return rawImage{m: m, pixels: pixels}
}

// NewLazy builds a Lazy Image wrapping a producer closure. Forcing it
// (Eval) must yield a Raw Image whose Meta equals m (spec.md §3
// invariant 3); producers that fail should still return that Meta, with
// an empty pixel grid, per spec.md §7.
func NewLazy(m Meta, produce func(Meta) Image) Image {
	return lazyImage{m: m, produce: produce}
}

// MetaOf returns img's Meta without forcing it.
func MetaOf(img Image) Meta { return img.meta() }

// Eval forces img, producing a Raw Image. Eval(Eval(img)) == Eval(img):
// forcing an already-Raw Image is a no-op (spec.md §8 property 5).
func Eval(img Image) Image {
	switch v := img.(type) {
	case rawImage:
		return v
	case lazyImage:
		forced := v.produce(v.m)
		if raw, ok := forced.(rawImage); ok {
			return raw
		}
		// A producer that itself returns Lazy is forced again; this
		// keeps Eval's postcondition (always Raw) without requiring
		// every producer to guarantee it forces in exactly one step.
		return Eval(forced)
	default:
		return img
	}
}

// PixelsOf forces img and returns its materialized pixel grid.
func PixelsOf(img Image) Pixels {
	return Eval(img).(rawImage).pixels
}

// Empty returns a Raw Image with the given Meta and a zero-pixel grid,
// the shape spec.md §7 requires a failed lazy pixel pass to degrade to:
// header metadata survives, pixel data is lost.
func Empty(m Meta) Image {
	return rawImage{m: m, pixels: array2d.New[pixel.Pixel](nil)}
}
