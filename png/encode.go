package png

import (
	"encoding/binary"

	gi "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/internal/deflate"
	"github.com/aramiscd/gren-image/internal/pixel"
)

// Format selects the IHDR color-type/bit-depth pair an Encode call emits
// (spec.md §4.3 encode step 2).
type Format int

const (
	FormatRGBA Format = iota
	FormatRGB
	FormatLuminanceAlpha
	FormatAlpha
)

// Order picks pixel traversal direction for encode: RightDown walks every
// row left-to-right, top-to-bottom; the other three variants flip one or
// both axes (spec.md §4.3's EncodeOptions.order).
type Order int

const (
	RightDown Order = iota
	RightUp
	LeftDown
	LeftUp
)

// EncodeOptions configures Encode's IHDR color shape and row traversal.
type EncodeOptions struct {
	Format Format
	Order  Order
}

func colorTypeAndDepth(f Format) (gi.PngColorType, uint8) {
	switch f {
	case FormatRGB:
		return gi.PngTrueColour, 8
	case FormatLuminanceAlpha:
		// spec.md §4.3 encode step 2 maps LUMINANCE_ALPHA to color-type 0
		// (Greyscale) at depth 16, not color-type 4 -- followed literally
		// here even though the two 16-bit samples packed per pixel are a
		// luminance/alpha pair rather than a true single-channel greyscale
		// sample (see DESIGN.md, Open Questions resolved #6).
		return gi.PngGreyscale, 16
	case FormatAlpha:
		return gi.PngGreyscale, 8
	default:
		return gi.PngTrueColourAlpha, 8
	}
}

// Encode serializes img as a PNG byte stream per the chosen options. Any
// AuxChunks carried on a MetaPng source image are re-emitted between IHDR
// and IDAT, preserving chunks the decoder couldn't interpret.
func Encode(img gi.Image, opts EncodeOptions) []byte {
	px := gi.PixelsOf(img)
	w, h := px.Width(), px.Height()
	px = px.PadTo(w, h, pixel.Zero)

	colorType, depth := colorTypeAndDepth(opts.Format)

	out := append([]byte(nil), Signature[:]...)

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(h))
	ihdr[8] = depth
	ihdr[9] = byte(colorType)
	ihdr[10] = 0 // compression
	ihdr[11] = 0 // filter
	ihdr[12] = 0 // interlace
	out = writeChunk(out, ChunkIHDR, ihdr)

	if meta, ok := gi.MetaOf(img).(gi.MetaPng); ok {
		for name, data := range meta.AuxChunks {
			out = writeChunk(out, name, data)
		}
	}

	bpp := encodedBytesPerPixel(opts.Format)
	var idat []byte
	rightToLeft := opts.Order == LeftDown || opts.Order == LeftUp
	bottomToTop := opts.Order == RightUp || opts.Order == LeftUp

	for i := 0; i < h; i++ {
		y := i
		if bottomToTop {
			y = h - 1 - i
		}
		row := px.Row(y)
		raw := make([]byte, 0, w*bpp)
		for j := 0; j < w; j++ {
			x := j
			if rightToLeft {
				x = w - 1 - j
			}
			raw = append(raw, encodePixel(row[x], opts.Format)...)
		}
		filtered := filterRowSub(raw, bpp)
		idat = append(idat, byte(filterSub))
		idat = append(idat, filtered...)
	}

	out = writeChunk(out, ChunkIDAT, deflate.Zlib(idat))
	out = writeChunk(out, ChunkIEND, nil)
	return out
}

func encodedBytesPerPixel(f Format) int {
	switch f {
	case FormatRGB:
		return 3
	case FormatLuminanceAlpha:
		return 4 // 16-bit depth: 2 bytes luminance + 2 bytes alpha
	case FormatAlpha:
		return 1
	default:
		return 4
	}
}

func encodePixel(p pixel.Pixel, f Format) []byte {
	r, g, b, a := pixel.Unpack(p)
	switch f {
	case FormatRGB:
		return []byte{r, g, b}
	case FormatLuminanceAlpha:
		return []byte{r, r, a, a}
	case FormatAlpha:
		return []byte{a}
	default:
		return []byte{r, g, b, a}
	}
}
