// Package pixel packs and unpacks the canonical 32-bit RGBA word shared by
// every codec in gren-image, plus the narrower word shapes individual
// formats decode into before they are promoted to the canonical form.
//
// The canonical word places the channels high-to-low as R, G, B, A: R in
// the most significant byte, A in the least significant. This layout is
// deliberate, not incidental -- it is the same byte order the BMP32 codec's
// BI_BITFIELDS masks describe (see bmp.maskR etc.), so a 32-bit BMP pixel
// read as a single little-endian word is already a canonical Pixel with no
// repacking.
package pixel

// Pixel is a packed 32-bit RGBA word: bits 31-24 hold R, 23-16 hold G,
// 15-8 hold B, and 7-0 hold A.
type Pixel uint32

// Pack combines four 8-bit channels into a canonical Pixel.
func Pack(r, g, b, a uint8) Pixel {
	return Pixel(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// Unpack splits a canonical Pixel back into its four 8-bit channels.
func Unpack(p Pixel) (r, g, b, a uint8) {
	return uint8(p >> 24), uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// R, G, B and A extract a single channel from a canonical Pixel.
func R(p Pixel) uint8 { return uint8(p >> 24) }
func G(p Pixel) uint8 { return uint8(p >> 16) }
func B(p Pixel) uint8 { return uint8(p >> 8) }
func A(p Pixel) uint8 { return uint8(p) }

// Opaque is black with a fully opaque alpha channel.
const Opaque Pixel = 0x000000FF

// Zero is the default pixel used by Array2D padding and out-of-bounds reads
// where a fully transparent value is wanted instead of Opaque's black.
const Zero Pixel = 0

// WidenGreyAlpha promotes a PNG GreyscaleAlpha@8 sample, packed on the wire
// as a 16-bit word (g<<8)|a, to the canonical RGBA form (r=g=b=grey).
func WidenGreyAlpha(word uint16) Pixel {
	grey := uint8(word >> 8)
	alpha := uint8(word)
	return Pack(grey, grey, grey, alpha)
}

// WidenGrey promotes a bare greyscale sample (no alpha channel) to the
// canonical RGBA form with full opacity.
func WidenGrey(grey uint8) Pixel {
	return Pack(grey, grey, grey, 0xFF)
}

// WidenRGB24 promotes a 24-bit RGB triple (no alpha channel) to the
// canonical RGBA form with full opacity.
func WidenRGB24(r, g, b uint8) Pixel {
	return Pack(r, g, b, 0xFF)
}

// NarrowRGB24 drops the alpha channel, returning the three 8-bit channels
// BMP24/PLTE entries are stored as.
func NarrowRGB24(p Pixel) (r, g, b uint8) {
	r, g, b, _ = Unpack(p)
	return
}
