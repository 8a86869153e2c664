// Package gif implements a GIF89a encoder (spec.md §4.5) and a minimal
// decoder whose coverage is intentionally partial: only the LZW inner
// stream of a single, non-animated frame is reconstructed (spec.md §9
// note 5); local color tables, graphics control extensions, and multi-
// frame animation are out of scope.
//
// The sub-block framing (length-prefixed runs capped at 255 bytes,
// terminated by a zero-length block) is the same shape the teacher's
// animation package uses for WebP's ANMF payload chunking, generalized
// from RIFF chunk framing to GIF's flat byte-run framing.
package gif

import (
	"encoding/binary"
	"math"

	gi "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/internal/lzw"
	"github.com/aramiscd/gren-image/internal/pixel"
)

const (
	trailer   = 0x3B
	separator = 0x2C
)

var header89a = [6]byte{'G', 'I', 'F', '8', '9', 'a'}

// Encode serializes img as a single-frame GIF89a byte buffer.
func Encode(img gi.Image) []byte {
	px := gi.PixelsOf(img)
	w, h := px.Width(), px.Height()
	px = px.PadTo(w, h, pixel.Zero)

	palette, indices := extractPalette(px)
	paletteSize := len(palette)
	tableBits := ceilLog2(paletteSize)
	if tableBits < 1 {
		tableBits = 1
	}
	tableEntries := 1 << tableBits

	out := make([]byte, 0, 256)
	out = append(out, header89a[:]...)

	lsd := make([]byte, 7)
	binary.LittleEndian.PutUint16(lsd[0:2], uint16(w))
	binary.LittleEndian.PutUint16(lsd[2:4], uint16(h))
	// packed fields: global color table present (bit7), color resolution
	// (bits 6-4, reusing tableBits-1), sorted (bit 0 of that nibble) = 0,
	// size of global color table (bits 2-0) = tableBits-1.
	lsd[4] = 0x80 | uint8((tableBits-1)<<4) | uint8(tableBits-1)
	lsd[5] = 0 // background color index
	lsd[6] = 0 // pixel aspect ratio
	out = append(out, lsd...)

	for i := 0; i < tableEntries; i++ {
		if i < len(palette) {
			r, g, b := pixel.NarrowRGB24(palette[i])
			out = append(out, r, g, b)
		} else {
			out = append(out, 0, 0, 0)
		}
	}

	out = append(out, separator)
	imgDesc := make([]byte, 9)
	binary.LittleEndian.PutUint16(imgDesc[0:2], 0) // left
	binary.LittleEndian.PutUint16(imgDesc[2:4], 0) // top
	binary.LittleEndian.PutUint16(imgDesc[4:6], uint16(w))
	binary.LittleEndian.PutUint16(imgDesc[6:8], uint16(h))
	imgDesc[8] = 0 // no local table, no interlace
	out = append(out, imgDesc...)

	// lastColorIndex (and so cc/eoi) must be derived from the on-wire
	// minimum code size, not the raw palette count: every GIF reader,
	// including this package's own decode.go, reconstructs cc as
	// 2^minCodeSize, not from how many of the table's entries the encoder
	// actually populated. Deriving it from paletteSize instead would
	// desynchronize the two sides whenever paletteSize isn't an exact
	// power of two (or is below 4, where the code size is floored at 2).
	minCodeSize := lzw.CodeSize(tableEntries)
	if minCodeSize < 2 {
		minCodeSize = 2
	}
	lastColorIndex := (1 << uint(minCodeSize)) - 1
	out = append(out, byte(minCodeSize))

	coded, err := lzw.Encode(lastColorIndex, indices)
	if err != nil {
		coded = nil
	}
	out = append(out, subBlocks(coded)...)

	out = append(out, 0x00) // block terminator
	out = append(out, trailer)
	return out
}

// extractPalette walks px in row-major order, assigning each novel color
// the next free index (0..255); a 257th novel color forces every
// subsequent occurrence of it to index 0 (spec.md §4.5 step 1, Non-goals).
func extractPalette(px gi.Pixels) ([]pixel.Pixel, []int) {
	seen := map[pixel.Pixel]int{}
	var palette []pixel.Pixel
	indices := make([]int, 0, px.Width()*px.Height())

	for y := 0; y < px.Height(); y++ {
		for _, p := range px.Row(y) {
			opaque := flattenAlpha(p)
			idx, ok := seen[opaque]
			if !ok {
				if len(palette) < 256 {
					idx = len(palette)
					seen[opaque] = idx
					palette = append(palette, opaque)
				} else {
					idx = 0
				}
			}
			indices = append(indices, idx)
		}
	}
	return palette, indices
}

// flattenAlpha forces any non-fully-transparent pixel to fully opaque
// (spec.md §4.5 step 2); GIF carries no alpha channel in its palette.
func flattenAlpha(p pixel.Pixel) pixel.Pixel {
	r, g, b, a := pixel.Unpack(p)
	if a == 0 {
		return pixel.Pack(0, 0, 0, 0)
	}
	return pixel.Pack(r, g, b, 0xFF)
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

// subBlocks frames data into length-prefixed runs of at most 255 bytes
// (spec.md §4.5 step 6); the caller appends the terminating zero-length
// block itself.
func subBlocks(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/255+1)
	for len(data) > 0 {
		n := len(data)
		if n > 255 {
			n = 255
		}
		out = append(out, byte(n))
		out = append(out, data[:n]...)
		data = data[n:]
	}
	return out
}
