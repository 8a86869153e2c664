package gif

import (
	"encoding/binary"
	"fmt"

	gi "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/internal/array2d"
	"github.com/aramiscd/gren-image/internal/lzw"
	"github.com/aramiscd/gren-image/internal/pixel"
)

// Decode parses a single-frame GIF89a byte buffer. Coverage is partial by
// design (spec.md §9 note 5): a global color table, one image descriptor,
// and the image's LZW stream are understood; local color tables, graphics
// control extensions, and additional frames are rejected rather than
// silently skipped.
func Decode(data []byte) (gi.Image, error) {
	if len(data) < 13 || string(data[0:6]) != "GIF89a" {
		return nil, fmt.Errorf("gif: %w: bad signature", gi.ErrMalformedInput)
	}
	width := int(binary.LittleEndian.Uint16(data[6:8]))
	height := int(binary.LittleEndian.Uint16(data[8:10]))
	packed := data[10]
	hasGCT := packed&0x80 != 0
	if !hasGCT {
		return nil, fmt.Errorf("gif: %w: no global color table", gi.ErrUnsupportedFeature)
	}
	gctSize := 1 << (uint(packed&0x07) + 1)

	pos := 13
	if pos+gctSize*3 > len(data) {
		return nil, fmt.Errorf("gif: %w: truncated global color table", gi.ErrMalformedInput)
	}
	palette := make([]pixel.Pixel, gctSize)
	for i := 0; i < gctSize; i++ {
		r, g, b := data[pos], data[pos+1], data[pos+2]
		palette[i] = pixel.WidenRGB24(r, g, b)
		pos += 3
	}

	if pos >= len(data) || data[pos] != separator {
		return nil, fmt.Errorf("gif: %w: expected image descriptor", gi.ErrUnsupportedFeature)
	}
	pos++
	if pos+9 > len(data) {
		return nil, fmt.Errorf("gif: %w: truncated image descriptor", gi.ErrMalformedInput)
	}
	imgWidth := int(binary.LittleEndian.Uint16(data[pos+4 : pos+6]))
	imgHeight := int(binary.LittleEndian.Uint16(data[pos+6 : pos+8]))
	descPacked := data[pos+8]
	if descPacked&0xC0 != 0 {
		return nil, fmt.Errorf("gif: %w: local color table or interlacing", gi.ErrUnsupportedFeature)
	}
	pos += 9

	if pos >= len(data) {
		return nil, fmt.Errorf("gif: %w: missing LZW minimum code size", gi.ErrMalformedInput)
	}
	minCodeSize := int(data[pos])
	pos++

	var coded []byte
	for {
		if pos >= len(data) {
			return nil, fmt.Errorf("gif: %w: unterminated sub-block run", gi.ErrMalformedInput)
		}
		n := int(data[pos])
		pos++
		if n == 0 {
			break
		}
		if pos+n > len(data) {
			return nil, fmt.Errorf("gif: %w: truncated sub-block", gi.ErrMalformedInput)
		}
		coded = append(coded, data[pos:pos+n]...)
		pos += n
	}

	if pos < len(data) && data[pos] != trailer {
		return nil, fmt.Errorf("gif: %w: blocks after the first frame", gi.ErrUnsupportedFeature)
	}

	if minCodeSize < 2 || minCodeSize > 8 {
		return nil, fmt.Errorf("gif: %w: LZW minimum code size %d", gi.ErrMalformedInput, minCodeSize)
	}
	lastColorIndex := (1 << uint(minCodeSize)) - 1
	indices, err := lzw.Decode(lastColorIndex, coded)
	if err != nil {
		return nil, fmt.Errorf("gif: %w: %v", gi.ErrLZWProtocol, err)
	}
	if len(indices) != imgWidth*imgHeight {
		return nil, fmt.Errorf("gif: %w: index count %d, want %d", gi.ErrMalformedInput, len(indices), imgWidth*imgHeight)
	}

	rows := make([][]pixel.Pixel, imgHeight)
	k := 0
	for y := 0; y < imgHeight; y++ {
		row := make([]pixel.Pixel, imgWidth)
		for x := 0; x < imgWidth; x++ {
			idx := indices[k]
			k++
			if idx >= 0 && idx < len(palette) {
				row[x] = palette[idx]
			}
		}
		rows[y] = row
	}

	meta := gi.MetaGif{Width: width, Height: height}
	return gi.FromArray(meta, array2d.New(rows)), nil
}
