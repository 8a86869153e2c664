// Package bmp implements the BMP codec: DIB header parsing, row-padding
// reconstruction (including the documented quirky padding formula), and
// the symmetric encoder (spec.md §4.4).
//
// The file/DIB header layout mirrors the teacher's container.Parser in
// shape -- a fixed prefix of little-endian fields read with
// encoding/binary -- generalized from RIFF's single 12-byte prologue to
// BMP's 14-byte file header plus a 40/122-byte DIB header.
package bmp

import (
	"encoding/binary"
	"fmt"

	gi "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/internal/array2d"
	"github.com/aramiscd/gren-image/internal/pixel"
)

const fileHeaderSize = 14

// Decode parses a BMP byte buffer into a Lazy Image; the file/DIB header
// is parsed eagerly, pixel unpacking is deferred to a producer closure.
func Decode(data []byte) (gi.Image, error) {
	meta, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	return gi.NewLazy(meta, func(m gi.Meta) gi.Image {
		px, perr := decodePixels(data, m.(gi.MetaBmp))
		if perr != nil {
			return gi.Empty(m)
		}
		return gi.FromArray(m, px)
	}), nil
}

func parseHeader(data []byte) (gi.MetaBmp, error) {
	var zero gi.MetaBmp
	if len(data) < fileHeaderSize+40 || data[0] != 'B' || data[1] != 'M' {
		return zero, fmt.Errorf("bmp: %w: bad magic", gi.ErrMalformedInput)
	}
	fileSize := binary.LittleEndian.Uint32(data[2:6])
	pixelStart := binary.LittleEndian.Uint32(data[10:14])

	dib := data[fileHeaderSize:]
	dibHeaderSize := binary.LittleEndian.Uint32(dib[0:4])
	width := int(int32(binary.LittleEndian.Uint32(dib[4:8])))
	height := int(int32(binary.LittleEndian.Uint32(dib[8:12])))
	colorPlanes := binary.LittleEndian.Uint16(dib[12:14])
	bitsPerPixel := binary.LittleEndian.Uint16(dib[14:16])
	compression := binary.LittleEndian.Uint32(dib[16:20])
	dataSize := binary.LittleEndian.Uint32(dib[20:24])

	if width < 0 {
		width = -width
	}
	if height < 0 {
		height = -height
	}

	switch bitsPerPixel {
	case 8, 16, 24, 32:
	default:
		return zero, fmt.Errorf("bmp: %w: %d bits per pixel", gi.ErrUnsupportedFeature, bitsPerPixel)
	}

	return gi.MetaBmp{
		FileSize:      fileSize,
		PixelStart:    pixelStart,
		DibHeaderSize: dibHeaderSize,
		Width:         width,
		Height:        height,
		ColorPlanes:   colorPlanes,
		BitsPerPixel:  bitsPerPixel,
		Compression:   compression,
		DataSize:      dataSize,
	}, nil
}

// rowPadding reproduces the documented quirky padding formula (spec.md §9
// Open Question 1): the inner modulus uses bitsPerPixel rather than
// bytesPerPixel, which is almost certainly a historical bug in the format
// this codec mirrors -- preserved rather than "fixed" so round trips
// against files produced by that original stay byte-identical.
func rowPadding(width, bytesPerPixel, bitsPerPixel int) int {
	inner := properMod(width*bytesPerPixel, bitsPerPixel)
	return properMod(4-inner, 4)
}

func properMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func decodePixels(data []byte, m gi.MetaBmp) (gi.Pixels, error) {
	bytesPerPixel := int(m.BitsPerPixel) / 8
	padding := rowPadding(m.Width, bytesPerPixel, int(m.BitsPerPixel))
	stride := m.Width*bytesPerPixel + padding

	start := int(m.PixelStart)
	rows := make([][]pixel.Pixel, m.Height)
	for i := 0; i < m.Height; i++ {
		rowStart := start + i*stride
		if rowStart+m.Width*bytesPerPixel > len(data) {
			return gi.Pixels{}, fmt.Errorf("bmp: %w: row %d truncated", gi.ErrMalformedInput, i)
		}
		row := make([]pixel.Pixel, m.Width)
		for x := 0; x < m.Width; x++ {
			off := rowStart + x*bytesPerPixel
			row[x] = decodePixel(data[off:off+bytesPerPixel], m.BitsPerPixel)
		}
		// BMP rows are stored bottom-first; reverse-accumulate to yield
		// top-first order (spec.md §4.4 decode).
		rows[m.Height-1-i] = row
	}
	return array2d.New(rows), nil
}

func decodePixel(b []byte, bpp uint16) pixel.Pixel {
	switch bpp {
	case 32:
		return pixel.Pixel(binary.LittleEndian.Uint32(b))
	case 24:
		return pixel.WidenRGB24(b[2], b[1], b[0])
	case 16:
		word := binary.LittleEndian.Uint16(b)
		r5 := (word >> 10) & 0x1F
		g5 := (word >> 5) & 0x1F
		b5 := word & 0x1F
		scale := func(v uint16) uint8 { return uint8(v * 255 / 31) }
		return pixel.WidenRGB24(scale(r5), scale(g5), scale(b5))
	default: // 8
		return pixel.WidenGrey(b[0])
	}
}
