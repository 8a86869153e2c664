package png

import (
	"bytes"
	"encoding/binary"
	"fmt"

	gi "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/internal/array2d"
	"github.com/aramiscd/gren-image/internal/deflate"
	"github.com/aramiscd/gren-image/internal/pixel"
)

// Decode parses a PNG byte buffer and returns a Lazy Image: the header is
// parsed eagerly (cheap), but IDAT concatenation, inflate, and scanline
// reconstruction are deferred to a producer closure per spec.md §2's
// data-flow design, forced by gi.Eval/gi.PixelsOf/any manipulation.
func Decode(data []byte) (gi.Image, error) {
	meta, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	return gi.NewLazy(meta, func(m gi.Meta) gi.Image {
		px, perr := decodePixels(data, m.(gi.MetaPng))
		if perr != nil {
			return gi.Empty(m)
		}
		return gi.FromArray(m, px)
	}), nil
}

func parseHeader(data []byte) (gi.MetaPng, error) {
	var zero gi.MetaPng
	if len(data) < 8 || !bytes.Equal(data[:8], Signature[:]) {
		return zero, fmt.Errorf("png: %w: bad signature", gi.ErrMalformedInput)
	}
	chunks, err := readChunks(data[8:])
	if err != nil {
		return zero, err
	}
	if len(chunks) == 0 || chunks[0].kind != ChunkIHDR {
		return zero, fmt.Errorf("png: %w: first chunk is not IHDR", gi.ErrMalformedInput)
	}
	ihdr := chunks[0].data
	if len(ihdr) != 13 {
		return zero, fmt.Errorf("png: %w: IHDR length %d, want 13", gi.ErrMalformedInput, len(ihdr))
	}
	width := int(binary.BigEndian.Uint32(ihdr[0:4]))
	height := int(binary.BigEndian.Uint32(ihdr[4:8]))
	bitDepth := ihdr[8]
	colorType := ihdr[9]
	compression := ihdr[10]
	filterMethod := ihdr[11]
	interlace := ihdr[12]

	if compression != 0 {
		return zero, fmt.Errorf("png: %w: compression method %d", gi.ErrUnsupportedFeature, compression)
	}
	if filterMethod != 0 {
		return zero, fmt.Errorf("png: %w: filter method %d", gi.ErrUnsupportedFeature, filterMethod)
	}
	if interlace > 1 {
		return zero, fmt.Errorf("png: %w: interlace method %d", gi.ErrMalformedInput, interlace)
	}
	if interlace == 1 {
		return zero, fmt.Errorf("png: %w: Adam7 interlacing", gi.ErrUnsupportedFeature)
	}
	if _, err := bytesPerPixel(gi.PngColor{Type: gi.PngColorType(colorType), Depth: bitDepth}); err != nil {
		return zero, err
	}

	aux := map[string][]byte{}
	for _, c := range chunks[1:] {
		switch c.kind {
		case ChunkPLTE, ChunktRNS, ChunkIDAT, ChunkIEND:
			// interpreted elsewhere; not auxiliary
		default:
			aux[c.kind] = append([]byte(nil), c.data...)
		}
	}

	return gi.MetaPng{
		Width:  width,
		Height: height,
		Color:  gi.PngColor{Type: gi.PngColorType(colorType), Depth: bitDepth},
		Adam7:  interlace == 1,
		AuxChunks: aux,
	}, nil
}

// bytesPerPixel returns the encoded byte stride for the color shapes this
// core can decode to canonical RGBA pixels.
func bytesPerPixel(color gi.PngColor) (int, error) {
	if color.Depth != 8 {
		return 0, fmt.Errorf("png: %w: bit depth %d", gi.ErrUnsupportedFeature, color.Depth)
	}
	switch color.Type {
	case gi.PngIndexedColour:
		return 1, nil
	case gi.PngGreyscaleAlpha:
		return 2, nil
	case gi.PngTrueColourAlpha:
		return 4, nil
	default:
		return 0, fmt.Errorf("png: %w: color type %d @ depth %d", gi.ErrUnsupportedFeature, color.Type, color.Depth)
	}
}

func decodePixels(data []byte, m gi.MetaPng) (gi.Pixels, error) {
	chunks, err := readChunks(data[8:])
	if err != nil {
		return gi.Pixels{}, err
	}

	bpp, err := bytesPerPixel(m.Color)
	if err != nil {
		return gi.Pixels{}, err
	}

	var palette []pixel.Pixel
	var idat []byte
	for _, c := range chunks {
		switch c.kind {
		case ChunkPLTE:
			palette = make([]pixel.Pixel, len(c.data)/3)
			for i := range palette {
				r, g, b := c.data[i*3], c.data[i*3+1], c.data[i*3+2]
				palette[i] = pixel.WidenRGB24(r, g, b)
			}
		case ChunktRNS:
			for i, a := range c.data {
				if i >= len(palette) {
					break
				}
				r, g, b, _ := pixel.Unpack(palette[i])
				palette[i] = pixel.Pack(r, g, b, a)
			}
		case ChunkIDAT:
			idat = append(idat, c.data...)
		}
	}

	raw, err := deflate.Unzlib(idat)
	if err != nil {
		return gi.Pixels{}, fmt.Errorf("png: %w: %v", gi.ErrDecompressionFailure, err)
	}

	stride := m.Width * bpp
	rows := make([][]pixel.Pixel, 0, m.Height)
	var prevRecon []byte
	pos := 0
	for y := 0; y < m.Height; y++ {
		if pos >= len(raw) {
			return gi.Pixels{}, fmt.Errorf("png: %w: scanline %d missing", gi.ErrMalformedInput, y)
		}
		ft := raw[pos]
		pos++
		if pos+stride > len(raw) {
			return gi.Pixels{}, fmt.Errorf("png: %w: scanline %d truncated", gi.ErrMalformedInput, y)
		}
		filtered := raw[pos : pos+stride]
		pos += stride
		recon := unfilterRow(ft, filtered, prevRecon, bpp)
		prevRecon = recon

		row := make([]pixel.Pixel, m.Width)
		for x := 0; x < m.Width; x++ {
			off := x * bpp
			switch m.Color.Type {
			case gi.PngIndexedColour:
				idx := int(recon[off])
				if idx < len(palette) {
					row[x] = palette[idx]
				}
			case gi.PngGreyscaleAlpha:
				word := uint16(recon[off])<<8 | uint16(recon[off+1])
				row[x] = pixel.WidenGreyAlpha(word)
			case gi.PngTrueColourAlpha:
				row[x] = pixel.Pack(recon[off], recon[off+1], recon[off+2], recon[off+3])
			}
		}
		rows = append(rows, row)
	}

	return array2d.New(rows), nil
}
