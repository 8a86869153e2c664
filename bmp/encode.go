package bmp

import (
	"encoding/binary"

	gi "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/internal/pixel"
)

const (
	maskR uint32 = 0xFF000000
	maskG uint32 = 0x00FF0000
	maskB uint32 = 0x0000FF00
	maskA uint32 = 0x000000FF

	biBitfields uint32 = 3
	biRGB       uint32 = 0
)

// EncodeOptions selects the pixel depth and row traversal direction for
// Encode (spec.md §4.4 encode step 3).
type EncodeOptions struct {
	BitsPerPixel int  // one of 8, 16, 24, 32
	OrderRight   bool // true: left-to-right within a row
	OrderUp      bool // true: bottom-to-top row order in the source walk
}

// Encode serializes img as a BMP byte buffer per opts.
func Encode(img gi.Image, opts EncodeOptions) []byte {
	px := gi.PixelsOf(img)
	w, h := px.Width(), px.Height()
	px = px.PadTo(w, h, pixel.Zero)

	bpp := opts.BitsPerPixel
	if bpp == 0 {
		bpp = 32
	}
	bytesPerPixel := bpp / 8
	padding := rowPadding(w, bytesPerPixel, bpp)
	stride := w*bytesPerPixel + padding
	pixelData := make([]byte, 0, stride*h)

	rows := make([][]byte, 0, h)
	for i := 0; i < h; i++ {
		y := i
		if opts.OrderUp {
			y = h - 1 - i
		}
		row := px.Row(y)
		buf := make([]byte, 0, stride)
		for j := 0; j < w; j++ {
			x := j
			if !opts.OrderRight {
				x = w - 1 - j
			}
			buf = append(buf, encodePixel(row[x], bpp)...)
		}
		for k := 0; k < padding; k++ {
			buf = append(buf, 0)
		}
		rows = append(rows, buf)
	}
	// Accumulate top-first above, then reverse so the file holds rows
	// bottom-first, per BMP's on-disk row order (spec.md §4.4 encode step 3).
	for i := len(rows) - 1; i >= 0; i-- {
		pixelData = append(pixelData, rows[i]...)
	}

	var dibHeader []byte
	if bpp == 32 {
		dibHeader = bitmapV4Header(w, h)
	} else {
		dibHeader = bitmapInfoHeader(w, h, bpp)
	}

	pixelStart := uint32(fileHeaderSize + len(dibHeader))
	fileSize := pixelStart + uint32(len(pixelData))

	out := make([]byte, 0, fileSize)
	out = append(out, 'B', 'M')
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], fileSize)
	out = append(out, u32[:]...)
	out = append(out, 0, 0, 0, 0) // reserved
	binary.LittleEndian.PutUint32(u32[:], pixelStart)
	out = append(out, u32[:]...)
	out = append(out, dibHeader...)
	out = append(out, pixelData...)
	return out
}

func bitmapInfoHeader(w, h, bpp int) []byte {
	buf := make([]byte, 40)
	binary.LittleEndian.PutUint32(buf[0:4], 40)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(int32(w)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(int32(h)))
	binary.LittleEndian.PutUint16(buf[12:14], 1) // color planes
	binary.LittleEndian.PutUint16(buf[14:16], uint16(bpp))
	binary.LittleEndian.PutUint32(buf[16:20], biRGB)
	// imageSize, xppm, yppm, colorsUsed, colorsImportant left zero
	return buf
}

// bitmapV4Header emits a 122-byte BITMAPV4HEADER variant carrying
// BI_BITFIELDS masks that fix the canonical channel positions (spec.md
// §4.4's static R/G/B/A masks).
func bitmapV4Header(w, h int) []byte {
	buf := make([]byte, 122)
	binary.LittleEndian.PutUint32(buf[0:4], 122)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(int32(w)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(int32(h)))
	binary.LittleEndian.PutUint16(buf[12:14], 1)
	binary.LittleEndian.PutUint16(buf[14:16], 32)
	binary.LittleEndian.PutUint32(buf[16:20], biBitfields)
	binary.LittleEndian.PutUint32(buf[40:44], maskR)
	binary.LittleEndian.PutUint32(buf[44:48], maskG)
	binary.LittleEndian.PutUint32(buf[48:52], maskB)
	binary.LittleEndian.PutUint32(buf[52:56], maskA)
	return buf
}

func encodePixel(p pixel.Pixel, bpp int) []byte {
	switch bpp {
	case 32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(p))
		return buf
	case 24:
		r, g, b := pixel.NarrowRGB24(p)
		return []byte{b, g, r}
	case 16:
		r, g, b, _ := pixel.Unpack(p)
		narrow := func(v uint8) uint16 { return uint16(v) * 31 / 255 }
		word := narrow(r)<<10 | narrow(g)<<5 | narrow(b)
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, word)
		return buf
	default: // 8
		r, _, _, _ := pixel.Unpack(p)
		return []byte{r}
	}
}
