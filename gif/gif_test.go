package gif

import (
	"testing"

	gi "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/internal/array2d"
	"github.com/aramiscd/gren-image/internal/pixel"
)

func solid(w, h int, p pixel.Pixel) gi.Image {
	return gi.FromArray(gi.MetaFromData{Width: w, Height: h, Color: gi.Channel4At8}, array2d.Make(w, h, p))
}

func TestEncodeStartsWithHeaderAndEndsWithTrailer(t *testing.T) {
	buf := Encode(solid(2, 2, pixel.Pack(255, 0, 0, 255)))
	if string(buf[0:6]) != "GIF89a" {
		t.Fatalf("header = %q, want GIF89a", buf[0:6])
	}
	if buf[len(buf)-1] != trailer {
		t.Fatalf("last byte = %02X, want trailer 3B", buf[len(buf)-1])
	}
}

func TestEncodeDecodeRoundTripTwoColors(t *testing.T) {
	rows := [][]pixel.Pixel{
		{pixel.Pack(255, 0, 0, 255), pixel.Pack(0, 255, 0, 255)},
		{pixel.Pack(0, 255, 0, 255), pixel.Pack(255, 0, 0, 255)},
	}
	src := gi.FromArray(gi.MetaFromData{Width: 2, Height: 2, Color: gi.Channel4At8}, array2d.New(rows))

	buf := Encode(src)
	img, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	px := gi.PixelsOf(img)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			got, _ := px.Get(x, y)
			want, _ := gi.PixelsOf(src).Get(x, y)
			if got != want {
				t.Fatalf("(%d,%d) = %08X, want %08X", x, y, uint32(got), uint32(want))
			}
		}
	}
}

// TestEncodeDecodeRoundTripNonPowerOfTwoPalette guards against the encoder
// deriving lastColorIndex from the raw palette count instead of the padded
// GCT size: with 3 distinct colors the table pads to 4 entries, and the
// decoder's cc must be reconstructed from that padded size (4) to match the
// encoder's, not from 3.
func TestEncodeDecodeRoundTripNonPowerOfTwoPalette(t *testing.T) {
	colors := []pixel.Pixel{
		pixel.Pack(255, 0, 0, 255),
		pixel.Pack(0, 255, 0, 255),
		pixel.Pack(0, 0, 255, 255),
	}
	rows := [][]pixel.Pixel{
		{colors[0], colors[1], colors[2]},
		{colors[2], colors[0], colors[1]},
	}
	src := gi.FromArray(gi.MetaFromData{Width: 3, Height: 2, Color: gi.Channel4At8}, array2d.New(rows))

	buf := Encode(src)
	img, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	px := gi.PixelsOf(img)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			got, _ := px.Get(x, y)
			want, _ := gi.PixelsOf(src).Get(x, y)
			if got != want {
				t.Fatalf("(%d,%d) = %08X, want %08X", x, y, uint32(got), uint32(want))
			}
		}
	}
}

// TestEncodeDecodeRoundTripFiveColorPalette is a second non-power-of-two
// case (5 colors, padding to 8 table entries) to cover a palette size that
// straddles a different power-of-two boundary than the 3-color case above.
func TestEncodeDecodeRoundTripFiveColorPalette(t *testing.T) {
	colors := []pixel.Pixel{
		pixel.Pack(255, 0, 0, 255),
		pixel.Pack(0, 255, 0, 255),
		pixel.Pack(0, 0, 255, 255),
		pixel.Pack(255, 255, 0, 255),
		pixel.Pack(0, 255, 255, 255),
	}
	row := make([]pixel.Pixel, 5)
	copy(row, colors)
	rows := [][]pixel.Pixel{row}
	src := gi.FromArray(gi.MetaFromData{Width: 5, Height: 1, Color: gi.Channel4At8}, array2d.New(rows))

	buf := Encode(src)
	img, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	px := gi.PixelsOf(img)
	for x := 0; x < 5; x++ {
		got, _ := px.Get(x, 0)
		want, _ := gi.PixelsOf(src).Get(x, 0)
		if got != want {
			t.Fatalf("(%d,0) = %08X, want %08X", x, uint32(got), uint32(want))
		}
	}
}

func TestEncode256DistinctColorsEmitsCodeWidth8(t *testing.T) {
	rows := make([][]pixel.Pixel, 1)
	row := make([]pixel.Pixel, 256)
	for i := 0; i < 256; i++ {
		row[i] = pixel.Pack(uint8(i), uint8(255-i), 0, 255)
	}
	rows[0] = row
	src := gi.FromArray(gi.MetaFromData{Width: 256, Height: 1, Color: gi.Channel4At8}, array2d.New(rows))

	buf := Encode(src)
	// packed field is at offset 10; table size bits = ceilLog2(256)-1 = 7.
	packed := buf[10]
	tableSizeField := packed & 0x07
	if tableSizeField != 7 {
		t.Fatalf("table size field = %d, want 7 (256-entry table)", tableSizeField)
	}
	// LZW min code size byte follows header(13) + GCT(256*3) + separator(1) + descriptor(9).
	minCodeSizeOffset := 13 + 256*3 + 1 + 9
	if buf[minCodeSizeOffset] != 8 {
		t.Fatalf("min code size = %d, want 8", buf[minCodeSizeOffset])
	}
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	_, err := Decode([]byte("not a gif"))
	if err == nil {
		t.Fatal("expected error for bad signature")
	}
}
