package png

import (
	"testing"

	gi "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/internal/array2d"
	"github.com/aramiscd/gren-image/internal/deflate"
	"github.com/aramiscd/gren-image/internal/pixel"
)

// ihdrFields reads the color-type and bit-depth bytes straight out of an
// encoded buffer's IHDR chunk, bypassing Decode -- useful for the three
// Format variants Decode deliberately rejects (spec.md §4.3's "supported
// decode color shapes" list is narrower than its encode format list).
func ihdrFields(t *testing.T, buf []byte) (colorType gi.PngColorType, depth uint8) {
	t.Helper()
	chunks, err := readChunks(buf[8:])
	if err != nil {
		t.Fatalf("readChunks: %v", err)
	}
	if len(chunks) == 0 || chunks[0].kind != ChunkIHDR {
		t.Fatalf("first chunk = %v, want IHDR", chunks)
	}
	return gi.PngColorType(chunks[0].data[9]), chunks[0].data[8]
}

// firstIDATRow inflates the IDAT stream and returns the first scanline's
// filter byte and its reconstructed pixel bytes, for formats Decode
// itself won't decode (see ihdrFields).
func firstIDATRow(t *testing.T, buf []byte, stride, bpp int) (filterType byte, row []byte) {
	t.Helper()
	chunks, err := readChunks(buf[8:])
	if err != nil {
		t.Fatalf("readChunks: %v", err)
	}
	var idat []byte
	for _, c := range chunks {
		if c.kind == ChunkIDAT {
			idat = append(idat, c.data...)
		}
	}
	raw, err := deflate.Unzlib(idat)
	if err != nil {
		t.Fatalf("Unzlib: %v", err)
	}
	return raw[0], unfilterRow(raw[0], raw[1:1+stride], nil, bpp)
}

func solidRGBA(w, h int, p pixel.Pixel) gi.Image {
	return gi.FromArray(gi.MetaFromData{Width: w, Height: h, Color: gi.Channel4At8}, array2d.Make(w, h, p))
}

func TestEncodeDecodeRoundTripRGBA(t *testing.T) {
	src := solidRGBA(3, 2, pixel.Pack(10, 20, 30, 255))
	buf := Encode(src, EncodeOptions{Format: FormatRGBA, Order: RightDown})

	img, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	meta, ok := gi.MetaOf(img).(gi.MetaPng)
	if !ok {
		t.Fatalf("Meta = %T, want MetaPng", gi.MetaOf(img))
	}
	if meta.Width != 3 || meta.Height != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", meta.Width, meta.Height)
	}
	if meta.Color.Type != gi.PngTrueColourAlpha || meta.Color.Depth != 8 {
		t.Fatalf("color = %+v, want TrueColourAlpha@8", meta.Color)
	}

	px := gi.PixelsOf(img)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			v, _ := px.Get(x, y)
			if v != pixel.Pack(10, 20, 30, 255) {
				t.Fatalf("pixel (%d,%d) = %08X, want 0A141EFF", x, y, uint32(v))
			}
		}
	}
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	_, err := Decode([]byte("not a png"))
	if err == nil {
		t.Fatal("expected error for bad signature")
	}
}

func TestDecodeRejectsAdam7(t *testing.T) {
	src := solidRGBA(1, 1, pixel.Opaque)
	buf := Encode(src, EncodeOptions{Format: FormatRGBA})
	// flip the interlace byte in IHDR: signature(8) + len(4) + "IHDR"(4) + 12 data bytes -> interlace at offset 8+4+4+12
	buf[8+4+4+12] = 1
	_, err := Decode(buf)
	if err == nil {
		t.Fatal("expected Adam7 to be rejected")
	}
}

func TestEncodePreservesAuxChunks(t *testing.T) {
	src := gi.FromArray(gi.MetaPng{
		Width: 1, Height: 1,
		Color:     gi.PngColor{Type: gi.PngTrueColourAlpha, Depth: 8},
		AuxChunks: map[string][]byte{"tEXt": []byte("hello")},
	}, array2d.Make(1, 1, pixel.Opaque))

	buf := Encode(src, EncodeOptions{Format: FormatRGBA})
	chunks, err := readChunks(buf[8:])
	if err != nil {
		t.Fatalf("readChunks: %v", err)
	}
	found := false
	for _, c := range chunks {
		if c.kind == "tEXt" {
			found = true
			if string(c.data) != "hello" {
				t.Fatalf("tEXt data = %q, want %q", c.data, "hello")
			}
		}
	}
	if !found {
		t.Fatal("tEXt aux chunk was not re-emitted")
	}
}

func TestEncodeOrderReversesTraversal(t *testing.T) {
	rows := [][]pixel.Pixel{
		{pixel.Pack(1, 0, 0, 255), pixel.Pack(2, 0, 0, 255)},
		{pixel.Pack(3, 0, 0, 255), pixel.Pack(4, 0, 0, 255)},
	}
	src := gi.FromArray(gi.MetaFromData{Width: 2, Height: 2, Color: gi.Channel4At8}, array2d.New(rows))

	rightDown := Encode(src, EncodeOptions{Format: FormatRGBA, Order: RightDown})
	leftUp := Encode(src, EncodeOptions{Format: FormatRGBA, Order: LeftUp})

	imgA, _ := Decode(rightDown)
	imgB, _ := Decode(leftUp)
	a, b := gi.PixelsOf(imgA), gi.PixelsOf(imgB)

	av, _ := a.Get(0, 0)
	bv, _ := b.Get(1, 1)
	if av != bv {
		t.Fatalf("RightDown(0,0)=%08X should equal LeftUp(1,1)=%08X", uint32(av), uint32(bv))
	}
}

// Decode deliberately rejects FormatRGB/FormatLuminanceAlpha/FormatAlpha
// output (spec.md §4.3's supported decode color shapes are narrower than
// its encode format list), so these exercise Encode's IHDR and IDAT bytes
// directly instead of round-tripping through Decode.

func TestEncodeRGBProducesTrueColourIHDR(t *testing.T) {
	src := solidRGBA(1, 1, pixel.Pack(10, 20, 30, 255))
	buf := Encode(src, EncodeOptions{Format: FormatRGB})

	colorType, depth := ihdrFields(t, buf)
	if colorType != gi.PngTrueColour || depth != 8 {
		t.Fatalf("color = type %d @ depth %d, want TrueColour(2)@8", colorType, depth)
	}

	_, row := firstIDATRow(t, buf, 3, 3)
	if row[0] != 10 || row[1] != 20 || row[2] != 30 {
		t.Fatalf("row = %v, want [10 20 30]", row)
	}

	if _, err := Decode(buf); err == nil {
		t.Fatal("Decode should reject TrueColour@8 (outside the supported decode shapes)")
	}
}

func TestEncodeLuminanceAlphaProducesGreyscaleDepth16IHDR(t *testing.T) {
	src := solidRGBA(1, 1, pixel.Pack(200, 0, 0, 128))
	buf := Encode(src, EncodeOptions{Format: FormatLuminanceAlpha})

	colorType, depth := ihdrFields(t, buf)
	if colorType != gi.PngGreyscale || depth != 16 {
		t.Fatalf("color = type %d @ depth %d, want Greyscale(0)@16 per spec.md §4.3", colorType, depth)
	}

	_, row := firstIDATRow(t, buf, 4, 4)
	if row[0] != 200 || row[1] != 200 || row[2] != 128 || row[3] != 128 {
		t.Fatalf("row = %v, want [200 200 128 128]", row)
	}

	if _, err := Decode(buf); err == nil {
		t.Fatal("Decode should reject Greyscale@16 (outside the supported decode shapes)")
	}
}

func TestEncodeAlphaProducesGreyscaleDepth8IHDR(t *testing.T) {
	src := solidRGBA(1, 1, pixel.Pack(0, 0, 0, 77))
	buf := Encode(src, EncodeOptions{Format: FormatAlpha})

	colorType, depth := ihdrFields(t, buf)
	if colorType != gi.PngGreyscale || depth != 8 {
		t.Fatalf("color = type %d @ depth %d, want Greyscale(0)@8", colorType, depth)
	}

	_, row := firstIDATRow(t, buf, 1, 1)
	if row[0] != 77 {
		t.Fatalf("row = %v, want [77]", row)
	}
}
