// Package png implements the PNG codec: chunk stream parsing, IHDR
// validation, scanline filter reconstruction, and the symmetric encoder
// (spec.md §4.3).
//
// The chunk loop below generalizes the teacher's RIFF chunk loop
// (internal/container.Parser.parseVP8XChunks): both formats frame a
// payload as a 4-byte tag, a length, and raw bytes, and both preserve
// chunks they don't interpret (the teacher's mux package round-trips
// ICCP/EXIF/XMP; this package's AuxChunks map does the PNG equivalent).
// PNG differs in using a big-endian length ahead of the tag rather than
// RIFF's little-endian length after it, and in trailing each chunk with
// a CRC-32 instead of RIFF's implicit even-padding -- so the loop is
// rewritten for that framing rather than reusing container.ReadChunkHeader
// directly.
package png

import (
	"encoding/binary"
	"fmt"

	gi "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/internal/deflate"
)

// Signature is the 8-byte magic every PNG stream must begin with.
var Signature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Chunk type tags, as the 4-character ASCII name packed big-endian.
const (
	ChunkIHDR = "IHDR"
	ChunkPLTE = "PLTE"
	ChunktRNS = "tRNS"
	ChunkIDAT = "IDAT"
	ChunkIEND = "IEND"
)

type rawChunk struct {
	kind string
	data []byte
}

// readChunks walks the chunk stream following the 8-byte signature,
// returning every chunk in file order. It does not interpret any chunk;
// that's decode.go's job once parsing is complete. CRC is read but never
// checked against the computed value (spec.md §9 note 3).
func readChunks(buf []byte) ([]rawChunk, error) {
	var chunks []rawChunk
	pos := 0
	for {
		if pos == len(buf) {
			return nil, fmt.Errorf("png: %w: chunk stream ended without IEND", gi.ErrMalformedInput)
		}
		if pos+8 > len(buf) {
			return nil, fmt.Errorf("png: %w: truncated chunk header", gi.ErrMalformedInput)
		}
		length := binary.BigEndian.Uint32(buf[pos:])
		kind := string(buf[pos+4 : pos+8])
		pos += 8
		if pos+int(length)+4 > len(buf) {
			return nil, fmt.Errorf("png: %w: truncated chunk data", gi.ErrMalformedInput)
		}
		data := buf[pos : pos+int(length)]
		pos += int(length)
		pos += 4 // CRC, read but unverified
		chunks = append(chunks, rawChunk{kind: kind, data: data})
		if kind == ChunkIEND {
			return chunks, nil
		}
	}
}

// writeChunk appends one length|kind|data|crc chunk to out.
func writeChunk(out []byte, kind string, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	out = append(out, lenBuf[:]...)

	kindAndData := make([]byte, 0, 4+len(data))
	kindAndData = append(kindAndData, kind...)
	kindAndData = append(kindAndData, data...)
	out = append(out, kindAndData...)

	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], deflate.CRC32(kindAndData))
	out = append(out, crcBuf[:]...)
	return out
}
