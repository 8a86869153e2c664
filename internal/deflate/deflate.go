// Package deflate is the thin facade spec.md §6 calls the
// "collaborator contract" for compression/CRC: the library's own code
// never implements DEFLATE, zlib framing, or CRC-32 -- it calls through
// this package, which calls through to the standard library's
// compress/zlib and hash/crc32, the same way the teacher treats codec
// primitives it considers out of its own remit (e.g. sharpyuv's gamma
// tables) as a named collaborator rather than reinventing them.
package deflate

import (
	"bytes"
	"compress/zlib"
	"hash/crc32"
	"io"
)

// Zlib compresses src with zlib framing at the default compression level.
func Zlib(src []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(src)
	_ = w.Close()
	return buf.Bytes()
}

// Unzlib decompresses a zlib-wrapped DEFLATE stream, failing on malformed
// input per spec.md §7's DecompressionFailure error kind.
func Unzlib(src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// CRC32 computes the PNG-spec CRC-32 (IEEE polynomial) over data.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
