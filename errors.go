package image

import "errors"

// Sentinel errors shared across the PNG, BMP and GIF codecs, per spec.md
// §7's four error kinds. Each codec package wraps these with
// fmt.Errorf("%w: ...") for call-site context, the way the teacher wraps
// container.ErrTruncated and friends.
var (
	// ErrMalformedInput covers a bad signature, a truncated chunk, or a
	// field value the format does not allow.
	ErrMalformedInput = errors.New("gren-image: malformed input")

	// ErrUnsupportedFeature covers a value the wire format allows but this
	// library's core deliberately does not implement (interlaced PNG,
	// non-8-bit PNG depths on decode, BMP bit depths this build does not
	// read).
	ErrUnsupportedFeature = errors.New("gren-image: unsupported feature")

	// ErrDecompressionFailure is returned when the zlib collaborator
	// (internal/deflate) rejects an IDAT stream as malformed.
	ErrDecompressionFailure = errors.New("gren-image: decompression failure")

	// ErrLZWProtocol covers a missing clear code or an out-of-range code
	// surfaced by internal/lzw.
	ErrLZWProtocol = errors.New("gren-image: LZW protocol error")
)
