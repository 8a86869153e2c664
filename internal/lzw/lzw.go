// Package lzw implements the GIF-flavored variable-width LZW coder:
// spec.md §4.2's code-table reset discipline over internal/bitstream.
//
// The packing-width-equals-min-code-size-plus-one convention and the
// leading "initial code size" byte are the same shape as
// ManInM00N/nicoGIF's LZWEncoder.Encode, which writes
// `initCodeSize = max(2, colorDepth)` followed by `compress(initCodeSize+1, out)`.
// This package reimplements the algorithm table-driven (a map from string
// to code) rather than nicoGIF's open-addressed hash table, because
// spec.md describes the reset/overflow discipline in those terms and a
// map keeps that discipline easy to verify against the spec's own
// decode-side description.
package lzw

import (
	"errors"
	"fmt"

	"github.com/aramiscd/gren-image/internal/bitstream"
)

// ErrNoClearCode is returned by Decode when the first code in the stream
// is not the clear code.
var ErrNoClearCode = errors.New("lzw: stream does not begin with clear code")

// ErrCodeOutOfRange is returned by Decode when a code is neither a known
// table entry nor the one legal "not yet defined" code.
var ErrCodeOutOfRange = errors.New("lzw: code out of range")

const maxCodeBits = 12
const maxCode = 1<<maxCodeBits - 1

// CodeSize returns the number of bits needed to represent the values
// 0..n-1, never less than 2 and never more than 12, per spec.md §4.2's
// lzwCodeSize table.
func CodeSize(n int) int {
	switch {
	case n <= 4:
		return 2
	case n <= 8:
		return 3
	case n <= 16:
		return 4
	case n <= 32:
		return 5
	case n <= 64:
		return 6
	case n <= 128:
		return 7
	case n <= 256:
		return 8
	case n <= 512:
		return 9
	case n <= 1024:
		return 10
	case n <= 2048:
		return 11
	default:
		return 12
	}
}

// Codes derived from the palette size, shared by Encode and Decode.
type codes struct {
	cc, eoi  int
	minWidth int
}

func deriveCodes(lastColorIndex int) codes {
	cc := lastColorIndex + 1
	return codes{cc: cc, eoi: cc + 1, minWidth: CodeSize(cc)}
}

// key builds a map key for a string of indices. Indices are small
// non-negative ints (never exceeding a 12-bit code), so a byte string of
// two big-endian bytes per index is a safe, allocation-light key.
func key(prefix []int, next int) string {
	buf := make([]byte, 0, 2*(len(prefix)+1))
	for _, v := range prefix {
		buf = append(buf, byte(v>>8), byte(v))
	}
	buf = append(buf, byte(next>>8), byte(next))
	return string(buf)
}

// Encode compresses indices (each in [0, lastColorIndex]) into an LZW code
// stream packed per internal/bitstream (LSB-first). The returned bytes do
// not include a leading "minimum code size" byte -- callers that need the
// GIF on-disk framing (spec.md §4.5 step 6) prepend that themselves.
func Encode(lastColorIndex int, indices []int) ([]byte, error) {
	if lastColorIndex < 0 {
		return nil, fmt.Errorf("lzw: lastColorIndex %d < 0", lastColorIndex)
	}
	c := deriveCodes(lastColorIndex)

	w := bitstream.NewWriter(len(indices)/2 + 16)

	var table map[string]int
	resetTable := func() {
		table = make(map[string]int, 4096)
		for k := 0; k <= lastColorIndex; k++ {
			table[key(nil, k)] = k
		}
	}
	resetTable()

	width := c.minWidth + 1
	nextCode := c.eoi + 1

	w.WriteBits(width, uint32(c.cc))

	if len(indices) == 0 {
		w.WriteBits(width, uint32(c.eoi))
		return w.Flush(), nil
	}

	prefix := []int{indices[0]}
	for _, k := range indices[1:] {
		candidateKey := key(prefix, k)
		if _, ok := table[candidateKey]; ok {
			prefix = append(prefix, k)
			continue
		}
		// Emit the code for the current prefix, then insert the
		// extended string as a new table entry.
		w.WriteBits(width, uint32(table[key(prefix[:len(prefix)-1], prefix[len(prefix)-1])]))
		table[candidateKey] = nextCode
		nextCode++

		if nextCode > maxCode {
			w.WriteBits(width, uint32(c.cc))
			resetTable()
			width = c.minWidth + 1
			nextCode = c.eoi + 1
		} else if nextCode > (1<<uint(width)) && width < maxCodeBits {
			// The decoder adds each entry one code later than the encoder,
			// so the width grows once the last assigned code no longer fits.
			width++
		}

		prefix = []int{k}
	}

	w.WriteBits(width, uint32(table[key(prefix[:len(prefix)-1], prefix[len(prefix)-1])]))
	// The decoder adds one more entry on reading the final code and may
	// widen before it reads eoi; mirror that here.
	if nextCode >= (1<<uint(width)) && width < maxCodeBits {
		width++
	}
	w.WriteBits(width, uint32(c.eoi))
	return w.Flush(), nil
}

// Decode reverses Encode: data is a raw LZW code stream (no leading
// minimum-code-size byte) produced against the same lastColorIndex.
func Decode(lastColorIndex int, data []byte) ([]int, error) {
	if lastColorIndex < 0 {
		return nil, fmt.Errorf("lzw: lastColorIndex %d < 0", lastColorIndex)
	}
	c := deriveCodes(lastColorIndex)
	r := bitstream.NewReader(data)

	var table [][]int
	resetTable := func() {
		table = make([][]int, c.eoi+1, 4096)
		for k := 0; k <= lastColorIndex; k++ {
			table[k] = []int{k}
		}
		// table[cc] and table[eoi] are reserved and unused as entries.
	}
	resetTable()

	width := c.minWidth + 1
	nextCode := c.eoi + 1

	first, err := r.ReadBits(width, 0)
	if err != nil {
		return nil, err
	}
	if int(first) != c.cc {
		return nil, ErrNoClearCode
	}

	var out []int
	var prev []int
	awaitingFirst := true

	for {
		code, err := r.ReadBits(width, 0)
		if err != nil {
			return nil, err
		}
		ci := int(code)

		if ci == c.eoi {
			break
		}
		if ci == c.cc {
			resetTable()
			width = c.minWidth + 1
			nextCode = c.eoi + 1
			awaitingFirst = true
			continue
		}

		var entry []int
		if awaitingFirst {
			if ci >= len(table) || table[ci] == nil {
				return nil, ErrCodeOutOfRange
			}
			entry = table[ci]
			awaitingFirst = false
		} else if ci < len(table) && table[ci] != nil {
			entry = table[ci]
			extended := append(append([]int(nil), prev...), entry[0])
			table = append(table, extended)
			nextCode++
		} else if ci == nextCode {
			extended := append(append([]int(nil), prev...), prev[0])
			table = append(table, extended)
			entry = extended
			nextCode++
		} else {
			return nil, ErrCodeOutOfRange
		}

		out = append(out, entry...)
		prev = entry

		if nextCode >= (1<<uint(width)) && width < maxCodeBits {
			width++
		}
	}

	return out, nil
}
