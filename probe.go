package image

import "encoding/binary"

// Format identifies which codec a byte buffer belongs to, as reported by
// Probe.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatBMP
	FormatGIF
)

// Probe sniffs data's signature and reads just enough of its header to
// report the format and declared dimensions, without running the full
// decode pipeline -- the same role webp.DecodeConfig/GetFeatures plays
// for the teacher's format: a cheap header peek callers can use before
// committing to a full force.
func Probe(data []byte) (format Format, width, height int, ok bool) {
	switch {
	case len(data) >= 24 &&
		data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' &&
		data[4] == 0x0D && data[5] == 0x0A && data[6] == 0x1A && data[7] == 0x0A:
		w := int(binary.BigEndian.Uint32(data[16:20]))
		h := int(binary.BigEndian.Uint32(data[20:24]))
		return FormatPNG, w, h, true

	case len(data) >= 26 && data[0] == 'B' && data[1] == 'M':
		w := int(int32(binary.LittleEndian.Uint32(data[18:22])))
		h := int(int32(binary.LittleEndian.Uint32(data[22:26])))
		if w < 0 {
			w = -w
		}
		if h < 0 {
			h = -h
		}
		return FormatBMP, w, h, true

	case len(data) >= 10 && string(data[0:3]) == "GIF":
		w := int(binary.LittleEndian.Uint16(data[6:8]))
		h := int(binary.LittleEndian.Uint16(data[8:10]))
		return FormatGIF, w, h, true

	default:
		return FormatUnknown, 0, 0, false
	}
}
