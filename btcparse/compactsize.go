package btcparse

import "encoding/binary"

// DecodeCompactSize decodes the Bitcoin CompactSize integer starting at b[off]
// and returns its value together with the number of bytes it occupies.
//
// Non-minimal encodings are accepted; the width returned is always the width
// actually read so callers can advance by exactly that many bytes.
func DecodeCompactSize(b []byte, off int) (uint64, int, error) {
	if off < 0 || off >= len(b) {
		return 0, 0, parseErr(ERR_OUT_OF_BOUNDS, "compactsize: empty")
	}
	tag := b[off]
	rest := b[off+1:]
	switch {
	case tag < 0xfd:
		return uint64(tag), 1, nil
	case tag == 0xfd:
		if len(rest) < 2 {
			return 0, 0, parseErr(ERR_OUT_OF_BOUNDS, "compactsize: truncated u16")
		}
		return uint64(binary.LittleEndian.Uint16(rest)), 3, nil
	case tag == 0xfe:
		if len(rest) < 4 {
			return 0, 0, parseErr(ERR_OUT_OF_BOUNDS, "compactsize: truncated u32")
		}
		return uint64(binary.LittleEndian.Uint32(rest)), 5, nil
	default: // 0xff
		if len(rest) < 8 {
			return 0, 0, parseErr(ERR_OUT_OF_BOUNDS, "compactsize: truncated u64")
		}
		return binary.LittleEndian.Uint64(rest), 9, nil
	}
}

// CompactSizeWidth returns the canonical (minimal) encoded width of v.
func CompactSizeWidth(v uint64) int {
	switch {
	case v < 0xfd:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
