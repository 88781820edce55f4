package btcparse

import "encoding/binary"

// cursor is a forward-only reader over a caller-owned buffer. A failed read
// leaves pos untouched.
type cursor struct {
	b   []byte
	pos int
}

func newCursor(b []byte) *cursor {
	return &cursor{b: b, pos: 0}
}

func maxIntAsUint64() uint64 {
	return uint64(^uint(0) >> 1)
}

func toIntLen(v uint64, name string) (int, error) {
	if v > maxIntAsUint64() {
		return 0, parseErrf(ERR_OUT_OF_BOUNDS, "%s overflows int", name)
	}
	// #nosec G115 -- v is bounded to int by maxIntAsUint64 above.
	return int(v), nil
}

func (c *cursor) remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

func (c *cursor) peek(n int) ([]byte, bool) {
	if n < 0 || c.remaining() < n {
		return nil, false
	}
	return c.b[c.pos : c.pos+n], true
}

func (c *cursor) skip(n int, what string) error {
	if n < 0 || c.remaining() < n {
		return parseErrf(ERR_OUT_OF_BOUNDS, "unexpected EOF (%s)", what)
	}
	c.pos += n
	return nil
}

// readExact returns a copy of the next n bytes.
func (c *cursor) readExact(n int, what string) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, parseErrf(ERR_OUT_OF_BOUNDS, "unexpected EOF (%s)", what)
	}
	out := append([]byte(nil), c.b[c.pos:c.pos+n]...)
	c.pos += n
	return out, nil
}

func (c *cursor) readU32LE(what string) (uint32, error) {
	if c.remaining() < 4 {
		return 0, parseErrf(ERR_OUT_OF_BOUNDS, "unexpected EOF (%s)", what)
	}
	v := binary.LittleEndian.Uint32(c.b[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}

func (c *cursor) readU64LE(what string) (uint64, error) {
	if c.remaining() < 8 {
		return 0, parseErrf(ERR_OUT_OF_BOUNDS, "unexpected EOF (%s)", what)
	}
	v := binary.LittleEndian.Uint64(c.b[c.pos : c.pos+8])
	c.pos += 8
	return v, nil
}

func (c *cursor) readCompactSize(what string) (uint64, int, error) {
	v, n, err := DecodeCompactSize(c.b, c.pos)
	if err != nil {
		if e, ok := err.(*Error); ok {
			return 0, 0, parseErrf(e.Code, "%s: %s", what, e.Msg)
		}
		return 0, 0, err
	}
	c.pos += n
	return v, n, nil
}

// readLen decodes a CompactSize length prefix and converts it to int.
func (c *cursor) readLen(what string) (int, int, error) {
	start := c.pos
	v, n, err := c.readCompactSize(what)
	if err != nil {
		return 0, 0, err
	}
	l, err := toIntLen(v, what)
	if err != nil {
		c.pos = start
		return 0, 0, err
	}
	return l, n, nil
}
