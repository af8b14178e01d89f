package stzip

import "encoding/binary"

// cursor reads and appends little-endian values over a byte buffer, the
// only integer encoding the ZIP format uses.
//
// The read side is positional and sticky on error: the first read past the
// end of the buffer records ErrTruncated and every later read returns zero
// values, so decoders run a sequence of reads and check err once. The
// append side grows buf in place.
type cursor struct {
	buf []byte
	off int
	err error
}

func newCursor(b []byte) *cursor {
	return &cursor{buf: b}
}

// seek repositions the read side for random access.
func (c *cursor) seek(off int) {
	if c.err != nil {
		return
	}
	if off < 0 || off > len(c.buf) {
		c.err = ErrTruncated
		return
	}
	c.off = off
}

func (c *cursor) uint16() uint16 {
	if c.err != nil {
		return 0
	}
	if len(c.buf)-c.off < 2 {
		c.err = ErrTruncated
		return 0
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v
}

func (c *cursor) uint32() uint32 {
	if c.err != nil {
		return 0
	}
	if len(c.buf)-c.off < 4 {
		c.err = ErrTruncated
		return 0
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v
}

// bytes returns the next n bytes without copying them.
func (c *cursor) bytes(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || n > len(c.buf)-c.off {
		c.err = ErrTruncated
		return nil
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b
}

func (c *cursor) skip(n int) {
	_ = c.bytes(n)
}

// len is the current size of the append side, which doubles as the offset
// of the next appended byte.
func (c *cursor) len() int {
	return len(c.buf)
}

func (c *cursor) putUint16(v uint16) {
	c.buf = binary.LittleEndian.AppendUint16(c.buf, v)
}

func (c *cursor) putUint32(v uint32) {
	c.buf = binary.LittleEndian.AppendUint32(c.buf, v)
}

func (c *cursor) put(p []byte) {
	c.buf = append(c.buf, p...)
}

func (c *cursor) putString(s string) {
	c.buf = append(c.buf, s...)
}
