package edds2dds

import "fmt"

// Cursor is a read position over an immutable input buffer.
// Sub-decoders advance it; a failed read leaves it where it was.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a cursor at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the absolute position in the underlying buffer.
func (c *Cursor) Offset() int {
	return c.off
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.buf) - c.off
}

// Peek returns the next n bytes without advancing.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}

	return c.buf[c.off : c.off+n], nil
}

// Take returns the next n bytes and advances past them.
// The result aliases the input buffer.
func (c *Cursor) Take(n int) ([]byte, error) {
	b, err := c.Peek(n)
	if err != nil {
		return nil, err
	}
	c.off += n

	return b, nil
}

// Skip advances by n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.off += n

	return nil
}

// Int32 reads a little-endian signed 32-bit integer.
func (c *Cursor) Int32() (int32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}

	return le32(b), nil
}

// Sub returns a cursor over the next n bytes that keeps absolute offsets,
// and advances c past them.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	sub := &Cursor{buf: c.buf[:c.off+n], off: c.off}
	c.off += n

	return sub, nil
}

func (c *Cursor) need(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative read of %d bytes at offset %#x", ErrTruncatedInput, n, c.off)
	}
	if n > c.Len() {
		return fmt.Errorf("%w: need %d bytes at offset %#x, have %d", ErrTruncatedInput, n, c.off, c.Len())
	}

	return nil
}
