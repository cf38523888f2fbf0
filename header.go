package edds2dds

import (
	"bytes"
	"fmt"
)

const (
	// HeaderSize is the DDS magic plus the base DDS header.
	HeaderSize = 128
	// DX10Size is the length of the optional DX10 extension.
	DX10Size = 20
	// ExtendedHeaderSize is HeaderSize with the DX10 extension.
	ExtendedHeaderSize = HeaderSize + DX10Size
	// FourCCOffset is where the pixel format fourCC sits in the header.
	FourCCOffset = 84

	// MagicDX10 in the fourCC slot announces the DX10 extension.
	MagicDX10 = "DX10"
)

// RawHeader is the leading DDS header of a container, carried through untouched.
type RawHeader struct {
	Bytes    []byte
	Extended bool
}

// Len returns the header length in bytes (128 or 148).
func (h RawHeader) Len() int {
	return len(h.Bytes)
}

// DecodeHeader reads the header at the start of buf and returns it with the
// number of bytes it occupies.
func DecodeHeader(buf []byte) (RawHeader, int, error) {
	c := NewCursor(buf)
	h, err := readHeader(c)
	if err != nil {
		return RawHeader{}, 0, err
	}

	return h, c.Offset(), nil
}

func readHeader(c *Cursor) (RawHeader, error) {
	prefix, err := c.Peek(FourCCOffset + len(MagicDX10))
	if err != nil {
		return RawHeader{}, err
	}

	extended := string(prefix[FourCCOffset:]) == MagicDX10
	size := HeaderSize
	if extended {
		size = ExtendedHeaderSize
	}

	b, err := c.Take(size)
	if err != nil {
		return RawHeader{}, fmt.Errorf("header of %d bytes: %w", size, err)
	}

	return RawHeader{Bytes: bytes.Clone(b), Extended: extended}, nil
}
