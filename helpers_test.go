package edds2dds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

// testHeader returns a header with recognisable filler bytes. With extended
// set, the fourCC slot holds DX10 and the extension follows.
func testHeader(extended bool) []byte {
	size := HeaderSize
	if extended {
		size = ExtendedHeaderSize
	}

	h := make([]byte, size)
	for i := range h {
		h[i] = byte(i*7 + 3)
	}
	copy(h, "DDS ")
	if extended {
		copy(h[FourCCOffset:], MagicDX10)
	} else {
		copy(h[FourCCOffset:], "DXT1")
	}

	return h
}

// container assembles EDDS test inputs.
type container struct {
	header []byte
	table  bytes.Buffer
	bodies bytes.Buffer
}

func newContainer(extended bool) *container {
	return &container{header: testHeader(extended)}
}

func (c *container) add(t testing.TB, tag string, body []byte) *container {
	t.Helper()

	size, err := i32FromInt(len(body))
	require.NoError(t, err)

	return c.addRaw(tag, size, body)
}

func (c *container) addRaw(tag string, size int32, body []byte) *container {
	c.table.WriteString(tag)
	_ = binary.Write(&c.table, binary.LittleEndian, size)
	c.bodies.Write(body)

	return c
}

func (c *container) bytes() []byte {
	out := append([]byte{}, c.header...)
	out = append(out, c.table.Bytes()...)

	return append(out, c.bodies.Bytes()...)
}

// frame is one LZ4 frame inside a block body.
type frame struct {
	data []byte
	flag bool
}

// lz4Body builds an LZ4 block body: the uncompressed size followed by frames.
func lz4Body(total int32, frames ...frame) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, total)
	for _, f := range frames {
		hdr := uint32(len(f.data))
		if f.flag {
			hdr |= signMask
		}
		_ = binary.Write(&buf, binary.LittleEndian, hdr)
		buf.Write(f.data)
	}

	return buf.Bytes()
}

// compressFrame compresses src as a standalone LZ4 block.
func compressFrame(t testing.TB, src []byte) []byte {
	t.Helper()

	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := lz4.CompressBlockHC(src, dst, 0, nil, nil)
	require.NoError(t, err)
	require.NotZero(t, n, "test data must be compressible")

	return dst[:n]
}

// literalFrame encodes src as an LZ4 block made of literals only.
func literalFrame(src []byte) []byte {
	out := []byte{}
	n := len(src)
	if n < 15 {
		out = append(out, byte(n<<4))
	} else {
		out = append(out, 0xF0)
		rest := n - 15
		for rest >= 255 {
			out = append(out, 255)
			rest -= 255
		}
		out = append(out, byte(rest))
	}

	return append(out, src...)
}

func patterned(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i%13)
	}

	return b
}

// i32FromInt converts a fixture length to the int32 used on the wire.
func i32FromInt(n int) (int32, error) {
	if n < 0 || n > math.MaxInt32 {
		return 0, fmt.Errorf("length %d does not fit int32", n)
	}

	return int32(n), nil
}

func makeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}
