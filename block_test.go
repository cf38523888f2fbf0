package edds2dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func descriptors(records ...any) []byte {
	var buf bytes.Buffer
	for i := 0; i < len(records); i += 2 {
		buf.WriteString(records[i].(string))
		_ = binary.Write(&buf, binary.LittleEndian, int32(records[i+1].(int)))
	}

	return buf.Bytes()
}

func TestDecodeBlockTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []byte
		want     []BlockKind
		sizes    []int32
		consumed int
	}{
		{
			name:     "empty-input",
			input:    nil,
			consumed: 0,
		},
		{
			name:     "single-copy",
			input:    descriptors("COPY", 4),
			want:     []BlockKind{KindCopy},
			sizes:    []int32{4},
			consumed: 8,
		},
		{
			name:     "mixed-in-order",
			input:    descriptors("LZ4 ", 100, "COPY", 0, "LZ4 ", 7),
			want:     []BlockKind{KindLZ4, KindCopy, KindLZ4},
			sizes:    []int32{100, 0, 7},
			consumed: 24,
		},
		{
			name:     "stops-at-unknown-tag",
			input:    append(descriptors("COPY", 2, "COPY", 2), "AABBCCDD"...),
			want:     []BlockKind{KindCopy, KindCopy},
			sizes:    []int32{2, 2},
			consumed: 16,
		},
		{
			name:     "lowercase-tag-is-unknown",
			input:    descriptors("copy", 2),
			consumed: 0,
		},
		{
			name:     "stops-on-short-record",
			input:    append(descriptors("COPY", 3), "LZ4 "...),
			want:     []BlockKind{KindCopy},
			sizes:    []int32{3},
			consumed: 8,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			table, n, err := DecodeBlockTableBytes(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.consumed, n)
			require.Equal(t, 8*len(table), n)
			require.Len(t, table, len(tc.want))
			for i, d := range table {
				require.Equal(t, tc.want[i], d.Kind)
				require.Equal(t, tc.sizes[i], d.StoredLength)
				require.Equal(t, 8*i, d.Offset)
			}
		})
	}
}

func TestDecodeBlockTableNegativeLength(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{BlockMagicCOPY, BlockMagicLZ4} {
		t.Run(tag, func(t *testing.T) {
			t.Parallel()

			input := descriptors("COPY", 4, tag, -1)
			table, n, err := DecodeBlockTableBytes(input)
			require.ErrorIs(t, err, ErrInvalidBlockLength)
			require.Nil(t, table)
			require.Zero(t, n)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			require.Equal(t, StageBlockTable, de.Stage)
			require.Equal(t, 1, de.Block)
			require.Equal(t, 8, de.Offset)
		})
	}
}

func TestParseBlockKind(t *testing.T) {
	t.Parallel()

	kind, ok := ParseBlockKind([]byte("COPY"))
	require.True(t, ok)
	require.Equal(t, KindCopy, kind)
	require.Equal(t, BlockMagicCOPY, kind.Tag())

	kind, ok = ParseBlockKind([]byte("LZ4 "))
	require.True(t, ok)
	require.Equal(t, KindLZ4, kind)
	require.Equal(t, BlockMagicLZ4, kind.Tag())
	require.Equal(t, "LZ4", kind.String())

	_, ok = ParseBlockKind([]byte("LZ4\x00"))
	require.False(t, ok)
}

func TestBlockTableTotalStored(t *testing.T) {
	table := BlockTable{{StoredLength: 10}, {StoredLength: 1 << 30}, {StoredLength: 1 << 30}}
	require.Equal(t, int64(10+1<<31), table.TotalStored())
}

func TestCursor(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{1, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 9})

	v, err := c.Int32()
	require.NoError(t, err)
	require.Equal(t, int32(1), v)

	v, err = c.Int32()
	require.NoError(t, err)
	require.Equal(t, int32(-1), v)
	require.Equal(t, 8, c.Offset())

	_, err = c.Int32()
	require.ErrorIs(t, err, ErrTruncatedInput)
	require.Equal(t, 8, c.Offset(), "failed read must not advance")

	require.ErrorIs(t, c.Skip(-1), ErrTruncatedInput)
	require.NoError(t, c.Skip(1))
	require.Zero(t, c.Len())
}

func TestCursorSub(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte("aabbbcc"))
	require.NoError(t, c.Skip(2))

	sub, err := c.Sub(3)
	require.NoError(t, err)
	require.Equal(t, 5, c.Offset())
	require.Equal(t, 2, sub.Offset())
	require.Equal(t, 3, sub.Len())

	_, err = sub.Take(4)
	require.ErrorIs(t, err, ErrTruncatedInput)

	b, err := sub.Take(3)
	require.NoError(t, err)
	require.Equal(t, []byte("bbb"), b)

	_, err = c.Sub(3)
	require.ErrorIs(t, err, ErrTruncatedInput)
	require.Equal(t, 5, c.Offset())
}
