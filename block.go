package edds2dds

import "fmt"

const (
	// BlockMagicCOPY marks an uncompressed block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 framed block.
	BlockMagicLZ4 = "LZ4 "

	// descriptorSize is one table record: 4-byte tag + int32 length.
	descriptorSize = 8
)

// BlockKind is the storage kind of a block body.
type BlockKind uint8

const (
	// KindCopy stores block bytes verbatim.
	KindCopy BlockKind = iota + 1
	// KindLZ4 stores block bytes as a sequence of LZ4 block-format frames.
	KindLZ4
)

// ParseBlockKind maps a 4-byte table tag to its kind.
func ParseBlockKind(tag []byte) (BlockKind, bool) {
	switch string(tag) {
	case BlockMagicCOPY:
		return KindCopy, true
	case BlockMagicLZ4:
		return KindLZ4, true
	default:
		return 0, false
	}
}

// Tag returns the on-disk tag of the kind.
func (k BlockKind) Tag() string {
	switch k {
	case KindCopy:
		return BlockMagicCOPY
	case KindLZ4:
		return BlockMagicLZ4
	default:
		return ""
	}
}

func (k BlockKind) String() string {
	switch k {
	case KindCopy:
		return "COPY"
	case KindLZ4:
		return "LZ4"
	default:
		return fmt.Sprintf("BlockKind(%d)", uint8(k))
	}
}

// BlockDescriptor is one block table record.
type BlockDescriptor struct {
	Kind         BlockKind
	StoredLength int32
	// Offset of the record itself in the input.
	Offset int
}

// BlockTable lists descriptors in storage order.
type BlockTable []BlockDescriptor

// TotalStored sums the stored lengths of all blocks.
func (t BlockTable) TotalStored() int64 {
	var total int64
	for _, d := range t {
		total += int64(d.StoredLength)
	}

	return total
}

// DecodeBlockTableBytes decodes the table at the start of buf and returns it
// with the number of bytes consumed.
func DecodeBlockTableBytes(buf []byte) (BlockTable, int, error) {
	c := NewCursor(buf)
	table, err := DecodeBlockTable(c)
	if err != nil {
		return nil, 0, err
	}

	return table, c.Offset(), nil
}

// DecodeBlockTable reads consecutive 8-byte descriptors until fewer than 8
// bytes remain or a tag is not a known kind. The terminating record is not
// consumed.
func DecodeBlockTable(c *Cursor) (BlockTable, error) {
	var table BlockTable
	for c.Len() >= descriptorSize {
		rec, err := c.Peek(descriptorSize)
		if err != nil {
			return nil, err
		}

		kind, ok := ParseBlockKind(rec[:4])
		if !ok {
			break
		}

		size := le32(rec[4:])
		if size < 0 {
			return nil, &DecodeError{
				Stage:  StageBlockTable,
				Block:  len(table),
				Offset: c.Offset(),
				Err:    fmt.Errorf("%w: %s stored length %d", ErrInvalidBlockLength, kind, size),
			}
		}

		table = append(table, BlockDescriptor{Kind: kind, StoredLength: size, Offset: c.Offset()})
		c.off += descriptorSize
	}

	return table, nil
}
