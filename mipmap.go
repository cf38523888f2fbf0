package edds2dds

import "github.com/woozymasta/bcn"

// LevelMismatch is a decoded block whose size differs from what the header
// format and dimensions predict for its mipmap level.
type LevelMismatch struct {
	Level    int
	Block    int
	Expected int
	Got      int
}

// CheckLevels compares decoded block sizes with the header. Blocks are stored
// smallest level first, so the last block is level 0. Formats without a known
// size yield no mismatches.
func (i *HeaderInfo) CheckLevels(blocks []DecodedBlock) []LevelMismatch {
	var out []LevelMismatch
	for b := range blocks {
		level := len(blocks) - 1 - b
		want := i.LevelDataLength(level)
		if want < 0 {
			return nil
		}
		if got := len(blocks[b].Data); got != want {
			out = append(out, LevelMismatch{Level: level, Block: b, Expected: want, Got: got})
		}
	}

	return out
}

// LevelDataLength returns the byte size of one mipmap level, or -1 when the
// format is not known.
func (i *HeaderInfo) LevelDataLength(level int) int {
	return expectedDataLength(i.Format, mipDimension(i.Width, level), mipDimension(i.Height, level))
}

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}

func expectedDataLength(format bcn.Format, width, height int) int {
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4
	switch format {
	case bcn.FormatDXT1, bcn.FormatBC4:
		return blocksW * blocksH * 8
	case bcn.FormatDXT3, bcn.FormatDXT5, bcn.FormatBC5:
		return blocksW * blocksH * 16
	case bcn.FormatRGBA8, bcn.FormatBGRA8:
		return width * height * 4
	default:
		return -1
	}
}
