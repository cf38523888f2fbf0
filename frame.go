package edds2dds

const (
	// MaxFrameOutput caps the decoded size of a single LZ4 frame.
	MaxFrameOutput = 64 * 1024

	frameSizeMask = 0x7FFFFFFF
)

// FrameHeader is the 4-byte prefix of a frame inside an LZ4 block.
// Flag is the high bit of the raw value. Its meaning is not settled (observed
// on the last chunk written by Enfusion tools), so it is reported and otherwise
// ignored.
type FrameHeader struct {
	Size int32
	Flag bool
}

func parseFrameHeader(raw int32) FrameHeader {
	// #nosec G115 -- bit reinterpretation.
	u := uint32(raw)

	return FrameHeader{
		Size: int32(u & frameSizeMask),
		Flag: u&signMask != 0,
	}
}

// IsSentinel reports whether the header ends the frame sequence of a block
// with the given stored length rather than describing a frame.
func (h FrameHeader) IsSentinel(storedLength int32) bool {
	return h.Size >= storedLength
}

// frameOutputLimit returns how many bytes one frame may decode into.
func frameOutputLimit(totalUncompressed int32) int {
	if int(totalUncompressed) < MaxFrameOutput {
		return int(totalUncompressed)
	}

	return MaxFrameOutput
}
