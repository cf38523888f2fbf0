package edds2dds

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedInput indicates a read past the end of the input buffer.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrInvalidMagic indicates a missing or unrecognized tag where one is required.
	ErrInvalidMagic = errors.New("invalid magic")
	// ErrInvalidBlockLength indicates a negative stored or uncompressed length.
	ErrInvalidBlockLength = errors.New("invalid block length")
	// ErrDecompression indicates an LZ4 frame failed to decompress.
	ErrDecompression = errors.New("LZ4 frame decompression failed")
	// ErrEmptyBlockTable indicates no block descriptor follows the header.
	ErrEmptyBlockTable = fmt.Errorf("%w: no block descriptors after header", ErrInvalidMagic)
	// ErrOpenFile indicates EDDS file read failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates DDS file write failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrDDSHeaderRead indicates DDS header parsing failed.
	ErrDDSHeaderRead = errors.New("reading DDS header failed")
	// ErrDDSDX10Read indicates DDS DX10 header parsing failed.
	ErrDDSDX10Read = errors.New("reading DDS DX10 header failed")
)

// Stage names the pipeline step a DecodeError came from.
type Stage string

const (
	StageHeader     Stage = "header"
	StageBlockTable Stage = "block table"
	StageBlockBody  Stage = "block body"
	StageFrame      Stage = "frame"
)

// DecodeError is a fatal decode failure at a known input offset.
type DecodeError struct {
	Err    error
	Stage  Stage
	Block  int // -1 when not tied to a block
	Offset int
}

func (e *DecodeError) Error() string {
	if e.Block >= 0 {
		return fmt.Sprintf("%s: block %d: offset %#x: %v", e.Stage, e.Block, e.Offset, e.Err)
	}

	return fmt.Sprintf("%s: offset %#x: %v", e.Stage, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FrameError reports one LZ4 frame that failed to decompress.
// Err always wraps ErrDecompression.
type FrameError struct {
	Err    error
	Block  int
	Frame  int
	Offset int
	Flag   bool
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("block %d: frame %d: offset %#x: %v", e.Block, e.Frame, e.Offset, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
