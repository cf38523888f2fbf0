package edds2dds

import (
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/multierr"
)

// FramePolicy decides what a failing LZ4 frame does to the decode.
type FramePolicy uint8

const (
	// FrameSkip drops the frame, records the error and continues.
	FrameSkip FramePolicy = iota
	// FrameAbortBlock records the error and stops decoding the current block,
	// keeping the frames decoded so far.
	FrameAbortBlock
	// FrameFail aborts the whole decode.
	FrameFail
)

func (p FramePolicy) String() string {
	switch p {
	case FrameSkip:
		return "skip"
	case FrameAbortBlock:
		return "abort-block"
	case FrameFail:
		return "fail"
	default:
		return fmt.Sprintf("FramePolicy(%d)", uint8(p))
	}
}

// ParseFramePolicy parses the names returned by FramePolicy.String.
func ParseFramePolicy(s string) (FramePolicy, error) {
	switch s {
	case "skip", "":
		return FrameSkip, nil
	case "abort-block":
		return FrameAbortBlock, nil
	case "fail":
		return FrameFail, nil
	default:
		return 0, fmt.Errorf("unknown frame policy %q", s)
	}
}

// Options configures decoding. The zero value is the default behaviour.
type Options struct {
	// Logger receives debug and warning events. Nil discards them.
	Logger log.Logger
	// Metrics is optional.
	Metrics *Metrics
	// Order of blocks in the output. Defaults to OrderReversed.
	Order Order
	// FramePolicy for frames that fail to decompress. Defaults to FrameSkip.
	FramePolicy FramePolicy
	// ChainedFrames decodes each LZ4 frame with the previous 64 KiB of the
	// block's output as dictionary. Off by default, so a frame that refers
	// back into an earlier frame fails to decompress.
	ChainedFrames bool
}

func (o *Options) withDefaults() *Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Logger == nil {
		out.Logger = log.NewNopLogger()
	}

	return &out
}

// Result is a decoded container.
type Result struct {
	// Data is the DDS stream: header followed by block bytes.
	Data        []byte
	Header      RawHeader
	Table       BlockTable
	Blocks      []DecodedBlock
	FrameErrors []*FrameError
}

// Err combines the tolerated frame errors, or returns nil if there were none.
func (r *Result) Err() error {
	var err error
	for _, fe := range r.FrameErrors {
		err = multierr.Append(err, fe)
	}

	return err
}

// Decode converts an EDDS container into a DDS stream with default options.
// Frames that fail to decompress are skipped; use DecodeWithOptions to see
// or escalate them.
func Decode(input []byte) ([]byte, error) {
	res, err := DecodeWithOptions(input, nil)
	if err != nil {
		return nil, err
	}

	return res.Data, nil
}

// DecodeWithOptions converts an EDDS container into a DDS stream.
// Fatal errors are *DecodeError values and produce no output.
func DecodeWithOptions(input []byte, opts *Options) (*Result, error) {
	opts = opts.withDefaults()

	res, err := decode(input, opts)
	if err != nil {
		level.Debug(opts.Logger).Log("msg", "decode failed", "err", err)
		opts.Metrics.observeContainer(len(input), 0, err)
		return nil, err
	}
	opts.Metrics.observeContainer(len(input), len(res.Data), nil)

	return res, nil
}

func decode(input []byte, opts *Options) (*Result, error) {
	c := NewCursor(input)

	header, err := readHeader(c)
	if err != nil {
		return nil, &DecodeError{Stage: StageHeader, Block: -1, Offset: 0, Err: err}
	}

	tableStart := c.Offset()
	table, err := DecodeBlockTable(c)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, &DecodeError{Stage: StageBlockTable, Block: -1, Offset: tableStart, Err: err}
	}
	if len(table) == 0 {
		return nil, &DecodeError{Stage: StageBlockTable, Block: -1, Offset: tableStart, Err: ErrEmptyBlockTable}
	}

	level.Debug(opts.Logger).Log(
		"msg", "container layout",
		"header", header.Len(),
		"dx10", header.Extended,
		"blocks", len(table),
		"data_offset", c.Offset(),
	)

	blocks, frameErrs, err := NewExtractor(opts).Extract(c, table)
	if err != nil {
		return nil, err
	}
	if c.Len() > 0 {
		level.Debug(opts.Logger).Log("msg", "trailing bytes after last block", "bytes", c.Len())
	}

	return &Result{
		Data:        Assemble(header, blocks, opts.Order),
		Header:      header,
		Table:       table,
		Blocks:      blocks,
		FrameErrors: frameErrs,
	}, nil
}
