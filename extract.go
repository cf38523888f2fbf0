package edds2dds

import (
	"bytes"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pierrec/lz4/v4"
)

// dictSize is the LZ4 window shared between consecutive frames of one block.
const dictSize = 64 * 1024

// DecodedBlock holds the reconstructed bytes of one block.
type DecodedBlock struct {
	Data       []byte
	Descriptor BlockDescriptor
	// Offset of the block body in the input.
	Offset int
	// Frames is the number of LZ4 frames decoded successfully.
	Frames int
	// FrameFlags counts frames whose header carried the reserved high bit.
	FrameFlags int
}

// Extractor rebuilds block bodies from the bytes following the block table.
type Extractor struct {
	logger  log.Logger
	metrics *Metrics
	policy  FramePolicy
	chained bool
}

// NewExtractor returns an extractor configured from opts. Nil opts uses defaults.
func NewExtractor(opts *Options) *Extractor {
	opts = opts.withDefaults()

	return &Extractor{
		logger:  opts.Logger,
		metrics: opts.Metrics,
		policy:  opts.FramePolicy,
		chained: opts.ChainedFrames,
	}
}

// Extract walks the block bodies back to back from the cursor position, one
// per descriptor, and returns them in table order. Bodies are bounds checked
// before decoding, so a truncated input yields no blocks. Frame failures that
// the policy tolerates are returned alongside the blocks.
func (x *Extractor) Extract(c *Cursor, table BlockTable) ([]DecodedBlock, []*FrameError, error) {
	blocks := make([]DecodedBlock, 0, len(table))
	var frameErrs []*FrameError

	for i, d := range table {
		start := c.Offset()
		body, err := c.Sub(int(d.StoredLength))
		if err != nil {
			return nil, frameErrs, &DecodeError{
				Stage:  StageBlockBody,
				Block:  i,
				Offset: start,
				Err:    fmt.Errorf("%s body of %d bytes: %w", d.Kind, d.StoredLength, err),
			}
		}

		block := DecodedBlock{Descriptor: d, Offset: start}
		switch d.Kind {
		case KindCopy:
			data, _ := body.Take(body.Len())
			block.Data = bytes.Clone(data)
		case KindLZ4:
			errs, err := x.extractFrames(i, body, &block)
			frameErrs = append(frameErrs, errs...)
			if err != nil {
				return nil, frameErrs, err
			}
		default:
			return nil, frameErrs, &DecodeError{
				Stage:  StageBlockBody,
				Block:  i,
				Offset: start,
				Err:    fmt.Errorf("%w: block kind %s", ErrInvalidMagic, d.Kind),
			}
		}

		level.Debug(x.logger).Log(
			"msg", "block extracted",
			"block", i,
			"kind", d.Kind,
			"offset", fmt.Sprintf("%#010x", start),
			"stored", d.StoredLength,
			"decoded", len(block.Data),
			"frames", block.Frames,
		)
		x.metrics.observeBlock(block)

		blocks = append(blocks, block)
	}

	return blocks, frameErrs, nil
}

// extractFrames decodes the frame sequence of one LZ4 block body.
func (x *Extractor) extractFrames(index int, body *Cursor, block *DecodedBlock) ([]*FrameError, error) {
	stored := block.Descriptor.StoredLength

	at := body.Offset()
	total, err := body.Int32()
	if err != nil {
		return nil, &DecodeError{
			Stage:  StageBlockBody,
			Block:  index,
			Offset: at,
			Err:    fmt.Errorf("uncompressed size: %w", err),
		}
	}
	if total < 0 {
		return nil, &DecodeError{
			Stage:  StageBlockBody,
			Block:  index,
			Offset: at,
			Err:    fmt.Errorf("%w: uncompressed size %d", ErrInvalidBlockLength, total),
		}
	}

	// LZ4 expands at most 255x.
	capHint := int(total)
	if bound := int(stored) * 255; capHint > bound {
		capHint = bound
	}
	out := make([]byte, 0, capHint)
	dst := make([]byte, frameOutputLimit(total))

	var errs []*FrameError
	for frame := 0; body.Len() >= 4; frame++ {
		at = body.Offset()
		raw, err := body.Int32()
		if err != nil {
			return errs, &DecodeError{Stage: StageFrame, Block: index, Offset: at, Err: err}
		}
		hdr := parseFrameHeader(raw)
		if hdr.IsSentinel(stored) {
			level.Debug(x.logger).Log("msg", "frame sentinel", "block", index, "frame", frame, "size", hdr.Size)
			break
		}

		src, err := body.Take(int(hdr.Size))
		if err != nil {
			return errs, &DecodeError{
				Stage:  StageFrame,
				Block:  index,
				Offset: at,
				Err:    fmt.Errorf("frame %d of %d bytes: %w", frame, hdr.Size, err),
			}
		}
		if hdr.Flag {
			block.FrameFlags++
		}

		var dict []byte
		if x.chained {
			dict = out[max(0, len(out)-dictSize):]
		}

		n, err := lz4.UncompressBlockWithDict(src, dst, dict)
		if err != nil {
			fe := &FrameError{
				Block:  index,
				Frame:  frame,
				Offset: at,
				Flag:   hdr.Flag,
				Err:    fmt.Errorf("%w: %v", ErrDecompression, err),
			}
			x.metrics.observeFrameError()

			if x.policy == FrameFail {
				return errs, &DecodeError{Stage: StageFrame, Block: index, Offset: at, Err: fe}
			}

			level.Warn(x.logger).Log("msg", "frame skipped", "block", index, "frame", frame, "offset", at, "err", err)
			errs = append(errs, fe)
			if x.policy == FrameAbortBlock {
				break
			}
			continue
		}

		out = append(out, dst[:n]...)
		block.Frames++
	}

	if body.Len() > 0 && body.Len() < 4 {
		level.Debug(x.logger).Log("msg", "trailing bytes after frames", "block", index, "bytes", body.Len())
	}

	block.Data = out
	x.metrics.observeFrames(block.Frames)

	return errs, nil
}
