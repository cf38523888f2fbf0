package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/woozymasta/edds2dds"
)

func convertFile(src, outDir string, opts *edds2dds.Options, logger log.Logger) error {
	fileOpts := *opts
	fileOpts.Logger = logger

	dst := edds2dds.OutputPath(src, outDir)
	res, err := edds2dds.ConvertFile(src, dst, &fileOpts)
	if err != nil {
		return err
	}

	if err := res.Err(); err != nil {
		level.Warn(logger).Log("msg", "frames skipped", "count", len(res.FrameErrors), "err", err)
	}
	checkLayout(res, logger)

	level.Info(logger).Log("msg", "converted", "out", dst, "blocks", len(res.Blocks), "bytes", len(res.Data))

	return nil
}

func inspectFile(path string, logger log.Logger) error {
	input, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", edds2dds.ErrOpenFile, err)
	}

	header, n, err := edds2dds.DecodeHeader(input)
	if err != nil {
		return err
	}
	table, _, err := edds2dds.DecodeBlockTableBytes(input[n:])
	if err != nil {
		return err
	}

	info, err := edds2dds.Inspect(header)
	if err != nil {
		level.Warn(logger).Log("msg", "header is not a readable DDS header", "err", err)
	} else {
		level.Info(logger).Log(
			"msg", "header",
			"width", info.Width,
			"height", info.Height,
			"mipmaps", info.MipMapCount,
			"format", info.FormatName,
			"dx10", info.DX10,
		)
	}

	for i, d := range table {
		level.Info(logger).Log("msg", "block", "index", i, "kind", d.Kind, "stored", d.StoredLength, "table_offset", d.Offset)
	}
	level.Info(logger).Log("msg", "block table", "blocks", len(table), "stored_total", table.TotalStored())
	if info != nil {
		checkMipCount(info, len(table), logger)
	}

	return nil
}

// checkLayout warns when the decoded blocks do not match the mipmap chain the
// header declares. Headers bcn cannot parse are not checked.
func checkLayout(res *edds2dds.Result, logger log.Logger) {
	info, err := edds2dds.Inspect(res.Header)
	if err != nil {
		return
	}
	checkMipCount(info, len(res.Blocks), logger)

	for _, m := range info.CheckLevels(res.Blocks) {
		level.Warn(logger).Log("msg", "mipmap size mismatch", "level", m.Level, "block", m.Block, "expected", m.Expected, "got", m.Got)
	}
}

func checkMipCount(info *edds2dds.HeaderInfo, blocks int, logger log.Logger) {
	if info.MipMapCount != blocks {
		level.Warn(logger).Log("msg", "block count differs from header mipmap count", "blocks", blocks, "mipmaps", info.MipMapCount)
	}
}
