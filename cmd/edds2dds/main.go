// Package main provides a command-line tool converting EDDS textures to DDS.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/edds2dds"
)

type config struct {
	outDir        string
	order         string
	framePolicy   string
	logLevel      string
	metricsFile   string
	workers       int
	chainedFrames bool
	info          bool
}

func main() {
	var cfg config

	flag.StringVar(&cfg.outDir, "out-dir", "", "Directory for .dds files (default: next to each input)")
	flag.StringVar(&cfg.order, "order", "reversed", "Block order in the output: reversed, as-parsed")
	flag.StringVar(&cfg.framePolicy, "frames", "skip", "On a corrupt LZ4 frame: skip, abort-block, fail")
	flag.BoolVar(&cfg.chainedFrames, "chained-frames", false, "Decode LZ4 frames with the previous frames of the block as dictionary")
	flag.IntVar(&cfg.workers, "workers", runtime.GOMAXPROCS(0), "Number of files converted in parallel")
	flag.BoolVar(&cfg.info, "info", false, "Print header and block table of each file instead of converting")
	flag.StringVar(&cfg.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] file.edds...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, flag.Args(), logger)
	cancel()
	if err != nil {
		level.Error(logger).Log("msg", "edds2dds failed", "err", err)
		os.Exit(1)
	}
}

// run converts or inspects files until done or ctx is cancelled. Files not yet
// started when ctx is cancelled are skipped.
func run(ctx context.Context, cfg config, files []string, logger log.Logger) error {
	if len(files) == 0 {
		flag.Usage()
		return errors.New("no input files")
	}

	lvl, err := levelOption(cfg.logLevel)
	if err != nil {
		return err
	}
	logger = level.NewFilter(logger, lvl)

	order, err := edds2dds.ParseOrder(cfg.order)
	if err != nil {
		return err
	}
	policy, err := edds2dds.ParseFramePolicy(cfg.framePolicy)
	if err != nil {
		return err
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}

	reg := prometheus.NewRegistry()
	opts := &edds2dds.Options{
		Logger:        logger,
		Metrics:       edds2dds.NewMetrics(reg),
		Order:         order,
		FramePolicy:   policy,
		ChainedFrames: cfg.chainedFrames,
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	for _, path := range files {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fileLogger := log.With(logger, "file", path)
			var err error
			if cfg.info {
				err = inspectFile(path, fileLogger)
			} else {
				err = convertFile(path, cfg.outDir, opts, fileLogger)
			}
			if err != nil {
				failed.Add(1)
				level.Error(fileLogger).Log("msg", "failed", "err", err)
			}

			return nil
		})
	}

	waitErr := g.Wait()

	if cfg.metricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.metricsFile, reg); err != nil {
			level.Warn(logger).Log("msg", "failed to write metrics", "path", cfg.metricsFile, "err", err)
		}
	}

	if waitErr != nil {
		return waitErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(files))
	}

	return nil
}

func levelOption(name string) (level.Option, error) {
	switch name {
	case "debug":
		return level.AllowDebug(), nil
	case "info", "":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("unknown log level %q", name)
	}
}
