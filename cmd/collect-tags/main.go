package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var errVerifyMismatch = errors.New("sink contents differ from computed tags")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if cfg.logLevel != "" {
		level, _ := parseLogLevel(cfg.logLevel)
		logLevel.Set(level)
	}
	if err := runPipeline(ctx, cfg); err != nil {
		logger.Error("collect tags failed", "error", err)
		return 1
	}
	return 0
}

func runPipeline(ctx context.Context, cfg config) error {
	start := time.Now()
	sink, err := newSink(cfg.sink, cfg.outfile)
	if err != nil {
		return err
	}
	metrics := newRunMetrics(sink.Name())

	logger.Info("collecting tags", "labels", cfg.labelsPath, "threshold", confidenceThreshold)
	stageStart := time.Now()
	labels, lstats, err := collectLabels(cfg.labelsPath)
	if err != nil {
		return err
	}
	metrics.observeLabels(lstats)
	metrics.observeStage("collect", time.Since(stageStart))
	logger.Debug("labels collected", "rows", lstats.rows, "retained", lstats.retained, "dropped", lstats.dropped, "tag_ids", len(labels))

	logger.Info("translating ids", "dictionary", cfg.dictPath, "metadata", cfg.metaPath)
	stageStart = time.Now()
	tags, tstats, err := translateIDs(labels, cfg.dictPath, cfg.metaPath)
	if err != nil {
		return err
	}
	metrics.observeTranslate(tstats)
	metrics.observeStage("translate", time.Since(stageStart))

	logger.Info("writing tags", "sink", sink.Name(), "destination", sink.Destination(), "tags", tstats.tags, "urls", tstats.urls)
	stageStart = time.Now()
	if err := sink.Replace(ctx, tags); err != nil {
		return err
	}
	metrics.observeStage("write", time.Since(stageStart))

	if cfg.verify {
		stageStart = time.Now()
		got, err := sink.Load(ctx)
		if err != nil {
			return err
		}
		if !equalTagURLs(tags, got) {
			return fmt.Errorf("%w: %s %s has %d tags, expected %d", errVerifyMismatch, sink.Name(), sink.Destination(), len(got), len(tags))
		}
		metrics.observeStage("verify", time.Since(stageStart))
		logger.Info("sink verified", "sink", sink.Name(), "tags", len(got))
	}

	if cfg.metricsFile != "" {
		if err := metrics.writeTextfile(cfg.metricsFile, time.Now()); err != nil {
			return fmt.Errorf("failed to write metrics %s: %w", cfg.metricsFile, err)
		}
	}

	logger.Info("complete", "duration_ms", time.Since(start).Milliseconds(), "collisions", tstats.collisions)
	return nil
}
