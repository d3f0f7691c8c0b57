package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopconfig"
	"github.com/file-or-pattern/fop/internal/notify"
	"github.com/file-or-pattern/fop/internal/sink"
	"github.com/file-or-pattern/fop/internal/wire"
	"github.com/file-or-pattern/fop/source"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "run a pipeline over one or more files or patterns",
		ArgsUsage: "<file-or-pattern>...",
		Flags:     runOnlyFlags(),
		Action:    runAction,
	}
}

func runAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fatalf("fop run: at least one file-or-pattern argument is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return fatalf("fop run: %v", err)
	}

	rc, err := buildRunContext(c, cfg)
	if err != nil {
		return fatalf("fop run: %v", err)
	}

	notifiers, err := buildNotifiers(c, cfg)
	if err != nil {
		return fatalf("fop run: %v", err)
	}

	persist, err := buildSink(c, cfg)
	if err != nil {
		return fatalf("fop run: %v", err)
	}

	ctx := context.Background()
	in := source.FromArgs(c.Args().Slice())
	out, errs := rc.pipeline(ctx, in)

	var results []fop.Fop
	for f := range out {
		observe(f, rc.metrics)
		results = append(results, f)
	}

	var pipelineErr error
	if err, ok := <-errs; ok {
		pipelineErr = err
	}

	if persist != nil {
		for _, f := range results {
			if perr := persist.Put(ctx, f); perr != nil && perr != sink.ErrNoContent {
				rc.logger.Sugar().Warnf("sink: %v", perr)
			}
		}
		_ = persist.Close()
	}

	if err := renderResults(c, results); err != nil {
		return fatalf("fop run: %v", err)
	}

	snap := rc.metrics.Snapshot()
	event := &notify.CompletedEvent{
		EventType:   "pipeline_completed",
		RunID:       rc.runID,
		Recipe:      rc.recipe,
		Outcome:     outcomeFor(snap),
		FopsSeen:    snap.FopsSeen,
		FopsErrored: snap.FopsErrored,
		Timestamp:   nowISO8601(),
	}
	if pipelineErr != nil {
		event.Outcome = "pipeline_error"
	}
	publishCompletion(ctx, notifiers, event, rc.logger)

	if pipelineErr != nil {
		return fatalf("fop run: pipeline error: %v", pipelineErr)
	}
	return nil
}

// buildSink constructs the optional terminal content sink named by
// --sink-fs or --sink-s3; at most one may be set.
func buildSink(c *cli.Context, cfg fopconfig.Config) (sink.Sink, error) {
	fsDir := c.String("sink-fs")
	s3Path := c.String("sink-s3")
	if fsDir != "" && s3Path != "" {
		return nil, fmt.Errorf("only one of --sink-fs or --sink-s3 may be set")
	}

	if fsDir != "" {
		return sink.NewFSSink(fsDir)
	}
	if s3Path != "" {
		bucket, prefix := sink.ParseS3Path(s3Path)
		return sink.NewS3Sink(context.Background(), sink.S3Config{
			Bucket: bucket,
			Prefix: prefix,
			Region: c.String("sink-s3-region"),
		})
	}

	switch cfg.Sink.Backend {
	case "":
		return nil, nil
	case "fs":
		return sink.NewFSSink(cfg.Sink.Path)
	case "s3":
		return sink.NewS3Sink(context.Background(), sink.S3Config{
			Bucket:       cfg.Sink.Bucket,
			Prefix:       cfg.Sink.Prefix,
			Region:       cfg.Sink.Region,
			Endpoint:     cfg.Sink.Endpoint,
			UsePathStyle: cfg.Sink.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown sink backend %q", cfg.Sink.Backend)
	}
}

// renderResults writes results to stdout in the format named by
// --format: text, json, or msgpack.
func renderResults(c *cli.Context, results []fop.Fop) error {
	switch format := c.String("format"); format {
	case "", "text":
		return renderText(c, results)
	case "json":
		return wire.EncodeJSON(c.App.Writer, wire.Records(results))
	case "msgpack":
		return wire.EncodeMsgpack(c.App.Writer, wire.Records(results))
	default:
		return fmt.Errorf("unknown format %q (want text, json, or msgpack)", format)
	}
}

func renderText(c *cli.Context, results []fop.Fop) error {
	w := c.App.Writer
	for _, f := range results {
		if f.Err != nil {
			fmt.Fprintf(w, "ERROR\t%s\t%s: %s\n", f.FileOrPattern, f.Err.Kind, f.Err.Message)
			continue
		}
		filename := f.FileOrPattern
		if f.Filename != nil {
			filename = *f.Filename
		}
		size := f.Content.Len()
		fmt.Fprintf(w, "OK\t%s\t%d bytes\n", filename, size)
	}
	return nil
}
