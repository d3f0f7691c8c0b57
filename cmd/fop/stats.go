package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/file-or-pattern/fop/internal/fopmetrics"
	"github.com/file-or-pattern/fop/internal/notify"
	"github.com/file-or-pattern/fop/source"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "run a pipeline and print aggregated metrics, discarding per-fop output",
		ArgsUsage: "<file-or-pattern>...",
		Flags:     statsOnlyFlags(),
		Action:    statsAction,
	}
}

func statsAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fatalf("fop stats: at least one file-or-pattern argument is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return fatalf("fop stats: %v", err)
	}

	rc, err := buildRunContext(c, cfg)
	if err != nil {
		return fatalf("fop stats: %v", err)
	}

	notifiers, err := buildNotifiers(c, cfg)
	if err != nil {
		return fatalf("fop stats: %v", err)
	}

	ctx := context.Background()
	in := source.FromArgs(c.Args().Slice())
	out, errs := rc.pipeline(ctx, in)

	if c.Bool("watch") {
		if err := watchSnapshots(out, rc.metrics); err != nil {
			return fatalf("fop stats: %v", err)
		}
	} else {
		for f := range out {
			observe(f, rc.metrics)
		}
	}

	var pipelineErr error
	if err, ok := <-errs; ok {
		pipelineErr = err
	}

	snap := rc.metrics.Snapshot()
	printSnapshot(c, snap)

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
		return fatalf("fop stats: pipeline error: %v", pipelineErr)
	}
	return nil
}

func printSnapshot(c *cli.Context, snap fopmetrics.Snapshot) {
	w := c.App.Writer
	fmt.Fprintf(w, "run:      %s\n", snap.RunID)
	fmt.Fprintf(w, "recipe:   %s\n", snap.Recipe)
	fmt.Fprintf(w, "seen:     %d\n", snap.FopsSeen)
	fmt.Fprintf(w, "resolved: %d\n", snap.FopsResolved)
	fmt.Fprintf(w, "matched:  %d\n", snap.FopsMatched)
	fmt.Fprintf(w, "errored:  %d\n", snap.FopsErrored)
	fmt.Fprintf(w, "guarded:  %d\n", snap.FopsGuarded)
	for kind, n := range snap.ErrorsByKind {
		fmt.Fprintf(w, "  by-kind  %s: %d\n", kind, n)
	}
	for stage, n := range snap.ErrorsByStage {
		fmt.Fprintf(w, "  by-stage %s: %d\n", stage, n)
	}
}
