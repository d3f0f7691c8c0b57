package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopconfig"
	"github.com/file-or-pattern/fop/internal/fopmetrics"
	"github.com/file-or-pattern/fop/internal/fopslog"
	"github.com/file-or-pattern/fop/internal/notify"
	"github.com/file-or-pattern/fop/internal/notify/redis"
	"github.com/file-or-pattern/fop/internal/notify/webhook"
	"github.com/file-or-pattern/fop/recipe"
	"github.com/file-or-pattern/fop/stamp"
)

// runContext bundles everything a run/stats invocation needs: the
// assembled pipeline, its identity, and the logging/metrics sinks that
// observe it as it executes.
type runContext struct {
	pipeline recipe.Pipeline
	recipe   string
	runID    string
	logger   *fopslog.Logger
	metrics  *fopmetrics.Collector
}

// loadConfig reads --config if set, returning a zero Config otherwise.
func loadConfig(c *cli.Context) (fopconfig.Config, error) {
	path := c.String("config")
	if path == "" {
		return fopconfig.Config{}, nil
	}
	cfg, err := fopconfig.Load(path)
	if err != nil {
		return fopconfig.Config{}, err
	}
	return *cfg, nil
}

// firstNonEmpty returns the first of vals that isn't the empty string.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// buildRunContext assembles the pipeline named by --recipe (or the
// config file's default), wiring in a logger when --verbose is set and
// a fresh metrics collector either way.
func buildRunContext(c *cli.Context, cfg fopconfig.Config) (*runContext, error) {
	flagRecipe := ""
	if c.IsSet("recipe") {
		flagRecipe = c.String("recipe")
	}
	recipeName := firstNonEmpty(flagRecipe, cfg.Recipe, "simple")

	runID := uuid.New().String()

	var logger *fopslog.Logger
	if c.Bool("verbose") {
		logger = fopslog.New(fopslog.RunMeta{RunID: runID, Recipe: recipeName})
	} else {
		logger = fopslog.Nop()
	}

	metrics := fopmetrics.NewCollector(recipeName, runID)

	guardMode := cfg.Guard.Mode
	if c.IsSet("guard") {
		guardMode = c.Bool("guard")
	}
	failFast := cfg.Guard.FailFast
	if c.IsSet("fail-fast") {
		failFast = c.Bool("fail-fast")
	}
	asText := c.Bool("as-text")
	if cfg.AsText != nil && !c.IsSet("as-text") {
		asText = *cfg.AsText
	}
	recordEncoding := c.Bool("record-encoding")
	scanPermits := c.Int("scan-permits")
	if scanPermits == 0 {
		scanPermits = cfg.Scan.Permits
	}

	var pl recipe.Pipeline
	switch recipeName {
	case "simple":
		pl = recipe.Simple(recipe.SimpleConfig{
			GuardMode:      guardMode,
			AsText:         asText,
			RecordEncoding: recordEncoding,
			ScanPermits:    scanPermits,
			FailFast:       failFast,
			Logger:         logger,
		})
	case "bounded":
		concurrency := c.Int("concurrency")
		if !c.IsSet("concurrency") && cfg.Bounded.Concurrency > 0 {
			concurrency = cfg.Bounded.Concurrency
		}
		if concurrency <= 0 {
			concurrency = 4
		}
		pl = recipe.ExecReadExecBounded(recipe.BoundedConfig{
			GuardMode:      guardMode,
			AsText:         asText,
			RecordEncoding: recordEncoding,
			ScanPermits:    scanPermits,
			FailFast:       failFast,
			Concurrency:    concurrency,
			Stamper:        stamp.NewHiRes(),
			Logger:         logger,
		})
	default:
		return nil, fmt.Errorf("unknown recipe %q (want simple or bounded)", recipeName)
	}

	return &runContext{pipeline: pl, recipe: recipeName, runID: runID, logger: logger, metrics: metrics}, nil
}

// observe folds one output Fop's terminal state into metrics, the
// bookkeeping a real pipeline consumer performs once per result since
// fopmetrics only knows about plain strings, not Fop itself.
func observe(f fop.Fop, metrics *fopmetrics.Collector) {
	metrics.IncSeen()
	if f.Filename != nil {
		metrics.IncResolved()
	}
	if f.Match != nil {
		metrics.IncMatched()
	}
	if f.Err != nil {
		metrics.IncErrored(string(f.Err.Kind), f.Err.Stage)
	}
}

// buildNotifiers constructs the notifiers requested via --notify-webhook
// and/or --notify-redis, plus any configured via --config.
func buildNotifiers(c *cli.Context, cfg fopconfig.Config) ([]notify.Notifier, error) {
	var notifiers []notify.Notifier

	if url := c.String("notify-webhook"); url != "" {
		n, err := webhook.New(webhook.Config{URL: url})
		if err != nil {
			return nil, fmt.Errorf("notify-webhook: %w", err)
		}
		notifiers = append(notifiers, n)
	}
	if url := c.String("notify-redis"); url != "" {
		n, err := redis.New(redis.Config{URL: url})
		if err != nil {
			return nil, fmt.Errorf("notify-redis: %w", err)
		}
		notifiers = append(notifiers, n)
	}

	if cfg.Notify.Type != "" && cfg.Notify.URL != "" {
		retries := 0
		if cfg.Notify.Retries != nil {
			retries = *cfg.Notify.Retries
		}
		switch cfg.Notify.Type {
		case "webhook":
			n, err := webhook.New(webhook.Config{
				URL:     cfg.Notify.URL,
				Headers: cfg.Notify.Headers,
				Timeout: cfg.Notify.Timeout.Duration,
				Retries: retries,
			})
			if err != nil {
				return nil, fmt.Errorf("config notify: %w", err)
			}
			notifiers = append(notifiers, n)
		case "redis":
			n, err := redis.New(redis.Config{
				URL:     cfg.Notify.URL,
				Channel: cfg.Notify.Channel,
				Timeout: cfg.Notify.Timeout.Duration,
				Retries: retries,
			})
			if err != nil {
				return nil, fmt.Errorf("config notify: %w", err)
			}
			notifiers = append(notifiers, n)
		default:
			return nil, fmt.Errorf("unknown notify type %q", cfg.Notify.Type)
		}
	}

	return notifiers, nil
}

// publishCompletion sends the run's completion event to every notifier,
// logging (rather than failing the run on) individual publish errors —
// a downstream notification outage shouldn't un-do a finished run.
func publishCompletion(ctx context.Context, notifiers []notify.Notifier, event *notify.CompletedEvent, logger *fopslog.Logger) {
	for _, n := range notifiers {
		if err := n.Publish(ctx, event); err != nil {
			logger.Sugar().Warnf("notify: publish failed: %v", err)
		}
		_ = n.Close()
	}
}

func outcomeFor(snap fopmetrics.Snapshot) string {
	if snap.FopsErrored > 0 {
		return "guard_failed"
	}
	return "success"
}

func nowISO8601() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func fatalf(format string, args ...any) error {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return cli.Exit("", 1)
}
