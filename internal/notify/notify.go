// Package notify defines the downstream-notification boundary for a
// finished pipeline run. Notifiers publish one completion event;
// the caller owns their lifecycle.
package notify

import "context"

// CompletedEvent is the payload published when a pipeline run
// finishes.
type CompletedEvent struct {
	EventType   string `json:"event_type"` // always "pipeline_completed"
	RunID       string `json:"run_id"`
	Recipe      string `json:"recipe"`
	Outcome     string `json:"outcome"` // success, guard_failed, pipeline_error
	FopsSeen    int64  `json:"fops_seen"`
	FopsErrored int64  `json:"fops_errored"`
	Timestamp   string `json:"timestamp"` // ISO 8601
	DurationMs  int64  `json:"duration_ms"`
}

// Notifier publishes a pipeline completion event to a downstream
// system. Implementations must be safe for single-use per run.
type Notifier interface {
	// Publish sends event to the downstream system, respecting ctx
	// cancellation and deadlines.
	Publish(ctx context.Context, event *CompletedEvent) error

	// Close releases notifier resources.
	Close() error
}
