// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// Record mutations; kind is "user", "payment" or "bill",
	// action is "created", "updated" or "deleted".
	IncRecordMutation(kind, action string)

	// Read paths of the expense feed and dashboard.
	ObserveQueryDuration(operation string, duration time.Duration)

	// Record event stream; status is "success" or "dropped".
	IncEventPublished(status string)

	// Requests rejected by the rate limiter.
	IncRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
