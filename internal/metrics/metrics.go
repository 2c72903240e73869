// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// Food entry metrics
	IncEntryCreated()
	IncEntryUpdated()
	IncEntryDeleted()

	// IncWarningIssued counts a threshold warning for metric
	// ("calories" or "price").
	IncWarningIssued(metric string)
	ObserveAggregationDuration(duration time.Duration)

	// Account metrics
	IncUserCreated()
	IncUserDeleted()
	IncUserCacheHit()
	IncUserCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
