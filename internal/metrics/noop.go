package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncEntryCreated()                         {}
func (n *NoopRecorder) IncEntryUpdated()                         {}
func (n *NoopRecorder) IncEntryDeleted()                         {}
func (n *NoopRecorder) IncWarningIssued(string)                  {}
func (n *NoopRecorder) ObserveAggregationDuration(time.Duration) {}
func (n *NoopRecorder) IncUserCreated()                          {}
func (n *NoopRecorder) IncUserDeleted()                          {}
func (n *NoopRecorder) IncUserCacheHit()                         {}
func (n *NoopRecorder) IncUserCacheMiss()                        {}
