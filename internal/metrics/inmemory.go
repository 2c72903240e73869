package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	EntriesCreated             uint64
	EntriesUpdated             uint64
	EntriesDeleted             uint64
	CalorieWarnings            uint64
	PriceWarnings              uint64
	AggregationDurationCount   uint64
	AggregationDurationTotalNs int64
	UsersCreated               uint64
	UsersDeleted               uint64
	UserCacheHits              uint64
	UserCacheMisses            uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	entriesCreated             atomic.Uint64
	entriesUpdated             atomic.Uint64
	entriesDeleted             atomic.Uint64
	calorieWarnings            atomic.Uint64
	priceWarnings              atomic.Uint64
	aggregationDurationCount   atomic.Uint64
	aggregationDurationTotalNs atomic.Int64
	usersCreated               atomic.Uint64
	usersDeleted               atomic.Uint64
	userCacheHits              atomic.Uint64
	userCacheMisses            atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		EntriesCreated:             m.entriesCreated.Load(),
		EntriesUpdated:             m.entriesUpdated.Load(),
		EntriesDeleted:             m.entriesDeleted.Load(),
		CalorieWarnings:            m.calorieWarnings.Load(),
		PriceWarnings:              m.priceWarnings.Load(),
		AggregationDurationCount:   m.aggregationDurationCount.Load(),
		AggregationDurationTotalNs: m.aggregationDurationTotalNs.Load(),
		UsersCreated:               m.usersCreated.Load(),
		UsersDeleted:               m.usersDeleted.Load(),
		UserCacheHits:              m.userCacheHits.Load(),
		UserCacheMisses:            m.userCacheMisses.Load(),
	}
}

func (m *InMemoryRecorder) IncEntryCreated() { m.entriesCreated.Add(1) }
func (m *InMemoryRecorder) IncEntryUpdated() { m.entriesUpdated.Add(1) }
func (m *InMemoryRecorder) IncEntryDeleted() { m.entriesDeleted.Add(1) }

// IncWarningIssued increments the counter for metric. Unknown metrics are
// ignored.
func (m *InMemoryRecorder) IncWarningIssued(metric string) {
	switch metric {
	case "calories":
		m.calorieWarnings.Add(1)
	case "price":
		m.priceWarnings.Add(1)
	}
}

// ObserveAggregationDuration records how long a threshold evaluation took.
func (m *InMemoryRecorder) ObserveAggregationDuration(duration time.Duration) {
	m.aggregationDurationCount.Add(1)
	m.aggregationDurationTotalNs.Add(duration.Nanoseconds())
}

func (m *InMemoryRecorder) IncUserCreated()   { m.usersCreated.Add(1) }
func (m *InMemoryRecorder) IncUserDeleted()   { m.usersDeleted.Add(1) }
func (m *InMemoryRecorder) IncUserCacheHit()  { m.userCacheHits.Add(1) }
func (m *InMemoryRecorder) IncUserCacheMiss() { m.userCacheMisses.Add(1) }
