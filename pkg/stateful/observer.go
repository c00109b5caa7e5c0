package stateful

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Observer receives a callback after every collection operation.
type Observer interface {
	// OnCreate is called after a record is appended.
	OnCreate(collection string, itemID string, duration time.Duration)

	// OnRead is called after a successful get.
	OnRead(collection string, itemID string, duration time.Duration)

	// OnList is called after every list.
	OnList(collection string, count int, duration time.Duration)

	// OnUpdate is called after a successful merge.
	OnUpdate(collection string, itemID string, duration time.Duration)

	// OnDelete is called after a successful delete.
	OnDelete(collection string, itemID string, duration time.Duration)

	// OnError is called when an operation fails. collection is empty for
	// store-level operations such as reset.
	OnError(collection string, operation string, err error)

	// OnReset is called after the store was reloaded from its seed source.
	OnReset(collections []string, duration time.Duration)
}

// NoopObserver is a no-op implementation of Observer for when metrics are disabled.
type NoopObserver struct{}

func (n *NoopObserver) OnCreate(collection string, itemID string, duration time.Duration) {}
func (n *NoopObserver) OnRead(collection string, itemID string, duration time.Duration)   {}
func (n *NoopObserver) OnList(collection string, count int, duration time.Duration)       {}
func (n *NoopObserver) OnUpdate(collection string, itemID string, duration time.Duration) {}
func (n *NoopObserver) OnDelete(collection string, itemID string, duration time.Duration) {}
func (n *NoopObserver) OnError(collection string, operation string, err error)            {}
func (n *NoopObserver) OnReset(collections []string, duration time.Duration)              {}

// MetricsObserver counts operations. Counters are atomic; it is safe for
// concurrent use.
type MetricsObserver struct {
	createCount    atomic.Int64
	readCount      atomic.Int64
	listCount      atomic.Int64
	updateCount    atomic.Int64
	deleteCount    atomic.Int64
	errorCount     atomic.Int64
	resetCount     atomic.Int64
	totalLatencyNs atomic.Int64

	// collection name -> *atomic.Int64 of successful operations
	perCollection sync.Map
}

// NewMetricsObserver creates a new thread-safe metrics observer.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (m *MetricsObserver) record(collection string, counter *atomic.Int64, duration time.Duration) {
	counter.Add(1)
	m.totalLatencyNs.Add(int64(duration))
	if collection == "" {
		return
	}
	v, _ := m.perCollection.LoadOrStore(collection, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
}

func (m *MetricsObserver) OnCreate(collection string, itemID string, duration time.Duration) {
	m.record(collection, &m.createCount, duration)
}

func (m *MetricsObserver) OnRead(collection string, itemID string, duration time.Duration) {
	m.record(collection, &m.readCount, duration)
}

func (m *MetricsObserver) OnList(collection string, count int, duration time.Duration) {
	m.record(collection, &m.listCount, duration)
}

func (m *MetricsObserver) OnUpdate(collection string, itemID string, duration time.Duration) {
	m.record(collection, &m.updateCount, duration)
}

func (m *MetricsObserver) OnDelete(collection string, itemID string, duration time.Duration) {
	m.record(collection, &m.deleteCount, duration)
}

func (m *MetricsObserver) OnError(collection string, operation string, err error) {
	m.errorCount.Add(1)
}

func (m *MetricsObserver) OnReset(collections []string, duration time.Duration) {
	m.record("", &m.resetCount, duration)
}

// Snapshot returns a thread-safe copy of the current metrics.
func (m *MetricsObserver) Snapshot() MetricsSnapshot {
	byCollection := make(map[string]int64)
	m.perCollection.Range(func(k, v any) bool {
		byCollection[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})

	return MetricsSnapshot{
		CreateCount:  m.createCount.Load(),
		ReadCount:    m.readCount.Load(),
		ListCount:    m.listCount.Load(),
		UpdateCount:  m.updateCount.Load(),
		DeleteCount:  m.deleteCount.Load(),
		ErrorCount:   m.errorCount.Load(),
		ResetCount:   m.resetCount.Load(),
		TotalLatency: time.Duration(m.totalLatencyNs.Load()),
		ByCollection: byCollection,
	}
}

// Reset clears all metrics counters to zero.
func (m *MetricsObserver) Reset() {
	m.createCount.Store(0)
	m.readCount.Store(0)
	m.listCount.Store(0)
	m.updateCount.Store(0)
	m.deleteCount.Store(0)
	m.errorCount.Store(0)
	m.resetCount.Store(0)
	m.totalLatencyNs.Store(0)
	m.perCollection.Clear()
}

// MetricsSnapshot is a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	CreateCount  int64            `json:"createCount"`
	ReadCount    int64            `json:"readCount"`
	ListCount    int64            `json:"listCount"`
	UpdateCount  int64            `json:"updateCount"`
	DeleteCount  int64            `json:"deleteCount"`
	ErrorCount   int64            `json:"errorCount"`
	ResetCount   int64            `json:"resetCount"`
	TotalLatency time.Duration    `json:"totalLatencyNs"`
	ByCollection map[string]int64 `json:"byCollection"`
}

// TotalOperations returns the total number of successful record operations.
func (s MetricsSnapshot) TotalOperations() int64 {
	return s.CreateCount + s.ReadCount + s.ListCount + s.UpdateCount + s.DeleteCount
}

// LoggingObserver writes every operation to a slog.Logger at debug level and
// failures at warn.
type LoggingObserver struct {
	log *slog.Logger
}

// NewLoggingObserver returns an observer logging to log.
func NewLoggingObserver(log *slog.Logger) *LoggingObserver {
	return &LoggingObserver{log: log}
}

func (o *LoggingObserver) OnCreate(collection string, itemID string, duration time.Duration) {
	o.log.Debug("record created", "collection", collection, "id", itemID, "duration", duration)
}

func (o *LoggingObserver) OnRead(collection string, itemID string, duration time.Duration) {
	o.log.Debug("record read", "collection", collection, "id", itemID, "duration", duration)
}

func (o *LoggingObserver) OnList(collection string, count int, duration time.Duration) {
	o.log.Debug("records listed", "collection", collection, "count", count, "duration", duration)
}

func (o *LoggingObserver) OnUpdate(collection string, itemID string, duration time.Duration) {
	o.log.Debug("record updated", "collection", collection, "id", itemID, "duration", duration)
}

func (o *LoggingObserver) OnDelete(collection string, itemID string, duration time.Duration) {
	o.log.Debug("record deleted", "collection", collection, "id", itemID, "duration", duration)
}

func (o *LoggingObserver) OnError(collection string, operation string, err error) {
	o.log.Warn("operation failed", "collection", collection, "operation", operation, "error", err)
}

func (o *LoggingObserver) OnReset(collections []string, duration time.Duration) {
	o.log.Info("store reset from seed", "collections", collections, "duration", duration)
}

// MultiObserver fans every callback out to each observer in order.
type MultiObserver []Observer

func (m MultiObserver) OnCreate(collection string, itemID string, duration time.Duration) {
	for _, o := range m {
		o.OnCreate(collection, itemID, duration)
	}
}

func (m MultiObserver) OnRead(collection string, itemID string, duration time.Duration) {
	for _, o := range m {
		o.OnRead(collection, itemID, duration)
	}
}

func (m MultiObserver) OnList(collection string, count int, duration time.Duration) {
	for _, o := range m {
		o.OnList(collection, count, duration)
	}
}

func (m MultiObserver) OnUpdate(collection string, itemID string, duration time.Duration) {
	for _, o := range m {
		o.OnUpdate(collection, itemID, duration)
	}
}

func (m MultiObserver) OnDelete(collection string, itemID string, duration time.Duration) {
	for _, o := range m {
		o.OnDelete(collection, itemID, duration)
	}
}

func (m MultiObserver) OnError(collection string, operation string, err error) {
	for _, o := range m {
		o.OnError(collection, operation, err)
	}
}

func (m MultiObserver) OnReset(collections []string, duration time.Duration) {
	for _, o := range m {
		o.OnReset(collections, duration)
	}
}
