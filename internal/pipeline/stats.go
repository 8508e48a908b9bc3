package pipeline

import "sync/atomic"

// Stats tracks aggregate counters across all jobs processed by a runner.
// Safe for concurrent update from in-flight jobs.
type Stats struct {
	received   atomic.Int64
	deduped    atomic.Int64
	noTemplate atomic.Int64
	uploaded   atomic.Int64
	failed     atomic.Int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Received   int64
	Deduped    int64
	NoTemplate int64
	Uploaded   int64
	Failed     int64
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Received:   s.received.Load(),
		Deduped:    s.deduped.Load(),
		NoTemplate: s.noTemplate.Load(),
		Uploaded:   s.uploaded.Load(),
		Failed:     s.failed.Load(),
	}
}
