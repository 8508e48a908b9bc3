package pipeline

import (
	"sync"
	"time"
)

// DebounceWindow is how long a file id suppresses re-entrant events for
// the same file.
const DebounceWindow = 10 * time.Second

// Dedup is the process-wide table of in-flight file ids. Duplicate events
// inside the window are dropped, not queued. Safe for concurrent use; the
// clock is injectable so tests control expiry.
type Dedup struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	entries map[string]time.Time
}

// NewDedup returns a table with the given debounce window.
func NewDedup(window time.Duration) *Dedup {
	return &Dedup{
		window:  window,
		now:     time.Now,
		entries: make(map[string]time.Time),
	}
}

// Begin records id as in-flight. Returns false when id was seen within the
// window, in which case the caller must drop the event. The check and the
// insert are one critical section.
func (d *Dedup) Begin(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seen, ok := d.entries[id]; ok && d.now().Sub(seen) < d.window {
		return false
	}
	d.entries[id] = d.now()
	return true
}

// End evicts id. Called from job cleanup; a later event for the same file
// is processed fresh.
func (d *Dedup) End(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, id)
}
