package pipeline

import (
	"sync"
	"testing"
	"time"
)

func TestDedup_DropsWithinWindow(t *testing.T) {
	current := time.Unix(1000, 0)
	d := NewDedup(10 * time.Second)
	d.now = func() time.Time { return current }

	if !d.Begin("file-1") {
		t.Fatal("first event must be accepted")
	}
	if d.Begin("file-1") {
		t.Error("duplicate inside the window must be dropped")
	}

	current = current.Add(9 * time.Second)
	if d.Begin("file-1") {
		t.Error("still inside the window")
	}

	current = current.Add(2 * time.Second)
	if !d.Begin("file-1") {
		t.Error("window expired, event must be accepted")
	}
}

func TestDedup_DistinctIDsIndependent(t *testing.T) {
	d := NewDedup(10 * time.Second)
	if !d.Begin("a") || !d.Begin("b") {
		t.Error("distinct ids must not block each other")
	}
}

func TestDedup_EndEvicts(t *testing.T) {
	d := NewDedup(10 * time.Second)
	if !d.Begin("file-1") {
		t.Fatal("first event must be accepted")
	}
	d.End("file-1")
	if !d.Begin("file-1") {
		t.Error("evicted id must be accepted again")
	}
}

func TestDedup_ConcurrentBeginAdmitsExactlyOne(t *testing.T) {
	d := NewDedup(10 * time.Second)

	const goroutines = 32
	var wg sync.WaitGroup
	admitted := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.Begin("same-id") {
				admitted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for range admitted {
		count++
	}
	if count != 1 {
		t.Errorf("admitted %d goroutines, want exactly 1", count)
	}
}
