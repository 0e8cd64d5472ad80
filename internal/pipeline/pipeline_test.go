package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/structree/internal/treestore"
)

func TestJobStorePutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "j1", DocID: "d1", Status: StatusQueued, UpdatedAt: time.Now()}
	store.Put(job)

	if got := store.Get("j1"); got != job {
		t.Error("stored job not returned")
	}
	if got := store.Get("missing"); got != nil {
		t.Error("missing job should be nil")
	}
}

func TestJobStoreCleanup(t *testing.T) {
	store := NewJobStore(time.Millisecond)
	job := &Job{ID: "j1", UpdatedAt: time.Now().Add(-time.Minute)}
	store.Put(job)
	store.Cleanup()
	if store.Get("j1") != nil {
		t.Error("expired job should be evicted")
	}

	fresh := &Job{ID: "j2", UpdatedAt: time.Now().Add(time.Hour)}
	store.Put(fresh)
	store.Cleanup()
	if store.Get("j2") == nil {
		t.Error("fresh job should survive cleanup")
	}
}

func TestJobSnapshot(t *testing.T) {
	job := &Job{ID: "j1", DocID: "d1", Status: StatusQueued}
	job.SetStatus(StatusParsing, "parsing")
	job.AddError("warning one")

	snap := job.Snapshot()
	if snap.Status != StatusParsing || snap.Phase != "parsing" {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Errors) != 1 || snap.Errors[0] != "warning one" {
		t.Errorf("errors = %v", snap.Errors)
	}

	// Mutating the snapshot must not touch the job.
	snap.Errors[0] = "changed"
	if job.Snapshot().Errors[0] != "warning one" {
		t.Error("snapshot shares the error slice with the job")
	}
}

func TestResultStore(t *testing.T) {
	store := NewResultStore()
	store.Put(&Result{DocID: "d1"})
	store.Put(&Result{DocID: "d2"})

	if store.Get("d1") == nil || store.Get("d2") == nil {
		t.Error("stored results should be retrievable")
	}
	if got := store.List(); len(got) != 2 {
		t.Errorf("list = %v", got)
	}
	if !store.Delete("d1") {
		t.Error("delete of existing doc should report true")
	}
	if store.Delete("d1") {
		t.Error("second delete should report false")
	}
	if store.Get("d1") != nil {
		t.Error("deleted result should be gone")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if len(id) != 26 {
			t.Fatalf("id length = %d: %s", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestNewIDSortable(t *testing.T) {
	a := NewID()
	time.Sleep(2 * time.Millisecond)
	b := NewID()
	if !(a < b) {
		t.Errorf("ids should sort by creation time: %s >= %s", a, b)
	}
}

func TestBackoffBounds(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d backoff %s below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d backoff %s above cap+jitter", attempt, d)
		}
	}
}

func TestIsRetryableStore(t *testing.T) {
	if !IsRetryableStore(&treestore.StatusError{StatusCode: 503}) {
		t.Error("5xx should be retryable")
	}
	if !IsRetryableStore(&treestore.StatusError{StatusCode: 429}) {
		t.Error("429 should be retryable")
	}
	if IsRetryableStore(&treestore.StatusError{StatusCode: 400}) {
		t.Error("4xx should not be retryable")
	}
}
