package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ssoonan/pod-activation-experiment/internal/clock"
	"github.com/ssoonan/pod-activation-experiment/internal/record"
)

func writeRecord(t *testing.T, dir, identity string) {
	t.Helper()
	rec := &record.Record{
		IdentityKey: record.KeyPod,
		Identity:    identity,
		Start:       clock.Timespec{Sec: 1, Nsec: 2},
	}
	if _, err := rec.WriteFile(dir); err != nil {
		t.Fatal(err)
	}
}

func TestRunReturnsWhenExpectedCountReached(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "pod-a")

	w := New(dir, 10*time.Millisecond)

	var events []Event
	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background(), 2, func(e Event) {
			events = append(events, e)
		})
	}()

	// Second probe reports while the watcher is running.
	time.Sleep(30 * time.Millisecond)
	writeRecord(t, dir, "pod-b")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop after expected count")
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if w.Seen() != 2 {
		t.Errorf("Seen() = %d, want 2", w.Seen())
	}
}

func TestRunDoesNotRepeatRecords(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "pod-a")

	w := New(dir, 5*time.Millisecond)
	count := 0

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := w.Run(ctx, 0, func(Event) { count++ })
	if err != context.DeadlineExceeded {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if count != 1 {
		t.Errorf("record reported %d times, want once", count)
	}
}

func TestRunIgnoresUnparsableFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "partial.txt"), []byte("pod=x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	writeRecord(t, dir, "pod-a")

	w := New(dir, 5*time.Millisecond)
	var identities []string
	if err := w.Run(context.Background(), 1, func(e Event) {
		identities = append(identities, e.Record.Identity)
	}); err != nil {
		t.Fatal(err)
	}

	if len(identities) != 1 || identities[0] != "pod-a" {
		t.Errorf("events = %v, want only pod-a", identities)
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := New(t.TempDir(), 5*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, 0, nil) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
