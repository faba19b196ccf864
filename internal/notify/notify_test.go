package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgallion1/poolproposal/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		NotifyWorkers:     1,
		NotifyQueueSize:   4,
		NotifyEventTTL:    time.Hour,
		NotifyMaxAttempts: 3,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForStatus(t *testing.T, ev *Event, want DeliveryStatus) EventSnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := ev.Snapshot()
		if snap.Status == want {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("event %s never reached %s, last status %s", ev.ID, want, ev.Snapshot().Status)
	return EventSnapshot{}
}

func TestDispatcher_DeliversEvent(t *testing.T) {
	type request struct {
		auth, idem string
		body       EventSnapshot
	}
	received := make(chan request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		req.auth = r.Header.Get("Authorization")
		req.idem = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&req.body)
		received <- req
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(), NewClient(srv.URL, "hook-secret"), quietLogger())
	d.Start(context.Background())
	defer d.Stop()

	ev := NewEvent(KindStatusChanged, "p-1", map[string]any{"status": "approved"})
	if err := d.Submit(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := waitForStatus(t, ev, StatusDelivered)
	got := <-received

	if snap.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", snap.Attempts)
	}
	if got.auth != "Bearer hook-secret" {
		t.Errorf("expected bearer token, got %q", got.auth)
	}
	if got.idem != ev.ID {
		t.Errorf("expected idempotency key %q, got %q", ev.ID, got.idem)
	}
	if got.body.ProposalID != "p-1" || got.body.Kind != KindStatusChanged || got.body.Payload["status"] != "approved" {
		t.Errorf("unexpected payload %+v", got.body)
	}
	if d.Event(ev.ID) != ev {
		t.Error("expected event to be retrievable by id")
	}
}

func TestDispatcher_RetriesOn503(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(), NewClient(srv.URL, ""), quietLogger())
	d.backoff = func(int) time.Duration { return time.Millisecond }
	d.Start(context.Background())
	defer d.Stop()

	ev := NewEvent(KindAttachmentAdded, "p-2", nil)
	if err := d.Submit(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := waitForStatus(t, ev, StatusDelivered)
	if snap.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", snap.Attempts)
	}

	stats := d.Stats()
	if stats.Delivery.Attempts != 3 || stats.Delivery.Failed != 2 || stats.Delivery.Succeeded != 1 {
		t.Errorf("unexpected delivery stats %+v", stats.Delivery)
	}
	if stats.Events[StatusDelivered] != 1 {
		t.Errorf("expected 1 delivered event, got %v", stats.Events)
	}
}

func TestDispatcher_PermanentErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(), NewClient(srv.URL, ""), quietLogger())
	d.backoff = func(int) time.Duration { return time.Millisecond }
	d.Start(context.Background())
	defer d.Stop()

	ev := NewEvent(KindStatusChanged, "p-3", nil)
	d.Submit(ev)
	snap := waitForStatus(t, ev, StatusFailed)
	if calls.Load() != 1 || snap.Attempts != 1 {
		t.Errorf("expected a single attempt, got calls=%d attempts=%d", calls.Load(), snap.Attempts)
	}
	if snap.LastError == "" {
		t.Error("expected last error to be recorded")
	}
}

func TestDispatcher_GivesUpAfterMaxAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(), NewClient(srv.URL, ""), quietLogger())
	d.backoff = func(int) time.Duration { return time.Millisecond }
	d.Start(context.Background())
	defer d.Stop()

	ev := NewEvent(KindStatusChanged, "p-4", nil)
	d.Submit(ev)
	snap := waitForStatus(t, ev, StatusFailed)
	if snap.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", snap.Attempts)
	}
}

func TestDispatcher_DisabledDropsEvents(t *testing.T) {
	d := NewDispatcher(testConfig(), nil, quietLogger())
	ev := NewEvent(KindViewed, "p-5", nil)
	if err := d.Submit(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Snapshot().Status != StatusDropped {
		t.Errorf("expected dropped, got %s", ev.Snapshot().Status)
	}
	if d.Stats().Enabled {
		t.Error("expected dispatcher to report disabled")
	}
}

func TestDispatcher_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.NotifyQueueSize = 1
	// Not started, so nothing drains the queue.
	d := NewDispatcher(cfg, NewClient("http://127.0.0.1:0", ""), quietLogger())

	if err := d.Submit(NewEvent(KindViewed, "p", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev := NewEvent(KindViewed, "p", nil)
	if err := d.Submit(ev); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if ev.Snapshot().Status != StatusFailed {
		t.Errorf("expected overflow event to be failed, got %s", ev.Snapshot().Status)
	}
	if d.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", d.QueueDepth())
	}
}

func TestDispatcher_SubmitAfterStop(t *testing.T) {
	d := NewDispatcher(testConfig(), NewClient("http://127.0.0.1:0", ""), quietLogger())
	d.Start(context.Background())
	d.Stop()
	d.Stop()
	if err := d.Submit(NewEvent(KindViewed, "p", nil)); err == nil {
		t.Error("expected error after stop")
	}
}

func TestIsRetryable(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &RetryableError{StatusCode: 503})
	if !IsRetryable(wrapped) {
		t.Error("expected wrapped RetryableError to be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("expected plain error to be permanent")
	}
}

func TestBackoff_Bounds(t *testing.T) {
	b := Backoff{Base: 200 * time.Millisecond, Max: 2 * time.Second}
	for attempt := range 8 {
		base := b.Base << uint(attempt)
		if base > b.Max {
			base = b.Max
		}
		d := b.Delay(attempt)
		if d < base || d >= base+base/2 {
			t.Errorf("attempt %d: backoff %v outside [%v, %v)", attempt, d, base, base+base/2)
		}
	}
	if d := b.Delay(1 << 30); d < b.Max || d >= b.Max+b.Max/2 {
		t.Errorf("large attempt should stay capped, got %v", d)
	}
	if d := (Backoff{}).Delay(3); d != 0 {
		t.Errorf("zero base should not wait, got %v", d)
	}
}

func TestDispatcher_UsesConfiguredAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.NotifyMaxAttempts = 5
	cfg.NotifyBackoffBase = time.Millisecond
	cfg.NotifyBackoffMax = 2 * time.Millisecond
	d := NewDispatcher(cfg, NewClient(srv.URL, ""), quietLogger())
	d.Start(context.Background())
	defer d.Stop()

	ev := NewEvent(KindStatusChanged, "p-6", nil)
	d.Submit(ev)
	snap := waitForStatus(t, ev, StatusFailed)
	if snap.Attempts != 5 || calls.Load() != 5 {
		t.Errorf("expected 5 attempts, got attempts=%d calls=%d", snap.Attempts, calls.Load())
	}
}

func TestEventStore_TTLCleanup(t *testing.T) {
	store := NewEventStore(50 * time.Millisecond)

	old := NewEvent(KindViewed, "p", nil)
	store.Put(old)
	time.Sleep(100 * time.Millisecond)

	fresh := NewEvent(KindViewed, "p", nil)
	store.Put(fresh)
	store.Cleanup()

	if store.Get(old.ID) != nil {
		t.Error("expected expired event to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh event to survive cleanup")
	}
}

func TestDeliveryStats_Snapshot(t *testing.T) {
	stats := NewDeliveryStats(time.Hour)
	for i, ms := range []int{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, i != 0)
	}

	snap := stats.Snapshot()
	if snap.Attempts != 5 || snap.Failed != 1 || snap.Succeeded != 4 {
		t.Fatalf("unexpected counts %+v", snap)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
}

func TestDeliveryStats_EvictsOldAttempts(t *testing.T) {
	stats := NewDeliveryStats(10 * time.Millisecond)
	stats.Record(100*time.Millisecond, true)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Attempts != 0 {
		t.Fatalf("expected no attempts after eviction, got %d", snap.Attempts)
	}
	stats.Record(-time.Second, true)
	snap := stats.Snapshot()
	if snap.Attempts != 1 || snap.MaxMs != 0 {
		t.Fatalf("expected one clamped attempt, got %+v", snap)
	}
}
