// Package notify forwards proposal events (status changes, uploaded change
// request files) to an external webhook from a bounded background queue.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/poolproposal/internal/config"
)

// ErrQueueFull is returned by Submit when the queue has no room.
var ErrQueueFull = errors.New("notification queue is full")

// Dispatcher owns the event queue and its delivery workers.
type Dispatcher struct {
	events  *EventStore
	queue   chan *Event
	client  *Client
	stats   *DeliveryStats
	log     *slog.Logger
	cfg     config.Config
	backoff func(attempt int) time.Duration
	tries   int

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDispatcher builds a dispatcher. A nil client disables delivery: events
// are recorded as dropped.
func NewDispatcher(cfg config.Config, client *Client, log *slog.Logger) *Dispatcher {
	tries := cfg.NotifyMaxAttempts
	if tries <= 0 {
		tries = 1
	}
	return &Dispatcher{
		events:  NewEventStore(cfg.NotifyEventTTL),
		queue:   make(chan *Event, cfg.NotifyQueueSize),
		client:  client,
		stats:   NewDeliveryStats(cfg.NotifyEventTTL),
		log:     log,
		cfg:     cfg,
		backoff: Backoff{Base: cfg.NotifyBackoffBase, Max: cfg.NotifyBackoffMax}.Delay,
		tries:   tries,
	}
}

// Start launches worker goroutines.
func (d *Dispatcher) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for range d.cfg.NotifyWorkers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case ev, ok := <-d.queue:
					if !ok {
						return
					}
					d.deliver(workerCtx, ev)
				}
			}
		}()
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				d.events.Cleanup()
			}
		}
	}()
}

// Stop cancels the workers. Events still in the queue are abandoned.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}

// Submit records the event and queues it for delivery.
func (d *Dispatcher) Submit(ev *Event) error {
	d.events.Put(ev)
	if d.client == nil {
		ev.SetStatus(StatusDropped)
		d.log.Info("notification dropped, no webhook configured",
			"event_id", ev.ID, "kind", ev.Kind, "proposal_id", ev.ProposalID)
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		ev.SetStatus(StatusDropped)
		return fmt.Errorf("dispatcher stopped")
	}
	select {
	case d.queue <- ev:
		return nil
	default:
		ev.SetStatus(StatusFailed)
		return fmt.Errorf("%w (%d)", ErrQueueFull, d.cfg.NotifyQueueSize)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev *Event) {
	log := d.log.With("event_id", ev.ID, "kind", ev.Kind, "proposal_id", ev.ProposalID)
	ev.SetStatus(StatusDelivering)

	var lastErr error
	for attempt := range d.tries {
		start := time.Now()
		lastErr = d.client.Deliver(ctx, ev.Snapshot())
		d.stats.Record(time.Since(start), lastErr == nil)
		ev.RecordAttempt(lastErr)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable delivery error", "attempt", attempt, "error", lastErr)
		if attempt == d.tries-1 {
			break
		}
		select {
		case <-time.After(d.backoff(attempt)):
		case <-ctx.Done():
			ev.SetStatus(StatusFailed)
			return
		}
	}

	if lastErr != nil {
		log.Error("notification delivery failed", "error", lastErr)
		ev.SetStatus(StatusFailed)
		return
	}
	log.Info("notification delivered")
	ev.SetStatus(StatusDelivered)
}

// Event returns an event by ID.
func (d *Dispatcher) Event(id string) *Event {
	return d.events.Get(id)
}

// QueueDepth returns current queue depth.
func (d *Dispatcher) QueueDepth() int {
	return len(d.queue)
}

// Enabled reports whether events are forwarded anywhere.
func (d *Dispatcher) Enabled() bool {
	return d.client != nil
}

// Stats reports delivery latency and outcome counts.
type Stats struct {
	Enabled    bool                   `json:"enabled"`
	QueueDepth int                    `json:"queue_depth"`
	Events     map[DeliveryStatus]int `json:"events"`
	Delivery   StatsSnapshot          `json:"delivery"`
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Enabled:    d.Enabled(),
		QueueDepth: d.QueueDepth(),
		Events:     d.events.Counts(),
		Delivery:   d.stats.Snapshot(),
	}
}
