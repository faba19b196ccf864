package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind names what happened to a proposal.
type Kind string

const (
	KindStatusChanged   Kind = "proposal.status_changed"
	KindAttachmentAdded Kind = "proposal.attachment_added"
	KindViewed          Kind = "proposal.viewed"
)

// DeliveryStatus represents the state of a single event delivery.
type DeliveryStatus string

const (
	StatusQueued     DeliveryStatus = "queued"
	StatusDelivering DeliveryStatus = "delivering"
	StatusDelivered  DeliveryStatus = "delivered"
	StatusFailed     DeliveryStatus = "failed"
	StatusDropped    DeliveryStatus = "dropped"
)

// Event is one notification waiting to be forwarded.
type Event struct {
	mu sync.Mutex

	ID         string
	Kind       Kind
	ProposalID string
	Payload    map[string]any
	CreatedAt  time.Time

	status    DeliveryStatus
	attempts  int
	lastError string
	updatedAt time.Time
}

// NewEvent creates a queued event with a fresh ID.
func NewEvent(kind Kind, proposalID string, payload map[string]any) *Event {
	now := time.Now()
	if payload == nil {
		payload = map[string]any{}
	}
	return &Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		ProposalID: proposalID,
		Payload:    payload,
		CreatedAt:  now,
		status:     StatusQueued,
		updatedAt:  now,
	}
}

// SetStatus updates delivery status atomically.
func (e *Event) SetStatus(status DeliveryStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = status
	e.updatedAt = time.Now()
}

// RecordAttempt counts one delivery attempt and its error, if any.
func (e *Event) RecordAttempt(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attempts++
	if err != nil {
		e.lastError = err.Error()
	} else {
		e.lastError = ""
	}
	e.updatedAt = time.Now()
}

func (e *Event) UpdatedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updatedAt
}

// EventSnapshot is a read-only, JSON-safe copy of event state.
type EventSnapshot struct {
	ID         string         `json:"event_id"`
	Kind       Kind           `json:"kind"`
	ProposalID string         `json:"proposal_id"`
	Payload    map[string]any `json:"payload"`
	Status     DeliveryStatus `json:"status"`
	Attempts   int            `json:"attempts"`
	LastError  string         `json:"last_error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the event state.
func (e *Event) Snapshot() EventSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EventSnapshot{
		ID:         e.ID,
		Kind:       e.Kind,
		ProposalID: e.ProposalID,
		Payload:    e.Payload,
		Status:     e.status,
		Attempts:   e.attempts,
		LastError:  e.lastError,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.updatedAt,
	}
}

// EventStore is a thread-safe in-memory event registry with TTL eviction.
type EventStore struct {
	mu     sync.Mutex
	events map[string]*Event
	ttl    time.Duration
}

func NewEventStore(ttl time.Duration) *EventStore {
	return &EventStore{
		events: make(map[string]*Event),
		ttl:    ttl,
	}
}

func (s *EventStore) Put(e *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
}

func (s *EventStore) Get(id string) *Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id]
}

// Counts tallies events by delivery status.
func (s *EventStore) Counts() map[DeliveryStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[DeliveryStatus]int)
	for _, e := range s.events {
		out[e.Snapshot().Status]++
	}
	return out
}

// Cleanup removes events untouched for longer than the TTL.
func (s *EventStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, e := range s.events {
		if now.Sub(e.UpdatedAt()) > s.ttl {
			delete(s.events, id)
		}
	}
}
