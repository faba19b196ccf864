package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/poolproposal/internal/proposal"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_PutGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := &proposal.Proposal{
		ID:      "p-1",
		Status:  proposal.StatusSent,
		Fencing: &proposal.Fencing{FenceLinearCost: 500},
	}
	if err := s.Put(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Fencing.FenceLinearCost = 1

	got, err := s.Get(ctx, "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Fencing.FenceLinearCost != 500 {
		t.Errorf("expected stored value to be isolated from caller, got %v", got.Fencing.FenceLinearCost)
	}
	got.Fencing.FenceLinearCost = 2
	again, _ := s.Get(ctx, "p-1")
	if again.Fencing.FenceLinearCost != 500 {
		t.Errorf("expected returned value to be a copy, got %v", again.Fencing.FenceLinearCost)
	}
	if got.RetainingWalls != nil {
		t.Error("expected absent subsystem to stay nil")
	}
}

func TestMemoryStore_PutRejectsInvalid(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Put(context.Background(), &proposal.Proposal{Status: proposal.StatusSent}); !errors.Is(err, ErrInvalidProposal) {
		t.Errorf("expected ErrInvalidProposal for missing id, got %v", err)
	}
	if err := s.Put(context.Background(), &proposal.Proposal{ID: "x", Status: "archived"}); !errors.Is(err, ErrInvalidProposal) {
		t.Errorf("expected ErrInvalidProposal for unknown status, got %v", err)
	}
}

func TestMemoryStore_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = fixedClock(created)
	if err := s.Put(ctx, &proposal.Proposal{ID: "p-1", Status: proposal.StatusSent}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	later := created.Add(time.Hour)
	s.now = fixedClock(later)
	p, err := s.UpdateStatus(ctx, "p-1", proposal.StatusChangesRequested, "Move the pool 1m left")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != proposal.StatusChangesRequested || p.StatusNote != "Move the pool 1m left" {
		t.Errorf("unexpected status %s / %q", p.Status, p.StatusNote)
	}
	if !p.UpdatedAt.Equal(later) || !p.CreatedAt.Equal(created) {
		t.Errorf("unexpected timestamps created=%v updated=%v", p.CreatedAt, p.UpdatedAt)
	}

	if _, err := s.UpdateStatus(ctx, "p-1", proposal.StatusApproved, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = s.UpdateStatus(ctx, "p-1", proposal.StatusChangesRequested, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	var te *TransitionError
	if !errors.As(err, &te) || te.From != proposal.StatusApproved {
		t.Errorf("expected TransitionError from approved, got %v", err)
	}

	if _, err := s.UpdateStatus(ctx, "missing", proposal.StatusApproved, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ListOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		s.now = fixedClock(base.Add(time.Duration(i) * time.Minute))
		if err := s.Put(ctx, &proposal.Proposal{ID: id, Status: proposal.StatusSent}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 || list[0].ID != "c" || list[2].ID != "a" {
		t.Errorf("expected most recent first, got %v", ids(list))
	}
}

func TestMemoryStore_LoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	seed := `[
		{"id": "p-1", "status": "sent", "fencing": {"fenceLinearCost": "500"}},
		{"id": "p-2", "customerInfo": {"name": "A. Resident"}}
	]`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := NewMemoryStore()
	n, err := s.LoadSeedFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 proposals, got %d", n)
	}
	p, err := s.Get(context.Background(), "p-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != proposal.StatusDraft {
		t.Errorf("expected default draft status, got %s", p.Status)
	}
}

func TestMemoryStore_LoadSeedFileMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.LoadSeedFile(context.Background(), filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing seed file")
	}
}

func ids(list []*proposal.Proposal) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}
