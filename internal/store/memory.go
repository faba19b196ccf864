package store

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/poolproposal/internal/proposal"
)

// MemoryStore is a thread-safe in-memory Store, used for development and
// tests and when no database is configured.
type MemoryStore struct {
	mu        sync.Mutex
	proposals map[string]*proposal.Proposal
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		proposals: make(map[string]*proposal.Proposal),
		now:       time.Now,
	}
}

// LoadSeedFile stores every proposal in a JSON array file.
func (s *MemoryStore) LoadSeedFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	list, err := proposal.DecodeList(f)
	if err != nil {
		return 0, err
	}
	for _, p := range list {
		if err := s.Put(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(list), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*proposal.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p)
}

func (s *MemoryStore) Put(_ context.Context, p *proposal.Proposal) error {
	if err := validate(p); err != nil {
		return err
	}
	cp, err := clone(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if prev, ok := s.proposals[cp.ID]; ok {
		cp.CreatedAt = prev.CreatedAt
	} else if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	s.proposals[cp.ID] = cp
	return nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status proposal.Status, note string) (*proposal.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := checkTransition(p.Status, status); err != nil {
		return nil, err
	}
	p.Status = status
	p.StatusNote = note
	p.UpdatedAt = s.now()
	return clone(p)
}

// List returns every proposal, most recently updated first.
func (s *MemoryStore) List(_ context.Context) ([]*proposal.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*proposal.Proposal, 0, len(s.proposals))
	for _, p := range s.proposals {
		cp, err := clone(p)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
