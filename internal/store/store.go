// Package store persists proposal snapshots and their review status.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgallion1/poolproposal/internal/proposal"
)

var (
	ErrNotFound          = errors.New("proposal not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrInvalidProposal   = errors.New("invalid proposal")
)

// Store is the persistence boundary for proposals. Returned proposals are
// independent copies; callers may not mutate stored state through them.
type Store interface {
	Get(ctx context.Context, id string) (*proposal.Proposal, error)
	Put(ctx context.Context, p *proposal.Proposal) error
	UpdateStatus(ctx context.Context, id string, status proposal.Status, note string) (*proposal.Proposal, error)
	List(ctx context.Context) ([]*proposal.Proposal, error)
}

// TransitionError carries the rejected move; it unwraps to ErrInvalidTransition.
type TransitionError struct {
	From proposal.Status
	To   proposal.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move proposal from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func checkTransition(from, to proposal.Status) error {
	if !to.Valid() || !from.CanBecome(to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

func validate(p *proposal.Proposal) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProposal)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidProposal, p.Status)
	}
	return nil
}

func clone(p *proposal.Proposal) (*proposal.Proposal, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("copy proposal %s: %w", p.ID, err)
	}
	var out proposal.Proposal
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("copy proposal %s: %w", p.ID, err)
	}
	return &out, nil
}
