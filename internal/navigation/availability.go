// Package navigation decides which steps of a proposal can be shown and moves
// the reader between them. Everything here is pure: results depend only on
// the arguments, and no call panics or returns an error.
package navigation

import (
	"github.com/dgallion1/poolproposal/internal/catalog"
	"github.com/dgallion1/poolproposal/internal/proposal"
)

// NotFound is returned by the scans when no available step exists in the
// requested direction.
const NotFound = -1

// AvailableStep is one entry of the jump-to list.
type AvailableStep struct {
	Index int          `json:"index"`
	Step  catalog.Step `json:"step"`
	Label string       `json:"label"`
}

func available(s catalog.Step, p *proposal.Proposal) bool {
	return !proposal.IsSectionEmpty(s.Section, p)
}

// FindNextAvailableIndex scans forward from current+1 and returns the first
// index whose section has content. Availability is judged per section, not
// per subsection.
func FindNextAvailableIndex(current int, p *proposal.Proposal, c catalog.Catalog) int {
	if current >= len(c)-1 {
		return NotFound
	}
	start := 0
	if current >= 0 {
		start = current + 1
	}
	for i := start; i < len(c); i++ {
		if available(c[i], p) {
			return i
		}
	}
	return NotFound
}

// FindPrevAvailableIndex scans backward from current-1 down to 0.
func FindPrevAvailableIndex(current int, p *proposal.Proposal, c catalog.Catalog) int {
	if current <= 0 {
		return NotFound
	}
	start := len(c) - 1
	if current <= len(c) {
		start = current - 1
	}
	for i := start; i >= 0; i-- {
		if available(c[i], p) {
			return i
		}
	}
	return NotFound
}

// AvailableIndices is the strictly increasing subsequence of catalog indices
// whose section has content.
func AvailableIndices(p *proposal.Proposal, c catalog.Catalog) []int {
	out := make([]int, 0, len(c))
	for i, s := range c {
		if available(s, p) {
			out = append(out, i)
		}
	}
	return out
}

// ListAvailableSteps builds the jump-to list. It keeps catalog order but holds
// one entry per section: a section with several available subsections is
// offered once, pointing at its first subsection, while Advance and Retreat
// still visit each subsection in turn.
func ListAvailableSteps(p *proposal.Proposal, c catalog.Catalog) []AvailableStep {
	out := make([]AvailableStep, 0, len(c))
	seen := make(map[proposal.SectionID]bool, len(c))
	for i, s := range c {
		if seen[s.Section] || !available(s, p) {
			continue
		}
		seen[s.Section] = true
		out = append(out, AvailableStep{
			Index: i,
			Step:  s,
			Label: catalog.SectionTitle(s.Section),
		})
	}
	return out
}
