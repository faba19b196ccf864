// Package catalog defines the fixed reading order of the proposal document.
// The order is the single source of truth for next/previous navigation and
// for progress; changing it changes what the document means.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/dgallion1/poolproposal/internal/proposal"
)

// NoSub marks a step whose section has no subsections.
const NoSub = -1

// Step is one navigable position: a section plus an optional subsection.
type Step struct {
	Section proposal.SectionID
	Sub     int
}

// At builds a step for a section without subsections.
func At(section proposal.SectionID) Step {
	return Step{Section: section, Sub: NoSub}
}

// AtSub builds a step for one subsection of a section.
func AtSub(section proposal.SectionID, sub int) Step {
	return Step{Section: section, Sub: sub}
}

func (s Step) HasSub() bool {
	return s.Sub != NoSub
}

func (s Step) String() string {
	if s.HasSub() {
		return fmt.Sprintf("%s/%d", s.Section, s.Sub)
	}
	return string(s.Section)
}

type stepJSON struct {
	Section proposal.SectionID `json:"section"`
	Sub     *int               `json:"sub,omitempty"`
}

func (s Step) MarshalJSON() ([]byte, error) {
	out := stepJSON{Section: s.Section}
	if s.HasSub() {
		sub := s.Sub
		out.Sub = &sub
	}
	return json.Marshal(out)
}

func (s *Step) UnmarshalJSON(data []byte) error {
	var in stepJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.Section = in.Section
	s.Sub = NoSub
	if in.Sub != nil && *in.Sub >= 0 {
		s.Sub = *in.Sub
	}
	return nil
}

// Catalog is an ordered sequence of steps with no duplicate (section, sub)
// pairs.
type Catalog []Step

func (c Catalog) Len() int {
	return len(c)
}

// At returns the step at index i.
func (c Catalog) At(i int) (Step, bool) {
	if i < 0 || i >= len(c) {
		return Step{}, false
	}
	return c[i], true
}

var defaultSteps = []Step{
	At(proposal.SectionCustomerInfo),
	AtSub(proposal.SectionPoolSelection, 0),
	AtSub(proposal.SectionPoolSelection, 1),
	At(proposal.SectionSiteRequirements),
	At(proposal.SectionConcretePaving),
	At(proposal.SectionFencing),
	At(proposal.SectionRetainingWalls),
	At(proposal.SectionWaterFeature),
	At(proposal.SectionElectrical),
	At(proposal.SectionAddOns),
	At(proposal.SectionSummary),
}

// Default returns the canonical proposal reading order.
func Default() Catalog {
	out := make(Catalog, len(defaultSteps))
	copy(out, defaultSteps)
	return out
}
