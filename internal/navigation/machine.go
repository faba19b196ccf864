package navigation

import (
	"encoding/json"
	"fmt"

	"github.com/dgallion1/poolproposal/internal/catalog"
	"github.com/dgallion1/poolproposal/internal/proposal"
)

// State is the reader's position: an index into the catalog.
type State struct {
	Index int `json:"index"`
}

// Direction tells the presentation layer which way the last transition went.
// It is advisory; the machine never reads it back.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionForward
	DirectionBackward
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "none"
	}
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "forward":
		*d = DirectionForward
	case "backward":
		*d = DirectionBackward
	case "none", "":
		*d = DirectionNone
	default:
		return fmt.Errorf("unknown direction %q", s)
	}
	return nil
}

// Transition is the result of every state change: the new state and the
// direction it moved in. A rejected request yields the old state and
// DirectionNone.
type Transition struct {
	State     State     `json:"state"`
	Direction Direction `json:"direction"`
}

func stay(s State) Transition {
	return Transition{State: s, Direction: DirectionNone}
}

// Start is the initial state of a viewing session.
func Start() State {
	return State{Index: 0}
}

// Normalize pulls an externally supplied state back inside the catalog.
// States produced by this package never need it.
func Normalize(s State, c catalog.Catalog) State {
	if len(c) == 0 {
		return State{}
	}
	return State{Index: clamp(s.Index, len(c))}
}

func CanAdvance(s State, p *proposal.Proposal, c catalog.Catalog) bool {
	return FindNextAvailableIndex(s.Index, p, c) != NotFound
}

func CanRetreat(s State, p *proposal.Proposal, c catalog.Catalog) bool {
	return FindPrevAvailableIndex(s.Index, p, c) != NotFound
}

// Advance moves to the next available step, or stays put when there is none.
func Advance(s State, p *proposal.Proposal, c catalog.Catalog) Transition {
	next := FindNextAvailableIndex(s.Index, p, c)
	if next == NotFound {
		return stay(s)
	}
	return Transition{State: State{Index: next}, Direction: DirectionForward}
}

// Retreat moves to the previous available step, or stays put.
func Retreat(s State, p *proposal.Proposal, c catalog.Catalog) Transition {
	prev := FindPrevAvailableIndex(s.Index, p, c)
	if prev == NotFound {
		return stay(s)
	}
	return Transition{State: State{Index: prev}, Direction: DirectionBackward}
}

// JumpTo moves straight to target if it lies inside the catalog. It does not
// check availability; callers offer targets from ListAvailableSteps.
func JumpTo(s State, target int, c catalog.Catalog) Transition {
	if target < 0 || target >= len(c) {
		return stay(s)
	}
	switch {
	case target > s.Index:
		return Transition{State: State{Index: target}, Direction: DirectionForward}
	case target < s.Index:
		return Transition{State: State{Index: target}, Direction: DirectionBackward}
	default:
		return stay(s)
	}
}

// CurrentStep resolves the state to its step. An index outside the catalog
// resolves to the nearest end; an empty catalog yields the zero Step.
func CurrentStep(s State, c catalog.Catalog) catalog.Step {
	if len(c) == 0 {
		return catalog.Step{Sub: catalog.NoSub}
	}
	return c[clamp(s.Index, len(c))]
}

// ProgressPercent is (index+1)/len*100, kept within [0, 100].
func ProgressPercent(s State, c catalog.Catalog) float64 {
	if len(c) == 0 {
		return 0
	}
	return float64(clamp(s.Index, len(c))+1) / float64(len(c)) * 100
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// View is everything the presentation layer needs to render one position.
type View struct {
	State      State        `json:"state"`
	Step       catalog.Step `json:"step"`
	Label      string       `json:"label"`
	Section    string       `json:"sectionTitle"`
	CanAdvance bool         `json:"canAdvance"`
	CanRetreat bool         `json:"canRetreat"`
	Progress   float64      `json:"progressPercent"`
	Total      int          `json:"totalSteps"`
}

// Describe builds the View for a state.
func Describe(s State, p *proposal.Proposal, c catalog.Catalog) View {
	step := CurrentStep(s, c)
	return View{
		State:      s,
		Step:       step,
		Label:      catalog.Label(step),
		Section:    catalog.SectionTitle(step.Section),
		CanAdvance: CanAdvance(s, p, c),
		CanRetreat: CanRetreat(s, p, c),
		Progress:   ProgressPercent(s, c),
		Total:      len(c),
	}
}
