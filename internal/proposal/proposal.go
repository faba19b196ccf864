// Package proposal holds the read-only snapshot of one customer's pool
// construction quote. Every subsystem is an optional pointer: nil means the
// proposal has no content for that section.
package proposal

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Status is where a proposal sits in the customer review workflow.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusSent             Status = "sent"
	StatusViewed           Status = "viewed"
	StatusApproved         Status = "approved"
	StatusChangesRequested Status = "changes_requested"
)

// Proposal is the full snapshot handed to the viewer for one quote.
type Proposal struct {
	ID         string    `json:"id"`
	Reference  string    `json:"reference,omitempty"`
	Status     Status    `json:"status"`
	StatusNote string    `json:"statusNote,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	CustomerInfo     *CustomerInfo     `json:"customerInfo"`
	PoolSelection    *PoolSelection    `json:"poolSelection"`
	SiteRequirements *SiteRequirements `json:"siteRequirements"`
	ConcretePaving   *ConcretePaving   `json:"concretePaving"`
	Fencing          *Fencing          `json:"fencing"`
	RetainingWalls   *RetainingWalls   `json:"retainingWalls"`
	WaterFeature     *WaterFeature     `json:"waterFeature"`
	Electrical       *Electrical       `json:"electrical"`
	AddOns           *AddOns           `json:"addOns"`
}

// LineItem is a single named cost.
type LineItem struct {
	Name string `json:"name"`
	Cost Amount `json:"cost"`
}

// CostSummary is a precomputed total some subsystems carry from the quoting
// tool. A positive TotalCost overrides the line-item sum.
type CostSummary struct {
	TotalCost Amount `json:"totalCost"`
}

func (c *CostSummary) total() float64 {
	if c == nil {
		return 0
	}
	return c.TotalCost.NonNegative()
}

type CustomerInfo struct {
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	SiteAddress string   `json:"siteAddress,omitempty"`
	Residents   []string `json:"residents,omitempty"`
	Consultant  string   `json:"consultant,omitempty"`
}

type PoolModel struct {
	Name         string  `json:"name"`
	Range        string  `json:"range,omitempty"`
	Length       Measure `json:"length,omitempty"`
	Width        Measure `json:"width,omitempty"`
	ShallowDepth Measure `json:"shallowDepth,omitempty"`
	DeepDepth    Measure `json:"deepDepth,omitempty"`
}

type PoolSelection struct {
	Pool            PoolModel    `json:"pool"`
	Colour          string       `json:"colour,omitempty"`
	FixedCosts      []LineItem   `json:"fixedCosts"`
	IndividualCosts []LineItem   `json:"individualCosts"`
	CostSummary     *CostSummary `json:"costSummary,omitempty"`
}

type SiteRequirements struct {
	CraneCost          Amount       `json:"craneCost"`
	ExcavationCost     Amount       `json:"excavationCost"`
	TrafficControlCost Amount       `json:"trafficControlCost"`
	BobcatCost         Amount       `json:"bobcatCost"`
	CustomRequirements []LineItem   `json:"customRequirements"`
	CostSummary        *CostSummary `json:"costSummary,omitempty"`
}

// PavingItem is an area of paving or concrete priced by the metre.
type PavingItem struct {
	Category string  `json:"category"`
	Metres   Measure `json:"metres"`
	Rate     Amount  `json:"rate"`
	Cost     Amount  `json:"cost"`
}

type ConcretePaving struct {
	ConcretePumpRequired   bool         `json:"concretePumpRequired"`
	ConcretePumpCost       Amount       `json:"concretePumpCost"`
	ConcreteCuts           []LineItem   `json:"concreteCuts"`
	ExtraPaving            []PavingItem `json:"extraPaving"`
	ExistingConcretePaving *PavingItem  `json:"existingConcretePaving,omitempty"`
	UnderFenceStrips       []LineItem   `json:"underFenceStrips"`
	CostSummary            *CostSummary `json:"costSummary,omitempty"`
}

type GateSelection struct {
	GateCount        Quantity `json:"gateCount"`
	GateTotalCost    Amount   `json:"gateTotalCost"`
	FreeGateDiscount Amount   `json:"freeGateDiscount"`
}

type Fencing struct {
	FenceType        string         `json:"fenceType,omitempty"`
	LinearMeters     Measure        `json:"linearMeters"`
	FenceLinearCost  Amount         `json:"fenceLinearCost"`
	GateSelection    *GateSelection `json:"gateSelection,omitempty"`
	Panels           []LineItem     `json:"panels"`
	EarthingRequired bool           `json:"earthingRequired"`
	EarthingCost     Amount         `json:"earthingCost"`
	CostSummary      *CostSummary   `json:"costSummary,omitempty"`
}

type WallCalculation struct {
	TotalCost Amount `json:"totalCost"`
}

type RetainingWall struct {
	Type            string          `json:"type"`
	Height          Measure         `json:"height"`
	Length          Measure         `json:"length"`
	WallCalculation WallCalculation `json:"wallCalculation"`
}

type RetainingWalls struct {
	Walls []RetainingWall `json:"walls"`
}

type WaterFeature struct {
	Size         string       `json:"size,omitempty"`
	FrontFinish  string       `json:"frontFinish,omitempty"`
	TopFinish    string       `json:"topFinish,omitempty"`
	SidesFinish  string       `json:"sidesFinish,omitempty"`
	BackCladding bool         `json:"backCladding"`
	LEDBlade     bool         `json:"ledBlade"`
	Items        []LineItem   `json:"items"`
	CostSummary  *CostSummary `json:"costSummary,omitempty"`
}

type Electrical struct {
	Items       []LineItem   `json:"items"`
	CostSummary *CostSummary `json:"costSummary,omitempty"`
}

type AddOnItem struct {
	Name      string   `json:"name"`
	Category  string   `json:"category,omitempty"`
	Quantity  Quantity `json:"quantity"`
	UnitPrice Amount   `json:"unitPrice"`
}

type AddOns struct {
	Items []AddOnItem `json:"items"`
}

// Decode reads a proposal snapshot from JSON.
func Decode(r io.Reader) (*Proposal, error) {
	var p Proposal
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	return &p, nil
}

// DecodeList reads a JSON array of proposals, used for seed files.
func DecodeList(r io.Reader) ([]*Proposal, error) {
	var list []*Proposal
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode proposals: %w", err)
	}
	for _, p := range list {
		if p.Status == "" {
			p.Status = StatusDraft
		}
	}
	return list, nil
}
