// Package pricing derives per-subsystem subtotals and a grand total from a
// proposal snapshot. Totals are recomputed on every read and never stored.
package pricing

import (
	"encoding/json"

	"github.com/dgallion1/poolproposal/internal/proposal"
)

// Key names one subsystem subtotal.
type Key string

const (
	KeyBasePool         Key = "basePool"
	KeySiteRequirements Key = "siteRequirements"
	KeyElectrical       Key = "electrical"
	KeyConcrete         Key = "concrete"
	KeyFencing          Key = "fencing"
	KeyWaterFeature     Key = "waterFeature"
	KeyRetainingWalls   Key = "retainingWalls"
	KeyExtras           Key = "extras"
)

type subsystem struct {
	key   Key
	label string
	price func(*proposal.Proposal) float64
}

// subsystems fixes the summation and display order.
var subsystems = []subsystem{
	{KeyBasePool, "Base Pool", func(p *proposal.Proposal) float64 { return BasePool(p.PoolSelection) }},
	{KeySiteRequirements, "Site Requirements", func(p *proposal.Proposal) float64 { return SiteRequirements(p.SiteRequirements) }},
	{KeyElectrical, "Electrical", func(p *proposal.Proposal) float64 { return Electrical(p.Electrical) }},
	{KeyConcrete, "Concrete & Paving", func(p *proposal.Proposal) float64 { return Concrete(p.ConcretePaving) }},
	{KeyFencing, "Fencing", func(p *proposal.Proposal) float64 { return Fencing(p.Fencing) }},
	{KeyWaterFeature, "Water Feature", func(p *proposal.Proposal) float64 { return WaterFeature(p.WaterFeature) }},
	{KeyRetainingWalls, "Retaining Walls", func(p *proposal.Proposal) float64 { return RetainingWalls(p.RetainingWalls) }},
	{KeyExtras, "Extras", func(p *proposal.Proposal) float64 { return Extras(p.AddOns) }},
}

// Keys returns every subtotal key in summation order.
func Keys() []Key {
	out := make([]Key, len(subsystems))
	for i, s := range subsystems {
		out[i] = s.key
	}
	return out
}

// Label is the display name of a subtotal key.
func Label(k Key) string {
	for _, s := range subsystems {
		if s.key == k {
			return s.label
		}
	}
	return string(k)
}

// Totals holds one subtotal per key plus their sum.
type Totals struct {
	Subtotals  map[Key]float64 `json:"subtotals"`
	GrandTotal float64         `json:"grandTotal"`
}

// Line is one presentation row of a Totals value.
type Line struct {
	Key    Key     `json:"key"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// ComputeTotals prices every subsystem. A nil proposal prices to zero.
func ComputeTotals(p *proposal.Proposal) Totals {
	t := Totals{Subtotals: make(map[Key]float64, len(subsystems))}
	if p == nil {
		p = &proposal.Proposal{}
	}
	for _, s := range subsystems {
		v := s.price(p)
		t.Subtotals[s.key] = v
		t.GrandTotal += v
	}
	t.GrandTotal = settle(t.GrandTotal)
	return t
}

// Get returns the subtotal for k, or 0 if k is unknown.
func (t Totals) Get(k Key) float64 {
	return t.Subtotals[k]
}

// Lines returns the subtotals in summation order.
func (t Totals) Lines() []Line {
	out := make([]Line, 0, len(subsystems))
	for _, s := range subsystems {
		out = append(out, Line{Key: s.key, Label: s.label, Amount: t.Subtotals[s.key]})
	}
	return out
}

// MarshalJSON adds the ordered lines alongside the keyed subtotals.
func (t Totals) MarshalJSON() ([]byte, error) {
	type plain Totals
	return json.Marshal(struct {
		plain
		Lines []Line `json:"lines"`
	}{plain(t), t.Lines()})
}
