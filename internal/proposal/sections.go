package proposal

// SectionID names a top-level division of the proposal document.
type SectionID string

const (
	SectionCustomerInfo     SectionID = "customer-info"
	SectionPoolSelection    SectionID = "pool-selection"
	SectionSiteRequirements SectionID = "site-requirements"
	SectionConcretePaving   SectionID = "concrete-paving"
	SectionFencing          SectionID = "fencing"
	SectionRetainingWalls   SectionID = "retaining-walls"
	SectionWaterFeature     SectionID = "water-feature"
	SectionElectrical       SectionID = "electrical"
	SectionAddOns           SectionID = "add-ons"
	SectionSummary          SectionID = "summary"
)

var knownSections = []SectionID{
	SectionCustomerInfo,
	SectionPoolSelection,
	SectionSiteRequirements,
	SectionConcretePaving,
	SectionFencing,
	SectionRetainingWalls,
	SectionWaterFeature,
	SectionElectrical,
	SectionAddOns,
	SectionSummary,
}

// Sections returns every section identifier the document knows about.
func Sections() []SectionID {
	out := make([]SectionID, len(knownSections))
	copy(out, knownSections)
	return out
}

// Known reports whether id is one of the fixed section identifiers.
func (id SectionID) Known() bool {
	for _, s := range knownSections {
		if s == id {
			return true
		}
	}
	return false
}

// Mandatory sections are shown regardless of proposal content.
func (id SectionID) Mandatory() bool {
	return id == SectionCustomerInfo || id == SectionSummary
}

// IsSectionEmpty reports whether the proposal has nothing to show for the
// section. Mandatory sections are never empty; unknown ids always are.
func IsSectionEmpty(id SectionID, p *Proposal) bool {
	switch id {
	case SectionCustomerInfo, SectionSummary:
		return false
	}
	if p == nil {
		return true
	}

	switch id {
	case SectionPoolSelection:
		return p.PoolSelection.Empty()
	case SectionSiteRequirements:
		return p.SiteRequirements.Empty()
	case SectionConcretePaving:
		return p.ConcretePaving.Empty()
	case SectionFencing:
		return p.Fencing.Empty()
	case SectionRetainingWalls:
		return p.RetainingWalls.Empty()
	case SectionWaterFeature:
		return p.WaterFeature.Empty()
	case SectionElectrical:
		return p.Electrical.Empty()
	case SectionAddOns:
		return p.AddOns.Empty()
	default:
		return true
	}
}

func (s *PoolSelection) Empty() bool {
	if s == nil {
		return true
	}
	return s.Pool.Name == "" && !anyPriced(s.FixedCosts) && !anyPriced(s.IndividualCosts) && s.CostSummary.total() == 0
}

func (s *SiteRequirements) Empty() bool {
	if s == nil {
		return true
	}
	fixed := s.CraneCost.NonNegative() + s.ExcavationCost.NonNegative() +
		s.TrafficControlCost.NonNegative() + s.BobcatCost.NonNegative()
	return fixed == 0 && !anyPriced(s.CustomRequirements) && s.CostSummary.total() == 0
}

func (c *ConcretePaving) Empty() bool {
	if c == nil {
		return true
	}
	if c.ConcretePumpRequired && c.ConcretePumpCost.NonNegative() > 0 {
		return false
	}
	if c.ExistingConcretePaving != nil && c.ExistingConcretePaving.Cost.NonNegative() > 0 {
		return false
	}
	for _, p := range c.ExtraPaving {
		if p.Cost.NonNegative() > 0 {
			return false
		}
	}
	return !anyPriced(c.ConcreteCuts) && !anyPriced(c.UnderFenceStrips) && c.CostSummary.total() == 0
}

func (f *Fencing) Empty() bool {
	if f == nil {
		return true
	}
	if f.LinearMeters > 0 || f.FenceLinearCost.NonNegative() > 0 {
		return false
	}
	if g := f.GateSelection; g != nil && (g.GateCount > 0 || g.GateTotalCost.NonNegative() > 0) {
		return false
	}
	if f.EarthingRequired && f.EarthingCost.NonNegative() > 0 {
		return false
	}
	return !anyPriced(f.Panels) && f.CostSummary.total() == 0
}

func (r *RetainingWalls) Empty() bool {
	return r == nil || len(r.Walls) == 0
}

func (w *WaterFeature) Empty() bool {
	if w == nil {
		return true
	}
	chosen := w.FrontFinish != "" || w.TopFinish != "" || w.SidesFinish != ""
	return !chosen && !anyPriced(w.Items) && w.CostSummary.total() == 0
}

func (e *Electrical) Empty() bool {
	if e == nil {
		return true
	}
	return !anyPriced(e.Items) && e.CostSummary.total() == 0
}

func (a *AddOns) Empty() bool {
	if a == nil {
		return true
	}
	for _, item := range a.Items {
		if item.Quantity > 0 {
			return false
		}
	}
	return true
}

func anyPriced(items []LineItem) bool {
	for _, it := range items {
		if it.Cost.NonNegative() > 0 {
			return true
		}
	}
	return false
}
