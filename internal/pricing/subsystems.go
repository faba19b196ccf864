package pricing

import (
	"math"

	"github.com/dgallion1/poolproposal/internal/proposal"
)

// Each subtotal function takes its variant pointer and returns a rounded,
// non-negative amount. A nil variant costs nothing. A positive cost summary
// overrides the line items, which are otherwise summed exactly once.

func BasePool(s *proposal.PoolSelection) float64 {
	if s == nil {
		return 0
	}
	if t := summary(s.CostSummary); t > 0 {
		return t
	}
	return settle(sumItems(s.FixedCosts) + sumItems(s.IndividualCosts))
}

func SiteRequirements(s *proposal.SiteRequirements) float64 {
	if s == nil {
		return 0
	}
	if t := summary(s.CostSummary); t > 0 {
		return t
	}
	total := s.CraneCost.NonNegative() +
		s.ExcavationCost.NonNegative() +
		s.TrafficControlCost.NonNegative() +
		s.BobcatCost.NonNegative() +
		sumItems(s.CustomRequirements)
	return settle(total)
}

func Concrete(c *proposal.ConcretePaving) float64 {
	if c == nil {
		return 0
	}
	if t := summary(c.CostSummary); t > 0 {
		return t
	}
	var total float64
	if c.ConcretePumpRequired {
		total += c.ConcretePumpCost.NonNegative()
	}
	total += sumItems(c.ConcreteCuts)
	for _, p := range c.ExtraPaving {
		total += p.Cost.NonNegative()
	}
	if c.ExistingConcretePaving != nil {
		total += c.ExistingConcretePaving.Cost.NonNegative()
	}
	total += sumItems(c.UnderFenceStrips)
	return settle(total)
}

// Fencing subtracts the free gate discount as a magnitude, whatever sign it
// was recorded with.
func Fencing(f *proposal.Fencing) float64 {
	if f == nil {
		return 0
	}
	if t := summary(f.CostSummary); t > 0 {
		return t
	}
	total := f.FenceLinearCost.NonNegative()
	if g := f.GateSelection; g != nil {
		total += g.GateTotalCost.NonNegative()
		total -= g.FreeGateDiscount.Magnitude()
	}
	total += sumItems(f.Panels)
	if f.EarthingRequired {
		total += f.EarthingCost.NonNegative()
	}
	return settle(total)
}

func RetainingWalls(r *proposal.RetainingWalls) float64 {
	if r == nil {
		return 0
	}
	var total float64
	for _, w := range r.Walls {
		total += w.WallCalculation.TotalCost.NonNegative()
	}
	return settle(total)
}

func WaterFeature(w *proposal.WaterFeature) float64 {
	if w == nil {
		return 0
	}
	if t := summary(w.CostSummary); t > 0 {
		return t
	}
	return settle(sumItems(w.Items))
}

func Electrical(e *proposal.Electrical) float64 {
	if e == nil {
		return 0
	}
	if t := summary(e.CostSummary); t > 0 {
		return t
	}
	return settle(sumItems(e.Items))
}

// Extras prices add-ons as quantity × unit price; items with no quantity are
// not part of the order.
func Extras(a *proposal.AddOns) float64 {
	if a == nil {
		return 0
	}
	var total float64
	for _, it := range a.Items {
		if it.Quantity <= 0 {
			continue
		}
		total += float64(it.Quantity) * it.UnitPrice.NonNegative()
	}
	return settle(total)
}

func sumItems(items []proposal.LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Cost.NonNegative()
	}
	return total
}

func summary(cs *proposal.CostSummary) float64 {
	if cs == nil {
		return 0
	}
	return settle(cs.TotalCost.NonNegative())
}

// settle clamps at zero and rounds to cents.
func settle(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
