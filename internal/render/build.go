package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dgallion1/poolproposal/internal/catalog"
	"github.com/dgallion1/poolproposal/internal/navigation"
	"github.com/dgallion1/poolproposal/internal/pricing"
	"github.com/dgallion1/poolproposal/internal/proposal"
)

// sectionKeys links a section to the subtotal printed under it.
var sectionKeys = map[proposal.SectionID]pricing.Key{
	proposal.SectionPoolSelection:    pricing.KeyBasePool,
	proposal.SectionSiteRequirements: pricing.KeySiteRequirements,
	proposal.SectionConcretePaving:   pricing.KeyConcrete,
	proposal.SectionFencing:          pricing.KeyFencing,
	proposal.SectionRetainingWalls:   pricing.KeyRetainingWalls,
	proposal.SectionWaterFeature:     pricing.KeyWaterFeature,
	proposal.SectionElectrical:       pricing.KeyElectrical,
	proposal.SectionAddOns:           pricing.KeyExtras,
}

// Build lays out the document for a proposal. Only steps the reader could
// navigate to are included; subsections become child nodes of their section.
func Build(p *proposal.Proposal, c catalog.Catalog, m Money) *Document {
	if p == nil {
		p = &proposal.Proposal{}
	}
	totals := pricing.ComputeTotals(p)
	b := builder{p: p, m: m, totals: totals}

	doc := &Document{
		Title:      title(p),
		Reference:  p.Reference,
		Status:     p.Status,
		GrandTotal: m.Format(totals.GrandTotal),
	}

	var current *Node
	for _, i := range navigation.AvailableIndices(p, c) {
		step := c[i]
		if current == nil || current.Section != step.Section {
			current = b.section(step.Section)
			doc.Children = append(doc.Children, current)
		}
		rows := b.rows(step)
		if step.HasSub() {
			current.Children = append(current.Children, &Node{
				Section: step.Section,
				Title:   catalog.Label(step),
				Rows:    rows,
			})
			continue
		}
		current.Rows = append(current.Rows, rows...)
	}
	return doc
}

func title(p *proposal.Proposal) string {
	if p.CustomerInfo != nil && strings.TrimSpace(p.CustomerInfo.Name) != "" {
		return "Pool Proposal for " + strings.TrimSpace(p.CustomerInfo.Name)
	}
	return "Pool Proposal"
}

type builder struct {
	p      *proposal.Proposal
	m      Money
	totals pricing.Totals
}

func (b builder) section(id proposal.SectionID) *Node {
	n := &Node{Section: id, Title: catalog.SectionTitle(id)}
	if id == proposal.SectionSummary {
		n.Footer = &Row{Label: "Total", Amount: b.m.Format(b.totals.GrandTotal)}
	} else if k, ok := sectionKeys[id]; ok {
		n.Footer = &Row{Label: "Subtotal", Amount: b.m.Format(b.totals.Get(k))}
	}
	return n
}

func (b builder) rows(step catalog.Step) []Row {
	p := b.p
	switch step.Section {
	case proposal.SectionCustomerInfo:
		return customerRows(p.CustomerInfo)
	case proposal.SectionPoolSelection:
		if step.Sub == 1 {
			return poolColourRows(p.PoolSelection)
		}
		return b.poolRows(p.PoolSelection)
	case proposal.SectionSiteRequirements:
		return b.siteRows(p.SiteRequirements)
	case proposal.SectionConcretePaving:
		return b.concreteRows(p.ConcretePaving)
	case proposal.SectionFencing:
		return b.fencingRows(p.Fencing)
	case proposal.SectionRetainingWalls:
		return b.wallRows(p.RetainingWalls)
	case proposal.SectionWaterFeature:
		return b.waterFeatureRows(p.WaterFeature)
	case proposal.SectionElectrical:
		if p.Electrical == nil {
			return nil
		}
		return b.items(p.Electrical.Items)
	case proposal.SectionAddOns:
		return b.addOnRows(p.AddOns)
	case proposal.SectionSummary:
		return b.summaryRows()
	}
	return nil
}

func detail(label, value string) []Row {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return []Row{{Label: label, Detail: strings.TrimSpace(value)}}
}

func (b builder) cost(label, detail string, v proposal.Amount) []Row {
	if v.NonNegative() == 0 {
		return nil
	}
	return []Row{{Label: label, Detail: detail, Amount: b.m.Format(v.NonNegative())}}
}

func (b builder) items(items []proposal.LineItem) []Row {
	var out []Row
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" && it.Cost.NonNegative() == 0 {
			continue
		}
		out = append(out, Row{Label: it.Name, Amount: b.m.Format(it.Cost.NonNegative())})
	}
	return out
}

func customerRows(c *proposal.CustomerInfo) []Row {
	if c == nil {
		return nil
	}
	var out []Row
	out = append(out, detail("Name", c.Name)...)
	out = append(out, detail("Email", c.Email)...)
	out = append(out, detail("Phone", c.Phone)...)
	out = append(out, detail("Site Address", c.SiteAddress)...)
	out = append(out, detail("Residents", strings.Join(c.Residents, ", "))...)
	out = append(out, detail("Consultant", c.Consultant)...)
	return out
}

func (b builder) poolRows(s *proposal.PoolSelection) []Row {
	if s == nil {
		return nil
	}
	var out []Row
	model := s.Pool.Name
	if s.Pool.Range != "" {
		model = fmt.Sprintf("%s (%s range)", s.Pool.Name, s.Pool.Range)
	}
	out = append(out, detail("Model", model)...)
	if s.Pool.Length > 0 && s.Pool.Width > 0 {
		out = append(out, detail("Size", metres(float64(s.Pool.Length))+" x "+metres(float64(s.Pool.Width)))...)
	}
	if s.Pool.ShallowDepth > 0 && s.Pool.DeepDepth > 0 {
		out = append(out, detail("Depth", metres(float64(s.Pool.ShallowDepth))+" to "+metres(float64(s.Pool.DeepDepth)))...)
	}
	out = append(out, b.items(s.FixedCosts)...)
	out = append(out, b.items(s.IndividualCosts)...)
	return out
}

func poolColourRows(s *proposal.PoolSelection) []Row {
	if s == nil {
		return nil
	}
	return detail("Colour", s.Colour)
}

func (b builder) siteRows(s *proposal.SiteRequirements) []Row {
	if s == nil {
		return nil
	}
	var out []Row
	out = append(out, b.cost("Crane", "", s.CraneCost)...)
	out = append(out, b.cost("Excavation", "", s.ExcavationCost)...)
	out = append(out, b.cost("Traffic Control", "", s.TrafficControlCost)...)
	out = append(out, b.cost("Bobcat", "", s.BobcatCost)...)
	out = append(out, b.items(s.CustomRequirements)...)
	return out
}

func (b builder) paving(label string, it proposal.PavingItem) Row {
	var d string
	if it.Metres > 0 {
		d = metres(float64(it.Metres))
		if it.Rate > 0 {
			d += " @ " + b.m.Format(it.Rate.NonNegative()) + "/m"
		}
	}
	if it.Category != "" {
		label = it.Category
	}
	return Row{Label: label, Detail: d, Amount: b.m.Format(it.Cost.NonNegative())}
}

func (b builder) concreteRows(c *proposal.ConcretePaving) []Row {
	if c == nil {
		return nil
	}
	var out []Row
	if c.ConcretePumpRequired {
		out = append(out, Row{Label: "Concrete Pump", Amount: b.m.Format(c.ConcretePumpCost.NonNegative())})
	}
	out = append(out, b.items(c.ConcreteCuts)...)
	for _, it := range c.ExtraPaving {
		out = append(out, b.paving("Extra Paving", it))
	}
	if c.ExistingConcretePaving != nil {
		out = append(out, b.paving("Existing Concrete Paving", *c.ExistingConcretePaving))
	}
	out = append(out, b.items(c.UnderFenceStrips)...)
	return out
}

func (b builder) fencingRows(f *proposal.Fencing) []Row {
	if f == nil {
		return nil
	}
	var out []Row
	var d string
	if f.LinearMeters > 0 {
		d = metres(float64(f.LinearMeters))
	}
	label := "Fence"
	if f.FenceType != "" {
		label = f.FenceType + " Fence"
	}
	out = append(out, b.cost(label, d, f.FenceLinearCost)...)
	if g := f.GateSelection; g != nil {
		out = append(out, b.cost("Gates", humanize.Comma(int64(g.GateCount))+" gate(s)", g.GateTotalCost)...)
		if disc := g.FreeGateDiscount.Magnitude(); disc > 0 {
			out = append(out, Row{Label: "Free Gate Discount", Amount: b.m.Format(-disc)})
		}
	}
	out = append(out, b.items(f.Panels)...)
	if f.EarthingRequired {
		out = append(out, Row{Label: "Earthing", Amount: b.m.Format(f.EarthingCost.NonNegative())})
	}
	return out
}

func (b builder) wallRows(r *proposal.RetainingWalls) []Row {
	if r == nil {
		return nil
	}
	out := make([]Row, 0, len(r.Walls))
	for i, w := range r.Walls {
		label := w.Type
		if label == "" {
			label = fmt.Sprintf("Wall %d", i+1)
		}
		var d string
		if w.Height > 0 && w.Length > 0 {
			d = metres(float64(w.Length)) + " long, " + metres(float64(w.Height)) + " high"
		}
		out = append(out, Row{Label: label, Detail: d, Amount: b.m.Format(w.WallCalculation.TotalCost.NonNegative())})
	}
	return out
}

func (b builder) waterFeatureRows(w *proposal.WaterFeature) []Row {
	if w == nil {
		return nil
	}
	var out []Row
	out = append(out, detail("Size", w.Size)...)
	out = append(out, detail("Front Finish", w.FrontFinish)...)
	out = append(out, detail("Top Finish", w.TopFinish)...)
	out = append(out, detail("Sides Finish", w.SidesFinish)...)
	if w.BackCladding {
		out = append(out, detail("Back Cladding", "Included")...)
	}
	if w.LEDBlade {
		out = append(out, detail("LED Blade", "Included")...)
	}
	out = append(out, b.items(w.Items)...)
	return out
}

func (b builder) addOnRows(a *proposal.AddOns) []Row {
	if a == nil {
		return nil
	}
	var out []Row
	for _, it := range a.Items {
		if it.Quantity <= 0 {
			continue
		}
		d := fmt.Sprintf("%s x %s", humanize.Comma(int64(it.Quantity)), b.m.Format(it.UnitPrice.NonNegative()))
		out = append(out, Row{
			Label:  it.Name,
			Detail: d,
			Amount: b.m.Format(float64(it.Quantity) * it.UnitPrice.NonNegative()),
		})
	}
	return out
}

// summaryRows lists every subtotal that contributes to the grand total.
func (b builder) summaryRows() []Row {
	var out []Row
	for _, l := range b.totals.Lines() {
		if l.Amount <= 0 {
			continue
		}
		out = append(out, Row{Label: l.Label, Amount: b.m.Format(l.Amount)})
	}
	return out
}
