package catalog

import "github.com/dgallion1/poolproposal/internal/proposal"

var sectionTitles = map[proposal.SectionID]string{
	proposal.SectionCustomerInfo:     "Your Details",
	proposal.SectionPoolSelection:    "Pool Selection",
	proposal.SectionSiteRequirements: "Site Requirements",
	proposal.SectionConcretePaving:   "Concrete & Paving",
	proposal.SectionFencing:          "Fencing",
	proposal.SectionRetainingWalls:   "Retaining Walls",
	proposal.SectionWaterFeature:     "Water Feature",
	proposal.SectionElectrical:       "Electrical",
	proposal.SectionAddOns:           "Add-Ons",
	proposal.SectionSummary:          "Proposal Summary",
}

var subTitles = map[proposal.SectionID][]string{
	proposal.SectionPoolSelection: {"Pool Details", "Pool Colour"},
}

// SectionTitle is the heading shown for a section. Unknown sections fall back
// to their identifier.
func SectionTitle(id proposal.SectionID) string {
	if t, ok := sectionTitles[id]; ok {
		return t
	}
	return string(id)
}

// Label is the display label of a single step.
func Label(s Step) string {
	if !s.HasSub() {
		return SectionTitle(s.Section)
	}
	if subs := subTitles[s.Section]; s.Sub < len(subs) {
		return subs[s.Sub]
	}
	return SectionTitle(s.Section)
}
