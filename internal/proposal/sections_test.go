package proposal

import "testing"

func TestIsSectionEmpty_MandatorySectionsNeverEmpty(t *testing.T) {
	for _, id := range []SectionID{SectionCustomerInfo, SectionSummary} {
		if IsSectionEmpty(id, nil) {
			t.Errorf("%s: expected mandatory section to be non-empty for nil proposal", id)
		}
		if IsSectionEmpty(id, &Proposal{}) {
			t.Errorf("%s: expected mandatory section to be non-empty for bare proposal", id)
		}
	}
}

func TestIsSectionEmpty_AbsentSubsystems(t *testing.T) {
	p := &Proposal{ID: "bare"}
	for _, id := range Sections() {
		if id.Mandatory() {
			continue
		}
		if !IsSectionEmpty(id, p) {
			t.Errorf("%s: expected empty when substructure is absent", id)
		}
	}
}

func TestIsSectionEmpty_UnknownSection(t *testing.T) {
	if !IsSectionEmpty(SectionID("gazebo"), &Proposal{}) {
		t.Error("expected unknown section to be empty")
	}
	if SectionID("gazebo").Known() {
		t.Error("expected unknown section to be reported as unknown")
	}
}

func TestIsSectionEmpty_PresentButHollow(t *testing.T) {
	p := &Proposal{
		PoolSelection:    &PoolSelection{FixedCosts: []LineItem{{Name: "Permit", Cost: 0}}},
		SiteRequirements: &SiteRequirements{CustomRequirements: []LineItem{}},
		ConcretePaving:   &ConcretePaving{ConcretePumpCost: 900},
		Fencing:          &Fencing{GateSelection: &GateSelection{}},
		RetainingWalls:   &RetainingWalls{},
		WaterFeature:     &WaterFeature{BackCladding: true},
		Electrical:       &Electrical{Items: []LineItem{{Name: "Circuit", Cost: -50}}},
		AddOns:           &AddOns{Items: []AddOnItem{{Name: "Blanket", Quantity: 0, UnitPrice: 800}}},
	}
	for _, id := range Sections() {
		if id.Mandatory() {
			continue
		}
		if !IsSectionEmpty(id, p) {
			t.Errorf("%s: expected hollow substructure to count as empty", id)
		}
	}
}

func TestIsSectionEmpty_PopulatedSections(t *testing.T) {
	p := &Proposal{
		PoolSelection:    &PoolSelection{Pool: PoolModel{Name: "Bondi 8.0"}},
		SiteRequirements: &SiteRequirements{CraneCost: 1200},
		ConcretePaving:   &ConcretePaving{ConcretePumpRequired: true, ConcretePumpCost: 900},
		Fencing:          &Fencing{LinearMeters: 18},
		RetainingWalls:   &RetainingWalls{Walls: []RetainingWall{{Type: "Block"}}},
		WaterFeature:     &WaterFeature{FrontFinish: "Travertine"},
		Electrical:       &Electrical{CostSummary: &CostSummary{TotalCost: 2100}},
		AddOns:           &AddOns{Items: []AddOnItem{{Name: "Heat pump", Quantity: 1}}},
	}
	for _, id := range Sections() {
		if IsSectionEmpty(id, p) {
			t.Errorf("%s: expected populated section to be non-empty", id)
		}
	}
}

func TestIsSectionEmpty_FencingEarthingOnly(t *testing.T) {
	p := &Proposal{Fencing: &Fencing{EarthingRequired: true, EarthingCost: 450}}
	if IsSectionEmpty(SectionFencing, p) {
		t.Error("expected fencing with a required earthing charge to be shown")
	}
	p.Fencing.EarthingRequired = false
	if !IsSectionEmpty(SectionFencing, p) {
		t.Error("expected unrequired earthing to leave fencing empty")
	}
}

func TestSections_ReturnsCopy(t *testing.T) {
	s := Sections()
	s[0] = "tampered"
	if Sections()[0] != SectionCustomerInfo {
		t.Error("expected Sections to return a defensive copy")
	}
}
