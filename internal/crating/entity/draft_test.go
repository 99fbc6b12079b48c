package entity

import (
	"errors"
	"testing"
)

func nestedDraft() *Draft {
	d := &Draft{ID: "d1", CustomerID: "c1"}
	d.Items = ItemList{{ID: "i1", Name: "sofa", Qty: 1, LengthCm: 200, WidthCm: 90, HeightCm: 80, WeightKg: 40, Fragility: 2, Stackable: true}}
	d.ApplyNesting(&NestingResult{Boxes: []Box{
		{ID: "box-aaa", Kind: BoxSingle, ItemCount: 1, MaxFragility: 2},
	}}, "sv-1")
	return d
}

func TestDraftStateProgression(t *testing.T) {
	d := nestedDraft()
	if d.Plan.State != PlanStateNested {
		t.Fatalf("state = %s, want NESTED", d.Plan.State)
	}
	if err := d.ApplyEngineering([]EngineeredBox{{Box: d.Plan.Nesting.Boxes[0]}}); err != nil {
		t.Fatalf("ApplyEngineering: %v", err)
	}
	if d.Plan.State != PlanStateEngineered {
		t.Fatalf("state = %s, want ENGINEERED", d.Plan.State)
	}
	if err := d.ApplyCosting(&CostingResult{}); err != nil {
		t.Fatalf("ApplyCosting: %v", err)
	}
	if d.Plan.State != PlanStateCosted {
		t.Fatalf("state = %s, want COSTED", d.Plan.State)
	}
}

func TestDraftStagesRequireUpstream(t *testing.T) {
	d := &Draft{ID: "d1"}
	if err := d.ApplyEngineering(nil); !errors.Is(err, ErrPreconditionNotMet) {
		t.Errorf("engineering without nesting: got %v", err)
	}
	if err := d.ApplyCosting(nil); !errors.Is(err, ErrPreconditionNotMet) {
		t.Errorf("costing without engineering: got %v", err)
	}
}

func TestItemMutationClearsAllStages(t *testing.T) {
	d := nestedDraft()
	if err := d.ApplyEngineering([]EngineeredBox{{Box: d.Plan.Nesting.Boxes[0]}}); err != nil {
		t.Fatalf("ApplyEngineering: %v", err)
	}
	d.AddItem(Item{ID: "i2", Name: "lamp", Qty: 1, LengthCm: 30, WidthCm: 30, HeightCm: 140, WeightKg: 5, Fragility: 4, Stackable: false})

	if d.Plan.Nesting != nil || d.Plan.Engineering != nil || d.Plan.Costing != nil {
		t.Error("item mutation must clear every cached stage output")
	}
	if d.Plan.State != PlanStateEmpty {
		t.Errorf("state = %s, want EMPTY", d.Plan.State)
	}
}

func TestRemoveItemClearsStages(t *testing.T) {
	d := nestedDraft()
	if !d.RemoveItem("i1") {
		t.Fatal("RemoveItem should find i1")
	}
	if d.RemoveItem("missing") {
		t.Error("RemoveItem on a missing id should return false")
	}
	if d.Plan.Nesting != nil {
		t.Error("removal must invalidate the plan")
	}
}

func TestOverrideInvalidatesDownstreamOnly(t *testing.T) {
	d := nestedDraft()
	if err := d.ApplyEngineering([]EngineeredBox{{Box: d.Plan.Nesting.Boxes[0]}}); err != nil {
		t.Fatalf("ApplyEngineering: %v", err)
	}
	if err := d.SetProfileOverride("box-aaa", ProfileExportISPM15); err != nil {
		t.Fatalf("SetProfileOverride: %v", err)
	}
	if d.Plan.Nesting == nil {
		t.Error("override must not clear nesting")
	}
	if d.Plan.Engineering != nil || d.Plan.Costing != nil {
		t.Error("override must clear engineering and costing")
	}
	if d.Plan.State != PlanStateNested {
		t.Errorf("state = %s, want NESTED", d.Plan.State)
	}
}

func TestOverrideUnknownBoxRejected(t *testing.T) {
	d := nestedDraft()
	if err := d.SetProfileOverride("box-zzz", ProfileExportISPM15); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown box, got %v", err)
	}
}

// Overrides survive a re-run that keeps box composition (stable ids) and
// are dropped with a warning when the composition changes.
func TestOverrideReconciliationOnRenest(t *testing.T) {
	d := nestedDraft()
	if err := d.SetProfileOverride("box-aaa", ProfilePremiumArtIT); err != nil {
		t.Fatalf("SetProfileOverride: %v", err)
	}

	// No-op re-run: same box id comes back.
	d.ApplyNesting(&NestingResult{Boxes: []Box{
		{ID: "box-aaa", Kind: BoxSingle, ItemCount: 1, MaxFragility: 2},
	}}, "sv-1")
	if d.Plan.ProfileOverrides["box-aaa"] != ProfilePremiumArtIT {
		t.Error("override must survive a no-op nesting re-run")
	}
	if len(d.Plan.Warnings) != 0 {
		t.Errorf("no warnings expected on a no-op re-run, got %v", d.Plan.Warnings)
	}

	// Composition changed: new id, override dropped with a warning.
	d.ApplyNesting(&NestingResult{Boxes: []Box{
		{ID: "box-bbb", Kind: BoxConsolidated, ItemCount: 2, MaxFragility: 2},
	}}, "sv-1")
	if _, ok := d.Plan.ProfileOverrides["box-aaa"]; ok {
		t.Error("override for a vanished box must be dropped")
	}
	if len(d.Plan.Warnings) != 1 || d.Plan.Warnings[0].Code != IssueOverrideDropped {
		t.Errorf("expected one OVERRIDE_DROPPED warning, got %v", d.Plan.Warnings)
	}
}

func TestClearProfileOverride(t *testing.T) {
	d := nestedDraft()
	if err := d.SetProfileOverride("box-aaa", ProfileExportISPM15); err != nil {
		t.Fatalf("SetProfileOverride: %v", err)
	}
	if err := d.ApplyEngineering([]EngineeredBox{{Box: d.Plan.Nesting.Boxes[0]}}); err != nil {
		t.Fatalf("ApplyEngineering: %v", err)
	}
	d.ClearProfileOverride("box-aaa")
	if len(d.Plan.ProfileOverrides) != 0 {
		t.Error("override should be removed")
	}
	if d.Plan.Engineering != nil {
		t.Error("clearing an override must invalidate engineering")
	}
	// Clearing an override that is not set is a no-op.
	d.ApplyEngineering([]EngineeredBox{{Box: d.Plan.Nesting.Boxes[0]}})
	d.ClearProfileOverride("box-zzz")
	if d.Plan.Engineering == nil {
		t.Error("no-op clear must not invalidate anything")
	}
}
