package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
)

func engineered(t *testing.T, s *entity.Settings, boxes ...entity.Box) []entity.EngineeredBox {
	t.Helper()
	out, err := Engineer(boxes, s, nil)
	if err != nil {
		t.Fatalf("Engineer: %v", err)
	}
	return out
}

func TestCostRequiresEngineeringOutput(t *testing.T) {
	_, err := Cost(nil, testSettings())
	if !errors.Is(err, entity.ErrPreconditionNotMet) {
		t.Fatalf("expected ErrPreconditionNotMet, got %v", err)
	}
}

func TestRoundUpToStepMonotonic(t *testing.T) {
	steps := []float64{0.25, 0.5, 1}
	for _, step := range steps {
		for q := 0.05; q < 10; q += 0.05 {
			r := RoundUpToStep(q, step)
			if r < q-1e-9 {
				t.Fatalf("RoundUpToStep(%g, %g) = %g rounded down", q, step, r)
			}
			if r-step >= q-1e-9 {
				t.Fatalf("RoundUpToStep(%g, %g) = %g not the smallest multiple", q, step, r)
			}
			if mod := math.Mod(r+1e-12, step); mod > 1e-9 && step-mod > 1e-9 {
				t.Fatalf("RoundUpToStep(%g, %g) = %g not a step multiple", q, step, r)
			}
		}
	}
	if got := RoundUpToStep(2.3, 0.5); got != 2.5 {
		t.Errorf("RoundUpToStep(2.3, 0.5) = %g, want 2.5", got)
	}
	if got := RoundUpToStep(2.0, 0.5); got != 2.0 {
		t.Errorf("exact multiple must not round up: got %g", got)
	}
	if got := RoundUpToStep(0, 0.5); got != 0 {
		t.Errorf("RoundUpToStep(0, 0.5) = %g, want 0", got)
	}
}

func TestCostMarkupCorrectness(t *testing.T) {
	s := testSettings()
	ebs := engineered(t, s,
		testBox("b1", 50, 40, 30, 10, 2),
		testBox("b2", 180, 60, 60, 120, 3),
	)
	res, err := Cost(ebs, s)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	for _, cb := range res.Boxes {
		markup := s.Pricing.MarkupPctByProfile[cb.Profile]
		want := cb.Cost.TotalCost * (1 + markup/100)
		if math.Abs(cb.Cost.SellPrice-want) > 1e-9 {
			t.Errorf("box %s: sellPrice = %g, want totalCost*(1+markup) = %g",
				cb.ID, cb.Cost.SellPrice, want)
		}
	}
}

func TestCostTotalsAreSums(t *testing.T) {
	s := testSettings()
	ebs := engineered(t, s,
		testBox("b1", 50, 40, 30, 10, 2),
		testBox("b2", 80, 70, 60, 40, 4),
	)
	res, err := Cost(ebs, s)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	var mat, labor, add, total, sell float64
	for _, cb := range res.Boxes {
		mat += cb.Cost.MaterialsCost
		labor += cb.Cost.LaborCost
		add += cb.Cost.AddersCost
		total += cb.Cost.TotalCost
		sell += cb.Cost.SellPrice
	}
	if math.Abs(res.Totals.MaterialsCost-mat) > 1e-9 ||
		math.Abs(res.Totals.LaborCost-labor) > 1e-9 ||
		math.Abs(res.Totals.AddersCost-add) > 1e-9 ||
		math.Abs(res.Totals.TotalCost-total) > 1e-9 ||
		math.Abs(res.Totals.SellPrice-sell) > 1e-9 {
		t.Errorf("totals are not per-category sums: %+v", res.Totals)
	}
}

// Scenario C: fasteners in FIXED_PER_BOX mode; a box under smallMax pays the
// small rate exactly once.
func TestScenarioCFastenerSmallBox(t *testing.T) {
	s := testSettings()
	s.Adders.Fasteners.Enabled = true
	s.Adders.Fasteners.Mode = entity.AdderModeFixedPerBox

	// 20x20x20 cm, fragility 1: internal volume well under smallMax.
	ebs := engineered(t, s, testBox("small", 20, 20, 20, 3, 1))
	if v := ebs[0].InternalVolumeIn3(); v > s.Adders.Fasteners.BoxVolumeThresholdsIn3.SmallMax {
		t.Fatalf("fixture volume %g exceeds smallMax", v)
	}
	res, err := Cost(ebs, s)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if got := res.Boxes[0].Cost.AddersCost; got != s.Adders.Fasteners.RateBySize.Small {
		t.Errorf("adders = %g, want exactly rateBySize.small = %g",
			got, s.Adders.Fasteners.RateBySize.Small)
	}
}

func TestFastenerVolumeClassification(t *testing.T) {
	s := testSettings()
	s.Adders.Fasteners.Enabled = true
	s.Adders.Fasteners.Mode = entity.AdderModeFixedPerBox
	s.Protection["1"] = entity.ProtectionRow{}

	ebs := engineered(t, s,
		testBox("small", 20, 20, 20, 3, 1),   // ~489 in³
		testBox("medium", 80, 70, 60, 20, 1), // ~20,500 in³
		testBox("large", 150, 120, 90, 60, 1),
	)
	res, err := Cost(ebs, s)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	rates := s.Adders.Fasteners.RateBySize
	if res.Boxes[0].Cost.AddersCost != rates.Small {
		t.Errorf("small box adder = %g, want %g", res.Boxes[0].Cost.AddersCost, rates.Small)
	}
	if res.Boxes[1].Cost.AddersCost != rates.Medium {
		t.Errorf("medium box adder = %g, want %g", res.Boxes[1].Cost.AddersCost, rates.Medium)
	}
	if res.Boxes[2].Cost.AddersCost != rates.Large {
		t.Errorf("large box adder = %g, want %g", res.Boxes[2].Cost.AddersCost, rates.Large)
	}
}

// A fragility-1 consolidated box uses no perimeter foam but still needs
// separators between its members; the separator stock must be priced at its
// own thickness key, never reported as quantity with a silent zero cost.
func TestConsolidatedSeparatorFoamPriced(t *testing.T) {
	s := testSettings()
	box := consolidatedBox("c1", 50, 40, 30, 2, 1)
	ebs := engineered(t, s, box)
	res, err := Cost(ebs, s)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	cb := res.Boxes[0]
	eb := ebs[0]

	waste := 1 + s.Pricing.WastePctByMaterial.Foam/100
	sheetArea := s.Plywood.SheetSizeIn.W * s.Plywood.SheetSizeIn.H
	sepSheets := RoundUpToStep(eb.InternalLenIn*eb.InternalWidIn/sheetArea*waste,
		s.Pricing.Rounding.StepUnits)
	if cb.Cost.FoamSheets != sepSheets {
		t.Errorf("foamSheets = %g, want separator-only %g at fragility 1",
			cb.Cost.FoamSheets, sepSheets)
	}
	if len(cb.Cost.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", cb.Cost.Warnings)
	}

	// Repricing without the separator thickness in the catalog must lower
	// materials by exactly the separator line and surface a blocking
	// warning instead of a silent zero.
	s2 := testSettings()
	delete(s2.Pricing.UnitCosts.FoamPerSheetByThicknessIn, "0.5")
	res2, err := Cost(engineered(t, s2, box), s2)
	if err != nil {
		t.Fatalf("Cost with catalog gap: %v", err)
	}
	cb2 := res2.Boxes[0]
	if !entity.HasBlocking(cb2.Cost.Warnings) {
		t.Fatal("expected a blocking IncompleteCostCatalog warning for the separator stock")
	}
	if cb2.Cost.Warnings[0].Code != entity.IssueIncompleteCostCatalog {
		t.Errorf("warning code = %s, want INCOMPLETE_COST_CATALOG", cb2.Cost.Warnings[0].Code)
	}
	sepCost := sepSheets * s.Pricing.UnitCosts.FoamPerSheetByThicknessIn["0.5"]
	if diff := cb.Cost.MaterialsCost - cb2.Cost.MaterialsCost; math.Abs(diff-sepCost) > 1e-9 {
		t.Errorf("separator foam line = %g, want %g", diff, sepCost)
	}
}

func TestFastenerPerSheetMode(t *testing.T) {
	s := testSettings()
	s.Adders.Fasteners.Enabled = true
	s.Adders.Fasteners.Mode = entity.AdderModePerSheet

	ebs := engineered(t, s, testBox("b1", 50, 40, 30, 10, 2))
	res, err := Cost(ebs, s)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	cb := res.Boxes[0]
	if cb.Cost.PlywoodSheets <= 0 {
		t.Fatal("fixture box must consume plywood")
	}
	want := s.Adders.Fasteners.RateBySize.Small * cb.Cost.PlywoodSheets
	if math.Abs(cb.Cost.AddersCost-want) > 1e-9 {
		t.Errorf("PER_SHEET adder = %g, want small rate x rounded sheets = %g",
			cb.Cost.AddersCost, want)
	}
}

func TestFumigationPerCubicMeter(t *testing.T) {
	s := testSettings()
	s.Adders.Fumigation.Enabled = true
	s.Adders.Fumigation.Mode = entity.AdderModePerM3

	ebs := engineered(t, s, testBox("b1", 100, 80, 60, 30, 2))
	res, err := Cost(ebs, s)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	fum := s.Adders.Fumigation
	want := fum.Rate*In3ToM3(ebs[0].InternalVolumeIn3()) + fum.MarkingIppcRatePerBox
	if math.Abs(res.Boxes[0].Cost.AddersCost-want) > 1e-9 {
		t.Errorf("fumigation PER_M3 adder = %g, want %g", res.Boxes[0].Cost.AddersCost, want)
	}
}

// Scenario D: a missing plywood unit cost must not abort the run. The box
// completes with that line priced at zero and carries a blocking
// INCOMPLETE_COST_CATALOG warning.
func TestScenarioDMissingPlywoodCost(t *testing.T) {
	s := testSettings()
	delete(s.Pricing.UnitCosts.PlywoodPerSheetByThicknessIn, "0.25")

	ebs := engineered(t, s, testBox("b1", 50, 40, 30, 10, 2))
	res, err := Cost(ebs, s)
	if err != nil {
		t.Fatalf("Cost must complete despite the catalog gap: %v", err)
	}
	cb := res.Boxes[0]
	if !entity.HasBlocking(cb.Cost.Warnings) {
		t.Fatal("expected a blocking IncompleteCostCatalog warning")
	}
	if cb.Cost.Warnings[0].Code != entity.IssueIncompleteCostCatalog {
		t.Errorf("warning code = %s, want INCOMPLETE_COST_CATALOG", cb.Cost.Warnings[0].Code)
	}
	if !res.HasOpenWarnings() {
		t.Error("result must report open warnings so finalization is blocked")
	}

	// The materials figure must reflect the gap: repricing with the catalog
	// restored yields a strictly larger figure.
	full, err := Cost(ebs, testSettings())
	if err != nil {
		t.Fatalf("Cost with full catalog: %v", err)
	}
	if cb.Cost.MaterialsCost >= full.Boxes[0].Cost.MaterialsCost {
		t.Errorf("materials with gap (%g) should be below full catalog (%g)",
			cb.Cost.MaterialsCost, full.Boxes[0].Cost.MaterialsCost)
	}
}

func TestCostLaborDisabled(t *testing.T) {
	s := testSettings()
	s.Pricing.Labor.Enabled = false
	ebs := engineered(t, s, testBox("b1", 50, 40, 30, 10, 2))
	res, err := Cost(ebs, s)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if res.Boxes[0].Cost.LaborCost != 0 || res.Boxes[0].Cost.LaborHours != 0 {
		t.Errorf("labor disabled but cost = %g over %g h",
			res.Boxes[0].Cost.LaborCost, res.Boxes[0].Cost.LaborHours)
	}
}

func TestCostCustomHoursEstimator(t *testing.T) {
	s := testSettings()
	ebs := engineered(t, s, testBox("b1", 50, 40, 30, 10, 2))
	res, err := Cost(ebs, s, WithHoursEstimator(func(entity.EngineeredBox) float64 { return 4 }))
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	want := 4 * s.Pricing.Labor.RatePerHour
	if res.Boxes[0].Cost.LaborCost != want {
		t.Errorf("labor = %g, want %g with pinned estimator", res.Boxes[0].Cost.LaborCost, want)
	}
}

func TestCostCarriesInvalidProfileBoxUnpriced(t *testing.T) {
	s := testSettings()
	boxes := []entity.Box{testBox("b1", 50, 40, 30, 10, 2), testBox("b2", 50, 40, 30, 10, 2)}
	out, err := Engineer(boxes, s, map[string]entity.Profile{"b1": "NOPE"})
	if err != nil {
		t.Fatalf("Engineer: %v", err)
	}
	res, err := Cost(out, s)
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if res.Boxes[0].Cost.TotalCost != 0 {
		t.Errorf("invalid-profile box must stay unpriced, got %g", res.Boxes[0].Cost.TotalCost)
	}
	if res.Boxes[1].Cost.TotalCost <= 0 {
		t.Error("healthy box must still be priced")
	}
	if !res.HasOpenWarnings() {
		t.Error("invalid profile must keep the result in a blocked state")
	}
}
