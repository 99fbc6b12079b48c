package engine

import (
	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
)

// testSettings pins a concrete settings fixture. Threshold assertions in the
// engineering tests rely on these exact values.
func testSettings() *entity.Settings {
	return &entity.Settings{
		VersionID: "sv-test-001",
		Lumber:    entity.LumberCatalog{LengthsIn: []float64{96}},
		Plywood: entity.PlywoodCatalog{
			SheetSizeIn:        entity.SheetSize{W: 48, H: 96},
			ThicknessOptionsIn: []float64{0.25, 0.5, 0.75},
		},
		Foam:      entity.FoamCatalog{ThicknessOptionsIn: []float64{0.5, 1, 2}},
		Cardboard: entity.CardboardCatalog{ThicknessIn: 0.125},
		Nesting: entity.NestingParams{
			MaxDepthForNestingCm:   120,
			MaxItemsPerBox:         4,
			SimilarityTolerancePct: 5,
			AllowRotationDefault:   true,
		},
		Protection: entity.ProtectionTable{
			"1": {PerimeterFoamIn: 0, BetweenItemsFoamIn: 0.5, CardboardIn: 0.125},
			"2": {PerimeterFoamIn: 0.5, BetweenItemsFoamIn: 0.5, CardboardIn: 0.125},
			"3": {PerimeterFoamIn: 1, BetweenItemsFoamIn: 1, CardboardIn: 0.125},
			"4": {PerimeterFoamIn: 1, BetweenItemsFoamIn: 1, CardboardIn: 0.25},
			"5": {PerimeterFoamIn: 2, BetweenItemsFoamIn: 1, CardboardIn: 0.25, DoublePerimeter: true},
		},
		Engineering: entity.EngineeringRules{
			Thresholds: entity.EngineeringThresholds{
				Use2x4IfWeightLbAbove:         150,
				Use2x4IfLongestSideInAbove:    60,
				SkidIfWeightLbAbove:           200,
				SkidIfLongestSideInAbove:      72,
				AddRibsIfLongestSideInAbove:   48,
				AddXBracingIfAspectRatioAbove: 2.5,
			},
			PlywoodThicknessByProfileIn: map[entity.Profile]float64{
				entity.ProfileStandardLocal:   0.25,
				entity.ProfileExportISPM15:    0.5,
				entity.ProfilePremiumArtIT:    0.5,
				entity.ProfileMachineryISPM15: 0.75,
			},
		},
		Pricing: entity.PricingRules{
			Rounding:           entity.RoundingRule{StepUnits: 0.5},
			WastePctByMaterial: entity.WastePct{Plywood: 10, Lumber: 10, Foam: 5},
			Labor:              entity.LaborRule{Enabled: true, RatePerHour: 650},
			MarkupPctByProfile: map[entity.Profile]float64{
				entity.ProfileStandardLocal:   18,
				entity.ProfileExportISPM15:    25,
				entity.ProfilePremiumArtIT:    35,
				entity.ProfileMachineryISPM15: 30,
			},
			UnitCosts: entity.UnitCosts{
				LumberPerStick: map[string]float64{"1x4": 180, "2x4": 320},
				PlywoodPerSheetByThicknessIn: map[string]float64{
					"0.25": 1450, "0.5": 2100, "0.75": 2900,
				},
				FoamPerSheetByThicknessIn: map[string]float64{
					"0.5": 400, "1": 700, "2": 1200,
				},
				CardboardPerSheet: 150,
			},
		},
		Adders: entity.AdderRules{
			Fumigation: entity.FumigationAdder{
				Enabled: false, Mode: entity.AdderModeFixed,
				Rate: 800, MarkingIppcRatePerBox: 250,
			},
			Fasteners: entity.FastenerAdder{
				Enabled: false, Mode: entity.AdderModeFixedPerBox,
				BoxVolumeThresholdsIn3: entity.VolumeThresholds{SmallMax: 15000, MediumMax: 60000},
				RateBySize:             entity.RateBySize{Small: 120, Medium: 220, Large: 380},
			},
		},
	}
}

// consolidatedBox builds a CONSOLIDATED box of identical stacked members,
// bypassing nesting, for tests that need separator geometry.
func consolidatedBox(id string, faceA, faceB, memberDepth float64, members, fragility int) entity.Box {
	b := entity.Box{
		ID:           id,
		Kind:         entity.BoxConsolidated,
		ItemCount:    members,
		FaceACm:      faceA,
		FaceBCm:      faceB,
		MaxFragility: fragility,
	}
	for seq := 0; seq < members; seq++ {
		b.Items = append(b.Items, entity.BoxItemRef{
			ItemID: id + "-item", Seq: seq, Name: "unit",
			FaceACm: faceA, FaceBCm: faceB, DepthCm: memberDepth,
			WeightKg: 5, Fragility: fragility,
		})
		b.DepthCm += memberDepth
		b.TotalWeightKg += 5
	}
	return b
}

// testBox builds a SINGLE box directly, bypassing nesting, for engineering
// and costing tests that need exact geometry and weight.
func testBox(id string, faceA, faceB, depth, weightKg float64, fragility int) entity.Box {
	return entity.Box{
		ID:   id,
		Kind: entity.BoxSingle,
		Items: []entity.BoxItemRef{{
			ItemID: id + "-item", Seq: 0, Name: "unit",
			FaceACm: faceA, FaceBCm: faceB, DepthCm: depth,
			WeightKg: weightKg, Fragility: fragility,
		}},
		ItemCount:     1,
		FaceACm:       faceA,
		FaceBCm:       faceB,
		DepthCm:       depth,
		TotalWeightKg: weightKg,
		MaxFragility:  fragility,
	}
}
