package entity

import (
	"fmt"
	"strconv"
	"time"
)

// Adder modes. Fumigation supports FIXED, PER_M3 and PER_BOX; fasteners
// support FIXED_PER_BOX (flat rate by volume class) and PER_SHEET.
const (
	AdderModeFixed       = "FIXED"
	AdderModePerM3       = "PER_M3"
	AdderModePerBox      = "PER_BOX"
	AdderModeFixedPerBox = "FIXED_PER_BOX"
	AdderModePerSheet    = "PER_SHEET"
)

// Settings is the versioned configuration snapshot every pipeline stage
// reads from. JSON field names are a published contract with upstream config
// authors and must not change.
type Settings struct {
	VersionID string    `json:"versionId"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`

	Lumber      LumberCatalog    `json:"lumber"`
	Plywood     PlywoodCatalog   `json:"plywood"`
	Foam        FoamCatalog      `json:"foam"`
	Cardboard   CardboardCatalog `json:"cardboard"`
	Nesting     NestingParams    `json:"nesting"`
	Protection  ProtectionTable  `json:"protectionByFragility"`
	Engineering EngineeringRules `json:"engineering"`
	Pricing     PricingRules     `json:"pricing"`
	Adders      AdderRules       `json:"adders"`
}

type LumberCatalog struct {
	LengthsIn []float64 `json:"lengthsIn"`
}

type SheetSize struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type PlywoodCatalog struct {
	SheetSizeIn        SheetSize `json:"sheetSizeIn"`
	ThicknessOptionsIn []float64 `json:"thicknessOptionsIn"`
}

type FoamCatalog struct {
	ThicknessOptionsIn []float64 `json:"thicknessOptionsIn"`
}

type CardboardCatalog struct {
	ThicknessIn float64 `json:"thicknessIn"`
}

type NestingParams struct {
	MaxDepthForNestingCm   float64 `json:"maxDepthForNestingCm"`
	MaxItemsPerBox         int     `json:"maxItemsPerBox"`
	SimilarityTolerancePct float64 `json:"similarityTolerancePct"`
	AllowRotationDefault   bool    `json:"allowRotationDefault"`
}

// ProtectionRow sizes the padding for one fragility rank.
type ProtectionRow struct {
	PerimeterFoamIn    float64 `json:"perimeterFoamIn"`
	BetweenItemsFoamIn float64 `json:"betweenItemsFoamIn"`
	CardboardIn        float64 `json:"cardboardIn"`
	DoublePerimeter    bool    `json:"doublePerimeter"`
}

// ProtectionTable maps fragility rank ("1".."5") to its protection row.
type ProtectionTable map[string]ProtectionRow

// Row returns the protection row for a fragility rank.
func (t ProtectionTable) Row(fragility int) ProtectionRow {
	return t[strconv.Itoa(fragility)]
}

type EngineeringThresholds struct {
	Use2x4IfWeightLbAbove         float64 `json:"use2x4IfWeightLbAbove"`
	Use2x4IfLongestSideInAbove    float64 `json:"use2x4IfLongestSideInAbove"`
	SkidIfWeightLbAbove           float64 `json:"skidIfWeightLbAbove"`
	SkidIfLongestSideInAbove      float64 `json:"skidIfLongestSideInAbove"`
	AddRibsIfLongestSideInAbove   float64 `json:"addRibsIfLongestSideInAbove"`
	AddXBracingIfAspectRatioAbove float64 `json:"addXBracingIfAspectRatioAbove"`
}

type EngineeringRules struct {
	Thresholds                  EngineeringThresholds `json:"thresholds"`
	PlywoodThicknessByProfileIn map[Profile]float64   `json:"plywoodThicknessByProfileIn"`
}

type RoundingRule struct {
	StepUnits float64 `json:"stepUnits"`
}

type WastePct struct {
	Plywood float64 `json:"plywood"`
	Lumber  float64 `json:"lumber"`
	Foam    float64 `json:"foam"`
}

type LaborRule struct {
	Enabled     bool    `json:"enabled"`
	RatePerHour float64 `json:"ratePerHour"`
}

type UnitCosts struct {
	LumberPerStick               map[string]float64 `json:"lumberPerStick"`
	PlywoodPerSheetByThicknessIn map[string]float64 `json:"plywoodPerSheetByThicknessIn"`
	FoamPerSheetByThicknessIn    map[string]float64 `json:"foamPerSheetByThicknessIn"`
	CardboardPerSheet            float64            `json:"cardboardPerSheet"`
}

type PricingRules struct {
	Rounding           RoundingRule        `json:"rounding"`
	WastePctByMaterial WastePct            `json:"wastePctByMaterial"`
	Labor              LaborRule           `json:"labor"`
	MarkupPctByProfile map[Profile]float64 `json:"markupPctByProfile"`
	UnitCosts          UnitCosts           `json:"unitCosts"`
}

type FumigationAdder struct {
	Enabled               bool    `json:"enabled"`
	Mode                  string  `json:"mode"`
	Rate                  float64 `json:"rate"`
	MarkingIppcRatePerBox float64 `json:"markingIppcRatePerBox"`
}

type VolumeThresholds struct {
	SmallMax  float64 `json:"smallMax"`
	MediumMax float64 `json:"mediumMax"`
}

type RateBySize struct {
	Small  float64 `json:"small"`
	Medium float64 `json:"medium"`
	Large  float64 `json:"large"`
}

type FastenerAdder struct {
	Enabled                bool             `json:"enabled"`
	Mode                   string           `json:"mode"`
	BoxVolumeThresholdsIn3 VolumeThresholds `json:"boxVolumeThresholdsIn3"`
	RateBySize             RateBySize       `json:"rateBySize"`
}

type AdderRules struct {
	Fumigation FumigationAdder `json:"fumigation"`
	Fasteners  FastenerAdder   `json:"fasteners"`
}

// ThicknessKey formats a thickness value as the catalog map key ("0.5",
// "0.75"). Config authors key the unit cost tables with this format.
func ThicknessKey(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Validate checks the settings snapshot for structural problems. It is run
// once before any pipeline stage executes; failures are fatal.
func (s *Settings) Validate() error {
	if len(s.Lumber.LengthsIn) == 0 || s.Lumber.LengthsIn[0] <= 0 {
		return fmt.Errorf("%w: lumber.lengthsIn must have a positive standard length", ErrInvalidSettings)
	}
	if s.Plywood.SheetSizeIn.W <= 0 || s.Plywood.SheetSizeIn.H <= 0 {
		return fmt.Errorf("%w: plywood.sheetSizeIn must be positive", ErrInvalidSettings)
	}
	if s.Nesting.MaxItemsPerBox < 1 {
		return fmt.Errorf("%w: nesting.maxItemsPerBox must be >= 1, got %d", ErrInvalidSettings, s.Nesting.MaxItemsPerBox)
	}
	if s.Nesting.MaxDepthForNestingCm <= 0 {
		return fmt.Errorf("%w: nesting.maxDepthForNestingCm must be positive", ErrInvalidSettings)
	}
	if s.Nesting.SimilarityTolerancePct < 0 {
		return fmt.Errorf("%w: nesting.similarityTolerancePct must be >= 0", ErrInvalidSettings)
	}
	for f := 1; f <= 5; f++ {
		row, ok := s.Protection[strconv.Itoa(f)]
		if !ok {
			return fmt.Errorf("%w: protectionByFragility[%d] missing", ErrInvalidSettings, f)
		}
		if row.PerimeterFoamIn < 0 || row.BetweenItemsFoamIn < 0 || row.CardboardIn < 0 {
			return fmt.Errorf("%w: protectionByFragility[%d] has negative thickness", ErrInvalidSettings, f)
		}
	}
	th := s.Engineering.Thresholds
	if th.Use2x4IfWeightLbAbove <= 0 || th.Use2x4IfLongestSideInAbove <= 0 ||
		th.SkidIfWeightLbAbove <= 0 || th.SkidIfLongestSideInAbove <= 0 ||
		th.AddRibsIfLongestSideInAbove <= 0 || th.AddXBracingIfAspectRatioAbove <= 0 {
		return fmt.Errorf("%w: engineering.thresholds must all be positive", ErrInvalidSettings)
	}
	for _, p := range AllProfiles {
		if t, ok := s.Engineering.PlywoodThicknessByProfileIn[p]; !ok || t <= 0 {
			return fmt.Errorf("%w: engineering.plywoodThicknessByProfileIn[%s] missing or non-positive", ErrInvalidSettings, p)
		}
		if _, ok := s.Pricing.MarkupPctByProfile[p]; !ok {
			return fmt.Errorf("%w: pricing.markupPctByProfile[%s] missing", ErrInvalidSettings, p)
		}
	}
	if s.Pricing.Rounding.StepUnits <= 0 {
		return fmt.Errorf("%w: pricing.rounding.stepUnits must be positive", ErrInvalidSettings)
	}
	if s.Pricing.Labor.Enabled && s.Pricing.Labor.RatePerHour < 0 {
		return fmt.Errorf("%w: pricing.labor.ratePerHour must be >= 0", ErrInvalidSettings)
	}
	if s.Adders.Fumigation.Enabled {
		switch s.Adders.Fumigation.Mode {
		case AdderModeFixed, AdderModePerM3, AdderModePerBox:
		default:
			return fmt.Errorf("%w: adders.fumigation.mode %q unknown", ErrInvalidSettings, s.Adders.Fumigation.Mode)
		}
	}
	if s.Adders.Fasteners.Enabled {
		switch s.Adders.Fasteners.Mode {
		case AdderModeFixedPerBox, AdderModePerSheet:
		default:
			return fmt.Errorf("%w: adders.fasteners.mode %q unknown", ErrInvalidSettings, s.Adders.Fasteners.Mode)
		}
		vt := s.Adders.Fasteners.BoxVolumeThresholdsIn3
		if vt.SmallMax <= 0 || vt.MediumMax <= vt.SmallMax {
			return fmt.Errorf("%w: adders.fasteners.boxVolumeThresholdsIn3 must satisfy 0 < smallMax < mediumMax", ErrInvalidSettings)
		}
	}
	return nil
}
