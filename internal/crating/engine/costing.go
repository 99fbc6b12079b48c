package engine

import (
	"fmt"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
)

// HoursEstimator turns an engineered box into planned labor hours. The
// estimate is a pluggable input: callers with a calibrated model can swap
// the default.
type HoursEstimator func(entity.EngineeredBox) float64

// DefaultHours is the shop-floor heuristic: one hour base per box, a quarter
// hour per additional constituent, half an hour extra when a skid is fitted.
func DefaultHours(eb entity.EngineeredBox) float64 {
	h := 1.0
	if eb.ItemCount > 1 {
		h += 0.25 * float64(eb.ItemCount-1)
	}
	if eb.Skid {
		h += 0.5
	}
	return h
}

// CostOption customizes a costing run.
type CostOption func(*costConfig)

type costConfig struct {
	hours HoursEstimator
}

// WithHoursEstimator replaces the default labor hours model.
func WithHoursEstimator(fn HoursEstimator) CostOption {
	return func(c *costConfig) { c.hours = fn }
}

// Cost prices each engineered box and rolls the per-box figures into
// aggregate totals.
//
// Material quantities are inflated by the per-material waste percentage and
// rounded up to pricing.rounding.stepUnits before pricing. A missing unit
// cost does not abort the run: the affected line prices at zero and a
// blocking INCOMPLETE_COST_CATALOG warning is attached to the box, which
// must keep the quote from being finalized. Monetary values stay unrounded;
// display rounding belongs to the report boundary.
func Cost(boxes []entity.EngineeredBox, s *entity.Settings, opts ...CostOption) (*entity.CostingResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(boxes) == 0 {
		return nil, fmt.Errorf("%w: engineering produced no boxes", entity.ErrPreconditionNotMet)
	}

	cfg := costConfig{hours: DefaultHours}
	for _, opt := range opts {
		opt(&cfg)
	}

	res := &entity.CostingResult{}
	for _, eb := range boxes {
		cb := entity.CostedBox{EngineeredBox: eb}
		if entity.HasBlocking(eb.Issues) {
			// Engineering already failed this box; carry it through unpriced.
			res.Boxes = append(res.Boxes, cb)
			continue
		}
		cb.Cost = costBox(eb, s, cfg.hours)
		res.Totals.MaterialsCost += cb.Cost.MaterialsCost
		res.Totals.LaborCost += cb.Cost.LaborCost
		res.Totals.AddersCost += cb.Cost.AddersCost
		res.Totals.TotalCost += cb.Cost.TotalCost
		res.Totals.SellPrice += cb.Cost.SellPrice
		res.Boxes = append(res.Boxes, cb)
	}
	return res, nil
}

func costBox(eb entity.EngineeredBox, s *entity.Settings, hours HoursEstimator) entity.CostBreakdown {
	var bd entity.CostBreakdown
	waste := s.Pricing.WastePctByMaterial
	step := s.Pricing.Rounding.StepUnits
	costs := s.Pricing.UnitCosts
	prot := s.Protection.Row(eb.MaxFragility)

	missing := func(what, key string) {
		bd.Warnings = append(bd.Warnings, entity.Issue{
			Code:     entity.IssueIncompleteCostCatalog,
			Ref:      eb.ID,
			Message:  fmt.Sprintf("no unit cost for %s %q; line priced at zero", what, key),
			Blocking: true,
		})
	}

	// Plywood.
	bd.PlywoodSheets = RoundUpToStep(eb.RawPlywoodSheets*(1+waste.Plywood/100), step)
	plyKey := entity.ThicknessKey(eb.PlywoodThicknessIn)
	if unit, ok := costs.PlywoodPerSheetByThicknessIn[plyKey]; ok {
		bd.MaterialsCost += bd.PlywoodSheets * unit
	} else {
		missing("plywood thickness", plyKey)
	}

	// Lumber.
	bd.LumberSticks = RoundUpToStep(eb.RawLumberSticks*(1+waste.Lumber/100), step)
	if unit, ok := costs.LumberPerStick[eb.LumberType]; ok {
		bd.MaterialsCost += bd.LumberSticks * unit
	} else {
		missing("lumber grade", eb.LumberType)
	}

	// Foam: the perimeter layer and the member separators may use different
	// stock thicknesses, so each application is rounded and priced at its
	// own thickness key. A thickness of zero means no foam is applied.
	sheetArea := s.Plywood.SheetSizeIn.W * s.Plywood.SheetSizeIn.H
	foamLine := func(area, thickness float64) {
		if area <= 0 || thickness <= 0 {
			return
		}
		sheets := RoundUpToStep(area/sheetArea*(1+waste.Foam/100), step)
		bd.FoamSheets += sheets
		foamKey := entity.ThicknessKey(thickness)
		if unit, ok := costs.FoamPerSheetByThicknessIn[foamKey]; ok {
			bd.MaterialsCost += sheets * unit
		} else {
			missing("foam thickness", foamKey)
		}
	}

	// One layer over the six internal faces, two when the fragility row
	// doubles it.
	perimArea := 2 * (eb.InternalLenIn*eb.InternalWidIn +
		eb.InternalLenIn*eb.InternalDepthIn +
		eb.InternalWidIn*eb.InternalDepthIn)
	if prot.DoublePerimeter {
		perimArea *= 2
	}
	foamLine(perimArea, prot.PerimeterFoamIn)
	// One separator per gap between stacked members.
	if eb.Kind == entity.BoxConsolidated && eb.ItemCount > 1 {
		foamLine(float64(eb.ItemCount-1)*eb.InternalLenIn*eb.InternalWidIn, prot.BetweenItemsFoamIn)
	}

	// Cardboard: one wrap sheet per constituent unit.
	bd.MaterialsCost += float64(eb.ItemCount) * costs.CardboardPerSheet

	// Labor.
	if s.Pricing.Labor.Enabled {
		bd.LaborHours = hours(eb)
		bd.LaborCost = bd.LaborHours * s.Pricing.Labor.RatePerHour
	}

	bd.AddersCost = adders(eb, s, bd.PlywoodSheets)

	bd.TotalCost = bd.MaterialsCost + bd.LaborCost + bd.AddersCost
	markup := s.Pricing.MarkupPctByProfile[eb.Profile]
	bd.SellPrice = bd.TotalCost * (1 + markup/100)
	return bd
}

// adders computes the regulatory and consumable surcharges for one box.
func adders(eb entity.EngineeredBox, s *entity.Settings, plywoodSheets float64) float64 {
	total := 0.0
	volIn3 := eb.InternalVolumeIn3()

	if fum := s.Adders.Fumigation; fum.Enabled {
		switch fum.Mode {
		case entity.AdderModePerM3:
			total += fum.Rate * In3ToM3(volIn3)
		default: // FIXED and PER_BOX are both flat per box
			total += fum.Rate
		}
		total += fum.MarkingIppcRatePerBox
	}

	if fas := s.Adders.Fasteners; fas.Enabled {
		switch fas.Mode {
		case entity.AdderModePerSheet:
			// The catalog carries no dedicated per-sheet key; the small
			// rate doubles as the per-sheet rate in this mode.
			total += fas.RateBySize.Small * plywoodSheets
		default: // FIXED_PER_BOX: flat rate by volume class
			switch {
			case volIn3 <= fas.BoxVolumeThresholdsIn3.SmallMax:
				total += fas.RateBySize.Small
			case volIn3 <= fas.BoxVolumeThresholdsIn3.MediumMax:
				total += fas.RateBySize.Medium
			default:
				total += fas.RateBySize.Large
			}
		}
	}
	return total
}
