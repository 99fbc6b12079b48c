package entity

// CostBreakdown is the per-box cost detail produced by the costing engine.
// Quantities are post-waste and rounded up to the pricing step; monetary
// values are unrounded (display rounding happens at the report boundary).
type CostBreakdown struct {
	PlywoodSheets float64 `json:"plywoodSheets"`
	LumberSticks  float64 `json:"lumberSticks"`
	FoamSheets    float64 `json:"foamSheets"`

	MaterialsCost float64 `json:"materialsCost"`
	LaborHours    float64 `json:"laborHours"`
	LaborCost     float64 `json:"laborCost"`
	AddersCost    float64 `json:"addersCost"`
	TotalCost     float64 `json:"totalCost"`
	SellPrice     float64 `json:"sellPrice"`

	Warnings []Issue `json:"warnings,omitempty"`
}

// CostedBox extends an EngineeredBox with its cost breakdown.
type CostedBox struct {
	EngineeredBox
	Cost CostBreakdown `json:"cost"`
}

// CostTotals aggregates the breakdown categories across all boxes.
type CostTotals struct {
	MaterialsCost float64 `json:"materialsCost"`
	LaborCost     float64 `json:"laborCost"`
	AddersCost    float64 `json:"addersCost"`
	TotalCost     float64 `json:"totalCost"`
	SellPrice     float64 `json:"sellPrice"`
}

// CostingResult is the output of a costing run.
type CostingResult struct {
	Boxes  []CostedBox `json:"boxes"`
	Totals CostTotals  `json:"totals"`
}

// HasOpenWarnings reports whether any box carries a blocking warning.
// Quote finalization must be blocked while this is true.
func (r CostingResult) HasOpenWarnings() bool {
	for _, b := range r.Boxes {
		if HasBlocking(b.Cost.Warnings) || HasBlocking(b.Issues) {
			return true
		}
	}
	return false
}
