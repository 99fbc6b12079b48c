package entity

// Lumber grades assigned by the engineering rules engine.
const (
	Lumber1x4 = "1x4"
	Lumber2x4 = "2x4"
)

// EngineeredBox extends a Box with the structural decisions derived from the
// engineering thresholds: lumber grade, skid, bracing, plywood thickness,
// final internal dimensions after protective padding, and the raw
// (unrounded) bill of materials left for the costing stage to round.
//
// If the profile override for the box was invalid, the structural fields are
// zero and Issues carries a blocking INVALID_PROFILE entry; other boxes in
// the same run still proceed.
type EngineeredBox struct {
	Box

	Profile Profile `json:"profile"`

	// Final internal dimensions in inches, after perimeter foam, cardboard
	// and (for consolidated boxes) between-item foam reservations.
	InternalLenIn   float64 `json:"internalLenIn"`
	InternalWidIn   float64 `json:"internalWidIn"`
	InternalDepthIn float64 `json:"internalDepthIn"`

	LumberType         string  `json:"lumberType"`
	Skid               bool    `json:"skid"`
	PlywoodThicknessIn float64 `json:"plywoodThicknessIn"`
	Ribs               bool    `json:"ribs"`
	XBracing           bool    `json:"xBracing"`

	// Raw BOM, fractional. Rounding policy belongs to costing.
	RawPlywoodSheets float64 `json:"rawPlywoodSheets"`
	RawLumberSticks  float64 `json:"rawLumberSticks"`

	Issues []Issue `json:"issues,omitempty"`
}

// InternalVolumeIn3 returns the final internal volume in cubic inches.
func (e EngineeredBox) InternalVolumeIn3() float64 {
	return e.InternalLenIn * e.InternalWidIn * e.InternalDepthIn
}

// LongestInternalIn returns the largest final internal dimension.
func (e EngineeredBox) LongestInternalIn() float64 {
	longest := e.InternalLenIn
	if e.InternalWidIn > longest {
		longest = e.InternalWidIn
	}
	if e.InternalDepthIn > longest {
		longest = e.InternalDepthIn
	}
	return longest
}
