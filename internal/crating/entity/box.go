package entity

// BoxKind distinguishes single-item boxes from consolidated ones.
type BoxKind string

const (
	BoxSingle       BoxKind = "SINGLE"
	BoxConsolidated BoxKind = "CONSOLIDATED"
)

// BoxItemRef is one physical unit placed in a box. ItemID and Seq identify
// the originating item row and the unit index within its qty expansion, so
// provenance survives consolidation.
type BoxItemRef struct {
	ItemID    string  `json:"itemId"`
	Seq       int     `json:"seq"`
	Name      string  `json:"name"`
	FaceACm   float64 `json:"faceACm"`
	FaceBCm   float64 `json:"faceBCm"`
	DepthCm   float64 `json:"depthCm"`
	WeightKg  float64 `json:"weightKg"`
	Fragility int     `json:"fragility"`
}

// Box is one shipping container candidate produced by the nesting engine.
// Members stack along the depth axis: FaceACm/FaceBCm are the member maxima
// after rotation normalization and DepthCm is the sum of member depths.
// The ID is derived from the ordered member refs, so it is stable across
// re-runs that do not change box composition.
type Box struct {
	ID            string       `json:"id"`
	Kind          BoxKind      `json:"kind"`
	Items         []BoxItemRef `json:"items"`
	ItemCount     int          `json:"itemCount"`
	FaceACm       float64      `json:"faceACm"`
	FaceBCm       float64      `json:"faceBCm"`
	DepthCm       float64      `json:"depthCm"`
	TotalWeightKg float64      `json:"totalWeightKg"`
	MaxFragility  int          `json:"maxFragility"`
}

// LongestSideCm returns the largest of the three outer face dimensions.
func (b Box) LongestSideCm() float64 {
	longest := b.FaceACm
	if b.FaceBCm > longest {
		longest = b.FaceBCm
	}
	if b.DepthCm > longest {
		longest = b.DepthCm
	}
	return longest
}

// NestingResult is the output of a nesting run: the produced boxes plus the
// issues for item rows that were excluded as invalid.
type NestingResult struct {
	Boxes  []Box   `json:"boxes"`
	Issues []Issue `json:"issues,omitempty"`
}

// UnitCount returns the total number of physical units across all boxes.
func (r NestingResult) UnitCount() int {
	n := 0
	for _, b := range r.Boxes {
		n += b.ItemCount
	}
	return n
}
