package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
)

// Engineer derives the structural bill of decisions for each nested box:
// profile, final internal dimensions after padding, lumber grade, skid,
// bracing, plywood thickness and the raw (unrounded) BOM.
//
// Engineering thresholds are strict greater-than comparisons: a box sitting
// exactly on a threshold does not trigger the heavier construction.
//
// An unknown profile override fails only the box it targets: the box is
// returned with a blocking INVALID_PROFILE issue and zeroed structural
// fields while the rest of the batch proceeds.
func Engineer(boxes []entity.Box, s *entity.Settings, overrides map[string]entity.Profile) ([]entity.EngineeredBox, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(boxes) == 0 {
		return nil, fmt.Errorf("%w: nesting produced no boxes", entity.ErrPreconditionNotMet)
	}

	out := make([]entity.EngineeredBox, 0, len(boxes))
	for _, box := range boxes {
		profile := entity.ProfileStandardLocal
		if ov, ok := overrides[box.ID]; ok {
			if !ov.Valid() {
				out = append(out, entity.EngineeredBox{
					Box:     box,
					Profile: ov,
					Issues: []entity.Issue{{
						Code:     entity.IssueInvalidProfile,
						Ref:      box.ID,
						Message:  fmt.Sprintf("unknown profile override %q", ov),
						Blocking: true,
					}},
				})
				continue
			}
			profile = ov
		}
		out = append(out, engineerBox(box, s, profile))
	}
	return out, nil
}

func engineerBox(box entity.Box, s *entity.Settings, profile entity.Profile) entity.EngineeredBox {
	prot := s.Protection.Row(box.MaxFragility)

	// Padding per side: perimeter foam (doubled when the fragility row says
	// so) plus the cardboard wrap, applied symmetrically to every face.
	perimeter := prot.PerimeterFoamIn
	if prot.DoublePerimeter {
		perimeter *= 2
	}
	pad := perimeter + prot.CardboardIn

	lenIn := CmToIn(box.FaceACm) + 2*pad
	widIn := CmToIn(box.FaceBCm) + 2*pad
	depIn := CmToIn(box.DepthCm) + 2*pad
	if box.Kind == entity.BoxConsolidated && box.ItemCount > 1 {
		// One foam separator per gap between stacked members.
		depIn += prot.BetweenItemsFoamIn * float64(box.ItemCount-1)
	}

	th := s.Engineering.Thresholds
	weightLb := KgToLb(box.TotalWeightKg)

	dims := []float64{lenIn, widIn, depIn}
	sort.Sort(sort.Reverse(sort.Float64Slice(dims)))
	longest := dims[0]
	aspect := 0.0
	if dims[1] > 0 {
		aspect = dims[0] / dims[1]
	}

	eb := entity.EngineeredBox{
		Box:             box,
		Profile:         profile,
		InternalLenIn:   lenIn,
		InternalWidIn:   widIn,
		InternalDepthIn: depIn,
		LumberType:      entity.Lumber1x4,
		Skid:            weightLb > th.SkidIfWeightLbAbove || longest > th.SkidIfLongestSideInAbove,
		Ribs:            longest > th.AddRibsIfLongestSideInAbove,
		XBracing:        aspect > th.AddXBracingIfAspectRatioAbove,
	}
	if weightLb > th.Use2x4IfWeightLbAbove || longest > th.Use2x4IfLongestSideInAbove {
		eb.LumberType = entity.Lumber2x4
	}
	eb.PlywoodThicknessIn = s.Engineering.PlywoodThicknessByProfileIn[profile]

	eb.RawPlywoodSheets = rawPlywoodSheets(eb, s)
	eb.RawLumberSticks = rawLumberSticks(eb, dims, s)
	return eb
}

// rawPlywoodSheets computes the six-face panel surface over the internal
// dimensions grown by the stock thickness, divided by the sheet area.
func rawPlywoodSheets(eb entity.EngineeredBox, s *entity.Settings) float64 {
	l := eb.InternalLenIn + 2*eb.PlywoodThicknessIn
	w := eb.InternalWidIn + 2*eb.PlywoodThicknessIn
	d := eb.InternalDepthIn + 2*eb.PlywoodThicknessIn
	area := 2 * (l*w + l*d + w*d)
	return area / (s.Plywood.SheetSizeIn.W * s.Plywood.SheetSizeIn.H)
}

// rawLumberSticks computes the framing length in standard sticks: the twelve
// edges, plus three skid runners, two ribs across the longest face and two
// X-brace diagonals over the two largest faces when those are fitted.
func rawLumberSticks(eb entity.EngineeredBox, dims []float64, s *entity.Settings) float64 {
	framing := 4 * (eb.InternalLenIn + eb.InternalWidIn + eb.InternalDepthIn)
	if eb.Skid {
		framing += 3 * dims[0]
	}
	if eb.Ribs {
		framing += 2 * dims[0]
	}
	if eb.XBracing {
		framing += 2 * math.Hypot(dims[0], dims[1])
	}
	return framing / s.Lumber.LengthsIn[0]
}
