package engine

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
)

// unit is one physical piece after qty expansion, with its footprint
// normalized for the nesting pass.
type unit struct {
	ref       entity.BoxItemRef
	faceA     float64 // larger footprint face after normalization
	faceB     float64
	depth     float64
	stackable bool
}

// openBox is a box under construction during the greedy pass.
type openBox struct {
	members  []unit
	depthSum float64
	faceA    float64 // footprint of the first member; compatibility anchor
	faceB    float64
}

// Nest groups the draft's items into shipment boxes.
//
// Each item row is expanded into qty physical units. Units are consolidated
// greedy-first-fit in stable input order: each unit is offered to the open
// boxes from most recently opened to oldest and joins the first compatible
// one; a new box opens when none fits. Two units are compatible when their
// normalized footprints match within nesting.similarityTolerancePct; units
// allowed to rotate are normalized large-face-first on expansion, which is
// how rotated twins end up with matching footprints.
//
// Consolidation geometry is stacking along the depth axis: a box's faces are
// the member maxima and its depth is the sum of member depths, which must
// stay within nesting.maxDepthForNestingCm. Non-stackable units never
// consolidate and always ship as SINGLE boxes.
//
// Invalid items are excluded and reported as INVALID_ITEM issues; they never
// abort the run. An empty item list yields an empty result.
func Nest(items []entity.Item, s *entity.Settings) (*entity.NestingResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	res := &entity.NestingResult{}
	units := make([]unit, 0, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			res.Issues = append(res.Issues, entity.Issue{
				Code:    entity.IssueInvalidItem,
				Ref:     it.ID,
				Message: err.Error(),
			})
			continue
		}
		units = append(units, expandItem(it, s)...)
	}
	if len(units) == 0 {
		res.Boxes = []entity.Box{}
		return res, nil
	}

	var open []openBox
	var closed []entity.Box

	for _, u := range units {
		// Units that cannot stack, or whose own depth already exceeds the
		// nesting ceiling, ship alone.
		if !u.stackable || u.depth > s.Nesting.MaxDepthForNestingCm {
			closed = append(closed, sealBox([]unit{u}))
			continue
		}

		placed := false
		for i := len(open) - 1; i >= 0; i-- {
			if fits(&open[i], u, s) {
				open[i].members = append(open[i].members, u)
				open[i].depthSum += u.depth
				placed = true
				break
			}
		}
		if !placed {
			open = append(open, openBox{
				members:  []unit{u},
				depthSum: u.depth,
				faceA:    u.faceA,
				faceB:    u.faceB,
			})
		}
	}

	for _, ob := range open {
		closed = append(closed, sealBox(ob.members))
	}
	res.Boxes = closed
	return res, nil
}

// expandItem turns an item row into its qty physical units with normalized
// footprints. When rotation is allowed the two horizontal faces are ordered
// large-first so rotated twins produce the same footprint key.
func expandItem(it entity.Item, s *entity.Settings) []unit {
	rotatable := it.AllowRotation || s.Nesting.AllowRotationDefault
	faceA, faceB := it.LengthCm, it.WidthCm
	if rotatable && faceB > faceA {
		faceA, faceB = faceB, faceA
	}
	units := make([]unit, it.Qty)
	for seq := 0; seq < it.Qty; seq++ {
		units[seq] = unit{
			ref: entity.BoxItemRef{
				ItemID:    it.ID,
				Seq:       seq,
				Name:      it.Name,
				FaceACm:   faceA,
				FaceBCm:   faceB,
				DepthCm:   it.HeightCm,
				WeightKg:  it.WeightKg,
				Fragility: it.Fragility,
			},
			faceA:     faceA,
			faceB:     faceB,
			depth:     it.HeightCm,
			stackable: it.Stackable,
		}
	}
	return units
}

// fits reports whether unit u can join the open box: footprint match within
// tolerance, depth budget, and per-box capacity.
func fits(ob *openBox, u unit, s *entity.Settings) bool {
	if len(ob.members) >= s.Nesting.MaxItemsPerBox {
		return false
	}
	if ob.depthSum+u.depth > s.Nesting.MaxDepthForNestingCm {
		return false
	}
	// Rotatable units were normalized large-face-first on expansion, so a
	// rotated twin already presents the same footprint; the direct
	// comparison covers both orientations.
	tol := s.Nesting.SimilarityTolerancePct / 100.0
	return within(ob.faceA, u.faceA, tol) && within(ob.faceB, u.faceB, tol)
}

func within(a, b, tol float64) bool {
	larger := math.Max(a, b)
	if larger == 0 {
		return true
	}
	return math.Abs(a-b) <= tol*larger
}

// sealBox finalizes a box from its members: footprint maxima, summed depth
// and weight, max fragility, and a content-derived id.
func sealBox(members []unit) entity.Box {
	b := entity.Box{
		Kind:      entity.BoxConsolidated,
		ItemCount: len(members),
	}
	if len(members) == 1 {
		b.Kind = entity.BoxSingle
	}
	h := sha1.New()
	for _, m := range members {
		b.Items = append(b.Items, m.ref)
		if m.faceA > b.FaceACm {
			b.FaceACm = m.faceA
		}
		if m.faceB > b.FaceBCm {
			b.FaceBCm = m.faceB
		}
		b.DepthCm += m.depth
		b.TotalWeightKg += m.ref.WeightKg
		if m.ref.Fragility > b.MaxFragility {
			b.MaxFragility = m.ref.Fragility
		}
		fmt.Fprintf(h, "%s#%d|", m.ref.ItemID, m.ref.Seq)
	}
	b.ID = "box-" + hex.EncodeToString(h.Sum(nil))[:12]
	return b
}
