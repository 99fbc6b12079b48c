package entity

import "fmt"

// Item is one line of customer cargo to be crated. A row with Qty > 1
// represents that many identical physical units sharing one descriptor.
// Items are immutable once added to a draft.
type Item struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Qty           int     `json:"qty"`
	LengthCm      float64 `json:"lengthCm"`
	WidthCm       float64 `json:"widthCm"`
	HeightCm      float64 `json:"heightCm"`
	WeightKg      float64 `json:"weightKg"`
	Fragility     int     `json:"fragility"` // 1..5, 5 = most fragile
	AllowRotation bool    `json:"allowRotation"`
	Stackable     bool    `json:"stackable"`
	Note          string  `json:"note,omitempty"`
}

// Validate checks the physical constraints on an item. The nesting engine
// excludes invalid items from the run instead of failing it.
func (it Item) Validate() error {
	if it.Qty < 1 {
		return fmt.Errorf("qty must be >= 1, got %d", it.Qty)
	}
	if it.LengthCm <= 0 || it.WidthCm <= 0 || it.HeightCm <= 0 {
		return fmt.Errorf("dimensions must be positive, got %gx%gx%g cm",
			it.LengthCm, it.WidthCm, it.HeightCm)
	}
	if it.WeightKg < 0 {
		return fmt.Errorf("weight must be >= 0, got %g kg", it.WeightKg)
	}
	if it.Fragility < 1 || it.Fragility > 5 {
		return fmt.Errorf("fragility must be in [1,5], got %d", it.Fragility)
	}
	return nil
}
