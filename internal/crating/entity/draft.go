package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PlanState tracks how far the pipeline has advanced on a draft. Any
// upstream mutation moves the draft back to an earlier state and clears the
// now-stale downstream outputs.
type PlanState string

const (
	PlanStateEmpty      PlanState = "EMPTY"
	PlanStateNested     PlanState = "NESTED"
	PlanStateEngineered PlanState = "ENGINEERED"
	PlanStateCosted     PlanState = "COSTED"
)

// Plan caches the pipeline outputs for a draft. Engineering is present only
// if computed from the current nesting; costing only if computed from the
// current engineering. The state field makes those invariants explicit.
type Plan struct {
	SettingsVersionID string             `json:"settingsVersionId"`
	State             PlanState          `json:"state"`
	Nesting           *NestingResult     `json:"nesting,omitempty"`
	Engineering       []EngineeredBox    `json:"engineering,omitempty"`
	Costing           *CostingResult     `json:"costing,omitempty"`
	ProfileOverrides  map[string]Profile `json:"profileOverrides,omitempty"`
	Warnings          []Issue            `json:"warnings,omitempty"`
}

func (p Plan) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Plan) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("plan column: unexpected type %T", value)
	}
	return json.Unmarshal(bytes, p)
}

// ItemList is the draft's item list, persisted as a JSONB column.
type ItemList []Item

func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]Item{})
	}
	return json.Marshal(l)
}

func (l *ItemList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("items column: unexpected type %T", value)
	}
	return json.Unmarshal(bytes, l)
}

// Draft is the aggregate root: a customer's item list plus the cached
// pipeline plan. The pipeline never mutates a draft directly; the service
// layer applies stage outputs through the methods below and persists the
// result.
type Draft struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	CustomerID string    `json:"customer_id" gorm:"size:64;not null;index"`
	QuoteRef   string    `json:"quote_ref" gorm:"size:50"`
	Items      ItemList  `json:"items" gorm:"type:jsonb"`
	Plan       *Plan     `json:"plan,omitempty" gorm:"type:jsonb"`
	CreatedBy  string    `json:"created_by" gorm:"size:64"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Draft) TableName() string {
	return "crating_drafts"
}

// ensurePlan lazily creates the plan, preserving any existing overrides.
func (d *Draft) ensurePlan() *Plan {
	if d.Plan == nil {
		d.Plan = &Plan{State: PlanStateEmpty}
	}
	return d.Plan
}

// AddItem appends an item and invalidates every cached stage output.
// Profile overrides are kept; the next nesting run reconciles them against
// the new box composition.
func (d *Draft) AddItem(it Item) {
	d.Items = append(d.Items, it)
	d.invalidateAll()
}

// RemoveItem deletes the item row with the given id and invalidates every
// cached stage output. Returns false if no such item exists.
func (d *Draft) RemoveItem(itemID string) bool {
	for i, it := range d.Items {
		if it.ID == itemID {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			d.invalidateAll()
			return true
		}
	}
	return false
}

func (d *Draft) invalidateAll() {
	if d.Plan == nil {
		return
	}
	d.Plan.Nesting = nil
	d.Plan.Engineering = nil
	d.Plan.Costing = nil
	d.Plan.State = PlanStateEmpty
	d.Plan.Warnings = nil
}

// ApplyNesting installs a fresh nesting result. Overrides keyed by box ids
// that no longer exist are dropped with an OVERRIDE_DROPPED warning; box ids
// are content-derived, so an unchanged composition keeps its overrides.
func (d *Draft) ApplyNesting(res *NestingResult, settingsVersionID string) {
	p := d.ensurePlan()
	p.SettingsVersionID = settingsVersionID
	p.Nesting = res
	p.Engineering = nil
	p.Costing = nil
	p.State = PlanStateNested
	p.Warnings = nil

	if len(p.ProfileOverrides) == 0 {
		return
	}
	known := make(map[string]bool, len(res.Boxes))
	for _, b := range res.Boxes {
		known[b.ID] = true
	}
	for id := range p.ProfileOverrides {
		if !known[id] {
			delete(p.ProfileOverrides, id)
			p.Warnings = append(p.Warnings, Issue{
				Code:    IssueOverrideDropped,
				Ref:     id,
				Message: "box composition changed; profile override discarded",
			})
		}
	}
}

// SetProfileOverride records a per-box profile override and invalidates the
// engineering and costing outputs.
func (d *Draft) SetProfileOverride(boxID string, profile Profile) error {
	if d.Plan == nil || d.Plan.Nesting == nil {
		return fmt.Errorf("%w: nesting has not been run", ErrPreconditionNotMet)
	}
	found := false
	for _, b := range d.Plan.Nesting.Boxes {
		if b.ID == boxID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: box %s", ErrNotFound, boxID)
	}
	if d.Plan.ProfileOverrides == nil {
		d.Plan.ProfileOverrides = make(map[string]Profile)
	}
	d.Plan.ProfileOverrides[boxID] = profile
	d.Plan.Engineering = nil
	d.Plan.Costing = nil
	d.Plan.State = PlanStateNested
	return nil
}

// ClearProfileOverride removes a per-box override, invalidating downstream
// outputs when one was actually set.
func (d *Draft) ClearProfileOverride(boxID string) {
	if d.Plan == nil {
		return
	}
	if _, ok := d.Plan.ProfileOverrides[boxID]; !ok {
		return
	}
	delete(d.Plan.ProfileOverrides, boxID)
	d.Plan.Engineering = nil
	d.Plan.Costing = nil
	d.Plan.State = PlanStateNested
}

// ApplyEngineering installs the engineering output. Requires a current
// nesting result.
func (d *Draft) ApplyEngineering(boxes []EngineeredBox) error {
	if d.Plan == nil || d.Plan.Nesting == nil {
		return fmt.Errorf("%w: nesting has not been run", ErrPreconditionNotMet)
	}
	d.Plan.Engineering = boxes
	d.Plan.Costing = nil
	d.Plan.State = PlanStateEngineered
	return nil
}

// ApplyCosting installs the costing output. Requires a current engineering
// result.
func (d *Draft) ApplyCosting(res *CostingResult) error {
	if d.Plan == nil || d.Plan.Engineering == nil {
		return fmt.Errorf("%w: engineering has not been run", ErrPreconditionNotMet)
	}
	d.Plan.Costing = res
	d.Plan.State = PlanStateCosted
	return nil
}
