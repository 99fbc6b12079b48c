package entity

import (
	"errors"
	"fmt"
)

// Fatal pipeline errors. Per-record problems are attached to the record as
// Issues instead of aborting the run.
var (
	// ErrPreconditionNotMet is returned when a stage is invoked before its
	// upstream stage has produced output.
	ErrPreconditionNotMet = errors.New("pipeline precondition not met")

	// ErrInvalidSettings is returned when the settings snapshot is
	// structurally broken. Checked once before any stage runs.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrStaleSettings is returned when a downstream stage is invoked on a
	// plan that was computed under a settings version that is no longer
	// active. Nesting must be re-run first.
	ErrStaleSettings = errors.New("plan computed under a stale settings version")

	// ErrInvalidProfile rejects a profile value outside the defined set.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrNotFound is the generic lookup failure mapped by repositories.
	ErrNotFound = errors.New("record not found")
)

// Issue codes attached to records.
const (
	IssueInvalidItem           = "INVALID_ITEM"
	IssueInvalidProfile        = "INVALID_PROFILE"
	IssueIncompleteCostCatalog = "INCOMPLETE_COST_CATALOG"
	IssueOverrideDropped       = "OVERRIDE_DROPPED"
)

// Issue is a non-fatal problem attached to the item or box it concerns.
// Issues with Blocking set must be resolved before a quote can be finalized.
type Issue struct {
	Code     string `json:"code"`
	Ref      string `json:"ref,omitempty"` // item id or box id
	Message  string `json:"message"`
	Blocking bool   `json:"blocking"`
}

func (i Issue) String() string {
	if i.Ref == "" {
		return fmt.Sprintf("%s: %s", i.Code, i.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", i.Code, i.Ref, i.Message)
}

// HasBlocking reports whether any issue in the slice blocks finalization.
func HasBlocking(issues []Issue) bool {
	for _, i := range issues {
		if i.Blocking {
			return true
		}
	}
	return false
}
