package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/engine"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/repository"
)

// PlanService orchestrates the three pipeline stages over a draft. The
// engines are pure; this layer loads the draft and the active settings,
// applies the stage output through the draft state machine and persists the
// result. Recomputations for the same draft are serialized with a per-draft
// lock so a stage never reads a nesting result that is mid-replacement.
type PlanService struct {
	draftRepo   *repository.DraftRepository
	settingsSvc *SettingsService
	locks       sync.Map // draft id -> *sync.Mutex
}

func NewPlanService(draftRepo *repository.DraftRepository, settingsSvc *SettingsService) *PlanService {
	return &PlanService{draftRepo: draftRepo, settingsSvc: settingsSvc}
}

func (s *PlanService) lock(draftID string) func() {
	mu, _ := s.locks.LoadOrStore(draftID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// ForgetDraft drops the per-draft lock entry. Called when a draft is deleted
// so the lock table does not accumulate entries for drafts that no longer
// exist.
func (s *PlanService) ForgetDraft(draftID string) {
	s.locks.Delete(draftID)
}

// RunNesting recomputes the nesting stage against the active settings and
// clears every downstream output. Overrides for boxes whose composition
// survived the re-run are kept; the rest are dropped with a warning.
func (s *PlanService) RunNesting(ctx context.Context, draftID string) (*entity.Draft, error) {
	defer s.lock(draftID)()

	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsSvc.Active(ctx)
	if err != nil {
		return nil, err
	}
	res, err := engine.Nest(draft.Items, settings)
	if err != nil {
		return nil, err
	}
	draft.ApplyNesting(res, settings.VersionID)
	draft.UpdatedAt = time.Now()
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// RunEngineering runs the engineering stage on the current nesting output.
// It refuses to run when nesting is absent or was computed under a settings
// version that is no longer active.
func (s *PlanService) RunEngineering(ctx context.Context, draftID string) (*entity.Draft, error) {
	defer s.lock(draftID)()

	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Plan == nil || draft.Plan.Nesting == nil {
		return nil, fmt.Errorf("%w: nesting has not been run", entity.ErrPreconditionNotMet)
	}
	settings, err := s.settingsSvc.Active(ctx)
	if err != nil {
		return nil, err
	}
	if draft.Plan.SettingsVersionID != settings.VersionID {
		return nil, fmt.Errorf("%w: nested under %s, active is %s",
			entity.ErrStaleSettings, draft.Plan.SettingsVersionID, settings.VersionID)
	}
	var overrides map[string]entity.Profile
	if draft.Plan.ProfileOverrides != nil {
		overrides = draft.Plan.ProfileOverrides
	}
	boxes, err := engine.Engineer(draft.Plan.Nesting.Boxes, settings, overrides)
	if err != nil {
		return nil, err
	}
	if err := draft.ApplyEngineering(boxes); err != nil {
		return nil, err
	}
	draft.UpdatedAt = time.Now()
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// RunCosting runs the costing stage on the current engineering output.
func (s *PlanService) RunCosting(ctx context.Context, draftID string) (*entity.Draft, error) {
	defer s.lock(draftID)()

	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Plan == nil || draft.Plan.Engineering == nil {
		return nil, fmt.Errorf("%w: engineering has not been run", entity.ErrPreconditionNotMet)
	}
	settings, err := s.settingsSvc.Active(ctx)
	if err != nil {
		return nil, err
	}
	if draft.Plan.SettingsVersionID != settings.VersionID {
		return nil, fmt.Errorf("%w: nested under %s, active is %s",
			entity.ErrStaleSettings, draft.Plan.SettingsVersionID, settings.VersionID)
	}
	res, err := engine.Cost(draft.Plan.Engineering, settings)
	if err != nil {
		return nil, err
	}
	if err := draft.ApplyCosting(res); err != nil {
		return nil, err
	}
	draft.UpdatedAt = time.Now()
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// SetOverride records a per-box profile override. Unknown profile values are
// rejected here instead of surfacing later as a failed engineering run.
func (s *PlanService) SetOverride(ctx context.Context, draftID, boxID string, profile entity.Profile) (*entity.Draft, error) {
	defer s.lock(draftID)()

	if !profile.Valid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidProfile, profile)
	}
	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.SetProfileOverride(boxID, profile); err != nil {
		return nil, err
	}
	draft.UpdatedAt = time.Now()
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// ClearOverride removes a per-box profile override.
func (s *PlanService) ClearOverride(ctx context.Context, draftID, boxID string) (*entity.Draft, error) {
	defer s.lock(draftID)()

	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	draft.ClearProfileOverride(boxID)
	draft.UpdatedAt = time.Now()
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}
