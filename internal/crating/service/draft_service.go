package service

import (
	"context"
	"fmt"
	"time"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/repository"
	"github.com/google/uuid"
)

// DraftService manages packing drafts and their item lists.
type DraftService struct {
	draftRepo *repository.DraftRepository
	onDeleted func(draftID string)
}

func NewDraftService(draftRepo *repository.DraftRepository) *DraftService {
	return &DraftService{draftRepo: draftRepo}
}

type CreateDraftInput struct {
	CustomerID string `json:"customer_id" binding:"required"`
	QuoteRef   string `json:"quote_ref"`
}

func (s *DraftService) Create(ctx context.Context, input *CreateDraftInput, createdBy string) (*entity.Draft, error) {
	draft := &entity.Draft{
		ID:         uuid.New().String(),
		CustomerID: input.CustomerID,
		QuoteRef:   input.QuoteRef,
		Items:      entity.ItemList{},
		CreatedBy:  createdBy,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	return draft, nil
}

func (s *DraftService) Get(ctx context.Context, id string) (*entity.Draft, error) {
	return s.draftRepo.FindByID(ctx, id)
}

func (s *DraftService) Delete(ctx context.Context, id string) error {
	if err := s.draftRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.onDeleted != nil {
		s.onDeleted(id)
	}
	return nil
}

func (s *DraftService) List(ctx context.Context, customerID string, page, size int) ([]entity.Draft, int64, error) {
	return s.draftRepo.List(ctx, customerID, page, size)
}

// AddItem validates and appends an item row, invalidating any cached plan.
func (s *DraftService) AddItem(ctx context.Context, draftID string, item entity.Item) (*entity.Draft, error) {
	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()[:8]
	}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("invalid item: %w", err)
	}
	draft.AddItem(item)
	draft.UpdatedAt = time.Now()
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// RemoveItem deletes an item row, invalidating any cached plan.
func (s *DraftService) RemoveItem(ctx context.Context, draftID, itemID string) (*entity.Draft, error) {
	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !draft.RemoveItem(itemID) {
		return nil, fmt.Errorf("%w: item %s", entity.ErrNotFound, itemID)
	}
	draft.UpdatedAt = time.Now()
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}
