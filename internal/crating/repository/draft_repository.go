package repository

import (
	"context"
	"errors"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"gorm.io/gorm"
)

// DraftRepository persists draft aggregates. The item list and the plan are
// stored as JSONB columns; the aggregate is loaded and saved whole.
type DraftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Create(ctx context.Context, draft *entity.Draft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *DraftRepository) FindByID(ctx context.Context, id string) (*entity.Draft, error) {
	var draft entity.Draft
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

func (r *DraftRepository) Save(ctx context.Context, draft *entity.Draft) error {
	return r.db.WithContext(ctx).Save(draft).Error
}

func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Draft{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// List returns a page of drafts, newest first, optionally filtered by
// customer.
func (r *DraftRepository) List(ctx context.Context, customerID string, page, size int) ([]entity.Draft, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Draft{})
	if customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var drafts []entity.Draft
	err := q.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&drafts).Error
	return drafts, total, err
}
