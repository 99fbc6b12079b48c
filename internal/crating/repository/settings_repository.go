package repository

import (
	"context"
	"errors"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"gorm.io/gorm"
)

// SettingsRepository persists immutable settings versions. Exactly one
// version is active; Activate swaps the flag in a single transaction.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Create(ctx context.Context, v *entity.SettingsVersion) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *SettingsRepository) FindByID(ctx context.Context, id string) (*entity.SettingsVersion, error) {
	var v entity.SettingsVersion
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *SettingsRepository) FindActive(ctx context.Context) (*entity.SettingsVersion, error) {
	var v entity.SettingsVersion
	err := r.db.WithContext(ctx).Where("active = ?", true).
		Order("created_at DESC").First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Activate makes the given version the single active one.
func (r *SettingsRepository) Activate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v entity.SettingsVersion
		if err := tx.Where("id = ?", id).First(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&entity.SettingsVersion{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&entity.SettingsVersion{}).
			Where("id = ?", id).
			Update("active", true).Error
	})
}

func (r *SettingsRepository) List(ctx context.Context, page, size int) ([]entity.SettingsVersion, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.SettingsVersion{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var versions []entity.SettingsVersion
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&versions).Error
	return versions, total, err
}
