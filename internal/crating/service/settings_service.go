package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	activeSettingsCacheKey = "crating:settings:active"
	activeSettingsCacheTTL = 5 * time.Minute
)

// SettingsService manages versioned settings snapshots. The active snapshot
// is cached in Redis and the cache is dropped on every activation, so all
// callers converge on the new version immediately.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	rdb          *redis.Client
}

func NewSettingsService(settingsRepo *repository.SettingsRepository, rdb *redis.Client) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, rdb: rdb}
}

// Active returns the currently active settings snapshot.
func (s *SettingsService) Active(ctx context.Context) (*entity.Settings, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, activeSettingsCacheKey).Bytes(); err == nil {
			var cached entity.Settings
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	version, err := s.settingsRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("no active settings version: %w", err)
	}
	snapshot := version.Snapshot()

	if s.rdb != nil {
		if raw, err := json.Marshal(snapshot); err == nil {
			s.rdb.Set(ctx, activeSettingsCacheKey, raw, activeSettingsCacheTTL)
		}
	}
	return snapshot, nil
}

// CreateVersion validates and stores a new settings snapshot. The first
// version ever created is activated automatically; later ones stay inactive
// until explicitly activated.
func (s *SettingsService) CreateVersion(ctx context.Context, payload entity.Settings, createdBy string) (*entity.SettingsVersion, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	version := &entity.SettingsVersion{
		ID:        uuid.New().String(),
		Payload:   payload,
		UpdatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	if _, err := s.settingsRepo.FindActive(ctx); err != nil {
		version.Active = true
	}
	if err := s.settingsRepo.Create(ctx, version); err != nil {
		return nil, fmt.Errorf("create settings version: %w", err)
	}
	if version.Active {
		s.dropCache(ctx)
	}
	return version, nil
}

// Activate swaps the active version atomically and drops the cache.
func (s *SettingsService) Activate(ctx context.Context, id string) error {
	if err := s.settingsRepo.Activate(ctx, id); err != nil {
		return err
	}
	s.dropCache(ctx)
	return nil
}

func (s *SettingsService) Get(ctx context.Context, id string) (*entity.SettingsVersion, error) {
	return s.settingsRepo.FindByID(ctx, id)
}

func (s *SettingsService) List(ctx context.Context, page, size int) ([]entity.SettingsVersion, int64, error) {
	return s.settingsRepo.List(ctx, page, size)
}

func (s *SettingsService) dropCache(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.Del(ctx, activeSettingsCacheKey)
	}
}
