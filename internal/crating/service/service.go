package service

import (
	"github.com/frederickespin/osi-plus-sub000/internal/config"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Services is the crating service collection.
type Services struct {
	Draft    *DraftService
	Settings *SettingsService
	Plan     *PlanService
	Export   *ExportService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			// Export falls back to direct download without MinIO.
			minioClient = nil
		}
	}

	settingsSvc := NewSettingsService(repos.Settings, rdb)
	draftSvc := NewDraftService(repos.Draft)
	planSvc := NewPlanService(repos.Draft, settingsSvc)
	draftSvc.onDeleted = planSvc.ForgetDraft
	return &Services{
		Draft:    draftSvc,
		Settings: settingsSvc,
		Plan:     planSvc,
		Export:   NewExportService(repos.Draft, minioClient, cfg.MinIO.Bucket),
	}
}
