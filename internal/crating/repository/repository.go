package repository

import "gorm.io/gorm"

// Repositories is the crating data-access collection.
type Repositories struct {
	Draft    *DraftRepository
	Settings *SettingsRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Draft:    NewDraftRepository(db),
		Settings: NewSettingsRepository(db),
	}
}
