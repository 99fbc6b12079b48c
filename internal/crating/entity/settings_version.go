package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

func (s Settings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Settings) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("settings column: unexpected type %T", value)
	}
	return json.Unmarshal(bytes, s)
}

// SettingsVersion is one immutable settings snapshot. Exactly one version is
// active at a time; activation is an atomic swap. A draft's engineering and
// costing outputs are only valid for the version they were computed against.
type SettingsVersion struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Payload   Settings  `json:"payload" gorm:"type:jsonb"`
	Active    bool      `json:"active" gorm:"index"`
	UpdatedBy string    `json:"updated_by" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
}

func (SettingsVersion) TableName() string {
	return "crating_settings_versions"
}

// Snapshot returns the payload with the version metadata filled in.
func (v *SettingsVersion) Snapshot() *Settings {
	s := v.Payload
	s.VersionID = v.ID
	s.UpdatedAt = v.CreatedAt
	s.UpdatedBy = v.UpdatedBy
	return &s
}
