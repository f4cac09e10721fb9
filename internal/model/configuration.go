package model

import (
	"encoding/json"
	"time"
)

// Configuration is the single governed rule record for one (domain, scope) tuple.
// The payload is an opaque JSON document whose shape is owned by the domain packages.
type Configuration struct {
	ID           uint            `json:"id" gorm:"primarykey"`
	Domain       string          `json:"domain" gorm:"type:varchar(20);not null;uniqueIndex:idx_config_scope"`
	OrgID        uint            `json:"org_id" gorm:"not null;uniqueIndex:idx_config_scope"`
	BranchID     *uint           `json:"branch_id" gorm:"uniqueIndex:idx_config_scope"`
	SecondaryKey string          `json:"secondary_key" gorm:"type:varchar(64);not null;default:'';uniqueIndex:idx_config_scope"`
	Payload      json.RawMessage `json:"payload" gorm:"type:jsonb;not null"`
	Locked       bool            `json:"locked" gorm:"default:false"`
	Version      string          `json:"version" gorm:"type:varchar(16);not null;default:'1.0'"`

	// Audit fields written only by the unlock transition.
	LastUnlockReason string `json:"last_unlock_reason,omitempty" gorm:"type:text"`
	UnlockedBy       string `json:"unlocked_by,omitempty" gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
