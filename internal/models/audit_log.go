package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one booking, account or catalog event. Rows are
// written by the audit sink and never updated.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID *uint  `gorm:"index" json:"user_id"`
	Action string `gorm:"size:50;not null;index" json:"action"`

	Entity   string         `gorm:"size:50;index:idx_audit_entity" json:"entity"`
	EntityID *uint          `gorm:"index:idx_audit_entity" json:"entity_id"`
	Metadata datatypes.JSON `json:"metadata"`
}
