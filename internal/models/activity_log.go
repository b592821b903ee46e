package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit entry. Rows are never updated or
// deleted.
type ActivityLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GuardianID uuid.UUID `gorm:"type:uuid;index" json:"guardianId"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
}
