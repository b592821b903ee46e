package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Payment is one monthly fee obligation. A guardian owns at most one
// record per (month, year) pair; the composite unique index makes the
// reconciliation lookup unambiguous.
type Payment struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	GuardianID    uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:idx_guardian_period" json:"guardianId"`
	Month         string         `gorm:"uniqueIndex:idx_guardian_period" json:"month"`
	Year          int            `gorm:"uniqueIndex:idx_guardian_period" json:"year"`
	Amount        int            `json:"amount"`
	Paid          bool           `gorm:"index" json:"paid"`
	PaymentDate   *time.Time     `json:"paymentDate"`
	ReceiptURL    *string        `json:"receiptUrl"`
	PaymentMethod *string        `json:"paymentMethod"`
	ReceiptMeta   datatypes.JSON `json:"receiptMeta,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}
