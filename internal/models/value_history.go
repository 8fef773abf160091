package models

import (
	"time"

	"trackfolio/internal/uuid"

	"gorm.io/gorm"
)

// InvestmentValueHistory is an append-only valuation log entry, written on
// every successful price or value sync. Immutable time-series data, so no
// Base embed and no soft deletes. Rows are hard-deleted with their investment.
type InvestmentValueHistory struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	InvestmentID string     `gorm:"type:uuid;not null;index" json:"investment_id"`
	Price        int64      `gorm:"type:bigint;not null" json:"price"`
	Value        int64      `gorm:"type:bigint;not null" json:"value"`
	RecordedAt   time.Time  `gorm:"not null" json:"recorded_at"`
	Investment   Investment `gorm:"foreignKey:InvestmentID" json:"-"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (h *InvestmentValueHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New()
	}
	return nil
}
