package models

// Portfolio aggregates one user's investments. Totals are derived on every
// read and never stored, so they cannot go stale.
type Portfolio struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`

	// Investments are strongly owned: deleting the portfolio deletes them.
	Investments []Investment `gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE" json:"investments,omitempty"`

	// Derived totals, populated by the portfolio service at read time.
	TotalInvested     int64 `gorm:"-" json:"total_invested"`
	TotalCurrentValue int64 `gorm:"-" json:"total_current_value"`
	TotalProfitOrLoss int64 `gorm:"-" json:"total_profit_or_loss"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}
