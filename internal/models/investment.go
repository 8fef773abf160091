package models

import (
	"math"
	"time"
)

// InvestmentType is the discriminator tag for the investment variants.
// The set is closed: adding a variant requires updating this type, the
// dispatch in the investment facade, and the validators together.
type InvestmentType string

const (
	InvestmentTypeCrypto  InvestmentType = "crypto"
	InvestmentTypeEtf     InvestmentType = "etf"
	InvestmentTypeStock   InvestmentType = "stock"
	InvestmentTypeSavings InvestmentType = "savings"
	InvestmentTypeOther   InvestmentType = "other"
)

// MarketPriced reports whether the variant's current value derives from an
// externally fetched unit price. The remaining variants are manually valued.
func (t InvestmentType) MarketPriced() bool {
	switch t {
	case InvestmentTypeCrypto, InvestmentTypeEtf, InvestmentTypeStock:
		return true
	default:
		return false
	}
}

// Valid reports whether t is one of the five known variant tags.
func (t InvestmentType) Valid() bool {
	switch t {
	case InvestmentTypeCrypto, InvestmentTypeEtf, InvestmentTypeStock,
		InvestmentTypeSavings, InvestmentTypeOther:
		return true
	default:
		return false
	}
}

// Investment represents one purchased asset entry belonging to a portfolio.
// All monetary fields are cents in the reference currency.
type Investment struct {
	Base
	PortfolioID  string         `gorm:"type:uuid;not null;index" json:"portfolio_id"`
	Type         InvestmentType `gorm:"not null;index" json:"type"`
	BuyPrice     int64          `gorm:"type:bigint;not null" json:"buy_price"`
	Units        float64        `gorm:"not null" json:"units"`
	PurchaseDate time.Time      `gorm:"not null" json:"purchase_date"`
	RiskLevel    int            `gorm:"not null" json:"risk_level"`

	// LastSyncedPrice is only meaningful for market-priced variants and stays
	// zero until the first successful price sync.
	LastSyncedPrice int64 `gorm:"type:bigint;not null;default:0" json:"last_synced_price"`
	CurrentValue    int64 `gorm:"type:bigint;not null;default:0" json:"current_value"`

	// Version guards concurrent read-modify-write cycles on a single record.
	// Conditional updates bump it; a lost race surfaces as VERSION_CONFLICT.
	Version int64 `gorm:"not null;default:0" json:"-"`

	// Market-priced variant fields
	Ticker string `json:"ticker,omitempty"`

	// Savings variant fields
	AccountName  string  `json:"account_name,omitempty"`
	InterestRate float64 `json:"interest_rate,omitempty"`

	// Other variant fields
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`

	// Relationships
	Portfolio Portfolio `gorm:"foreignKey:PortfolioID" json:"-"`
}

// AmountInvested returns buyPrice x units in cents.
func (i *Investment) AmountInvested() int64 {
	return int64(math.Round(float64(i.BuyPrice) * i.Units))
}
