package services

import (
	"context"
	"time"

	"trackfolio/internal/models"
	"trackfolio/internal/pagination"
)

// NewInvestmentInput carries the validated fields for creating an investment.
// Variant-specific fields are only consulted for the matching Type.
type NewInvestmentInput struct {
	Type         models.InvestmentType
	BuyPrice     int64 // cents
	Units        float64
	PurchaseDate time.Time
	RiskLevel    int

	// Market-priced variants (crypto, etf, stock)
	Ticker string

	// Savings
	AccountName  string
	InterestRate float64

	// Other
	Description string
	Category    string
}

// MarketInvestmentServicer is the valuation contract for market-priced
// variants (crypto, etf, stock). One instance exists per asset class, bound
// to its price source.
type MarketInvestmentServicer interface {
	// UpdatePrice fetches the current unit price from the price source and
	// writes it onto the investment. Returns the new price in cents.
	UpdatePrice(ctx context.Context, userID, investmentID string) (int64, error)

	// UpdateAllPrices syncs every investment of this asset class under the
	// portfolio, sequentially and fail-fast: the first failure aborts the
	// remaining updates. Already-synced investments keep their new prices.
	UpdateAllPrices(ctx context.Context, userID, portfolioID string) error

	// GetCurrentValue recomputes currentValue from the most recently synced
	// price, persists it, and returns it. It never re-syncs implicitly.
	GetCurrentValue(userID, investmentID string) (int64, error)

	AddInvestment(userID string, input NewInvestmentInput) (*models.Investment, error)
	RemoveInvestment(userID, investmentID string) error
}

// ManualInvestmentServicer is the valuation contract for manually-valued
// variants (savings, other). No external price source is involved.
type ManualInvestmentServicer interface {
	// UpdateValue overwrites the investment's current value. Negative values
	// are rejected.
	UpdateValue(userID, investmentID string, newValue int64) error

	// UpdateAllValues applies the same value to every investment of this
	// class under the portfolio, sequentially and fail-fast.
	UpdateAllValues(userID, portfolioID string, newValue int64) error

	GetCurrentValue(userID, investmentID string) (int64, error)
	AddInvestment(userID string, input NewInvestmentInput) (*models.Investment, error)
	RemoveInvestment(userID, investmentID string) error
}

// InvestmentServicer is the generic facade over the per-class valuation
// services. It dispatches by the investment's discriminator tag, so callers
// need not know which variants are market-priced. This is the single entry
// point for the HTTP layer.
type InvestmentServicer interface {
	AddInvestment(userID string, input NewInvestmentInput) (*models.Investment, error)
	RemoveInvestment(userID, investmentID string) error
	UpdatePrice(ctx context.Context, userID, investmentID string) (int64, error)
	UpdateValue(userID, investmentID string, newValue int64) error
	GetCurrentValue(userID, investmentID string) (int64, error)

	// SyncAll runs the batch update for one asset class of the caller's
	// portfolio: market-priced classes fetch fresh prices, manually-valued
	// classes apply the given value.
	SyncAll(ctx context.Context, userID string, invType models.InvestmentType, newValue int64) error

	GetAllByUser(userID string, invType *models.InvestmentType, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
	GetAllByPortfolio(userID, portfolioID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
}

// PortfolioServicer defines the contract for portfolio aggregation.
type PortfolioServicer interface {
	// GetPortfolio returns the user's portfolio with totals recomputed from
	// the investments visible at call time.
	GetPortfolio(userID string) (*models.Portfolio, error)
	CreatePortfolio(userID, name string) (*models.Portfolio, error)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}
