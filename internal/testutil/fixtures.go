package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"trackfolio/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPortfolio creates a portfolio owned by the given user.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, userID string) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{
		UserID: userID,
		Name:   fmt.Sprintf("Test Portfolio %d", nextID()),
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestInvestment creates an investment of the given type with sensible
// defaults: buy price 100.00 (10000 cents), 2 units, risk level 3.
func CreateTestInvestment(t *testing.T, db *gorm.DB, portfolioID string, invType models.InvestmentType) *models.Investment {
	t.Helper()

	investment := &models.Investment{
		PortfolioID:  portfolioID,
		Type:         invType,
		BuyPrice:     10000,
		Units:        2,
		PurchaseDate: time.Now(),
		RiskLevel:    3,
	}

	switch invType {
	case models.InvestmentTypeCrypto:
		investment.Ticker = fmt.Sprintf("coin%d", nextID())
	case models.InvestmentTypeEtf, models.InvestmentTypeStock:
		investment.Ticker = fmt.Sprintf("TST%d", nextID())
	case models.InvestmentTypeSavings:
		investment.AccountName = fmt.Sprintf("Savings %d", nextID())
		investment.InterestRate = 2.5
	case models.InvestmentTypeOther:
		investment.Description = fmt.Sprintf("Collectible %d", nextID())
		investment.Category = "art"
	}

	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}

// CreateTestInvestmentWithTicker creates a market-priced investment with an
// explicit ticker and unit count.
func CreateTestInvestmentWithTicker(t *testing.T, db *gorm.DB, portfolioID string, invType models.InvestmentType, ticker string, units float64) *models.Investment {
	t.Helper()

	investment := &models.Investment{
		PortfolioID:  portfolioID,
		Type:         invType,
		BuyPrice:     10000,
		Units:        units,
		PurchaseDate: time.Now(),
		RiskLevel:    3,
		Ticker:       ticker,
	}
	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}
