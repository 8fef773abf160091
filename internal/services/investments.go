package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "trackfolio/internal/errors"
	"trackfolio/internal/models"
)

// findOwnedInvestment loads an investment of the given type and verifies that
// its portfolio belongs to the user. Returns ErrInvestmentNotFound both for
// missing records and for records owned by someone else.
func findOwnedInvestment(db *gorm.DB, userID, investmentID string, invType models.InvestmentType) (*models.Investment, error) {
	var investment models.Investment
	if err := db.Preload("Portfolio").
		Where("id = ? AND type = ?", investmentID, invType).
		First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if investment.Portfolio.UserID != userID {
		return nil, apperrors.ErrInvestmentNotFound
	}

	return &investment, nil
}

// findOwnedPortfolio loads a portfolio by ID and verifies ownership.
func findOwnedPortfolio(db *gorm.DB, userID, portfolioID string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := db.First(&portfolio, "id = ?", portfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if portfolio.UserID != userID {
		return nil, apperrors.ErrPortfolioNotFound
	}
	return &portfolio, nil
}

// portfolioByUser loads the user's portfolio.
func portfolioByUser(db *gorm.DB, userID string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := db.First(&portfolio, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &portfolio, nil
}

// validateNewInvestment enforces the per-variant creation rules.
func validateNewInvestment(invType models.InvestmentType, input NewInvestmentInput) error {
	if input.Type != invType {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Expected investment type %s, got %s", invType, input.Type))
	}
	if input.BuyPrice <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Buy price must be positive")
	}
	if input.Units <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Units must be positive")
	}
	if input.RiskLevel < 1 || input.RiskLevel > 10 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Risk level must be between 1 and 10")
	}

	switch invType {
	case models.InvestmentTypeCrypto:
		// Fractional units are allowed for crypto.
		if strings.TrimSpace(input.Ticker) == "" {
			return apperrors.ErrInvalidTicker
		}
	case models.InvestmentTypeEtf, models.InvestmentTypeStock:
		if strings.TrimSpace(input.Ticker) == "" {
			return apperrors.ErrInvalidTicker
		}
		if input.Units != math.Trunc(input.Units) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Units must be a whole number for this investment type")
		}
	case models.InvestmentTypeSavings:
		if strings.TrimSpace(input.AccountName) == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Account name must not be blank")
		}
		if input.InterestRate < 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Interest rate must not be negative")
		}
	case models.InvestmentTypeOther:
		if strings.TrimSpace(input.Description) == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Description must not be blank")
		}
		if strings.TrimSpace(input.Category) == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Category must not be blank")
		}
	default:
		return apperrors.ErrInvalidInvestmentType
	}

	return nil
}

// createInvestment validates the input and attaches a new record to the
// user's portfolio. Current value starts at zero until the first sync.
func createInvestment(db *gorm.DB, userID string, invType models.InvestmentType, input NewInvestmentInput) (*models.Investment, error) {
	if err := validateNewInvestment(invType, input); err != nil {
		return nil, err
	}

	portfolio, err := portfolioByUser(db, userID)
	if err != nil {
		return nil, err
	}

	purchaseDate := input.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	investment := &models.Investment{
		PortfolioID:  portfolio.ID,
		Type:         invType,
		BuyPrice:     input.BuyPrice,
		Units:        input.Units,
		PurchaseDate: purchaseDate,
		RiskLevel:    input.RiskLevel,
		Ticker:       strings.TrimSpace(input.Ticker),
		AccountName:  strings.TrimSpace(input.AccountName),
		InterestRate: input.InterestRate,
		Description:  strings.TrimSpace(input.Description),
		Category:     strings.TrimSpace(input.Category),
	}

	if err := db.Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return investment, nil
}

// deleteInvestment permanently removes an investment together with its
// valuation history. No soft delete: the record is gone.
func deleteInvestment(db *gorm.DB, investment *models.Investment) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Where("investment_id = ?", investment.ID).
			Delete(&models.InvestmentValueHistory{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Unscoped().Delete(investment).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	return err
}

// writeValuation persists a new price/value pair onto the investment with an
// optimistic version check and appends a valuation history row. A concurrent
// writer that got there first surfaces as ErrVersionConflict.
func writeValuation(db *gorm.DB, investment *models.Investment, price, value int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Investment{}).
			Where("id = ? AND version = ?", investment.ID, investment.Version).
			Updates(map[string]interface{}{
				"last_synced_price": price,
				"current_value":     value,
				"version":           investment.Version + 1,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrVersionConflict
		}

		history := &models.InvestmentValueHistory{
			InvestmentID: investment.ID,
			Price:        price,
			Value:        value,
			RecordedAt:   time.Now().UTC(),
		}
		if txErr := tx.Create(history).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		investment.LastSyncedPrice = price
		investment.CurrentValue = value
		investment.Version++
		return nil
	})
}

// attachInvestmentID annotates a batch-item failure with the offending
// investment so batch callers can diagnose which item aborted the pass.
func attachInvestmentID(err error, investmentID string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return apperrors.WithMessage(appErr, fmt.Sprintf("%s (investment %s)", appErr.Message, investmentID))
	}
	return fmt.Errorf("investment %s: %w", investmentID, err)
}
