package services

import (
	"gorm.io/gorm"

	apperrors "trackfolio/internal/errors"
	"trackfolio/internal/logger"
	"trackfolio/internal/models"
)

// manualInvestmentService implements the valuation logic for manually-valued
// asset classes (savings, other). There is no price source: the caller sets
// the current value directly.
type manualInvestmentService struct {
	db      *gorm.DB
	invType models.InvestmentType
}

// NewSavingsInvestmentService creates the valuation service for savings accounts.
func NewSavingsInvestmentService(db *gorm.DB) ManualInvestmentServicer {
	return &manualInvestmentService{db: db, invType: models.InvestmentTypeSavings}
}

// NewOtherInvestmentService creates the valuation service for other/manual holdings.
func NewOtherInvestmentService(db *gorm.DB) ManualInvestmentServicer {
	return &manualInvestmentService{db: db, invType: models.InvestmentTypeOther}
}

// UpdateValue overwrites the investment's current value. Negative values are
// rejected; zero is allowed (a worthless position is still a position).
func (s *manualInvestmentService) UpdateValue(userID, investmentID string, newValue int64) error {
	if newValue < 0 {
		return apperrors.ErrInvalidValue
	}

	investment, err := findOwnedInvestment(s.db, userID, investmentID, s.invType)
	if err != nil {
		return err
	}

	// Manually-valued records have no unit price; the history row records the
	// set value with a zero price.
	if err := writeValuation(s.db, investment, 0, newValue); err != nil {
		return err
	}

	logger.Get().Infow("value updated",
		"type", s.invType,
		"investment_id", investment.ID,
		"value", newValue,
	)
	return nil
}

// UpdateAllValues applies the same value to every investment of this class
// under the portfolio, sequentially, fail-fast on the first error.
func (s *manualInvestmentService) UpdateAllValues(userID, portfolioID string, newValue int64) error {
	if newValue < 0 {
		return apperrors.ErrInvalidValue
	}

	if _, err := findOwnedPortfolio(s.db, userID, portfolioID); err != nil {
		return err
	}

	var investments []models.Investment
	if err := s.db.Where("portfolio_id = ? AND type = ?", portfolioID, s.invType).
		Order("created_at").Find(&investments).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range investments {
		if err := s.UpdateValue(userID, investments[i].ID, newValue); err != nil {
			return attachInvestmentID(err, investments[i].ID)
		}
	}
	return nil
}

// GetCurrentValue returns the stored current value. Manually-valued variants
// have nothing to recompute, so repeated calls return the same value until
// the next UpdateValue.
func (s *manualInvestmentService) GetCurrentValue(userID, investmentID string) (int64, error) {
	investment, err := findOwnedInvestment(s.db, userID, investmentID, s.invType)
	if err != nil {
		return 0, err
	}
	return investment.CurrentValue, nil
}

// AddInvestment attaches a new manually-valued investment to the user's portfolio.
func (s *manualInvestmentService) AddInvestment(userID string, input NewInvestmentInput) (*models.Investment, error) {
	investment, err := createInvestment(s.db, userID, s.invType, input)
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("investment added",
		"type", s.invType,
		"investment_id", investment.ID,
	)
	return investment, nil
}

// RemoveInvestment permanently deletes an investment and its valuation history.
func (s *manualInvestmentService) RemoveInvestment(userID, investmentID string) error {
	investment, err := findOwnedInvestment(s.db, userID, investmentID, s.invType)
	if err != nil {
		return err
	}

	if err := deleteInvestment(s.db, investment); err != nil {
		return err
	}

	logger.Get().Infow("investment removed",
		"type", s.invType,
		"investment_id", investmentID,
	)
	return nil
}
