package services

import (
	"context"
	"math"
	"strings"

	"gorm.io/gorm"

	apperrors "trackfolio/internal/errors"
	"trackfolio/internal/logger"
	"trackfolio/internal/models"
	"trackfolio/internal/prices"
)

// marketInvestmentService implements the valuation logic shared by all
// market-priced asset classes. The class-specific part is carried entirely by
// the variant tag and the injected price source, so the sync flow is written
// once per capability rather than once per variant.
type marketInvestmentService struct {
	db      *gorm.DB
	invType models.InvestmentType
	source  prices.Source
}

// NewCryptoInvestmentService creates the valuation service for crypto holdings.
func NewCryptoInvestmentService(db *gorm.DB, source prices.Source) MarketInvestmentServicer {
	return &marketInvestmentService{db: db, invType: models.InvestmentTypeCrypto, source: source}
}

// NewEtfInvestmentService creates the valuation service for ETF holdings.
func NewEtfInvestmentService(db *gorm.DB, source prices.Source) MarketInvestmentServicer {
	return &marketInvestmentService{db: db, invType: models.InvestmentTypeEtf, source: source}
}

// NewStockInvestmentService creates the valuation service for stock holdings.
func NewStockInvestmentService(db *gorm.DB, source prices.Source) MarketInvestmentServicer {
	return &marketInvestmentService{db: db, invType: models.InvestmentTypeStock, source: source}
}

// UpdatePrice syncs one investment's price from the external source.
// On success, lastSyncedPrice and currentValue are both written so the
// currentValue invariant holds after the mutation, and a valuation history
// row is appended.
func (s *marketInvestmentService) UpdatePrice(ctx context.Context, userID, investmentID string) (int64, error) {
	investment, err := findOwnedInvestment(s.db, userID, investmentID, s.invType)
	if err != nil {
		return 0, err
	}

	if strings.TrimSpace(investment.Ticker) == "" {
		return 0, apperrors.ErrInvalidTicker
	}

	price, err := s.source.FetchPrice(ctx, investment.Ticker)
	if err != nil {
		return 0, apperrors.Wrap(
			apperrors.WithMessage(apperrors.ErrPriceRetrieval, "Could not retrieve price for "+investment.Ticker),
			err,
		)
	}

	value := int64(math.Round(float64(price) * investment.Units))
	if err := writeValuation(s.db, investment, price, value); err != nil {
		return 0, err
	}

	logger.Get().Infow("price synced",
		"type", s.invType,
		"investment_id", investment.ID,
		"ticker", investment.Ticker,
		"price", price,
	)
	return price, nil
}

// UpdateAllPrices syncs every investment of this asset class under the
// portfolio, in creation order, sequentially. Fail-fast: the first failure
// aborts the remaining updates and propagates with the offending investment
// id attached. Items already synced in this pass keep their new prices.
func (s *marketInvestmentService) UpdateAllPrices(ctx context.Context, userID, portfolioID string) error {
	if _, err := findOwnedPortfolio(s.db, userID, portfolioID); err != nil {
		return err
	}

	var investments []models.Investment
	if err := s.db.Where("portfolio_id = ? AND type = ?", portfolioID, s.invType).
		Order("created_at").Find(&investments).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range investments {
		if _, err := s.UpdatePrice(ctx, userID, investments[i].ID); err != nil {
			return attachInvestmentID(err, investments[i].ID)
		}
	}
	return nil
}

// GetCurrentValue recomputes currentValue from the most recently synced price
// and persists it. Before the first sync, lastSyncedPrice is zero and so is
// the value. No implicit re-sync happens here.
func (s *marketInvestmentService) GetCurrentValue(userID, investmentID string) (int64, error) {
	investment, err := findOwnedInvestment(s.db, userID, investmentID, s.invType)
	if err != nil {
		return 0, err
	}

	value := int64(math.Round(float64(investment.LastSyncedPrice) * investment.Units))

	res := s.db.Model(&models.Investment{}).
		Where("id = ? AND version = ?", investment.ID, investment.Version).
		Updates(map[string]interface{}{
			"current_value": value,
			"version":       investment.Version + 1,
		})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.ErrVersionConflict
	}

	return value, nil
}

// AddInvestment attaches a new market-priced investment to the user's
// portfolio. The current value stays zero until the first price sync.
func (s *marketInvestmentService) AddInvestment(userID string, input NewInvestmentInput) (*models.Investment, error) {
	investment, err := createInvestment(s.db, userID, s.invType, input)
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("investment added",
		"type", s.invType,
		"investment_id", investment.ID,
		"ticker", investment.Ticker,
	)
	return investment, nil
}

// RemoveInvestment permanently deletes an investment and its valuation history.
func (s *marketInvestmentService) RemoveInvestment(userID, investmentID string) error {
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
