package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "trackfolio/internal/errors"
	"trackfolio/internal/logger"
	"trackfolio/internal/models"
)

// portfolioService handles portfolio aggregation and creation.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// GetPortfolio loads the user's portfolio and recomputes its totals from the
// investment rows visible at call time. Totals are always derived eagerly on
// read, never cached, so a read can't observe stale aggregates.
func (s *portfolioService) GetPortfolio(userID string) (*models.Portfolio, error) {
	portfolio, err := portfolioByUser(s.db, userID)
	if err != nil {
		return nil, err
	}

	var investments []models.Investment
	if err := s.db.Where("portfolio_id = ?", portfolio.ID).
		Order("created_at").Find(&investments).Error; err != nil {
		// The portfolio exists but its investments cannot be loaded: surface
		// the inconsistency instead of reporting zero totals.
		logger.Get().Errorw("failed to load investments for aggregation",
			"portfolio_id", portfolio.ID,
			"error", err.Error(),
		)
		return nil, apperrors.Wrap(apperrors.ErrAggregationInconsistency, err)
	}

	var totalInvested, totalCurrentValue int64
	for i := range investments {
		totalInvested += investments[i].AmountInvested()
		totalCurrentValue += investments[i].CurrentValue
	}

	portfolio.Investments = investments
	portfolio.TotalInvested = totalInvested
	portfolio.TotalCurrentValue = totalCurrentValue
	portfolio.TotalProfitOrLoss = totalCurrentValue - totalInvested

	return portfolio, nil
}

// CreatePortfolio creates an empty portfolio owned by the user. Each user has
// at most one portfolio.
func (s *portfolioService) CreatePortfolio(userID, name string) (*models.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Portfolio name must not be blank")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.Portfolio{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicatePortfolio
	}

	portfolio := &models.Portfolio{
		UserID: userID,
		Name:   name,
	}
	if err := s.db.Create(portfolio).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("portfolio created",
		"portfolio_id", portfolio.ID,
		"user_id", userID,
	)
	return portfolio, nil
}
