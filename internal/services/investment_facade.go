package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "trackfolio/internal/errors"
	"trackfolio/internal/models"
	"trackfolio/internal/pagination"
)

// investmentFacade dispatches generic investment operations to the valuation
// service matching the record's discriminator tag. The switch over the five
// known tags is exhaustive and closed: a new variant must be added here and
// to the model at the same time.
type investmentFacade struct {
	db      *gorm.DB
	crypto  MarketInvestmentServicer
	etf     MarketInvestmentServicer
	stock   MarketInvestmentServicer
	savings ManualInvestmentServicer
	other   ManualInvestmentServicer
}

// NewInvestmentFacade creates the generic investment facade over the five
// per-class valuation services.
func NewInvestmentFacade(
	db *gorm.DB,
	crypto, etf, stock MarketInvestmentServicer,
	savings, other ManualInvestmentServicer,
) InvestmentServicer {
	return &investmentFacade{
		db:      db,
		crypto:  crypto,
		etf:     etf,
		stock:   stock,
		savings: savings,
		other:   other,
	}
}

// typeOf resolves the discriminator tag of an existing investment.
func (f *investmentFacade) typeOf(investmentID string) (models.InvestmentType, error) {
	var investment models.Investment
	if err := f.db.Select("id", "type").First(&investment, "id = ?", investmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvestmentNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investment.Type, nil
}

// AddInvestment creates an investment of the type named in the input.
func (f *investmentFacade) AddInvestment(userID string, input NewInvestmentInput) (*models.Investment, error) {
	switch input.Type {
	case models.InvestmentTypeCrypto:
		return f.crypto.AddInvestment(userID, input)
	case models.InvestmentTypeEtf:
		return f.etf.AddInvestment(userID, input)
	case models.InvestmentTypeStock:
		return f.stock.AddInvestment(userID, input)
	case models.InvestmentTypeSavings:
		return f.savings.AddInvestment(userID, input)
	case models.InvestmentTypeOther:
		return f.other.AddInvestment(userID, input)
	default:
		return nil, apperrors.ErrInvalidInvestmentType
	}
}

// RemoveInvestment permanently deletes an investment of any variant.
func (f *investmentFacade) RemoveInvestment(userID, investmentID string) error {
	invType, err := f.typeOf(investmentID)
	if err != nil {
		return err
	}

	switch invType {
	case models.InvestmentTypeCrypto:
		return f.crypto.RemoveInvestment(userID, investmentID)
	case models.InvestmentTypeEtf:
		return f.etf.RemoveInvestment(userID, investmentID)
	case models.InvestmentTypeStock:
		return f.stock.RemoveInvestment(userID, investmentID)
	case models.InvestmentTypeSavings:
		return f.savings.RemoveInvestment(userID, investmentID)
	case models.InvestmentTypeOther:
		return f.other.RemoveInvestment(userID, investmentID)
	default:
		return apperrors.ErrInvalidInvestmentType
	}
}

// UpdatePrice syncs one market-priced investment. Calling it on a
// manually-valued variant is a caller error, not a dispatch error.
func (f *investmentFacade) UpdatePrice(ctx context.Context, userID, investmentID string) (int64, error) {
	invType, err := f.typeOf(investmentID)
	if err != nil {
		return 0, err
	}

	if invType.Valid() && !invType.MarketPriced() {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Investment is not market priced, set its value directly")
	}

	switch invType {
	case models.InvestmentTypeCrypto:
		return f.crypto.UpdatePrice(ctx, userID, investmentID)
	case models.InvestmentTypeEtf:
		return f.etf.UpdatePrice(ctx, userID, investmentID)
	case models.InvestmentTypeStock:
		return f.stock.UpdatePrice(ctx, userID, investmentID)
	default:
		return 0, apperrors.ErrInvalidInvestmentType
	}
}

// UpdateValue sets the current value of one manually-valued investment.
func (f *investmentFacade) UpdateValue(userID, investmentID string, newValue int64) error {
	invType, err := f.typeOf(investmentID)
	if err != nil {
		return err
	}

	if invType.MarketPriced() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Investment is market priced, sync its price instead")
	}

	switch invType {
	case models.InvestmentTypeSavings:
		return f.savings.UpdateValue(userID, investmentID, newValue)
	case models.InvestmentTypeOther:
		return f.other.UpdateValue(userID, investmentID, newValue)
	default:
		return apperrors.ErrInvalidInvestmentType
	}
}

// GetCurrentValue returns the investment's current value via its valuation service.
func (f *investmentFacade) GetCurrentValue(userID, investmentID string) (int64, error) {
	invType, err := f.typeOf(investmentID)
	if err != nil {
		return 0, err
	}

	switch invType {
	case models.InvestmentTypeCrypto:
		return f.crypto.GetCurrentValue(userID, investmentID)
	case models.InvestmentTypeEtf:
		return f.etf.GetCurrentValue(userID, investmentID)
	case models.InvestmentTypeStock:
		return f.stock.GetCurrentValue(userID, investmentID)
	case models.InvestmentTypeSavings:
		return f.savings.GetCurrentValue(userID, investmentID)
	case models.InvestmentTypeOther:
		return f.other.GetCurrentValue(userID, investmentID)
	default:
		return 0, apperrors.ErrInvalidInvestmentType
	}
}

// SyncAll runs the batch update for one asset class of the caller's
// portfolio. Market-priced classes ignore newValue; manually-valued classes
// apply it to every investment of the class.
func (f *investmentFacade) SyncAll(ctx context.Context, userID string, invType models.InvestmentType, newValue int64) error {
	portfolio, err := portfolioByUser(f.db, userID)
	if err != nil {
		return err
	}

	switch invType {
	case models.InvestmentTypeCrypto:
		return f.crypto.UpdateAllPrices(ctx, userID, portfolio.ID)
	case models.InvestmentTypeEtf:
		return f.etf.UpdateAllPrices(ctx, userID, portfolio.ID)
	case models.InvestmentTypeStock:
		return f.stock.UpdateAllPrices(ctx, userID, portfolio.ID)
	case models.InvestmentTypeSavings:
		return f.savings.UpdateAllValues(userID, portfolio.ID, newValue)
	case models.InvestmentTypeOther:
		return f.other.UpdateAllValues(userID, portfolio.ID, newValue)
	default:
		return apperrors.ErrInvalidInvestmentType
	}
}

// GetAllByUser returns a paginated list of the user's investments across all
// variants, optionally filtered by type.
func (f *investmentFacade) GetAllByUser(userID string, invType *models.InvestmentType, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	portfolio, err := portfolioByUser(f.db, userID)
	if err != nil {
		return nil, err
	}
	return f.listByPortfolio(portfolio.ID, invType, page)
}

// GetAllByPortfolio returns a paginated list of a portfolio's investments,
// verifying ownership first.
func (f *investmentFacade) GetAllByPortfolio(userID, portfolioID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	if _, err := findOwnedPortfolio(f.db, userID, portfolioID); err != nil {
		return nil, err
	}
	return f.listByPortfolio(portfolioID, nil, page)
}

func (f *investmentFacade) listByPortfolio(portfolioID string, invType *models.InvestmentType, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	page.Defaults()

	base := f.db.Model(&models.Investment{}).Where("portfolio_id = ?", portfolioID)
	if invType != nil {
		base = base.Where("type = ?", *invType)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Order("created_at").Scopes(pagination.Paginate(page)).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(investments, page.Page, page.PageSize, totalItems)
	return &result, nil
}
