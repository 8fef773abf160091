package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "trackfolio/internal/errors"
	"trackfolio/internal/models"
	"trackfolio/internal/pagination"
	"trackfolio/internal/services"
)

// InvestmentHandler handles investment-related requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// AddInvestmentRequest represents the request payload for adding an investment.
// Amounts are cents in the reference currency.
type AddInvestmentRequest struct {
	Type         models.InvestmentType `json:"type" binding:"required,investment_type"`
	BuyPrice     int64                 `json:"buy_price" binding:"required,gt=0"`
	Units        float64               `json:"units" binding:"required,gt=0"`
	PurchaseDate *time.Time            `json:"purchase_date,omitempty"`
	RiskLevel    int                   `json:"risk_level" binding:"required,gte=1,lte=10"`
	// Variant-specific optional fields
	Ticker       string  `json:"ticker,omitempty" binding:"omitempty,ticker"`
	AccountName  string  `json:"account_name,omitempty" binding:"max=200"`
	InterestRate float64 `json:"interest_rate,omitempty" binding:"gte=0"`
	Description  string  `json:"description,omitempty" binding:"max=500"`
	Category     string  `json:"category,omitempty" binding:"max=100"`
}

// UpdateValueRequest represents the request payload for setting a manual value.
type UpdateValueRequest struct {
	Value int64 `json:"value" binding:"gte=0"`
}

// SyncRequest represents the request payload for a batch sync of one asset class.
type SyncRequest struct {
	Type models.InvestmentType `json:"type" binding:"required,investment_type"`
	// Value is applied to every investment of a manually-valued class and
	// ignored for market-priced classes.
	Value int64 `json:"value" binding:"gte=0"`
}

// ListInvestmentsQuery holds the optional filters for listing investments.
type ListInvestmentsQuery struct {
	pagination.PageRequest
	Type string `form:"type" binding:"omitempty,investment_type"`
}

// AddInvestment handles adding a new investment to the caller's portfolio.
// @Summary     Add investment
// @Description Add a new investment of any variant to the caller's portfolio
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddInvestmentRequest true "Investment details"
// @Success     201 {object} models.Investment "Investment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [post]
func (h *InvestmentHandler) AddInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.NewInvestmentInput{
		Type:         req.Type,
		BuyPrice:     req.BuyPrice,
		Units:        req.Units,
		RiskLevel:    req.RiskLevel,
		Ticker:       req.Ticker,
		AccountName:  req.AccountName,
		InterestRate: req.InterestRate,
		Description:  req.Description,
		Category:     req.Category,
	}
	if req.PurchaseDate != nil {
		input.PurchaseDate = *req.PurchaseDate
	}

	investment, err := h.investmentService.AddInvestment(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, investment)
}

// RemoveInvestment handles permanently deleting an investment.
// @Summary     Remove investment
// @Description Permanently delete an investment and its valuation history
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     204 "Investment deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments/{id} [delete]
func (h *InvestmentHandler) RemoveInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.investmentService.RemoveInvestment(userID, investmentID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdatePrice handles syncing one market-priced investment from its price source.
// @Summary     Sync investment price
// @Description Fetch the current market price and write it onto the investment
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {object} map[string]int64 "New price in cents"
// @Failure     400 {object} ErrorResponse "Invalid ID or blank ticker"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     409 {object} ErrorResponse "Concurrent modification"
// @Failure     502 {object} ErrorResponse "Price source failure"
// @Router      /investments/{id}/price [post]
func (h *InvestmentHandler) UpdatePrice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	price, err := h.investmentService.UpdatePrice(c.Request.Context(), userID, investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": price})
}

// UpdateValue handles setting the value of one manually-valued investment.
// @Summary     Set investment value
// @Description Overwrite the current value of a manually-valued investment
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Param       request body UpdateValueRequest true "New value in cents"
// @Success     204 "Value updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     409 {object} ErrorResponse "Concurrent modification"
// @Router      /investments/{id}/value [put]
func (h *InvestmentHandler) UpdateValue(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.investmentService.UpdateValue(userID, investmentID, req.Value); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCurrentValue handles reading an investment's current value.
// @Summary     Get current value
// @Description Return the investment's current value from the last synced price
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {object} map[string]int64 "Current value in cents"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id}/value [get]
func (h *InvestmentHandler) GetCurrentValue(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	value, err := h.investmentService.GetCurrentValue(userID, investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": value})
}

// SyncAll handles the batch sync of one asset class of the caller's portfolio.
// @Summary     Sync all investments of a class
// @Description Batch-update one asset class: market-priced classes fetch fresh prices, manually-valued classes apply the given value. Fail-fast on the first error.
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SyncRequest true "Asset class to sync"
// @Success     204 "All investments synced"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     502 {object} ErrorResponse "Price source failure"
// @Router      /investments/sync [post]
func (h *InvestmentHandler) SyncAll(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.investmentService.SyncAll(c.Request.Context(), userID, req.Type, req.Value); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListInvestments handles listing the caller's investments.
// @Summary     List investments
// @Description Paginated list of the caller's investments, optionally filtered by type
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       type query string false "Investment type filter"
// @Success     200 {object} pagination.PageResponse[models.Investment] "Investments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /investments [get]
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListInvestmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var typeFilter *models.InvestmentType
	if query.Type != "" {
		t := models.InvestmentType(query.Type)
		typeFilter = &t
	}

	result, err := h.investmentService.GetAllByUser(userID, typeFilter, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
