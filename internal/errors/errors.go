// Package errors provides custom error types for the Trackfolio API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Portfolio errors.
var (
	ErrPortfolioNotFound  = &AppError{Code: "PORTFOLIO_NOT_FOUND", Message: "Portfolio not found", StatusCode: http.StatusNotFound}
	ErrDuplicatePortfolio = &AppError{Code: "DUPLICATE_PORTFOLIO", Message: "User already has a portfolio", StatusCode: http.StatusConflict}
	// ErrAggregationInconsistency signals that a portfolio exists but its
	// investments could not be loaded, so totals cannot be computed.
	ErrAggregationInconsistency = &AppError{Code: "AGGREGATION_INCONSISTENCY", Message: "Portfolio totals could not be computed", StatusCode: http.StatusInternalServerError}
)

// Investment errors.
var (
	ErrInvestmentNotFound = &AppError{Code: "INVESTMENT_NOT_FOUND", Message: "Investment not found", StatusCode: http.StatusNotFound}
	ErrInvalidTicker      = &AppError{Code: "INVALID_TICKER", Message: "Ticker must not be blank", StatusCode: http.StatusBadRequest}
	ErrInvalidValue       = &AppError{Code: "INVALID_VALUE", Message: "Value must not be negative", StatusCode: http.StatusBadRequest}
	// ErrInvalidInvestmentType indicates an unrecognized discriminator tag
	// reached the dispatch layer. The set of investment types is closed, so
	// this is a data-integrity error, not user error.
	ErrInvalidInvestmentType = &AppError{Code: "INVALID_INVESTMENT_TYPE", Message: "Unrecognized investment type", StatusCode: http.StatusInternalServerError}
	ErrVersionConflict       = &AppError{Code: "VERSION_CONFLICT", Message: "Investment was modified concurrently, retry the operation", StatusCode: http.StatusConflict}
)

// Price retrieval errors.
var (
	// ErrPriceRetrieval covers every way the external price source can fail,
	// from transport errors to unknown symbols and malformed responses.
	ErrPriceRetrieval = &AppError{Code: "PRICE_RETRIEVAL_FAILED", Message: "Could not retrieve current price", StatusCode: http.StatusBadGateway}
)
