// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerRegex matches provider-compatible ticker symbols: Yahoo-style
// ("AAPL", "VWCE.DE", "BRK-B") and CoinGecko coin ids ("bitcoin").
var tickerRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-^]{0,19}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("investment_type", validateInvestmentType)
		_ = v.RegisterValidation("ticker", validateTicker)
	}
}

func validateInvestmentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "crypto", "etf", "stock", "savings", "other":
		return true
	}
	return false
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}
