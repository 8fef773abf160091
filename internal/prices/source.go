// Package prices contains adapters for fetching current unit prices from
// external market data providers. One source exists per asset class family:
// CoinGecko for crypto, Yahoo Finance for equity-style instruments.
//
// Sources are pure read-throughs: no caching, no retries. Retry policy
// belongs to the caller.
package prices

import (
	"context"
	"fmt"
)

// Source fetches the current unit price for a ticker symbol, in cents of the
// reference currency. Every failure mode (transport error, unknown symbol,
// malformed response, missing price field) surfaces as a non-nil error.
type Source interface {
	// Name returns the provider's display name (e.g., "Yahoo Finance").
	Name() string

	// FetchPrice fetches the current price for the given symbol.
	// A returned price is always positive.
	FetchPrice(ctx context.Context, symbol string) (int64, error)
}

// fetchError annotates a provider failure with the offending symbol.
type fetchError struct {
	provider string
	symbol   string
	err      error
}

// Error implements the error interface.
func (e *fetchError) Error() string {
	return fmt.Sprintf("%s: fetching price for %s: %v", e.provider, e.symbol, e.err)
}

// Unwrap returns the underlying cause.
func (e *fetchError) Unwrap() error { return e.err }
