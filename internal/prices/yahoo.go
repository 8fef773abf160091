package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
)

const (
	yahooBaseURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	yahooUA      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// yahooQuoteResponse is the top-level Yahoo Finance API response.
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuoteResult `json:"result"`
		Error  *json.RawMessage   `json:"error"`
	} `json:"quoteResponse"`
}

// yahooQuoteResult is a single quote result from Yahoo Finance.
type yahooQuoteResult struct {
	Symbol             string  `json:"symbol"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

// Yahoo fetches equity-style prices (stocks, ETFs) from Yahoo Finance.
type Yahoo struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewYahoo creates a new Yahoo Finance price source.
func NewYahoo(httpClient *http.Client) *Yahoo {
	return &Yahoo{httpClient: httpClient, baseURL: yahooBaseURL}
}

// Name returns the provider's display name.
func (s *Yahoo) Name() string { return "Yahoo Finance" }

// FetchPrice fetches the current regular market price for the given ticker.
func (s *Yahoo) FetchPrice(ctx context.Context, symbol string) (int64, error) {
	reqURL := s.baseURL + "?symbols=" + url.QueryEscape(symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("http request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var quoteResp yahooQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("decoding response: %w", err)}
	}

	for _, r := range quoteResp.QuoteResponse.Result {
		if r.Symbol != symbol {
			continue
		}
		if r.RegularMarketPrice <= 0 {
			return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("non-positive price for %s", symbol)}
		}
		return int64(math.Round(r.RegularMarketPrice * 100)), nil
	}

	return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("symbol %s not found in response", symbol)}
}
