package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
)

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3/simple/price"

// CoinGecko fetches cryptocurrency prices from the CoinGecko simple price API.
type CoinGecko struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewCoinGecko creates a new CoinGecko price source.
func NewCoinGecko(httpClient *http.Client) *CoinGecko {
	return &CoinGecko{httpClient: httpClient, baseURL: coinGeckoBaseURL}
}

// Name returns the provider's display name.
func (s *CoinGecko) Name() string { return "CoinGecko" }

// FetchPrice fetches the current USD price for the given coin id.
// CoinGecko keys quotes by lowercase coin id (e.g. "bitcoin", "ethereum").
func (s *CoinGecko) FetchPrice(ctx context.Context, symbol string) (int64, error) {
	coinID := strings.ToLower(strings.TrimSpace(symbol))

	reqURL := s.baseURL + "?ids=" + url.QueryEscape(coinID) + "&vs_currencies=usd"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("http request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	// Response shape: {"bitcoin":{"usd":64123.45}}
	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("decoding response: %w", err)}
	}

	quote, found := body[coinID]
	if !found {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("coin %s not found in response", coinID)}
	}
	price, found := quote["usd"]
	if !found {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("no usd quote for %s", coinID)}
	}
	if price <= 0 {
		return 0, &fetchError{provider: s.Name(), symbol: symbol, err: fmt.Errorf("non-positive price for %s", coinID)}
	}

	return int64(math.Round(price * 100)), nil
}
