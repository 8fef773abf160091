package prices

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCoinGeckoFetchPrice(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("ids"); got != "bitcoin" {
				t.Errorf("expected ids=bitcoin, got %q", got)
			}
			if got := r.URL.Query().Get("vs_currencies"); got != "usd" {
				t.Errorf("expected vs_currencies=usd, got %q", got)
			}
			resp := map[string]map[string]float64{
				"bitcoin": {"usd": 67234.56},
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		s := &CoinGecko{httpClient: server.Client(), baseURL: server.URL}
		price, err := s.FetchPrice(context.Background(), "Bitcoin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if price != 6723456 {
			t.Errorf("expected price 6723456, got %d", price)
		}
	})

	t.Run("coin_missing_from_response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		s := &CoinGecko{httpClient: server.Client(), baseURL: server.URL}
		_, err := s.FetchPrice(context.Background(), "obscurecoin")
		if err == nil {
			t.Fatal("expected error for missing coin")
		}
	})

	t.Run("missing_usd_quote", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"bitcoin":{"eur":60000.0}}`))
		}))
		defer server.Close()

		s := &CoinGecko{httpClient: server.Client(), baseURL: server.URL}
		_, err := s.FetchPrice(context.Background(), "bitcoin")
		if err == nil {
			t.Fatal("expected error for missing usd quote")
		}
	})

	t.Run("non_positive_price", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"bitcoin":{"usd":0}}`))
		}))
		defer server.Close()

		s := &CoinGecko{httpClient: server.Client(), baseURL: server.URL}
		_, err := s.FetchPrice(context.Background(), "bitcoin")
		if err == nil {
			t.Fatal("expected error for zero price")
		}
	})

	t.Run("upstream_error_status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		s := &CoinGecko{httpClient: server.Client(), baseURL: server.URL}
		_, err := s.FetchPrice(context.Background(), "bitcoin")
		if err == nil {
			t.Fatal("expected error for 429 response")
		}
	})

	t.Run("malformed_body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		s := &CoinGecko{httpClient: server.Client(), baseURL: server.URL}
		_, err := s.FetchPrice(context.Background(), "bitcoin")
		if err == nil {
			t.Fatal("expected error for malformed body")
		}
	})
}
