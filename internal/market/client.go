package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/finance-dashboard/internal/config"
)

// Client fetches quotes from an HTTP market data source. Requests carry the
// configured timeout so an unresponsive source degrades to the cost-basis
// fallback instead of hanging the request.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a market data client from configuration
func NewClient(cfg *config.MarketConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// chartResponse mirrors the quote endpoint's response envelope
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				PreviousClose      *float64 `json:"previousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetPrice fetches the current market price for a ticker
func (c *Client) GetPrice(ctx context.Context, ticker string) (float64, error) {
	if ticker == "" {
		return 0, fmt.Errorf("ticker is required")
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("quote request failed for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("quote request for %s returned status %d", ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read quote response for %s: %w", ticker, err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse quote response for %s: %w", ticker, err)
	}

	if parsed.Chart.Error != nil {
		return 0, fmt.Errorf("quote source error for %s: %s", ticker, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return 0, fmt.Errorf("no price data available for %s", ticker)
	}

	meta := parsed.Chart.Result[0].Meta
	// Prefer the live market price, fall back to the previous close
	if meta.RegularMarketPrice != nil && *meta.RegularMarketPrice > 0 {
		return *meta.RegularMarketPrice, nil
	}
	if meta.PreviousClose != nil && *meta.PreviousClose > 0 {
		return *meta.PreviousClose, nil
	}

	return 0, fmt.Errorf("no price data available for %s", ticker)
}
