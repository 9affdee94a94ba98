// Package market provides market data lookups for portfolio valuation.
package market

import (
	"context"
)

// PriceProvider resolves a ticker symbol to a current market price.
// Implementations may fail per ticker; callers are expected to degrade
// gracefully rather than propagate lookup failures.
type PriceProvider interface {
	GetPrice(ctx context.Context, ticker string) (float64, error)
}

// Source identifies how a position's price was resolved
type Source string

const (
	// SourceQuote means the price came from a live market quote
	SourceQuote Source = "quote"
	// SourceCostBasis means the lookup failed and the position's cost basis
	// was used instead, assuming zero unrealized gain
	SourceCostBasis Source = "cost_basis"
)

// Resolution is the per-position outcome of a price lookup. The fallback
// policy is modeled as data rather than a caught error so it stays explicit
// and testable.
type Resolution struct {
	Ticker string
	Price  float64
	Source Source
	Reason string
}

// Resolve attempts a live price lookup for a ticker and falls back to the
// cost basis on any failure. One failing ticker never aborts the caller's
// aggregate computation.
func Resolve(ctx context.Context, provider PriceProvider, ticker string, costBasis float64) Resolution {
	price, err := provider.GetPrice(ctx, ticker)
	if err != nil {
		return Resolution{
			Ticker: ticker,
			Price:  costBasis,
			Source: SourceCostBasis,
			Reason: err.Error(),
		}
	}
	return Resolution{
		Ticker: ticker,
		Price:  price,
		Source: SourceQuote,
	}
}
