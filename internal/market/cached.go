package market

import (
	"context"

	"github.com/finance-dashboard/internal/logging"
	"github.com/finance-dashboard/internal/storage"
)

// CachedProvider decorates a PriceProvider with a Redis-backed cache.
// Cache failures are treated as misses; they never fail a lookup.
type CachedProvider struct {
	inner PriceProvider
	cache *storage.PriceCache
}

// NewCachedProvider wraps a provider with the price cache
func NewCachedProvider(inner PriceProvider, cache *storage.PriceCache) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache,
	}
}

// GetPrice returns a cached price when fresh, otherwise queries the inner
// provider and stores the result
func (p *CachedProvider) GetPrice(ctx context.Context, ticker string) (float64, error) {
	logger := logging.GetGlobalLogger()

	price, hit, err := p.cache.Get(ctx, ticker)
	if err != nil {
		logger.WithError(err).WithField("ticker", ticker).Warn("price cache read failed")
	} else if hit {
		return price, nil
	}

	price, err = p.inner.GetPrice(ctx, ticker)
	if err != nil {
		return 0, err
	}

	if cacheErr := p.cache.Set(ctx, ticker, price); cacheErr != nil {
		logger.WithError(cacheErr).WithField("ticker", ticker).Warn("price cache write failed")
	}

	return price, nil
}
