package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PriceCache caches ticker prices in Redis with a short TTL so repeated
// performance requests do not hammer the market data source.
type PriceCache struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewPriceCache creates a new price cache
func NewPriceCache(redis *RedisCache, ttl time.Duration) *PriceCache {
	return &PriceCache{
		redis: redis,
		ttl:   ttl,
	}
}

// Key generates the cache key for a ticker.
// Format: price:<TICKER>
func (c *PriceCache) Key(ticker string) string {
	return fmt.Sprintf("price:%s", strings.ToUpper(ticker))
}

// Get retrieves a cached price. The second return value reports a cache hit.
func (c *PriceCache) Get(ctx context.Context, ticker string) (float64, bool, error) {
	data, err := c.redis.Get(ctx, c.Key(ticker))
	if err != nil {
		// Key not found is not an error, just a cache miss
		if IsNil(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get cached price: %w", err)
	}

	price, err := strconv.ParseFloat(data, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse cached price: %w", err)
	}

	return price, true, nil
}

// Set stores a price with the configured TTL
func (c *PriceCache) Set(ctx context.Context, ticker string, price float64) error {
	return c.redis.Set(ctx, c.Key(ticker), strconv.FormatFloat(price, 'f', -1, 64), c.ttl)
}

// Invalidate removes a cached price
func (c *PriceCache) Invalidate(ctx context.Context, ticker string) error {
	return c.redis.Del(ctx, c.Key(ticker))
}

// TTL returns the configured TTL for this cache
func (c *PriceCache) TTL() time.Duration {
	return c.ttl
}
