package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/NasaVasa/farewatch/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "offers"

func NewRedisClient(addr, password string, db int) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// SearchCache keeps provider responses in redis for a short TTL so repeated
// searches for the same route and date hit the provider once. Redis errors
// are logged and the provider is called directly.
type SearchCache struct {
	next   domain.FlightSearcher
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewSearchCache(next domain.FlightSearcher, client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *SearchCache {
	return &SearchCache{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *SearchCache) SearchOffers(ctx context.Context, origin, destination, date string) (*domain.RawSearchResult, error) {
	key := cacheKey(origin, destination, date)

	cached, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var result domain.RawSearchResult
		if err := json.Unmarshal(cached, &result); err == nil {
			c.logger.Debug("search cache hit", zap.String("key", key))
			return &result, nil
		}
		c.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
	}

	result, err := c.next.SearchOffers(ctx, origin, destination, date)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("search cache encode failed", zap.String("key", key), zap.Error(err))
		return result, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

func cacheKey(origin, destination, date string) string {
	return strings.Join([]string{keyPrefix, strings.ToUpper(origin), strings.ToUpper(destination), date}, ":")
}
