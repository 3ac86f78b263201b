package catalog

import (
	"context"
	"encoding/json"
	"time"

	"field-kart/internal/scheme"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// cacheKey holds the serialised catalog snapshot in Redis.
const cacheKey = "fieldkart:schemes:catalog"

// CachedSource decorates another Source with a Redis snapshot cache. Cache
// failures degrade to the wrapped source: pricing must never fail because
// Redis is down.
type CachedSource struct {
	next   Source
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedSource wraps next with a Redis cache holding catalog snapshots
// for ttl.
func NewCachedSource(next Source, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: componentLogger(logger, "catalog-cache"),
	}
}

// Schemes returns the cached snapshot when present, otherwise loads from the
// wrapped source and stores the result.
func (s *CachedSource) Schemes(ctx context.Context) ([]scheme.PromotionRule, error) {
	if rules, ok := s.get(ctx); ok {
		return rules, nil
	}

	rules, err := s.next.Schemes(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, rules)
	return rules, nil
}

// Invalidate drops the cached snapshot so the next read hits the source.
// Admin catalog updates call this after writing.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	if err := s.client.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate catalog cache")
		return err
	}
	return nil
}

func (s *CachedSource) get(ctx context.Context) ([]scheme.PromotionRule, bool) {
	data, err := s.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("catalog cache read failed")
		}
		return nil, false
	}

	var rules []scheme.PromotionRule
	if err := json.Unmarshal(data, &rules); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache payload corrupt, falling through")
		return nil, false
	}

	s.logger.Debug().Int("scheme_count", len(rules)).Msg("catalog cache hit")
	return rules, true
}

func (s *CachedSource) set(ctx context.Context, rules []scheme.PromotionRule) {
	data, err := json.Marshal(rules)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal catalog snapshot")
		return
	}
	if err := s.client.Set(ctx, cacheKey, data, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache write failed")
	}
}
