package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edupulse/academic-engine/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS SNAPSHOT CACHE
// Implements query.AnalyticsCache and command.AnalyticsInvalidator. A single
// key holds the roster-wide snapshot; mark, attendance and classification
// writes invalidate it so the next dashboard read rebuilds a fresh one.
// ══════════════════════════════════════════════════════════════════════════════

// keyClassAnalytics is the cache key for the class analytics snapshot.
const keyClassAnalytics = "analytics:class"

// TTLClassAnalytics caps snapshot staleness even without invalidation.
const TTLClassAnalytics = 5 * time.Minute

// AnalyticsCache caches the class analytics snapshot in Redis.
type AnalyticsCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewAnalyticsCache creates an AnalyticsCache. A non-positive ttl falls back
// to TTLClassAnalytics.
func NewAnalyticsCache(cache *Cache, ttl time.Duration) *AnalyticsCache {
	if ttl <= 0 {
		ttl = TTLClassAnalytics
	}

	return &AnalyticsCache{
		cache: cache,
		ttl:   ttl,
	}
}

// GetAnalytics returns the cached snapshot, or query.ErrAnalyticsCacheMiss
// when none is cached.
func (a *AnalyticsCache) GetAnalytics(ctx context.Context) (*query.ClassAnalytics, error) {
	var analytics query.ClassAnalytics
	if err := a.cache.Get(ctx, keyClassAnalytics, &analytics); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, query.ErrAnalyticsCacheMiss
		}
		return nil, fmt.Errorf("analytics_cache: %w", err)
	}

	return &analytics, nil
}

// SetAnalytics stores a freshly computed snapshot.
func (a *AnalyticsCache) SetAnalytics(ctx context.Context, analytics *query.ClassAnalytics) error {
	if analytics == nil {
		return nil
	}

	if err := a.cache.Set(ctx, keyClassAnalytics, analytics, a.ttl); err != nil {
		return fmt.Errorf("analytics_cache: %w", err)
	}

	return nil
}

// InvalidateAnalytics drops the cached snapshot after a roster mutation.
func (a *AnalyticsCache) InvalidateAnalytics(ctx context.Context) error {
	if err := a.cache.Delete(ctx, keyClassAnalytics); err != nil {
		return fmt.Errorf("analytics_cache: %w", err)
	}

	return nil
}
