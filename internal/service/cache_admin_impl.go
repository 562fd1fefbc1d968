package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andrewchch/jira-dependency-viewer/internal/cache"
)

type cacheAdminService struct {
	cache    *cache.Cache
	observer UseCaseObserver
}

// NewCacheAdminService exposes cache statistics and clearing as a service.
func NewCacheAdminService(c *cache.Cache, observer UseCaseObserver) CacheAdminService {
	return &cacheAdminService{cache: c, observer: observerOrNoop(observer)}
}

func (s *cacheAdminService) Stats(ctx context.Context) (cache.Stats, error) {
	return s.cache.Stats(ctx)
}

func (s *cacheAdminService) Clear(ctx context.Context) (int, error) {
	start := time.Now()
	removed, err := s.cache.Clear(ctx)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "cache_clear",
		RequestID: uuid.NewString(),
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		StartedAt: start,
		Fields:    map[string]any{"removed": removed},
	})
	return removed, err
}

func (s *cacheAdminService) ClearExpired(ctx context.Context) (int, error) {
	start := time.Now()
	removed, err := s.cache.ClearExpired(ctx)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "cache_clear_expired",
		RequestID: uuid.NewString(),
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		StartedAt: start,
		Fields:    map[string]any{"removed": removed},
	})
	return removed, err
}
