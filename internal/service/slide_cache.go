package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lecture-qa/internal/cache"
	"lecture-qa/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SlideLoader reads the extracted slides of a lecture from the database.
type SlideLoader func(ctx context.Context) ([]domain.SlideRecord, error)

// SlideCache fronts extracted slide records with Redis. Concurrent misses
// for the same lecture share a single load.
type SlideCache struct {
	cache  domain.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

func NewSlideCache(c domain.Cache, ttl time.Duration, logger *zap.Logger) *SlideCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlideCache{cache: c, ttl: ttl, logger: logger}
}

// Get returns cached slides or loads, caches and returns them.
func (s *SlideCache) Get(ctx context.Context, lectureID string, load SlideLoader) ([]domain.SlideRecord, error) {
	if slides, ok := s.lookup(ctx, lectureID); ok {
		return slides, nil
	}

	v, err, shared := s.group.Do(lectureID, func() (interface{}, error) {
		slides, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Put(ctx, lectureID, slides)
		return slides, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("Shared slide load", zap.String("lecture_id", lectureID))
	}
	return v.([]domain.SlideRecord), nil
}

func (s *SlideCache) lookup(ctx context.Context, lectureID string) ([]domain.SlideRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, cache.SlidesKey(lectureID))
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("Failed to read cached slides", zap.String("lecture_id", lectureID), zap.Error(err))
		}
		return nil, false
	}
	var slides []domain.SlideRecord
	if err := json.Unmarshal([]byte(raw), &slides); err != nil {
		s.logger.Warn("Discarding corrupt cached slides", zap.String("lecture_id", lectureID), zap.Error(err))
		return nil, false
	}
	return slides, true
}

// Put stores slides. Empty slide lists are not cached.
func (s *SlideCache) Put(ctx context.Context, lectureID string, slides []domain.SlideRecord) {
	if s.cache == nil || len(slides) == 0 {
		return
	}
	data, err := json.Marshal(slides)
	if err != nil {
		s.logger.Warn("Failed to encode slides for cache", zap.String("lecture_id", lectureID), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, cache.SlidesKey(lectureID), string(data), s.ttl); err != nil {
		s.logger.Warn("Failed to cache slides", zap.String("lecture_id", lectureID), zap.Error(err))
	}
}

func (s *SlideCache) Invalidate(ctx context.Context, lectureID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.SlidesKey(lectureID)); err != nil {
		s.logger.Warn("Failed to invalidate cached slides", zap.String("lecture_id", lectureID), zap.Error(err))
	}
}
