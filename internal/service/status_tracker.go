package service

import (
	"context"
	"time"

	"lecture-qa/internal/cache"
	"lecture-qa/internal/domain"

	"go.uber.org/zap"
)

// Progress fields written to the lecture status hash.
const (
	FieldStage        = "stage"
	FieldMessage      = "message"
	FieldSlides       = "slides"
	FieldRequested    = "requested"
	FieldGenerated    = "generated"
	FieldShortfall    = "shortfall"
	FieldDuplicates   = "duplicates"
	FieldBalanceScore = "balance_score"
	FieldIsBalanced   = "is_balanced"
	FieldUpdatedAt    = "updated_at"
)

// Stages of a processing run.
const (
	StageQueued     = "queued"
	StageExtracting = "extracting"
	StageGenerating = "generating"
	StageSaving     = "saving"
	StageDone       = "done"
	StageFailed     = "failed"
)

// StatusTracker keeps live progress of lecture processing in a Redis hash.
// The hash is advisory: cache failures are logged and never fail a run.
type StatusTracker struct {
	cache  domain.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewStatusTracker(c domain.Cache, ttl time.Duration, logger *zap.Logger) *StatusTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusTracker{cache: c, ttl: ttl, logger: logger}
}

func (t *StatusTracker) Update(ctx context.Context, lectureID string, fields map[string]string) {
	if t == nil || t.cache == nil {
		return
	}
	values := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values[FieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)

	key := cache.StatusKey(lectureID)
	if err := t.cache.HSet(ctx, key, values); err != nil {
		t.logger.Warn("Failed to write lecture status", zap.String("lecture_id", lectureID), zap.Error(err))
		return
	}
	if t.ttl > 0 {
		if err := t.cache.Expire(ctx, key, t.ttl); err != nil {
			t.logger.Warn("Failed to set lecture status expiry", zap.String("lecture_id", lectureID), zap.Error(err))
		}
	}
}

// Get returns the progress fields, or nil when none are cached.
func (t *StatusTracker) Get(ctx context.Context, lectureID string) map[string]string {
	if t == nil || t.cache == nil {
		return nil
	}
	values, err := t.cache.HGetAll(ctx, cache.StatusKey(lectureID))
	if err != nil {
		t.logger.Warn("Failed to read lecture status", zap.String("lecture_id", lectureID), zap.Error(err))
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func (t *StatusTracker) Clear(ctx context.Context, lectureID string) {
	if t == nil || t.cache == nil {
		return
	}
	if err := t.cache.Delete(ctx, cache.StatusKey(lectureID)); err != nil {
		t.logger.Warn("Failed to clear lecture status", zap.String("lecture_id", lectureID), zap.Error(err))
	}
}
