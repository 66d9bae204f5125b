// Package embedding provides cached text embeddings for near-duplicate
// question detection.
package embedding

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"lecture-qa/internal/cache"
	"lecture-qa/internal/config"
	"lecture-qa/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultEmbeddingTTL = 168 * time.Hour

// Service implements domain.EmbeddingService on a langchaingo embedder.
// Vectors are gob-encoded in the cache under a hash of the text.
type Service struct {
	embedder embeddings.Embedder
	source   string
	cache    domain.Cache
	ttl      time.Duration
	sfGroup  singleflight.Group
	logger   *zap.Logger
}

func newService(embedder embeddings.Embedder, source string, c domain.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = defaultEmbeddingTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{embedder: embedder, source: source, cache: c, ttl: ttl, logger: logger}
}

// NewService builds the embedding source named in cfg.Source.
func NewService(cfg config.EmbeddingConfig, c domain.Cache, ttl time.Duration, logger *zap.Logger) (*Service, error) {
	switch cfg.Source {
	case "ollama", "":
		return NewOllamaEmbeddingService(cfg.ServerURL, cfg.Model, c, ttl, logger)
	case "openai":
		return NewOpenAIEmbeddingService(cfg.APIKey, cfg.Model, c, ttl, logger)
	}
	return nil, fmt.Errorf("unsupported embedding source: %s", cfg.Source)
}

// Generate returns the embedding for text, from the cache when possible.
func (s *Service) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	cacheKey := cache.GenerateCacheKey("embedding", s.source, hashString(text))

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			var embedding []float32
			errDecode := gob.NewDecoder(bytes.NewReader([]byte(cached))).Decode(&embedding)
			if errDecode == nil {
				return embedding, nil
			}
			s.logger.Warn("Failed to decode cached embedding", zap.String("key", cacheKey), zap.Error(errDecode))
		case !errors.Is(err, domain.ErrCacheMiss):
			s.logger.Warn("Failed to read embedding cache", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		embedding, fetchErr := s.embedder.EmbedQuery(ctx, text)
		if fetchErr != nil {
			return nil, fmt.Errorf("failed to generate embedding using %s: %w", s.source, fetchErr)
		}
		if embedding == nil {
			return nil, fmt.Errorf("received nil embedding from %s without error", s.source)
		}

		if s.cache != nil {
			var buffer bytes.Buffer
			if errEncode := gob.NewEncoder(&buffer).Encode(embedding); errEncode != nil {
				s.logger.Warn("Failed to encode embedding for caching", zap.Error(errEncode))
				return embedding, nil
			}
			if errSet := s.cache.Set(ctx, cacheKey, buffer.String(), s.ttl); errSet != nil {
				s.logger.Warn("Failed to cache embedding", zap.String("key", cacheKey), zap.Error(errSet))
			}
		}
		return embedding, nil
	})
	if err != nil {
		return nil, err
	}

	if embedding, ok := res.([]float32); ok {
		return embedding, nil
	}
	return nil, fmt.Errorf("unexpected type from singleflight.Do for embedding: %T", res)
}

func hashString(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

var _ domain.EmbeddingService = (*Service)(nil)
