package service

import (
	"context"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/util"

	"go.uber.org/zap"
)

// DuplicateFilter drops generated questions whose text embedding is too
// close to a question kept earlier in the same run.
type DuplicateFilter struct {
	embedder  domain.EmbeddingService
	threshold float64
	logger    *zap.Logger
}

func NewDuplicateFilter(embedder domain.EmbeddingService, threshold float64, logger *zap.Logger) *DuplicateFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DuplicateFilter{embedder: embedder, threshold: threshold, logger: logger}
}

// Filter returns the sets with near-duplicates removed and the number of
// questions dropped. Requested counts are left alone, so a dropped question
// shows up as shortfall. A question whose embedding cannot be computed is kept.
func (f *DuplicateFilter) Filter(ctx context.Context, sets []domain.QuestionSet) ([]domain.QuestionSet, int) {
	if f == nil || f.embedder == nil {
		return sets, 0
	}

	var kept [][]float32
	dropped := 0
	out := make([]domain.QuestionSet, len(sets))
	for i, set := range sets {
		out[i] = set
		out[i].Questions = make([]domain.GeneratedQuestion, 0, len(set.Questions))

		for _, q := range set.Questions {
			vec, err := f.embedder.Generate(ctx, q.Text)
			if err != nil || len(vec) == 0 {
				f.logger.Warn("Failed to embed question, keeping it",
					zap.Int("slide", set.SlideNumber),
					zap.Error(err))
				out[i].Questions = append(out[i].Questions, q)
				continue
			}

			if sim, ok := f.mostSimilar(vec, kept); ok && sim > f.threshold {
				f.logger.Info("Dropping near-duplicate question",
					zap.Int("slide", set.SlideNumber),
					zap.String("question", q.Text),
					zap.Float64("similarity", sim),
					zap.Float64("threshold", f.threshold))
				dropped++
				continue
			}

			kept = append(kept, vec)
			out[i].Questions = append(out[i].Questions, q)
		}
	}
	return out, dropped
}

func (f *DuplicateFilter) mostSimilar(vec []float32, kept [][]float32) (float64, bool) {
	best, found := 0.0, false
	for _, other := range kept {
		sim, err := util.CosineSimilarity(vec, other)
		if err != nil {
			f.logger.Debug("Skipping similarity check", zap.Error(err))
			continue
		}
		if !found || sim > best {
			best, found = sim, true
		}
	}
	return best, found
}
