package service

import (
	"context"

	"lecture-qa/internal/difficulty"
	"lecture-qa/internal/domain"
)

// SlideExtractor turns a stored deck into slide records.
type SlideExtractor interface {
	Extract(ctx context.Context, path string) ([]domain.SlideRecord, error)
}

// QuestionGenerator produces question sets from slide records.
type QuestionGenerator interface {
	Generate(ctx context.Context, slides []domain.SlideRecord, questionsPerSlide int) []domain.QuestionSet
	GenerateComprehensive(ctx context.Context, slides []domain.SlideRecord, total int, ratios difficulty.Ratios) ([]domain.QuestionSet, error)
}
