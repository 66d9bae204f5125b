package service

import (
	"context"
	"fmt"
	"strconv"

	"lecture-qa/internal/difficulty"
	"lecture-qa/internal/domain"
	"lecture-qa/internal/generator"
	"lecture-qa/internal/logger"

	"go.uber.org/zap"
)

// spawn runs fn in the background under the service base context. A failed
// or panicking run leaves the lecture in the error status.
func (s *lectureService) spawn(lectureID string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx := s.base

		defer func() {
			if r := recover(); r != nil {
				logger.Get().Error("Lecture processing panicked",
					zap.String("lecture_id", lectureID),
					zap.Any("panic", r))
				s.fail(ctx, lectureID, fmt.Errorf("processing panicked: %v", r))
			}
		}()

		if err := fn(ctx); err != nil {
			s.fail(ctx, lectureID, err)
		}
	}()
}

func (s *lectureService) fail(ctx context.Context, lectureID string, cause error) {
	msg := cause.Error()
	logger.Get().Error("Lecture processing failed", zap.String("lecture_id", lectureID), zap.Error(cause))
	if err := s.lectures.UpdateStatus(ctx, lectureID, domain.StatusError, msg); err != nil {
		logger.Get().Error("Failed to record lecture failure", zap.String("lecture_id", lectureID), zap.Error(err))
	}
	s.tracker.Update(ctx, lectureID, map[string]string{FieldStage: StageFailed, FieldMessage: msg})
}

// process extracts the slides of a freshly uploaded deck and generates the
// default per-slide question sets for the leading slides.
func (s *lectureService) process(ctx context.Context, lecture *domain.Lecture) error {
	id := lecture.ID
	log := logger.Get().With(zap.String("lecture_id", id))

	if err := s.lectures.UpdateStatus(ctx, id, domain.StatusProcessing, ""); err != nil {
		return err
	}
	s.tracker.Update(ctx, id, map[string]string{FieldStage: StageExtracting})

	slides, err := s.extractor.Extract(ctx, lecture.FilePath)
	if err != nil {
		return err
	}
	if err := s.lectures.SaveExtraction(ctx, id, slides); err != nil {
		return err
	}
	s.slides.Put(ctx, id, slides)
	log.Info("Slides extracted", zap.Int("slides", len(slides)))

	target := slides
	if s.gen.MaxSlidesForQA > 0 && len(target) > s.gen.MaxSlidesForQA {
		target = target[:s.gen.MaxSlidesForQA]
	}
	s.tracker.Update(ctx, id, map[string]string{
		FieldStage:  StageGenerating,
		FieldSlides: strconv.Itoa(len(target)),
	})

	sets := s.generator.Generate(ctx, target, s.gen.QAPerSlide)
	return s.finish(ctx, id, sets, false)
}

func (s *lectureService) regenerate(ctx context.Context, id string, slides []domain.SlideRecord, total int, ratios difficulty.Ratios, replace bool) error {
	s.tracker.Update(ctx, id, map[string]string{
		FieldStage:  StageGenerating,
		FieldSlides: strconv.Itoa(len(slides)),
	})

	sets, err := s.generator.GenerateComprehensive(ctx, slides, total, ratios)
	if err != nil {
		return err
	}
	return s.finish(ctx, id, sets, replace)
}

// finish filters near-duplicates, stores the questions and marks the
// lecture completed. With replace the existing questions of the lecture
// and their responses are removed in the same transaction.
func (s *lectureService) finish(ctx context.Context, id string, sets []domain.QuestionSet, replace bool) error {
	sets, dropped := s.dedupe.Filter(ctx, sets)
	summary := generator.Summarize(sets)
	questions := buildQuestions(id, sets)

	s.tracker.Update(ctx, id, map[string]string{FieldStage: StageSaving})
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if replace {
			if err := s.responses.DeleteByLecture(ctx, id); err != nil {
				return err
			}
			if err := s.questions.DeleteByLecture(ctx, id); err != nil {
				return err
			}
		}
		if len(questions) == 0 {
			return nil
		}
		return s.questions.SaveBatch(ctx, questions)
	})
	if err != nil {
		return err
	}

	report := difficulty.AnalyzeBalance(generator.Questions(sets))
	s.tracker.Update(ctx, id, map[string]string{
		FieldStage:        StageDone,
		FieldRequested:    strconv.Itoa(summary.Requested),
		FieldGenerated:    strconv.Itoa(summary.Generated),
		FieldShortfall:    strconv.Itoa(summary.Shortfall),
		FieldDuplicates:   strconv.Itoa(dropped),
		FieldBalanceScore: strconv.FormatFloat(report.BalanceScore, 'f', 3, 64),
		FieldIsBalanced:   strconv.FormatBool(report.IsBalanced),
	})

	if err := s.lectures.MarkCompleted(ctx, id); err != nil {
		return err
	}

	logger.Get().Info("Lecture questions generated",
		zap.String("lecture_id", id),
		zap.Int("slides", summary.Slides),
		zap.Int("requested", summary.Requested),
		zap.Int("generated", summary.Generated),
		zap.Int("duplicates", dropped))
	return nil
}

func buildQuestions(lectureID string, sets []domain.QuestionSet) []*domain.Question {
	var out []*domain.Question
	for _, set := range sets {
		for _, gq := range set.Questions {
			q := domain.NewQuestion(lectureID, set.SlideNumber, gq)
			seconds := difficulty.EstimatedSeconds(gq.Difficulty)
			q.EstimatedTime = &seconds
			out = append(out, q)
		}
	}
	return out
}
