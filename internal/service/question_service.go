package service

import (
	"context"
	"time"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/dto"
	"lecture-qa/internal/evaluator"
	"lecture-qa/internal/logger"

	"go.uber.org/zap"
)

// QuestionService defines the interface for question bank operations
type QuestionService interface {
	List(ctx context.Context, filter domain.QuestionFilter) ([]dto.QuestionResponse, error)
	Get(ctx context.Context, id string) (*dto.QuestionResponse, error)
	Update(ctx context.Context, id string, req *dto.QuestionUpdateRequest) (*dto.QuestionResponse, error)
	Delete(ctx context.Context, id string) error
	SubmitAnswer(ctx context.Context, id string, req *dto.AnswerSubmitRequest) (*dto.AnswerResultResponse, error)
	Responses(ctx context.Context, id string, skip, limit int) (*dto.ResponseListResponse, error)
	Statistics(ctx context.Context) (*dto.StatisticsResponse, error)
}

type questionService struct {
	lectures  domain.LectureRepository
	questions domain.QuestionRepository
	responses domain.ResponseRepository
	tx        domain.TransactionManager
	now       func() time.Time
}

// NewQuestionService creates a new instance of questionService
func NewQuestionService(
	lectures domain.LectureRepository,
	questions domain.QuestionRepository,
	responses domain.ResponseRepository,
	tx domain.TransactionManager,
) QuestionService {
	return &questionService{
		lectures:  lectures,
		questions: questions,
		responses: responses,
		tx:        tx,
		now:       time.Now,
	}
}

func (s *questionService) List(ctx context.Context, filter domain.QuestionFilter) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.List(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list questions", err)
	}
	return dto.NewQuestionResponses(questions), nil
}

func (s *questionService) getQuestion(ctx context.Context, id string) (*domain.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get question", err)
	}
	if q == nil {
		return nil, domain.NewQuestionNotFoundError(id)
	}
	return q, nil
}

// Get returns the question together with a reference to its lecture.
func (s *questionService) Get(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	q, err := s.getQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewQuestionResponse(q)

	lecture, err := s.lectures.GetByID(ctx, q.LectureID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get question lecture", err)
	}
	if lecture != nil {
		resp.Lecture = &dto.LectureRef{ID: lecture.ID, Title: lecture.Title}
	}
	return &resp, nil
}

// Update edits the text fields of a question. The edited question must still
// satisfy the question invariants, e.g. a choice answer stays among the choices.
func (s *questionService) Update(ctx context.Context, id string, req *dto.QuestionUpdateRequest) (*dto.QuestionResponse, error) {
	q, err := s.getQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.QuestionText != nil {
		q.Text = *req.QuestionText
	}
	if req.CorrectAnswer != nil {
		q.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Explanation != nil {
		q.Explanation = *req.Explanation
	}

	if _, err := domain.NewGeneratedQuestion(q.Text, q.Type, q.Difficulty, q.Choices, q.CorrectAnswer, q.Explanation, q.Keywords); err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}

	q.UpdatedAt = s.now()
	if err := s.questions.Update(ctx, q); err != nil {
		return nil, domain.NewInternalError("Failed to update question", err)
	}

	resp := dto.NewQuestionResponse(q)
	return &resp, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if _, err := s.getQuestion(ctx, id); err != nil {
		return err
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.responses.DeleteByQuestion(ctx, id); err != nil {
			return err
		}
		return s.questions.Delete(ctx, id)
	})
	if err != nil {
		return domain.NewInternalError("Failed to delete question", err)
	}
	return nil
}

// SubmitAnswer evaluates a student's answer, records the response and
// refreshes the usage count and correct rate of the question.
func (s *questionService) SubmitAnswer(ctx context.Context, id string, req *dto.AnswerSubmitRequest) (*dto.AnswerResultResponse, error) {
	var result *dto.AnswerResultResponse

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		q, err := s.getQuestion(ctx, id)
		if err != nil {
			return err
		}

		isCorrect := evaluator.Evaluate(q.Generated(), req.ResponseText)

		attempts, err := s.responses.CountAttempts(ctx, id, req.StudentID)
		if err != nil {
			return domain.NewInternalError("Failed to count attempts", err)
		}

		response := &domain.StudentResponse{
			QuestionID:           id,
			StudentID:            req.StudentID,
			ResponseText:         req.ResponseText,
			IsCorrect:            isCorrect,
			Score:                evaluator.Score(isCorrect),
			ResponseTime:         req.ResponseTime,
			SubmittedAt:          s.now(),
			AttemptNumber:        attempts + 1,
			ConfidenceLevel:      req.ConfidenceLevel,
			DifficultyPerception: req.DifficultyPerception,
			SessionID:            req.SessionID,
		}
		if err := s.responses.Create(ctx, response); err != nil {
			return domain.NewInternalError("Failed to save response", err)
		}

		correct, total, err := s.responses.CorrectnessCounts(ctx, id)
		if err != nil {
			return domain.NewInternalError("Failed to compute correct rate", err)
		}
		var rate *int
		if total > 0 {
			r := correct * 100 / total
			rate = &r
		}
		usage := q.UsageCount + 1
		if err := s.questions.UpdateUsage(ctx, id, usage, rate); err != nil {
			return domain.NewInternalError("Failed to update question usage", err)
		}

		result = &dto.AnswerResultResponse{
			ResponseID:    response.ID,
			IsCorrect:     isCorrect,
			Score:         response.Score,
			AttemptNumber: response.AttemptNumber,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			UsageCount:    usage,
			CorrectRate:   rate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Answer submitted",
		zap.String("question_id", id),
		zap.String("student_id", req.StudentID),
		zap.Bool("is_correct", result.IsCorrect),
		zap.Int("attempt", result.AttemptNumber))
	return result, nil
}

func (s *questionService) Responses(ctx context.Context, id string, skip, limit int) (*dto.ResponseListResponse, error) {
	if _, err := s.getQuestion(ctx, id); err != nil {
		return nil, err
	}
	responses, err := s.responses.ListByQuestion(ctx, id, skip, limit)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list responses", err)
	}

	items := make([]dto.StudentResponseDTO, 0, len(responses))
	for _, r := range responses {
		items = append(items, dto.NewStudentResponseDTO(r))
	}
	return &dto.ResponseListResponse{QuestionID: id, Responses: items}, nil
}

// Statistics summarises the whole question bank. Every question counts
// towards the distributions; averages only cover questions with a rate.
func (s *questionService) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	totalQuestions, err := s.questions.Count(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count questions", err)
	}
	totalResponses, err := s.responses.Count(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count responses", err)
	}
	avg, err := s.questions.AverageCorrectRate(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to average correct rates", err)
	}

	byDifficulty, err := groupSummaries(ctx, s.questions, domain.DimensionDifficulty, false)
	if err != nil {
		return nil, err
	}
	byType, err := groupSummaries(ctx, s.questions, domain.DimensionQuestionType, false)
	if err != nil {
		return nil, err
	}

	return &dto.StatisticsResponse{
		TotalQuestions:         totalQuestions,
		TotalResponses:         totalResponses,
		AverageCorrectRate:     round1(deref(avg)),
		DifficultyDistribution: byDifficulty,
		TypeDistribution:       byType,
	}, nil
}

func groupSummaries(ctx context.Context, repo domain.QuestionRepository, dim domain.StatDimension, answeredOnly bool) (map[string]dto.GroupSummary, error) {
	stats, err := repo.GroupStats(ctx, dim, answeredOnly)
	if err != nil {
		return nil, domain.NewInternalError("Failed to group question statistics", err)
	}
	out := make(map[string]dto.GroupSummary, len(stats))
	for _, st := range stats {
		out[st.Key] = dto.GroupSummary{
			QuestionCount:      st.QuestionCount,
			AverageCorrectRate: round1(deref(st.AverageCorrectRate)),
		}
	}
	return out, nil
}
