package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newQuestionFixture() (*questionService, *MockLectureRepository, *MockQuestionRepository, *MockResponseRepository, *fakeTxManager) {
	lectures := new(MockLectureRepository)
	questions := new(MockQuestionRepository)
	responses := new(MockResponseRepository)
	tx := &fakeTxManager{}
	svc := NewQuestionService(lectures, questions, responses, tx).(*questionService)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc, lectures, questions, responses, tx
}

func choiceQuestion() *domain.Question {
	return &domain.Question{
		ID:            "Q1",
		LectureID:     "L1",
		SlideNumber:   2,
		Text:          "Which structure is LIFO?",
		Type:          domain.QuestionTypeSingleChoice,
		Difficulty:    domain.DifficultyEasy,
		Choices:       []string{"Stack", "Queue"},
		CorrectAnswer: "Stack",
		Explanation:   "Last in, first out.",
		Keywords:      []string{"stack"},
		UsageCount:    4,
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestQuestionService_Get(t *testing.T) {
	svc, lectures, questions, _, _ := newQuestionFixture()
	questions.On("GetByID", mock.Anything, "Q1").Return(choiceQuestion(), nil)
	questions.On("GetByID", mock.Anything, "missing").Return(nil, nil)
	lectures.On("GetByID", mock.Anything, "L1").Return(&domain.Lecture{ID: "L1", Title: "Data Structures"}, nil)

	got, err := svc.Get(context.Background(), "Q1")
	require.NoError(t, err)
	require.NotNil(t, got.Lecture)
	assert.Equal(t, "Data Structures", got.Lecture.Title)
	assert.Equal(t, []string{"Stack", "Queue"}, got.Choices)

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, domain.IsCode(err, domain.CodeQuestionNotFound))
}

func TestQuestionService_List(t *testing.T) {
	svc, _, questions, _, _ := newQuestionFixture()
	filter := domain.QuestionFilter{Type: domain.QuestionTypeEssay, Skip: 5, Limit: 5}
	questions.On("List", mock.Anything, filter).Return([]*domain.Question{{ID: "Q9", Type: domain.QuestionTypeEssay}}, nil)

	got, err := svc.List(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "essay", got[0].QuestionType)
	assert.Equal(t, []string{}, got[0].Keywords)
}

func TestQuestionService_Update(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.QuestionUpdateRequest
		wantErr  domain.ErrorCode
		wantText string
	}{
		{
			name:     "edit text and explanation",
			req:      dto.QuestionUpdateRequest{QuestionText: strPtr("Which structure pops the newest item?"), Explanation: strPtr("LIFO")},
			wantText: "Which structure pops the newest item?",
		},
		{
			name:     "answer matched case-insensitively",
			req:      dto.QuestionUpdateRequest{CorrectAnswer: strPtr(" queue ")},
			wantText: "Which structure is LIFO?",
		},
		{
			name:    "answer outside the choices",
			req:     dto.QuestionUpdateRequest{CorrectAnswer: strPtr("Heap")},
			wantErr: domain.CodeInvalidInput,
		},
		{
			name:    "blank text",
			req:     dto.QuestionUpdateRequest{QuestionText: strPtr("  ")},
			wantErr: domain.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, questions, _, _ := newQuestionFixture()
			questions.On("GetByID", mock.Anything, "Q1").Return(choiceQuestion(), nil)
			questions.On("Update", mock.Anything, mock.AnythingOfType("*domain.Question")).Return(nil)

			got, err := svc.Update(context.Background(), "Q1", &tt.req)

			if tt.wantErr != "" {
				assert.True(t, domain.IsCode(err, tt.wantErr), "got %v", err)
				questions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, got.QuestionText)
			assert.Equal(t, svc.now(), got.UpdatedAt)
			questions.AssertExpectations(t)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestQuestionService_Delete(t *testing.T) {
	svc, _, questions, responses, tx := newQuestionFixture()
	questions.On("GetByID", mock.Anything, "Q1").Return(choiceQuestion(), nil)
	responses.On("DeleteByQuestion", mock.Anything, "Q1").Return(nil)
	questions.On("Delete", mock.Anything, "Q1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "Q1"))
	assert.Equal(t, 1, tx.commits)
	responses.AssertExpectations(t)
	questions.AssertExpectations(t)
}

func TestQuestionService_SubmitAnswer(t *testing.T) {
	tests := []struct {
		name          string
		answer        string
		attempts      int
		correct       int
		total         int
		wantCorrect   bool
		wantScore     float64
		wantRate      int
		wantAttemptNo int
	}{
		{"correct first attempt", "stack", 0, 3, 4, true, 100, 75, 1},
		{"wrong third attempt", "Queue", 2, 1, 3, false, 0, 33, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, questions, responses, tx := newQuestionFixture()
			questions.On("GetByID", mock.Anything, "Q1").Return(choiceQuestion(), nil)
			responses.On("CountAttempts", mock.Anything, "Q1", "S1").Return(tt.attempts, nil)

			var stored *domain.StudentResponse
			responses.On("Create", mock.Anything, mock.AnythingOfType("*domain.StudentResponse")).
				Run(func(args mock.Arguments) {
					stored = args.Get(1).(*domain.StudentResponse)
					stored.ID = "R1"
				}).
				Return(nil)
			responses.On("CorrectnessCounts", mock.Anything, "Q1").Return(tt.correct, tt.total, nil)
			questions.On("UpdateUsage", mock.Anything, "Q1", 5, intPtr(tt.wantRate)).Return(nil)

			got, err := svc.SubmitAnswer(context.Background(), "Q1", &dto.AnswerSubmitRequest{
				StudentID:       "S1",
				ResponseText:    tt.answer,
				ResponseTime:    intPtr(30),
				ConfidenceLevel: intPtr(4),
			})

			require.NoError(t, err)
			assert.Equal(t, "R1", got.ResponseID)
			assert.Equal(t, tt.wantCorrect, got.IsCorrect)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantAttemptNo, got.AttemptNumber)
			assert.Equal(t, 5, got.UsageCount)
			assert.Equal(t, tt.wantRate, *got.CorrectRate)
			assert.Equal(t, "Stack", got.CorrectAnswer)

			require.NotNil(t, stored)
			assert.Equal(t, tt.wantAttemptNo, stored.AttemptNumber)
			assert.Equal(t, svc.now(), stored.SubmittedAt)
			assert.Equal(t, 30, *stored.ResponseTime)
			assert.Equal(t, 1, tx.commits)
			questions.AssertExpectations(t)
			responses.AssertExpectations(t)
		})
	}
}

func TestQuestionService_SubmitAnswerFailures(t *testing.T) {
	t.Run("unknown question", func(t *testing.T) {
		svc, _, questions, responses, tx := newQuestionFixture()
		questions.On("GetByID", mock.Anything, "Q404").Return(nil, nil)

		_, err := svc.SubmitAnswer(context.Background(), "Q404", &dto.AnswerSubmitRequest{StudentID: "S1", ResponseText: "x"})

		assert.True(t, domain.IsCode(err, domain.CodeQuestionNotFound))
		assert.Equal(t, 1, tx.rollbacks)
		responses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("usage update rolls back the response", func(t *testing.T) {
		svc, _, questions, responses, tx := newQuestionFixture()
		questions.On("GetByID", mock.Anything, "Q1").Return(choiceQuestion(), nil)
		responses.On("CountAttempts", mock.Anything, "Q1", "S1").Return(0, nil)
		responses.On("Create", mock.Anything, mock.Anything).Return(nil)
		responses.On("CorrectnessCounts", mock.Anything, "Q1").Return(1, 1, nil)
		questions.On("UpdateUsage", mock.Anything, "Q1", 5, mock.Anything).Return(errors.New("deadlock"))

		_, err := svc.SubmitAnswer(context.Background(), "Q1", &dto.AnswerSubmitRequest{StudentID: "S1", ResponseText: "Stack"})

		assert.True(t, domain.IsCode(err, domain.CodeInternal))
		assert.Equal(t, 1, tx.rollbacks)
		assert.Zero(t, tx.commits)
	})
}

func TestQuestionService_Responses(t *testing.T) {
	svc, _, questions, responses, _ := newQuestionFixture()
	questions.On("GetByID", mock.Anything, "Q1").Return(choiceQuestion(), nil)
	responses.On("ListByQuestion", mock.Anything, "Q1", 0, 50).Return([]*domain.StudentResponse{
		{ID: "R2", StudentID: "S2", IsCorrect: true, Score: 100, AttemptNumber: 1},
		{ID: "R1", StudentID: "S1", AttemptNumber: 2},
	}, nil)

	got, err := svc.Responses(context.Background(), "Q1", 0, 50)

	require.NoError(t, err)
	assert.Equal(t, "Q1", got.QuestionID)
	require.Len(t, got.Responses, 2)
	assert.Equal(t, "R2", got.Responses[0].ID)
	assert.True(t, got.Responses[0].IsCorrect)
}

func TestQuestionService_Statistics(t *testing.T) {
	svc, _, questions, responses, _ := newQuestionFixture()
	questions.On("Count", mock.Anything).Return(12, nil)
	responses.On("Count", mock.Anything).Return(40, nil)
	questions.On("AverageCorrectRate", mock.Anything).Return(floatPtr(61.25), nil)
	questions.On("GroupStats", mock.Anything, domain.DimensionDifficulty, false).Return([]domain.GroupStat{
		{Key: "easy", QuestionCount: 5, AverageCorrectRate: floatPtr(80.04)},
		{Key: "hard", QuestionCount: 7},
	}, nil)
	questions.On("GroupStats", mock.Anything, domain.DimensionQuestionType, false).Return([]domain.GroupStat{
		{Key: "essay", QuestionCount: 12, AverageCorrectRate: floatPtr(61.25)},
	}, nil)

	got, err := svc.Statistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12, got.TotalQuestions)
	assert.Equal(t, 40, got.TotalResponses)
	assert.Equal(t, 61.3, got.AverageCorrectRate)
	assert.Equal(t, dto.GroupSummary{QuestionCount: 5, AverageCorrectRate: 80}, got.DifficultyDistribution["easy"])
	assert.Equal(t, dto.GroupSummary{QuestionCount: 7}, got.DifficultyDistribution["hard"])
	assert.Equal(t, 12, got.TypeDistribution["essay"].QuestionCount)
}

func TestQuestionService_StatisticsError(t *testing.T) {
	svc, _, questions, _, _ := newQuestionFixture()
	questions.On("Count", mock.Anything).Return(0, errors.New("db down"))

	_, err := svc.Statistics(context.Background())

	assert.True(t, domain.IsCode(err, domain.CodeInternal))
}
