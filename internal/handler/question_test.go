package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/dto"
	"lecture-qa/internal/middleware"
	"lecture-qa/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionHandler_List(t *testing.T) {
	lectureID := util.NewULID()
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantFilter domain.QuestionFilter
	}{
		{
			name:       "defaults",
			query:      "",
			wantStatus: fiber.StatusOK,
			wantFilter: domain.QuestionFilter{Limit: 100},
		},
		{
			name:       "all filters",
			query:      "?lecture_id=" + lectureID + "&difficulty=medium&question_type=essay&skip=3&limit=7",
			wantStatus: fiber.StatusOK,
			wantFilter: domain.QuestionFilter{
				LectureID:  lectureID,
				Difficulty: domain.DifficultyMedium,
				Type:       domain.QuestionTypeEssay,
				Skip:       3,
				Limit:      7,
			},
		},
		{name: "unknown type", query: "?question_type=riddle", wantStatus: fiber.StatusBadRequest},
		{name: "malformed lecture id", query: "?lecture_id=abc", wantStatus: fiber.StatusBadRequest},
		{name: "limit too large", query: "?limit=101", wantStatus: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, m := setupApp()
			var got domain.QuestionFilter
			m.questions.ListFunc = func(_ context.Context, filter domain.QuestionFilter) ([]dto.QuestionResponse, error) {
				got = filter
				return []dto.QuestionResponse{}, nil
			}

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/questions"+tt.query, nil))
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == fiber.StatusOK {
				assert.Equal(t, tt.wantFilter, got)
			}
		})
	}
}

func TestQuestionHandler_Get(t *testing.T) {
	app, m := setupApp()
	id := util.NewULID()
	m.questions.GetFunc = func(_ context.Context, got string) (*dto.QuestionResponse, error) {
		if got != id {
			return nil, domain.NewQuestionNotFoundError(got)
		}
		return &dto.QuestionResponse{ID: id, Lecture: &dto.LectureRef{Title: "Data Structures"}}, nil
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/questions/"+id, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body dto.QuestionResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Data Structures", body.Lecture.Title)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/questions/"+util.NewULID(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestQuestionHandler_Update(t *testing.T) {
	app, m := setupApp()
	id := util.NewULID()
	var got *dto.QuestionUpdateRequest
	m.questions.UpdateFunc = func(_ context.Context, _ string, req *dto.QuestionUpdateRequest) (*dto.QuestionResponse, error) {
		got = req
		if req.CorrectAnswer != nil && *req.CorrectAnswer == "Heap" {
			return nil, domain.NewInvalidInputError("correct answer must be one of the choices")
		}
		return &dto.QuestionResponse{ID: id, QuestionText: *req.QuestionText}, nil
	}

	req := httptest.NewRequest(http.MethodPut, "/api/questions/"+id, strings.NewReader(`{"question_text":"What does LIFO mean?"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	assert.Nil(t, got.Explanation)

	req = httptest.NewRequest(http.MethodPut, "/api/questions/"+id, strings.NewReader(`{"correct_answer":"Heap"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuestionHandler_Delete(t *testing.T) {
	app, m := setupApp()
	id := util.NewULID()
	m.questions.DeleteFunc = func(context.Context, string) error { return nil }

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/questions/"+id, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.MessageResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Question deleted", body.Message)
}

func TestQuestionHandler_SubmitAnswer(t *testing.T) {
	id := util.NewULID()
	rate := 75
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantField  string
	}{
		{name: "correct", body: `{"student_id":"S1","response_text":"Stack","response_time":12,"confidence_level":4}`, wantStatus: fiber.StatusOK},
		{name: "missing student", body: `{"response_text":"Stack"}`, wantStatus: fiber.StatusBadRequest, wantField: "student_id"},
		{name: "confidence out of range", body: `{"student_id":"S1","response_text":"Stack","confidence_level":9}`, wantStatus: fiber.StatusBadRequest, wantField: "confidence_level"},
		{name: "storage failure", body: `{"student_id":"S1","response_text":"Stack"}`, err: domain.NewInternalError("Failed to record response", errors.New("deadlock")), wantStatus: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, m := setupApp()
			m.questions.SubmitAnswerFunc = func(_ context.Context, _ string, req *dto.AnswerSubmitRequest) (*dto.AnswerResultResponse, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &dto.AnswerResultResponse{ResponseID: "R1", IsCorrect: true, Score: 100, AttemptNumber: 1, UsageCount: 5, CorrectRate: &rate}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/api/questions/"+id+"/answer", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			switch {
			case tt.wantField != "":
				var body middleware.ValidationErrorResponse
				decodeBody(t, resp, &body)
				require.Len(t, body.Errors, 1)
				assert.Equal(t, tt.wantField, body.Errors[0].Field)
			case tt.wantStatus == fiber.StatusOK:
				var body dto.AnswerResultResponse
				decodeBody(t, resp, &body)
				assert.True(t, body.IsCorrect)
				assert.Equal(t, 75, *body.CorrectRate)
			}
		})
	}
}

func TestQuestionHandler_Responses(t *testing.T) {
	app, m := setupApp()
	id := util.NewULID()
	var gotSkip, gotLimit int
	m.questions.ResponsesFunc = func(_ context.Context, got string, skip, limit int) (*dto.ResponseListResponse, error) {
		gotSkip, gotLimit = skip, limit
		return &dto.ResponseListResponse{QuestionID: got, Responses: []dto.StudentResponseDTO{}}, nil
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/questions/"+id+"/responses?skip=2&limit=10", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, gotSkip)
	assert.Equal(t, 10, gotLimit)
}

func TestQuestionHandler_Statistics(t *testing.T) {
	app, m := setupApp()
	m.questions.StatisticsFunc = func(context.Context) (*dto.StatisticsResponse, error) {
		return &dto.StatisticsResponse{
			TotalQuestions:     12,
			AverageCorrectRate: 61.3,
			DifficultyDistribution: map[string]dto.GroupSummary{
				"easy": {QuestionCount: 5, AverageCorrectRate: 80},
			},
		}, nil
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/questions/statistics/overview", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.StatisticsResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, 12, body.TotalQuestions)
	assert.Equal(t, 5, body.DifficultyDistribution["easy"].QuestionCount)
}
