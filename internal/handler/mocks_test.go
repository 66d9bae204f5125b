package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/dto"
	"lecture-qa/internal/handler"
	"lecture-qa/internal/middleware"
	"lecture-qa/internal/service"
	"lecture-qa/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockLectureService struct {
	UploadFunc     func(ctx context.Context, in service.UploadInput) (*dto.UploadResponse, error)
	ListFunc       func(ctx context.Context, skip, limit int) (*dto.LectureListResponse, error)
	GetFunc        func(ctx context.Context, id string) (*dto.LectureResponse, error)
	DeleteFunc     func(ctx context.Context, id string) error
	SlidesFunc     func(ctx context.Context, id string) (*dto.SlidesResponse, error)
	SummaryFunc    func(ctx context.Context, id string) (*dto.LectureSummaryResponse, error)
	QuestionsFunc  func(ctx context.Context, id string, filter domain.QuestionFilter) ([]dto.QuestionResponse, error)
	StatusFunc     func(ctx context.Context, id string) (*dto.ProcessingStatusResponse, error)
	RegenerateFunc func(ctx context.Context, id string, req *dto.GenerateRequest) (*dto.GenerateAcceptedResponse, error)
}

func (m *MockLectureService) Upload(ctx context.Context, in service.UploadInput) (*dto.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, in)
	}
	panic("MockLectureService.UploadFunc not implemented")
}
func (m *MockLectureService) List(ctx context.Context, skip, limit int) (*dto.LectureListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, skip, limit)
	}
	panic("MockLectureService.ListFunc not implemented")
}
func (m *MockLectureService) Get(ctx context.Context, id string) (*dto.LectureResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	panic("MockLectureService.GetFunc not implemented")
}
func (m *MockLectureService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	panic("MockLectureService.DeleteFunc not implemented")
}
func (m *MockLectureService) Slides(ctx context.Context, id string) (*dto.SlidesResponse, error) {
	if m.SlidesFunc != nil {
		return m.SlidesFunc(ctx, id)
	}
	panic("MockLectureService.SlidesFunc not implemented")
}
func (m *MockLectureService) Summary(ctx context.Context, id string) (*dto.LectureSummaryResponse, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, id)
	}
	panic("MockLectureService.SummaryFunc not implemented")
}
func (m *MockLectureService) Questions(ctx context.Context, id string, filter domain.QuestionFilter) ([]dto.QuestionResponse, error) {
	if m.QuestionsFunc != nil {
		return m.QuestionsFunc(ctx, id, filter)
	}
	panic("MockLectureService.QuestionsFunc not implemented")
}
func (m *MockLectureService) Status(ctx context.Context, id string) (*dto.ProcessingStatusResponse, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, id)
	}
	panic("MockLectureService.StatusFunc not implemented")
}
func (m *MockLectureService) Regenerate(ctx context.Context, id string, req *dto.GenerateRequest) (*dto.GenerateAcceptedResponse, error) {
	if m.RegenerateFunc != nil {
		return m.RegenerateFunc(ctx, id, req)
	}
	panic("MockLectureService.RegenerateFunc not implemented")
}
func (m *MockLectureService) Wait() {}

type MockQuestionService struct {
	ListFunc         func(ctx context.Context, filter domain.QuestionFilter) ([]dto.QuestionResponse, error)
	GetFunc          func(ctx context.Context, id string) (*dto.QuestionResponse, error)
	UpdateFunc       func(ctx context.Context, id string, req *dto.QuestionUpdateRequest) (*dto.QuestionResponse, error)
	DeleteFunc       func(ctx context.Context, id string) error
	SubmitAnswerFunc func(ctx context.Context, id string, req *dto.AnswerSubmitRequest) (*dto.AnswerResultResponse, error)
	ResponsesFunc    func(ctx context.Context, id string, skip, limit int) (*dto.ResponseListResponse, error)
	StatisticsFunc   func(ctx context.Context) (*dto.StatisticsResponse, error)
}

func (m *MockQuestionService) List(ctx context.Context, filter domain.QuestionFilter) ([]dto.QuestionResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	panic("MockQuestionService.ListFunc not implemented")
}
func (m *MockQuestionService) Get(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	panic("MockQuestionService.GetFunc not implemented")
}
func (m *MockQuestionService) Update(ctx context.Context, id string, req *dto.QuestionUpdateRequest) (*dto.QuestionResponse, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	panic("MockQuestionService.UpdateFunc not implemented")
}
func (m *MockQuestionService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	panic("MockQuestionService.DeleteFunc not implemented")
}
func (m *MockQuestionService) SubmitAnswer(ctx context.Context, id string, req *dto.AnswerSubmitRequest) (*dto.AnswerResultResponse, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, id, req)
	}
	panic("MockQuestionService.SubmitAnswerFunc not implemented")
}
func (m *MockQuestionService) Responses(ctx context.Context, id string, skip, limit int) (*dto.ResponseListResponse, error) {
	if m.ResponsesFunc != nil {
		return m.ResponsesFunc(ctx, id, skip, limit)
	}
	panic("MockQuestionService.ResponsesFunc not implemented")
}
func (m *MockQuestionService) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	if m.StatisticsFunc != nil {
		return m.StatisticsFunc(ctx)
	}
	panic("MockQuestionService.StatisticsFunc not implemented")
}

type MockAnalyticsService struct {
	DashboardFunc          func(ctx context.Context) (*dto.DashboardResponse, error)
	LecturePerformanceFunc func(ctx context.Context, lectureID string) (*dto.LecturePerformanceResponse, error)
	StudentProgressFunc    func(ctx context.Context, studentID string) (*dto.StudentProgressResponse, error)
	RecommendationsFunc    func(ctx context.Context, lectureID, studentID string) (*dto.RecommendationsResponse, error)
}

func (m *MockAnalyticsService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if m.DashboardFunc != nil {
		return m.DashboardFunc(ctx)
	}
	panic("MockAnalyticsService.DashboardFunc not implemented")
}
func (m *MockAnalyticsService) LecturePerformance(ctx context.Context, lectureID string) (*dto.LecturePerformanceResponse, error) {
	if m.LecturePerformanceFunc != nil {
		return m.LecturePerformanceFunc(ctx, lectureID)
	}
	panic("MockAnalyticsService.LecturePerformanceFunc not implemented")
}
func (m *MockAnalyticsService) StudentProgress(ctx context.Context, studentID string) (*dto.StudentProgressResponse, error) {
	if m.StudentProgressFunc != nil {
		return m.StudentProgressFunc(ctx, studentID)
	}
	panic("MockAnalyticsService.StudentProgressFunc not implemented")
}
func (m *MockAnalyticsService) Recommendations(ctx context.Context, lectureID, studentID string) (*dto.RecommendationsResponse, error) {
	if m.RecommendationsFunc != nil {
		return m.RecommendationsFunc(ctx, lectureID, studentID)
	}
	panic("MockAnalyticsService.RecommendationsFunc not implemented")
}

type mocks struct {
	lectures  *MockLectureService
	questions *MockQuestionService
	analytics *MockAnalyticsService
}

// setupApp mounts the full route table on /api with empty mocks.
func setupApp() (*fiber.App, *mocks) {
	m := &mocks{
		lectures:  &MockLectureService{},
		questions: &MockQuestionService{},
		analytics: &MockAnalyticsService{},
	}
	v := validation.NewValidator()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app.Group("/api"), handler.Handlers{
		Lectures:  handler.NewLectureHandler(m.lectures, v),
		Questions: handler.NewQuestionHandler(m.questions, v),
		Analytics: handler.NewAnalyticsHandler(m.analytics, v),
	}, middleware.NewValidationMiddleware(v))
	return app, m
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), string(body))
}
