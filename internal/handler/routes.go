package handler

import (
	"lecture-qa/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups the HTTP handlers mounted under the API prefix.
type Handlers struct {
	Lectures  *LectureHandler
	Questions *QuestionHandler
	Analytics *AnalyticsHandler
}

// RegisterRoutes mounts every API route on router. Path identifiers and
// paging parameters are checked by vm before a handler runs.
func RegisterRoutes(router fiber.Router, h Handlers, vm *middleware.ValidationMiddleware) {
	lectureID := vm.ValidateLectureID()
	questionID := vm.ValidateQuestionID()
	paging := vm.ValidatePagination()

	lectures := router.Group("/lectures")
	lectures.Get("/", paging, h.Lectures.List)
	lectures.Post("/upload", h.Lectures.Upload)
	lectures.Get("/:lectureId", lectureID, h.Lectures.Get)
	lectures.Delete("/:lectureId", lectureID, h.Lectures.Delete)
	lectures.Get("/:lectureId/slides", lectureID, h.Lectures.Slides)
	lectures.Get("/:lectureId/summary", lectureID, h.Lectures.Summary)
	lectures.Get("/:lectureId/questions", lectureID, paging, h.Lectures.Questions)
	lectures.Get("/:lectureId/status", lectureID, h.Lectures.Status)
	lectures.Post("/:lectureId/generate", lectureID, h.Lectures.GenerateQuestions)

	questions := router.Group("/questions")
	questions.Get("/", h.Questions.List)
	questions.Get("/statistics/overview", h.Questions.Statistics)
	questions.Get("/:questionId", questionID, h.Questions.Get)
	questions.Put("/:questionId", questionID, h.Questions.Update)
	questions.Delete("/:questionId", questionID, h.Questions.Delete)
	questions.Post("/:questionId/answer", questionID, h.Questions.SubmitAnswer)
	questions.Get("/:questionId/responses", questionID, paging, h.Questions.Responses)

	analytics := router.Group("/analytics")
	analytics.Get("/dashboard", h.Analytics.Dashboard)
	analytics.Get("/lecture/:lectureId/performance", lectureID, h.Analytics.LecturePerformance)
	analytics.Get("/student/:studentId/progress", h.Analytics.StudentProgress)
	analytics.Get("/insights/recommendations", h.Analytics.Recommendations)
}
