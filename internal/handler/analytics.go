package handler

import (
	"lecture-qa/internal/service"
	"lecture-qa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler serves the read-only analytics reports
type AnalyticsHandler struct {
	service   service.AnalyticsService
	validator *validation.Validator
}

func NewAnalyticsHandler(service service.AnalyticsService, v *validation.Validator) *AnalyticsHandler {
	if v == nil {
		v = validation.NewValidator()
	}
	return &AnalyticsHandler{service: service, validator: v}
}

// Dashboard godoc
// @Summary Analytics dashboard
// @Tags analytics
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	resp, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// LecturePerformance godoc
// @Summary Performance of one lecture's questions
// @Tags analytics
// @Produce json
// @Param lectureId path string true "Lecture ID"
// @Success 200 {object} dto.LecturePerformanceResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /analytics/lecture/{lectureId}/performance [get]
func (h *AnalyticsHandler) LecturePerformance(c *fiber.Ctx) error {
	resp, err := h.service.LecturePerformance(c.UserContext(), lectureID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// StudentProgress godoc
// @Summary Progress of one student
// @Tags analytics
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} dto.StudentProgressResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /analytics/student/{studentId}/progress [get]
func (h *AnalyticsHandler) StudentProgress(c *fiber.Ctx) error {
	studentID := c.Params("studentId")
	if errs := h.validator.ValidateStudentID(studentID); len(errs) > 0 {
		return errs
	}
	resp, err := h.service.StudentProgress(c.UserContext(), studentID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Recommendations godoc
// @Summary Learning recommendations
// @Description Advice for a lecture, a student or, with neither, the whole question bank
// @Tags analytics
// @Produce json
// @Param lecture_id query string false "Lecture ID"
// @Param student_id query string false "Student ID"
// @Success 200 {object} dto.RecommendationsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /analytics/insights/recommendations [get]
func (h *AnalyticsHandler) Recommendations(c *fiber.Ctx) error {
	lectureID := c.Query("lecture_id")
	if lectureID != "" {
		if errs := h.validator.ValidateID(validation.LectureIDField, lectureID); len(errs) > 0 {
			return errs
		}
	}
	studentID := c.Query("student_id")
	if studentID != "" {
		if errs := h.validator.ValidateStudentID(studentID); len(errs) > 0 {
			return errs
		}
	}

	resp, err := h.service.Recommendations(c.UserContext(), lectureID, studentID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
