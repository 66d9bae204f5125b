package handler

import (
	"lecture-qa/internal/domain"
	"lecture-qa/internal/dto"
	"lecture-qa/internal/service"
	"lecture-qa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuestionHandler handles question-related HTTP requests
type QuestionHandler struct {
	service   service.QuestionService
	validator *validation.Validator
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(service service.QuestionService, v *validation.Validator) *QuestionHandler {
	if v == nil {
		v = validation.NewValidator()
	}
	return &QuestionHandler{service: service, validator: v}
}

// List godoc
// @Summary List questions
// @Tags questions
// @Produce json
// @Param lecture_id query string false "Lecture ID"
// @Param difficulty query string false "easy, medium or hard"
// @Param question_type query string false "multiple_choice, single_choice, short_answer or essay"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {array} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /questions [get]
func (h *QuestionHandler) List(c *fiber.Ctx) error {
	var q dto.QuestionListQuery
	if err := c.QueryParser(&q); err != nil {
		return domain.NewInvalidInputError("invalid query parameters")
	}
	if errs := h.validator.Struct(&q); len(errs) > 0 {
		return errs
	}
	if q.Limit == 0 {
		q.Limit = validation.MaxPageLimit
	}

	resp, err := h.service.List(c.UserContext(), domain.QuestionFilter{
		LectureID:  q.LectureID,
		Difficulty: domain.Difficulty(q.Difficulty),
		Type:       domain.QuestionType(q.QuestionType),
		Skip:       q.Skip,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary Get a question
// @Tags questions
// @Produce json
// @Param questionId path string true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{questionId} [get]
func (h *QuestionHandler) Get(c *fiber.Ctx) error {
	resp, err := h.service.Get(c.UserContext(), questionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary Edit a question
// @Tags questions
// @Accept json
// @Produce json
// @Param questionId path string true "Question ID"
// @Param request body dto.QuestionUpdateRequest true "Fields to change"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{questionId} [put]
func (h *QuestionHandler) Update(c *fiber.Ctx) error {
	var req dto.QuestionUpdateRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	resp, err := h.service.Update(c.UserContext(), questionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Param questionId path string true "Question ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{questionId} [delete]
func (h *QuestionHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), questionID(c)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Question deleted"})
}

// SubmitAnswer godoc
// @Summary Submit an answer
// @Description Evaluates the answer, records it and updates the question's correct rate
// @Tags questions
// @Accept json
// @Produce json
// @Param questionId path string true "Question ID"
// @Param request body dto.AnswerSubmitRequest true "Answer"
// @Success 200 {object} dto.AnswerResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{questionId}/answer [post]
func (h *QuestionHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.AnswerSubmitRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	resp, err := h.service.SubmitAnswer(c.UserContext(), questionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Responses godoc
// @Summary List the responses to a question
// @Tags questions
// @Produce json
// @Param questionId path string true "Question ID"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {object} dto.ResponseListResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{questionId}/responses [get]
func (h *QuestionHandler) Responses(c *fiber.Ctx) error {
	skip, limit := page(c)
	resp, err := h.service.Responses(c.UserContext(), questionID(c), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Statistics godoc
// @Summary Question bank overview
// @Tags questions
// @Produce json
// @Success 200 {object} dto.StatisticsResponse
// @Router /questions/statistics/overview [get]
func (h *QuestionHandler) Statistics(c *fiber.Ctx) error {
	resp, err := h.service.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
