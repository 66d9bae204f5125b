package handler

import (
	"lecture-qa/internal/domain"
	"lecture-qa/internal/dto"
	"lecture-qa/internal/logger"
	"lecture-qa/internal/service"
	"lecture-qa/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LectureHandler handles lecture-related HTTP requests
type LectureHandler struct {
	service   service.LectureService
	validator *validation.Validator
}

// NewLectureHandler creates a new LectureHandler instance
func NewLectureHandler(service service.LectureService, v *validation.Validator) *LectureHandler {
	if v == nil {
		v = validation.NewValidator()
	}
	return &LectureHandler{service: service, validator: v}
}

// Upload godoc
// @Summary Upload a lecture deck
// @Description Stores a PowerPoint deck and starts slide extraction and question generation in the background
// @Tags lectures
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PowerPoint deck (.pptx)"
// @Param title formData string true "Lecture title"
// @Param description formData string false "Description"
// @Param author formData string false "Author"
// @Param subject formData string false "Subject"
// @Param lecture_date formData string false "Lecture date (YYYY-MM-DD)"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 413 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /lectures/upload [post]
func (h *LectureHandler) Upload(c *fiber.Ctx) error {
	var form dto.LectureUploadForm
	if err := c.BodyParser(&form); err != nil {
		return domain.NewInvalidInputError("invalid multipart form")
	}
	if errs := h.validator.Struct(&form); len(errs) > 0 {
		return errs
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}
	file, err := fh.Open()
	if err != nil {
		logger.Get().Error("Failed to open uploaded file", zap.String("filename", fh.Filename), zap.Error(err))
		return domain.NewInternalError("Failed to read uploaded file", err)
	}
	defer file.Close()

	resp, err := h.service.Upload(c.UserContext(), service.UploadInput{
		Form:     form,
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  file,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary List lectures
// @Tags lectures
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {object} dto.LectureListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /lectures [get]
func (h *LectureHandler) List(c *fiber.Ctx) error {
	skip, limit := page(c)
	resp, err := h.service.List(c.UserContext(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary Get a lecture
// @Tags lectures
// @Produce json
// @Param lectureId path string true "Lecture ID"
// @Success 200 {object} dto.LectureResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /lectures/{lectureId} [get]
func (h *LectureHandler) Get(c *fiber.Ctx) error {
	resp, err := h.service.Get(c.UserContext(), lectureID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a lecture
// @Description Removes the lecture, its questions, their responses and the stored deck
// @Tags lectures
// @Produce json
// @Param lectureId path string true "Lecture ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /lectures/{lectureId} [delete]
func (h *LectureHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), lectureID(c)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Lecture deleted"})
}

// Slides godoc
// @Summary Get extracted slides
// @Tags lectures
// @Produce json
// @Param lectureId path string true "Lecture ID"
// @Success 200 {object} dto.SlidesResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /lectures/{lectureId}/slides [get]
func (h *LectureHandler) Slides(c *fiber.Ctx) error {
	resp, err := h.service.Slides(c.UserContext(), lectureID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Summary godoc
// @Summary Get a lecture summary
// @Tags lectures
// @Produce json
// @Param lectureId path string true "Lecture ID"
// @Success 200 {object} dto.LectureSummaryResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /lectures/{lectureId}/summary [get]
func (h *LectureHandler) Summary(c *fiber.Ctx) error {
	resp, err := h.service.Summary(c.UserContext(), lectureID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Questions godoc
// @Summary List the questions of a lecture
// @Tags lectures
// @Produce json
// @Param lectureId path string true "Lecture ID"
// @Param difficulty query string false "easy, medium or hard"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {array} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /lectures/{lectureId}/questions [get]
func (h *LectureHandler) Questions(c *fiber.Ctx) error {
	tier, err := validation.ParseDifficulty("difficulty", c.Query("difficulty"))
	if err != nil {
		return err
	}
	skip, limit := page(c)
	resp, err := h.service.Questions(c.UserContext(), lectureID(c), domain.QuestionFilter{
		Difficulty: tier,
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Status godoc
// @Summary Get processing status
// @Description Stored status plus live progress of a running extraction or generation
// @Tags lectures
// @Produce json
// @Param lectureId path string true "Lecture ID"
// @Success 200 {object} dto.ProcessingStatusResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /lectures/{lectureId}/status [get]
func (h *LectureHandler) Status(c *fiber.Ctx) error {
	resp, err := h.service.Status(c.UserContext(), lectureID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GenerateQuestions godoc
// @Summary Generate a comprehensive question set
// @Description Spreads total_questions over the slides following the difficulty ratios
// @Tags lectures
// @Accept json
// @Produce json
// @Param lectureId path string true "Lecture ID"
// @Param request body dto.GenerateRequest true "Generation request"
// @Success 202 {object} dto.GenerateAcceptedResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /lectures/{lectureId}/generate [post]
func (h *LectureHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	resp, err := h.service.Regenerate(c.UserContext(), lectureID(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(resp)
}
