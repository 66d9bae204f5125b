package middleware

import (
	"lecture-qa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the validation middleware.
const (
	LocalLectureID  = "validated_lecture_id"
	LocalQuestionID = "validated_question_id"
	LocalSkip       = "validated_skip"
	LocalLimit      = "validated_limit"
)

const defaultPageLimit = 100

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	if v == nil {
		v = validation.NewValidator()
	}
	return &ValidationMiddleware{validator: v}
}

// ValidateLectureID checks the :lectureId path parameter is a ULID.
func (vm *ValidationMiddleware) ValidateLectureID() fiber.Handler {
	return vm.validateID("lectureId", validation.LectureIDField, LocalLectureID)
}

// ValidateQuestionID checks the :questionId path parameter is a ULID.
func (vm *ValidationMiddleware) ValidateQuestionID() fiber.Handler {
	return vm.validateID("questionId", validation.QuestionIDField, LocalQuestionID)
}

func (vm *ValidationMiddleware) validateID(param, field, local string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(param)
		if errors := vm.validator.ValidateID(field, id); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}
		c.Locals(local, id)
		return c.Next()
	}
}

// ValidatePagination parses skip and limit query parameters. Missing values
// default to 0 and 100.
func (vm *ValidationMiddleware) ValidatePagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", defaultPageLimit)

		if errors := vm.validator.ValidatePagination(skip, limit); len(errors) > 0 {
			return errors
		}

		c.Locals(LocalSkip, skip)
		c.Locals(LocalLimit, limit)
		return c.Next()
	}
}
