// Package handler exposes the lecture, question and analytics services over HTTP.
package handler

import (
	"lecture-qa/internal/domain"
	"lecture-qa/internal/middleware"
	"lecture-qa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// bindJSON parses the request body into dst and validates it.
func bindJSON(c *fiber.Ctx, v *validation.Validator, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}
	if errs := v.Struct(dst); len(errs) > 0 {
		return errs
	}
	return nil
}

// page returns the skip and limit stored by the pagination middleware.
func page(c *fiber.Ctx) (int, int) {
	skip, _ := c.Locals(middleware.LocalSkip).(int)
	limit, ok := c.Locals(middleware.LocalLimit).(int)
	if !ok {
		limit = validation.MaxPageLimit
	}
	return skip, limit
}

func lectureID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalLectureID).(string); ok {
		return id
	}
	return c.Params("lectureId")
}

func questionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalQuestionID).(string); ok {
		return id
	}
	return c.Params("questionId")
}
