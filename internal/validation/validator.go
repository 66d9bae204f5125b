package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/util"

	"github.com/go-playground/validator/v10"
)

const (
	MaxPageLimit = 100
	// LectureIDField and QuestionIDField name path parameters in errors.
	LectureIDField  = "lecture_id"
	QuestionIDField = "question_id"
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field names in errors use
// the json, form or query tag of the field.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form", "query"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("ulid", func(fl validator.FieldLevel) bool {
		return util.IsULID(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates a request DTO against its validate tags.
func (v *Validator) Struct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{{Code: domain.CodeValidation, Field: "", Message: err.Error()}}
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, translate(fe))
	}
	return out
}

func translate(fe validator.FieldError) domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "gte":
		return domain.ValidationError{Code: domain.CodeOutOfRange, Field: field, Message: "must be at least " + fe.Param(), Value: fe.Value()}
	case "max", "lte":
		return domain.ValidationError{Code: domain.CodeOutOfRange, Field: field, Message: "must be at most " + fe.Param(), Value: fe.Value()}
	case "oneof":
		return domain.ValidationError{Code: domain.CodeInvalidFormat, Field: field, Message: "must be one of: " + fe.Param(), Value: fe.Value()}
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// ValidateID checks a path identifier is a ULID.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !util.IsULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}

// ValidatePagination checks skip >= 0 and 1 <= limit <= MaxPageLimit.
func (v *Validator) ValidatePagination(skip, limit int) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if skip < 0 {
		errs = append(errs, domain.ValidationError{
			Code:    domain.CodeOutOfRange,
			Field:   "skip",
			Message: "must not be negative",
			Value:   skip,
		})
	}
	if limit < 1 || limit > MaxPageLimit {
		errs = append(errs, domain.NewOutOfRangeError("limit", limit, 1, MaxPageLimit))
	}
	return errs
}

// ValidateStudentID checks a student identifier taken from the path.
func (v *Validator) ValidateStudentID(studentID string) domain.ValidationErrors {
	if strings.TrimSpace(studentID) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("student_id")}
	}
	if len(studentID) > 100 {
		return domain.ValidationErrors{domain.NewOutOfRangeError("student_id", len(studentID), 1, 100)}
	}
	return nil
}

// ParseDifficulty validates an optional difficulty filter.
func ParseDifficulty(field, value string) (domain.Difficulty, error) {
	if value == "" {
		return "", nil
	}
	d, ok := domain.ParseDifficulty(value)
	if !ok {
		return "", domain.ValidationErrors{{
			Code:    domain.CodeInvalidFormat,
			Field:   field,
			Message: fmt.Sprintf("must be one of %v", domain.Difficulties),
			Value:   value,
		}}
	}
	return d, nil
}
