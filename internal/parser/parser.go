// Package parser extracts a single question record from free-form model output.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"lecture-qa/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// FailureKind classifies why a reply could not be turned into a question.
type FailureKind string

const (
	NoStructureFound   FailureKind = "no_structure_found"
	MalformedSyntax    FailureKind = "malformed_syntax"
	MissingField       FailureKind = "missing_field"
	InvariantViolation FailureKind = "invariant_violation"
)

// Failure is returned for every reply that does not yield a question.
// Field is set for MissingField failures.
type Failure struct {
	Kind  FailureKind
	Field string
	Err   error
}

func (f *Failure) Error() string {
	msg := string(f.Kind)
	if f.Field != "" {
		msg += fmt.Sprintf("(%s)", f.Field)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// RequiredFields must be present in every reply. keywords is optional.
var RequiredFields = []string{"question", "question_type", "difficulty", "correct_answer", "explanation"}

const schemaURL = "schema://generated-question.json"

const questionSchema = `{
	"type": "object",
	"properties": {
		"question": {"type": "string"},
		"question_type": {"enum": ["multiple_choice", "single_choice", "short_answer", "essay"]},
		"difficulty": {"enum": ["easy", "medium", "hard"]},
		"choices": {"type": ["array", "null"], "items": {"type": "string"}},
		"correct_answer": {"type": "string"},
		"explanation": {"type": "string"},
		"keywords": {"type": ["array", "null"], "items": {"type": "string"}}
	}
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
)

func schema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(questionSchema), &def); err != nil {
			panic(fmt.Sprintf("parse question schema: %v", err))
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			panic(fmt.Sprintf("add question schema: %v", err))
		}
		compiledSchema = c.MustCompile(schemaURL)
	})
	return compiledSchema
}

// Parse turns a raw model reply into a validated question. Every error it
// returns is a *Failure.
func Parse(raw string) (*domain.GeneratedQuestion, error) {
	candidate, ok := ExtractCandidate(raw)
	if !ok {
		return nil, &Failure{Kind: NoStructureFound}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		return nil, &Failure{Kind: MalformedSyntax, Err: err}
	}
	if data == nil {
		return nil, &Failure{Kind: MalformedSyntax, Err: errors.New("reply is not an object")}
	}

	for _, field := range RequiredFields {
		if _, ok := data[field]; !ok {
			return nil, &Failure{Kind: MissingField, Field: field}
		}
	}

	normalizeEnum(data, "question_type")
	normalizeEnum(data, "difficulty")

	if err := schema().Validate(data); err != nil {
		return nil, &Failure{Kind: MalformedSyntax, Err: err}
	}

	q, err := domain.NewGeneratedQuestion(
		data["question"].(string),
		domain.QuestionType(data["question_type"].(string)),
		domain.Difficulty(data["difficulty"].(string)),
		stringSlice(data["choices"]),
		data["correct_answer"].(string),
		data["explanation"].(string),
		stringSlice(data["keywords"]),
	)
	if err != nil {
		if errors.Is(err, domain.ErrInvariantViolation) {
			return nil, &Failure{Kind: InvariantViolation, Err: err}
		}
		return nil, &Failure{Kind: MalformedSyntax, Err: err}
	}
	return q, nil
}

// normalizeEnum lowercases and trims a string enum value in place.
func normalizeEnum(data map[string]any, key string) {
	if s, ok := data[key].(string); ok {
		data[key] = strings.ToLower(strings.TrimSpace(s))
	}
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
