package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty is a question difficulty tier, ordered by cognitive demand.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every tier from least to most demanding.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Rank returns the tier position (easy=0 < medium=1 < hard=2), or -1 for unknown tiers.
func (d Difficulty) Rank() int {
	for i, tier := range Difficulties {
		if tier == d {
			return i
		}
	}
	return -1
}

func (d Difficulty) Valid() bool {
	return d.Rank() >= 0
}

// ParseDifficulty accepts a tier name in any case.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

// QuestionType is the answer format of a question.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeSingleChoice   QuestionType = "single_choice"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
	QuestionTypeEssay          QuestionType = "essay"
)

// QuestionTypes lists every supported question type.
var QuestionTypes = []QuestionType{
	QuestionTypeMultipleChoice,
	QuestionTypeSingleChoice,
	QuestionTypeShortAnswer,
	QuestionTypeEssay,
}

func (t QuestionType) Valid() bool {
	for _, qt := range QuestionTypes {
		if qt == t {
			return true
		}
	}
	return false
}

// IsChoice reports whether answers are picked from a fixed list of choices.
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeSingleChoice
}

// ParseQuestionType accepts a question type name in any case.
func ParseQuestionType(s string) (QuestionType, bool) {
	t := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// ErrInvariantViolation is returned when question fields contradict each other.
var ErrInvariantViolation = errors.New("question invariant violated")

// GeneratedQuestion is one accepted candidate question. Build it with
// NewGeneratedQuestion; values are not modified after acceptance.
type GeneratedQuestion struct {
	Text          string       `json:"question"`
	Type          QuestionType `json:"question_type"`
	Difficulty    Difficulty   `json:"difficulty"`
	Choices       []string     `json:"choices,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Keywords      []string     `json:"keywords"`
}

// NewGeneratedQuestion validates the cross-field rules of a question:
// text and answer are non-empty, choice types carry choices and the answer is
// one of them (case-insensitive, trimmed), other types carry no choices.
func NewGeneratedQuestion(text string, qType QuestionType, difficulty Difficulty, choices []string, correctAnswer, explanation string, keywords []string) (*GeneratedQuestion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: question text is empty", ErrInvariantViolation)
	}
	if !qType.Valid() {
		return nil, fmt.Errorf("%w: unknown question type %q", ErrInvariantViolation, qType)
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvariantViolation, difficulty)
	}
	if strings.TrimSpace(correctAnswer) == "" {
		return nil, fmt.Errorf("%w: correct answer is empty", ErrInvariantViolation)
	}

	if qType.IsChoice() {
		if len(choices) == 0 {
			return nil, fmt.Errorf("%w: %s question has no choices", ErrInvariantViolation, qType)
		}
		if !containsFold(choices, correctAnswer) {
			return nil, fmt.Errorf("%w: correct answer %q is not one of the choices", ErrInvariantViolation, correctAnswer)
		}
	} else if len(choices) > 0 {
		return nil, fmt.Errorf("%w: %s question must not have choices", ErrInvariantViolation, qType)
	}

	if keywords == nil {
		keywords = []string{}
	}

	return &GeneratedQuestion{
		Text:          text,
		Type:          qType,
		Difficulty:    difficulty,
		Choices:       append([]string(nil), choices...),
		CorrectAnswer: correctAnswer,
		Explanation:   explanation,
		Keywords:      append([]string{}, keywords...),
	}, nil
}

func containsFold(values []string, target string) bool {
	target = strings.ToLower(strings.TrimSpace(target))
	for _, v := range values {
		if strings.ToLower(strings.TrimSpace(v)) == target {
			return true
		}
	}
	return false
}

// QuestionSet holds the accepted questions generated for one slide in one run.
type QuestionSet struct {
	SlideNumber int                 `json:"slide_number"`
	SlideTitle  string              `json:"slide_title"`
	Questions   []GeneratedQuestion `json:"questions"`
	// Requested is the number of generation units attempted for the slide.
	Requested int `json:"requested"`
}

// Shortfall is the number of requested questions that were not produced.
func (s QuestionSet) Shortfall() int {
	if missing := s.Requested - len(s.Questions); missing > 0 {
		return missing
	}
	return 0
}
