package domain

import "time"

// StatDimension is a question attribute that statistics can be grouped by.
type StatDimension string

const (
	DimensionDifficulty   StatDimension = "difficulty"
	DimensionQuestionType StatDimension = "question_type"
)

// GroupStat is a per-group question count with the mean stored correct rate.
type GroupStat struct {
	Key                string
	QuestionCount      int
	AverageCorrectRate *float64
}

// ResponseRecord is a student response joined with the question and lecture it belongs to.
type ResponseRecord struct {
	ResponseID   string
	QuestionID   string
	StudentID    string
	IsCorrect    bool
	ResponseTime *int
	SubmittedAt  time.Time
	LectureID    string
	LectureTitle string
	SlideNumber  int
	QuestionText string
	Difficulty   Difficulty
	QuestionType QuestionType
}
