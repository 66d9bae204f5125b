package domain

import "time"

// ProcessingStatus tracks the background processing of an uploaded lecture.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusUploaded   ProcessingStatus = "uploaded"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusError      ProcessingStatus = "error"
)

// Lecture is an uploaded slide deck and its extraction state.
type Lecture struct {
	ID               string
	Title            string
	Description      string
	OriginalFilename string
	FilePath         string
	FileSize         int64
	TotalSlides      int
	Slides           []SlideRecord
	IsProcessed      bool
	Status           ProcessingStatus
	ErrorMessage     string
	Author           string
	Subject          string
	LectureDate      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Question is a persisted GeneratedQuestion linked to its lecture and slide.
type Question struct {
	ID            string
	LectureID     string
	SlideNumber   int
	Text          string
	Type          QuestionType
	Difficulty    Difficulty
	Choices       []string
	CorrectAnswer string
	Explanation   string
	Keywords      []string
	EstimatedTime *int
	UsageCount    int
	CorrectRate   *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewQuestion links an accepted question to a lecture slide.
func NewQuestion(lectureID string, slideNumber int, q GeneratedQuestion) *Question {
	now := time.Now()
	return &Question{
		LectureID:     lectureID,
		SlideNumber:   slideNumber,
		Text:          q.Text,
		Type:          q.Type,
		Difficulty:    q.Difficulty,
		Choices:       q.Choices,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Keywords:      q.Keywords,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Generated returns the evaluation view of a stored question.
func (q *Question) Generated() GeneratedQuestion {
	return GeneratedQuestion{
		Text:          q.Text,
		Type:          q.Type,
		Difficulty:    q.Difficulty,
		Choices:       q.Choices,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Keywords:      q.Keywords,
	}
}

// QuestionFilter narrows question listings. Zero values mean "any".
type QuestionFilter struct {
	LectureID  string
	Difficulty Difficulty
	Type       QuestionType
	Skip       int
	Limit      int
}

// StudentResponse is one submitted answer and its evaluation.
type StudentResponse struct {
	ID                   string
	QuestionID           string
	StudentID            string
	ResponseText         string
	IsCorrect            bool
	Score                float64
	ResponseTime         *int
	SubmittedAt          time.Time
	AttemptNumber        int
	ConfidenceLevel      *int
	DifficultyPerception *int
	SessionID            string
	CreatedAt            time.Time
}
