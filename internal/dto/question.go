package dto

import (
	"time"

	"lecture-qa/internal/domain"
)

// QuestionResponse represents a stored question in the API response
// @Description Question information
type QuestionResponse struct {
	ID            string      `json:"id"`
	LectureID     string      `json:"lecture_id"`
	Lecture       *LectureRef `json:"lecture,omitempty"`
	SlideNumber   int         `json:"slide_number"`
	QuestionText  string      `json:"question_text"`
	QuestionType  string      `json:"question_type"`
	Difficulty    string      `json:"difficulty"`
	Choices       []string    `json:"choices,omitempty"`
	CorrectAnswer string      `json:"correct_answer"`
	Explanation   string      `json:"explanation,omitempty"`
	Keywords      []string    `json:"keywords"`
	EstimatedTime *int        `json:"estimated_time,omitempty"`
	UsageCount    int         `json:"usage_count"`
	CorrectRate   *int        `json:"correct_rate,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type LectureRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func NewQuestionResponse(q *domain.Question) QuestionResponse {
	keywords := q.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return QuestionResponse{
		ID:            q.ID,
		LectureID:     q.LectureID,
		SlideNumber:   q.SlideNumber,
		QuestionText:  q.Text,
		QuestionType:  string(q.Type),
		Difficulty:    string(q.Difficulty),
		Choices:       q.Choices,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Keywords:      keywords,
		EstimatedTime: q.EstimatedTime,
		UsageCount:    q.UsageCount,
		CorrectRate:   q.CorrectRate,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

func NewQuestionResponses(questions []*domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, NewQuestionResponse(q))
	}
	return out
}

// QuestionListQuery holds the query parameters of a question listing.
type QuestionListQuery struct {
	LectureID    string `query:"lecture_id" validate:"omitempty,ulid"`
	Difficulty   string `query:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	QuestionType string `query:"question_type" validate:"omitempty,oneof=multiple_choice single_choice short_answer essay"`
	Skip         int    `query:"skip" validate:"gte=0"`
	Limit        int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// QuestionUpdateRequest edits a question. Nil fields are left unchanged.
// @Description Question update request
type QuestionUpdateRequest struct {
	QuestionText  *string `json:"question_text,omitempty" validate:"omitempty,min=1,max=4000"`
	CorrectAnswer *string `json:"correct_answer,omitempty" validate:"omitempty,min=1,max=4000"`
	Explanation   *string `json:"explanation,omitempty" validate:"omitempty,max=4000"`
}

// AnswerSubmitRequest is a student's answer to one question
// @Description Answer submission
type AnswerSubmitRequest struct {
	StudentID            string `json:"student_id" validate:"required,max=100"`
	ResponseText         string `json:"response_text" validate:"required,max=5000"`
	ResponseTime         *int   `json:"response_time,omitempty" validate:"omitempty,gte=0"`
	ConfidenceLevel      *int   `json:"confidence_level,omitempty" validate:"omitempty,min=1,max=5"`
	DifficultyPerception *int   `json:"difficulty_perception,omitempty" validate:"omitempty,min=1,max=5"`
	SessionID            string `json:"session_id,omitempty" validate:"max=100"`
}

// AnswerResultResponse reports the evaluation of a submitted answer
type AnswerResultResponse struct {
	ResponseID    string  `json:"response_id"`
	IsCorrect     bool    `json:"is_correct"`
	Score         float64 `json:"score"`
	AttemptNumber int     `json:"attempt_number"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   string  `json:"explanation,omitempty"`
	UsageCount    int     `json:"usage_count"`
	CorrectRate   *int    `json:"correct_rate,omitempty"`
}

type StudentResponseDTO struct {
	ID                   string    `json:"id"`
	StudentID            string    `json:"student_id"`
	ResponseText         string    `json:"response_text"`
	IsCorrect            bool      `json:"is_correct"`
	Score                float64   `json:"score"`
	ResponseTime         *int      `json:"response_time,omitempty"`
	AttemptNumber        int       `json:"attempt_number"`
	ConfidenceLevel      *int      `json:"confidence_level,omitempty"`
	DifficultyPerception *int      `json:"difficulty_perception,omitempty"`
	SessionID            string    `json:"session_id,omitempty"`
	SubmittedAt          time.Time `json:"submitted_at"`
}

func NewStudentResponseDTO(r *domain.StudentResponse) StudentResponseDTO {
	return StudentResponseDTO{
		ID:                   r.ID,
		StudentID:            r.StudentID,
		ResponseText:         r.ResponseText,
		IsCorrect:            r.IsCorrect,
		Score:                r.Score,
		ResponseTime:         r.ResponseTime,
		AttemptNumber:        r.AttemptNumber,
		ConfidenceLevel:      r.ConfidenceLevel,
		DifficultyPerception: r.DifficultyPerception,
		SessionID:            r.SessionID,
		SubmittedAt:          r.SubmittedAt,
	}
}

type ResponseListResponse struct {
	QuestionID string               `json:"question_id"`
	Responses  []StudentResponseDTO `json:"responses"`
}

// GroupSummary is a question count with the mean correct rate of the group.
type GroupSummary struct {
	QuestionCount      int     `json:"question_count"`
	AverageCorrectRate float64 `json:"average_correct_rate"`
}

// StatisticsResponse is the question bank overview
// @Description Question statistics overview
type StatisticsResponse struct {
	TotalQuestions         int                     `json:"total_questions"`
	TotalResponses         int                     `json:"total_responses"`
	AverageCorrectRate     float64                 `json:"average_correct_rate"`
	DifficultyDistribution map[string]GroupSummary `json:"difficulty_distribution"`
	TypeDistribution       map[string]GroupSummary `json:"type_distribution"`
}
