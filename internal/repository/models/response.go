package models

import (
	"database/sql"
	"time"
)

// StudentResponse maps a row of the student_responses table.
type StudentResponse struct {
	ID                   string          `db:"id"`
	QuestionID           string          `db:"question_id"`
	StudentID            string          `db:"student_id"`
	ResponseText         string          `db:"response_text"`
	IsCorrect            bool            `db:"is_correct"`
	Score                sql.NullFloat64 `db:"score"`
	ResponseTime         sql.NullInt64   `db:"response_time"`
	SubmittedAt          time.Time       `db:"submitted_at"`
	AttemptNumber        int             `db:"attempt_number"`
	ConfidenceLevel      sql.NullInt64   `db:"confidence_level"`
	DifficultyPerception sql.NullInt64   `db:"difficulty_perception"`
	SessionID            sql.NullString  `db:"session_id"`
	CreatedAt            time.Time       `db:"created_at"`
}

// ResponseRecord is a response joined with its question and lecture.
type ResponseRecord struct {
	ResponseID   string        `db:"response_id"`
	QuestionID   string        `db:"question_id"`
	StudentID    string        `db:"student_id"`
	IsCorrect    bool          `db:"is_correct"`
	ResponseTime sql.NullInt64 `db:"response_time"`
	SubmittedAt  time.Time     `db:"submitted_at"`
	LectureID    string        `db:"lecture_id"`
	LectureTitle string        `db:"lecture_title"`
	SlideNumber  int           `db:"slide_number"`
	QuestionText string        `db:"question_text"`
	Difficulty   string        `db:"difficulty"`
	QuestionType string        `db:"question_type"`
}
