package models

import (
	"database/sql"
	"time"
)

// Question maps a row of the questions table.
type Question struct {
	ID            string              `db:"id"`
	LectureID     string              `db:"lecture_id"`
	SlideNumber   int                 `db:"slide_number"`
	QuestionText  string              `db:"question_text"`
	QuestionType  string              `db:"question_type"`
	Difficulty    string              `db:"difficulty"`
	Choices       NullableStringSlice `db:"choices"`
	CorrectAnswer string              `db:"correct_answer"`
	Explanation   sql.NullString      `db:"explanation"`
	Keywords      StringSlice         `db:"keywords"`
	EstimatedTime sql.NullInt64       `db:"estimated_time"`
	UsageCount    int                 `db:"usage_count"`
	CorrectRate   sql.NullInt64       `db:"correct_rate"`
	CreatedAt     time.Time           `db:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at"`
}

// GroupStat is one row of a grouped question statistics query.
type GroupStat struct {
	GroupKey           string          `db:"group_key"`
	QuestionCount      int             `db:"question_count"`
	AverageCorrectRate sql.NullFloat64 `db:"avg_correct_rate"`
}
