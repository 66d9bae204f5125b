package repository

import (
	"context"
	"fmt"
	"time"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/repository/models"
	"lecture-qa/internal/util"

	"github.com/jmoiron/sqlx"
)

const responseColumns = `
	id "id",
	question_id "question_id",
	student_id "student_id",
	response_text "response_text",
	is_correct "is_correct",
	score "score",
	response_time "response_time",
	submitted_at "submitted_at",
	attempt_number "attempt_number",
	confidence_level "confidence_level",
	difficulty_perception "difficulty_perception",
	session_id "session_id",
	created_at "created_at"`

const responseRecordQuery = `SELECT
	r.id "response_id",
	r.question_id "question_id",
	r.student_id "student_id",
	r.is_correct "is_correct",
	r.response_time "response_time",
	r.submitted_at "submitted_at",
	q.lecture_id "lecture_id",
	l.title "lecture_title",
	q.slide_number "slide_number",
	q.question_text "question_text",
	q.difficulty "difficulty",
	q.question_type "question_type"
FROM student_responses r
JOIN questions q ON q.id = r.question_id
JOIN lectures l ON l.id = q.lecture_id`

// ResponseDatabaseAdapter implements domain.ResponseRepository using sqlx.
type ResponseDatabaseAdapter struct {
	db DBTX
}

func NewResponseDatabaseAdapter(db *sqlx.DB) domain.ResponseRepository {
	return &ResponseDatabaseAdapter{db: db}
}

func toDomainResponse(m *models.StudentResponse) *domain.StudentResponse {
	return &domain.StudentResponse{
		ID:                   m.ID,
		QuestionID:           m.QuestionID,
		StudentID:            m.StudentID,
		ResponseText:         m.ResponseText,
		IsCorrect:            m.IsCorrect,
		Score:                m.Score.Float64,
		ResponseTime:         util.NullInt64ToIntPtr(m.ResponseTime),
		SubmittedAt:          m.SubmittedAt,
		AttemptNumber:        m.AttemptNumber,
		ConfidenceLevel:      util.NullInt64ToIntPtr(m.ConfidenceLevel),
		DifficultyPerception: util.NullInt64ToIntPtr(m.DifficultyPerception),
		SessionID:            m.SessionID.String,
		CreatedAt:            m.CreatedAt,
	}
}

// Create implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) Create(ctx context.Context, r *domain.StudentResponse) error {
	if r.ID == "" {
		r.ID = util.NewULID()
	}
	now := time.Now()
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = now
	}
	r.CreatedAt = now

	query := `INSERT INTO student_responses (id, question_id, student_id, response_text, is_correct, score,
		response_time, submitted_at, attempt_number, confidence_level, difficulty_perception, session_id, created_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		r.ID, r.QuestionID, r.StudentID, r.ResponseText, r.IsCorrect, r.Score,
		util.IntPtrToNullInt64(r.ResponseTime), r.SubmittedAt, r.AttemptNumber,
		util.IntPtrToNullInt64(r.ConfidenceLevel), util.IntPtrToNullInt64(r.DifficultyPerception),
		util.StringToNullString(r.SessionID), r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert response for question %s: %w", r.QuestionID, err)
	}
	return nil
}

// CountAttempts implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) CountAttempts(ctx context.Context, questionID, studentID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM student_responses WHERE question_id = :1 AND student_id = :2`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &count, query, questionID, studentID); err != nil {
		return 0, fmt.Errorf("failed to count attempts of student %s on question %s: %w", studentID, questionID, err)
	}
	return count, nil
}

// CorrectnessCounts implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) CorrectnessCounts(ctx context.Context, questionID string) (int, int, error) {
	var row struct {
		Correct int `db:"correct"`
		Total   int `db:"total"`
	}
	query := `SELECT COALESCE(SUM(CASE WHEN is_correct = 1 THEN 1 ELSE 0 END), 0) "correct", COUNT(*) "total"
		FROM student_responses WHERE question_id = :1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, questionID); err != nil {
		return 0, 0, fmt.Errorf("failed to count responses of question %s: %w", questionID, err)
	}
	return row.Correct, row.Total, nil
}

// ListByQuestion implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) ListByQuestion(ctx context.Context, questionID string, skip, limit int) ([]*domain.StudentResponse, error) {
	skip, limit = pageArgs(skip, limit)
	var rows []models.StudentResponse
	query := `SELECT ` + responseColumns + ` FROM student_responses WHERE question_id = :1
		ORDER BY submitted_at DESC OFFSET :2 ROWS FETCH NEXT :3 ROWS ONLY`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, questionID, skip, limit); err != nil {
		return nil, fmt.Errorf("failed to list responses of question %s: %w", questionID, err)
	}

	responses := make([]*domain.StudentResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, toDomainResponse(&rows[i]))
	}
	return responses, nil
}

// DeleteByQuestion implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) DeleteByQuestion(ctx context.Context, questionID string) error {
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM student_responses WHERE question_id = :1`, questionID); err != nil {
		return fmt.Errorf("failed to delete responses of question %s: %w", questionID, err)
	}
	return nil
}

// DeleteByLecture implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) DeleteByLecture(ctx context.Context, lectureID string) error {
	query := `DELETE FROM student_responses WHERE question_id IN (SELECT id FROM questions WHERE lecture_id = :1)`
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, lectureID); err != nil {
		return fmt.Errorf("failed to delete responses of lecture %s: %w", lectureID, err)
	}
	return nil
}

// Count implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) Count(ctx context.Context) (int, error) {
	var count int
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &count, `SELECT COUNT(*) FROM student_responses`); err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return count, nil
}

// CountSince implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM student_responses WHERE submitted_at >= :1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("failed to count responses since %s: %w", since.Format(time.RFC3339), err)
	}
	return count, nil
}

// ListRecordsByLecture implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) ListRecordsByLecture(ctx context.Context, lectureID string) ([]domain.ResponseRecord, error) {
	query := responseRecordQuery + ` WHERE q.lecture_id = :1 ORDER BY q.slide_number, r.submitted_at`
	return a.listRecords(ctx, query, lectureID)
}

// ListRecordsByStudent implements domain.ResponseRepository
func (a *ResponseDatabaseAdapter) ListRecordsByStudent(ctx context.Context, studentID string) ([]domain.ResponseRecord, error) {
	query := responseRecordQuery + ` WHERE r.student_id = :1 ORDER BY r.submitted_at DESC`
	return a.listRecords(ctx, query, studentID)
}

func (a *ResponseDatabaseAdapter) listRecords(ctx context.Context, query string, arg string) ([]domain.ResponseRecord, error) {
	var rows []models.ResponseRecord
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("failed to list response records: %w", err)
	}

	records := make([]domain.ResponseRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, domain.ResponseRecord{
			ResponseID:   r.ResponseID,
			QuestionID:   r.QuestionID,
			StudentID:    r.StudentID,
			IsCorrect:    r.IsCorrect,
			ResponseTime: util.NullInt64ToIntPtr(r.ResponseTime),
			SubmittedAt:  r.SubmittedAt,
			LectureID:    r.LectureID,
			LectureTitle: r.LectureTitle,
			SlideNumber:  r.SlideNumber,
			QuestionText: r.QuestionText,
			Difficulty:   domain.Difficulty(r.Difficulty),
			QuestionType: domain.QuestionType(r.QuestionType),
		})
	}
	return records, nil
}
