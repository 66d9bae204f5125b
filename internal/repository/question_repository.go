package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/repository/models"
	"lecture-qa/internal/util"

	"github.com/jmoiron/sqlx"
)

const questionColumns = `
	id "id",
	lecture_id "lecture_id",
	slide_number "slide_number",
	question_text "question_text",
	question_type "question_type",
	difficulty "difficulty",
	choices "choices",
	correct_answer "correct_answer",
	explanation "explanation",
	keywords "keywords",
	estimated_time "estimated_time",
	usage_count "usage_count",
	correct_rate "correct_rate",
	created_at "created_at",
	updated_at "updated_at"`

// statColumns whitelists the columns GroupStats may group by.
var statColumns = map[domain.StatDimension]string{
	domain.DimensionDifficulty:   "difficulty",
	domain.DimensionQuestionType: "question_type",
}

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.
type QuestionDatabaseAdapter struct {
	db DBTX
}

func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	keywords := []string(m.Keywords)
	if keywords == nil {
		keywords = []string{}
	}
	return &domain.Question{
		ID:            m.ID,
		LectureID:     m.LectureID,
		SlideNumber:   m.SlideNumber,
		Text:          m.QuestionText,
		Type:          domain.QuestionType(m.QuestionType),
		Difficulty:    domain.Difficulty(m.Difficulty),
		Choices:       []string(m.Choices),
		CorrectAnswer: m.CorrectAnswer,
		Explanation:   m.Explanation.String,
		Keywords:      keywords,
		EstimatedTime: util.NullInt64ToIntPtr(m.EstimatedTime),
		UsageCount:    m.UsageCount,
		CorrectRate:   util.NullInt64ToIntPtr(m.CorrectRate),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	var choices models.NullableStringSlice
	if len(q.Choices) > 0 {
		choices = q.Choices
	}
	return &models.Question{
		ID:            q.ID,
		LectureID:     q.LectureID,
		SlideNumber:   q.SlideNumber,
		QuestionText:  q.Text,
		QuestionType:  string(q.Type),
		Difficulty:    string(q.Difficulty),
		Choices:       choices,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   util.StringToNullString(q.Explanation),
		Keywords:      models.StringSlice(q.Keywords),
		EstimatedTime: util.IntPtrToNullInt64(q.EstimatedTime),
		UsageCount:    q.UsageCount,
		CorrectRate:   util.IntPtrToNullInt64(q.CorrectRate),
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

// SaveBatch implements domain.QuestionRepository. Callers that need
// all-or-nothing semantics run it inside a transaction.
func (a *QuestionDatabaseAdapter) SaveBatch(ctx context.Context, questions []*domain.Question) error {
	query := `INSERT INTO questions (id, lecture_id, slide_number, question_text, question_type, difficulty,
		choices, correct_answer, explanation, keywords, estimated_time, usage_count, correct_rate, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13, :14, :15)`

	exec := GetExecutor(ctx, a.db)
	now := time.Now()
	for _, q := range questions {
		if q.ID == "" {
			q.ID = util.NewULID()
		}
		if q.CreatedAt.IsZero() {
			q.CreatedAt = now
		}
		q.UpdatedAt = now

		m := fromDomainQuestion(q)
		_, err := exec.ExecContext(ctx, query,
			m.ID, m.LectureID, m.SlideNumber, m.QuestionText, m.QuestionType, m.Difficulty,
			m.Choices, m.CorrectAnswer, m.Explanation, m.Keywords, m.EstimatedTime, m.UsageCount, m.CorrectRate,
			m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert question for lecture %s slide %d: %w", q.LectureID, q.SlideNumber, err)
		}
	}
	return nil
}

// GetByID implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	var m models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = :1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by ID %s: %w", id, err)
	}
	return toDomainQuestion(&m), nil
}

// List implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) List(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	var conditions []string
	var args []interface{}
	bind := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.LectureID != "" {
		bind("lecture_id = :%d", filter.LectureID)
	}
	if filter.Difficulty != "" {
		bind("difficulty = :%d", string(filter.Difficulty))
	}
	if filter.Type != "" {
		bind("question_type = :%d", string(filter.Type))
	}

	query := `SELECT ` + questionColumns + ` FROM questions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	skip, limit := pageArgs(filter.Skip, filter.Limit)
	args = append(args, skip, limit)
	query += fmt.Sprintf(" ORDER BY lecture_id, slide_number, created_at, id OFFSET :%d ROWS FETCH NEXT :%d ROWS ONLY", len(args)-1, len(args))

	var rows []models.Question
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return toDomainQuestions(rows), nil
}

// Update implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) Update(ctx context.Context, question *domain.Question) error {
	question.UpdatedAt = time.Now()
	m := fromDomainQuestion(question)
	query := `UPDATE questions SET question_text = :1, correct_answer = :2, explanation = :3,
		choices = :4, keywords = :5, updated_at = :6 WHERE id = :7`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		m.QuestionText, m.CorrectAnswer, m.Explanation, m.Choices, m.Keywords, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update question %s: %w", question.ID, err)
	}
	return nil
}

// UpdateUsage implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) UpdateUsage(ctx context.Context, id string, usageCount int, correctRate *int) error {
	query := `UPDATE questions SET usage_count = :1, correct_rate = :2, updated_at = :3 WHERE id = :4`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, usageCount, util.IntPtrToNullInt64(correctRate), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update usage of question %s: %w", id, err)
	}
	return nil
}

// Delete implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) Delete(ctx context.Context, id string) error {
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM questions WHERE id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete question %s: %w", id, err)
	}
	return nil
}

// DeleteByLecture implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) DeleteByLecture(ctx context.Context, lectureID string) error {
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM questions WHERE lecture_id = :1`, lectureID); err != nil {
		return fmt.Errorf("failed to delete questions of lecture %s: %w", lectureID, err)
	}
	return nil
}

// Count implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) Count(ctx context.Context) (int, error) {
	var count int
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &count, `SELECT COUNT(*) FROM questions`); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// AverageCorrectRate implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) AverageCorrectRate(ctx context.Context) (*float64, error) {
	var avg sql.NullFloat64
	query := `SELECT AVG(correct_rate) FROM questions WHERE correct_rate IS NOT NULL`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &avg, query); err != nil {
		return nil, fmt.Errorf("failed to average correct rates: %w", err)
	}
	return util.NullFloat64ToPtr(avg), nil
}

// GroupStats implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GroupStats(ctx context.Context, dimension domain.StatDimension, answeredOnly bool) ([]domain.GroupStat, error) {
	column, ok := statColumns[dimension]
	if !ok {
		return nil, fmt.Errorf("unsupported statistics dimension %q", dimension)
	}

	query := fmt.Sprintf(`SELECT %[1]s "group_key", COUNT(*) "question_count", AVG(correct_rate) "avg_correct_rate"
		FROM questions`, column)
	if answeredOnly {
		query += ` WHERE correct_rate IS NOT NULL`
	}
	query += fmt.Sprintf(` GROUP BY %[1]s ORDER BY %[1]s`, column)

	var rows []models.GroupStat
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to group questions by %s: %w", dimension, err)
	}

	stats := make([]domain.GroupStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, domain.GroupStat{
			Key:                r.GroupKey,
			QuestionCount:      r.QuestionCount,
			AverageCorrectRate: util.NullFloat64ToPtr(r.AverageCorrectRate),
		})
	}
	return stats, nil
}

// ListLowPerforming implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) ListLowPerforming(ctx context.Context, lectureID string, threshold int) ([]*domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions
		WHERE lecture_id = :1 AND correct_rate IS NOT NULL AND correct_rate < :2
		ORDER BY correct_rate, slide_number`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, lectureID, threshold); err != nil {
		return nil, fmt.Errorf("failed to list low performing questions of lecture %s: %w", lectureID, err)
	}
	return toDomainQuestions(rows), nil
}

func toDomainQuestions(rows []models.Question) []*domain.Question {
	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions
}
