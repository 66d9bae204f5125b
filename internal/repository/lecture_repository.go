package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/repository/models"
	"lecture-qa/internal/util"

	"github.com/jmoiron/sqlx"
)

const lectureColumns = `
	id "id",
	title "title",
	description "description",
	original_filename "original_filename",
	file_path "file_path",
	file_size "file_size",
	total_slides "total_slides",
	extracted_content "extracted_content",
	is_processed "is_processed",
	processing_status "processing_status",
	error_message "error_message",
	author "author",
	subject "subject",
	lecture_date "lecture_date",
	created_at "created_at",
	updated_at "updated_at"`

// LectureDatabaseAdapter implements domain.LectureRepository using sqlx.
type LectureDatabaseAdapter struct {
	db DBTX
}

func NewLectureDatabaseAdapter(db *sqlx.DB) domain.LectureRepository {
	return &LectureDatabaseAdapter{db: db}
}

func toDomainLecture(m *models.Lecture) *domain.Lecture {
	if m == nil {
		return nil
	}
	return &domain.Lecture{
		ID:               m.ID,
		Title:            m.Title,
		Description:      m.Description.String,
		OriginalFilename: m.OriginalFilename,
		FilePath:         m.FilePath,
		FileSize:         m.FileSize,
		TotalSlides:      m.TotalSlides,
		Slides:           []domain.SlideRecord(m.ExtractedContent),
		IsProcessed:      m.IsProcessed,
		Status:           domain.ProcessingStatus(m.ProcessingStatus),
		ErrorMessage:     m.ErrorMessage.String,
		Author:           m.Author.String,
		Subject:          m.Subject.String,
		LectureDate:      util.NullTimeToPtr(m.LectureDate),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromDomainLecture(l *domain.Lecture) *models.Lecture {
	if l == nil {
		return nil
	}
	return &models.Lecture{
		ID:               l.ID,
		Title:            l.Title,
		Description:      util.StringToNullString(l.Description),
		OriginalFilename: l.OriginalFilename,
		FilePath:         l.FilePath,
		FileSize:         l.FileSize,
		TotalSlides:      l.TotalSlides,
		ExtractedContent: models.SlideList(l.Slides),
		IsProcessed:      l.IsProcessed,
		ProcessingStatus: string(l.Status),
		ErrorMessage:     util.StringToNullString(l.ErrorMessage),
		Author:           util.StringToNullString(l.Author),
		Subject:          util.StringToNullString(l.Subject),
		LectureDate:      util.TimePtrToNullTime(l.LectureDate),
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// Create implements domain.LectureRepository
func (a *LectureDatabaseAdapter) Create(ctx context.Context, lecture *domain.Lecture) error {
	if lecture.ID == "" {
		lecture.ID = util.NewULID()
	}
	now := time.Now()
	if lecture.CreatedAt.IsZero() {
		lecture.CreatedAt = now
	}
	lecture.UpdatedAt = now
	if lecture.Status == "" {
		lecture.Status = domain.StatusPending
	}

	m := fromDomainLecture(lecture)
	query := `INSERT INTO lectures (id, title, description, original_filename, file_path, file_size,
		total_slides, extracted_content, is_processed, processing_status, error_message, author, subject,
		lecture_date, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13, :14, :15, :16)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		m.ID, m.Title, m.Description, m.OriginalFilename, m.FilePath, m.FileSize,
		m.TotalSlides, m.ExtractedContent, m.IsProcessed, m.ProcessingStatus, m.ErrorMessage, m.Author, m.Subject,
		m.LectureDate, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert lecture: %w", err)
	}
	return nil
}

// GetByID implements domain.LectureRepository
func (a *LectureDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Lecture, error) {
	var m models.Lecture
	query := `SELECT ` + lectureColumns + ` FROM lectures WHERE id = :1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lecture by ID %s: %w", id, err)
	}
	return toDomainLecture(&m), nil
}

// List implements domain.LectureRepository
func (a *LectureDatabaseAdapter) List(ctx context.Context, skip, limit int) ([]*domain.Lecture, error) {
	skip, limit = pageArgs(skip, limit)
	var rows []models.Lecture
	query := `SELECT ` + lectureColumns + ` FROM lectures
		ORDER BY created_at DESC
		OFFSET :1 ROWS FETCH NEXT :2 ROWS ONLY`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, skip, limit); err != nil {
		return nil, fmt.Errorf("failed to list lectures: %w", err)
	}
	return toDomainLectures(rows), nil
}

// UpdateStatus implements domain.LectureRepository
func (a *LectureDatabaseAdapter) UpdateStatus(ctx context.Context, id string, status domain.ProcessingStatus, errorMessage string) error {
	query := `UPDATE lectures SET processing_status = :1, error_message = :2, updated_at = :3 WHERE id = :4`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, string(status), util.StringToNullString(errorMessage), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update status of lecture %s: %w", id, err)
	}
	return nil
}

// SaveExtraction implements domain.LectureRepository
func (a *LectureDatabaseAdapter) SaveExtraction(ctx context.Context, id string, slides []domain.SlideRecord) error {
	query := `UPDATE lectures SET extracted_content = :1, total_slides = :2, updated_at = :3 WHERE id = :4`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, models.SlideList(slides), len(slides), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to save extraction of lecture %s: %w", id, err)
	}
	return nil
}

// MarkCompleted implements domain.LectureRepository
func (a *LectureDatabaseAdapter) MarkCompleted(ctx context.Context, id string) error {
	query := `UPDATE lectures SET is_processed = :1, processing_status = :2, error_message = NULL, updated_at = :3 WHERE id = :4`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, true, string(domain.StatusCompleted), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark lecture %s completed: %w", id, err)
	}
	return nil
}

// Delete implements domain.LectureRepository
func (a *LectureDatabaseAdapter) Delete(ctx context.Context, id string) error {
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM lectures WHERE id = :1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lecture %s: %w", id, err)
	}
	return nil
}

// ListStale implements domain.LectureRepository
func (a *LectureDatabaseAdapter) ListStale(ctx context.Context, status domain.ProcessingStatus, updatedBefore time.Time) ([]*domain.Lecture, error) {
	var rows []models.Lecture
	query := `SELECT ` + lectureColumns + ` FROM lectures
		WHERE processing_status = :1 AND updated_at < :2
		ORDER BY updated_at`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, string(status), updatedBefore); err != nil {
		return nil, fmt.Errorf("failed to list stale lectures: %w", err)
	}
	return toDomainLectures(rows), nil
}

// Count implements domain.LectureRepository
func (a *LectureDatabaseAdapter) Count(ctx context.Context) (int, error) {
	var count int
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &count, `SELECT COUNT(*) FROM lectures`); err != nil {
		return 0, fmt.Errorf("failed to count lectures: %w", err)
	}
	return count, nil
}

func toDomainLectures(rows []models.Lecture) []*domain.Lecture {
	lectures := make([]*domain.Lecture, 0, len(rows))
	for i := range rows {
		lectures = append(lectures, toDomainLecture(&rows[i]))
	}
	return lectures
}
