package domain

import (
	"context"
	"time"
)

// TransactionManager runs fn inside a single database transaction. Repositories
// called with the context passed to fn join that transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// LectureRepository persists lectures. Getters return (nil, nil) when nothing matches.
type LectureRepository interface {
	Create(ctx context.Context, lecture *Lecture) error
	GetByID(ctx context.Context, id string) (*Lecture, error)
	List(ctx context.Context, skip, limit int) ([]*Lecture, error)
	UpdateStatus(ctx context.Context, id string, status ProcessingStatus, errorMessage string) error
	SaveExtraction(ctx context.Context, id string, slides []SlideRecord) error
	MarkCompleted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListStale(ctx context.Context, status ProcessingStatus, updatedBefore time.Time) ([]*Lecture, error)
	Count(ctx context.Context) (int, error)
}

// QuestionRepository persists generated questions and their usage statistics.
type QuestionRepository interface {
	SaveBatch(ctx context.Context, questions []*Question) error
	GetByID(ctx context.Context, id string) (*Question, error)
	List(ctx context.Context, filter QuestionFilter) ([]*Question, error)
	Update(ctx context.Context, question *Question) error
	UpdateUsage(ctx context.Context, id string, usageCount int, correctRate *int) error
	Delete(ctx context.Context, id string) error
	DeleteByLecture(ctx context.Context, lectureID string) error
	Count(ctx context.Context) (int, error)
	AverageCorrectRate(ctx context.Context) (*float64, error)
	GroupStats(ctx context.Context, dimension StatDimension, answeredOnly bool) ([]GroupStat, error)
	ListLowPerforming(ctx context.Context, lectureID string, threshold int) ([]*Question, error)
}

// ResponseRepository persists student responses and serves analytics reads.
type ResponseRepository interface {
	Create(ctx context.Context, response *StudentResponse) error
	CountAttempts(ctx context.Context, questionID, studentID string) (int, error)
	CorrectnessCounts(ctx context.Context, questionID string) (correct int, total int, err error)
	ListByQuestion(ctx context.Context, questionID string, skip, limit int) ([]*StudentResponse, error)
	DeleteByQuestion(ctx context.Context, questionID string) error
	DeleteByLecture(ctx context.Context, lectureID string) error
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	ListRecordsByLecture(ctx context.Context, lectureID string) ([]ResponseRecord, error)
	// ListRecordsByStudent returns the student's responses, newest first.
	ListRecordsByStudent(ctx context.Context, studentID string) ([]ResponseRecord, error)
}
