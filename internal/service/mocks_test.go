package service

import (
	"context"
	"sync"
	"time"

	"lecture-qa/internal/difficulty"
	"lecture-qa/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockLectureRepository ---
type MockLectureRepository struct {
	mock.Mock
}

func (m *MockLectureRepository) Create(ctx context.Context, lecture *domain.Lecture) error {
	args := m.Called(ctx, lecture)
	return args.Error(0)
}

func (m *MockLectureRepository) GetByID(ctx context.Context, id string) (*domain.Lecture, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lecture), args.Error(1)
}

func (m *MockLectureRepository) List(ctx context.Context, skip, limit int) ([]*domain.Lecture, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Lecture), args.Error(1)
}

func (m *MockLectureRepository) UpdateStatus(ctx context.Context, id string, status domain.ProcessingStatus, errorMessage string) error {
	args := m.Called(ctx, id, status, errorMessage)
	return args.Error(0)
}

func (m *MockLectureRepository) SaveExtraction(ctx context.Context, id string, slides []domain.SlideRecord) error {
	args := m.Called(ctx, id, slides)
	return args.Error(0)
}

func (m *MockLectureRepository) MarkCompleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLectureRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLectureRepository) ListStale(ctx context.Context, status domain.ProcessingStatus, updatedBefore time.Time) ([]*domain.Lecture, error) {
	args := m.Called(ctx, status, updatedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Lecture), args.Error(1)
}

func (m *MockLectureRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) SaveBatch(ctx context.Context, questions []*domain.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) List(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) UpdateUsage(ctx context.Context, id string, usageCount int, correctRate *int) error {
	args := m.Called(ctx, id, usageCount, correctRate)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) DeleteByLecture(ctx context.Context, lectureID string) error {
	args := m.Called(ctx, lectureID)
	return args.Error(0)
}

func (m *MockQuestionRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) AverageCorrectRate(ctx context.Context) (*float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockQuestionRepository) GroupStats(ctx context.Context, dimension domain.StatDimension, answeredOnly bool) ([]domain.GroupStat, error) {
	args := m.Called(ctx, dimension, answeredOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupStat), args.Error(1)
}

func (m *MockQuestionRepository) ListLowPerforming(ctx context.Context, lectureID string, threshold int) ([]*domain.Question, error) {
	args := m.Called(ctx, lectureID, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

// --- MockResponseRepository ---
type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) Create(ctx context.Context, response *domain.StudentResponse) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *MockResponseRepository) CountAttempts(ctx context.Context, questionID, studentID string) (int, error) {
	args := m.Called(ctx, questionID, studentID)
	return args.Int(0), args.Error(1)
}

func (m *MockResponseRepository) CorrectnessCounts(ctx context.Context, questionID string) (int, int, error) {
	args := m.Called(ctx, questionID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockResponseRepository) ListByQuestion(ctx context.Context, questionID string, skip, limit int) ([]*domain.StudentResponse, error) {
	args := m.Called(ctx, questionID, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StudentResponse), args.Error(1)
}

func (m *MockResponseRepository) DeleteByQuestion(ctx context.Context, questionID string) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockResponseRepository) DeleteByLecture(ctx context.Context, lectureID string) error {
	args := m.Called(ctx, lectureID)
	return args.Error(0)
}

func (m *MockResponseRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockResponseRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *MockResponseRepository) ListRecordsByLecture(ctx context.Context, lectureID string) ([]domain.ResponseRecord, error) {
	args := m.Called(ctx, lectureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResponseRecord), args.Error(1)
}

func (m *MockResponseRepository) ListRecordsByStudent(ctx context.Context, studentID string) ([]domain.ResponseRecord, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResponseRecord), args.Error(1)
}

// --- fakeTxManager runs fn directly and records commits and rollbacks ---
type fakeTxManager struct {
	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (f *fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

// --- MockEmbeddingService ---
type MockEmbeddingService struct {
	mock.Mock
}

func (m *MockEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// --- MockExtractor ---
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, path string) ([]domain.SlideRecord, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SlideRecord), args.Error(1)
}

// --- MockGenerator ---
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, slides []domain.SlideRecord, questionsPerSlide int) []domain.QuestionSet {
	args := m.Called(ctx, slides, questionsPerSlide)
	return args.Get(0).([]domain.QuestionSet)
}

func (m *MockGenerator) GenerateComprehensive(ctx context.Context, slides []domain.SlideRecord, total int, ratios difficulty.Ratios) ([]domain.QuestionSet, error) {
	args := m.Called(ctx, slides, total, ratios)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuestionSet), args.Error(1)
}

// --- memCache is an in-memory domain.Cache ---
type memCache struct {
	mu      sync.Mutex
	values  map[string]string
	hashes  map[string]map[string]string
	expires map[string]time.Duration
	failing bool
}

func newMemCache() *memCache {
	return &memCache{
		values:  map[string]string{},
		hashes:  map[string]map[string]string{},
		expires: map[string]time.Duration{},
	}
}

func (c *memCache) err() error {
	if c.failing {
		return domain.CacheError("cache unavailable")
	}
	return nil
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.err(); err != nil {
		return "", err
	}
	v, ok := c.values[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.err(); err != nil {
		return err
	}
	c.values[key] = value
	c.expires[key] = expiration
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.err(); err != nil {
		return err
	}
	delete(c.values, key)
	delete(c.hashes, key)
	return nil
}

func (c *memCache) Ping(context.Context) error {
	return c.err()
}

func (c *memCache) HGetAll(_ context.Context, key string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.err(); err != nil {
		return nil, err
	}
	out := map[string]string{}
	for k, v := range c.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (c *memCache) HSet(_ context.Context, key string, values map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.err(); err != nil {
		return err
	}
	h, ok := c.hashes[key]
	if !ok {
		h = map[string]string{}
		c.hashes[key] = h
	}
	for k, v := range values {
		h[k] = v
	}
	return nil
}

func (c *memCache) Expire(_ context.Context, key string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.err(); err != nil {
		return err
	}
	c.expires[key] = expiration
	return nil
}
