package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"lecture-qa/internal/domain"
	"lecture-qa/internal/dto"
)

const (
	recentWindow         = 7 * 24 * time.Hour
	recentActivityLimit  = 10
	trendMinResponses    = 5
	trendWindow          = 20
	trendBatchSize       = 5
	trendMinBatch        = 3
	trendDelta           = 10.0
	lowPerformanceRate   = 50
	weakTierRate         = 60.0
	generalTargetRate    = 70.0
	questionPreviewRunes = 100
)

// Learning trend labels.
const (
	TrendImproving = "向上"
	TrendDeclining = "低下"
	TrendStable    = "安定"
)

// AnalyticsService defines the read-only reports built over questions and responses.
type AnalyticsService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	LecturePerformance(ctx context.Context, lectureID string) (*dto.LecturePerformanceResponse, error)
	StudentProgress(ctx context.Context, studentID string) (*dto.StudentProgressResponse, error)
	Recommendations(ctx context.Context, lectureID, studentID string) (*dto.RecommendationsResponse, error)
}

type analyticsService struct {
	lectures  domain.LectureRepository
	questions domain.QuestionRepository
	responses domain.ResponseRepository
	now       func() time.Time
}

// NewAnalyticsService creates a new instance of analyticsService
func NewAnalyticsService(
	lectures domain.LectureRepository,
	questions domain.QuestionRepository,
	responses domain.ResponseRepository,
) AnalyticsService {
	return &analyticsService{
		lectures:  lectures,
		questions: questions,
		responses: responses,
		now:       time.Now,
	}
}

func (s *analyticsService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	lectures, err := s.lectures.Count(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count lectures", err)
	}
	questions, err := s.questions.Count(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count questions", err)
	}
	responses, err := s.responses.Count(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count responses", err)
	}
	avg, err := s.questions.AverageCorrectRate(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to average correct rates", err)
	}
	recent, err := s.responses.CountSince(ctx, s.now().Add(-recentWindow))
	if err != nil {
		return nil, domain.NewInternalError("Failed to count recent responses", err)
	}

	byDifficulty, err := groupSummaries(ctx, s.questions, domain.DimensionDifficulty, true)
	if err != nil {
		return nil, err
	}
	byType, err := groupSummaries(ctx, s.questions, domain.DimensionQuestionType, true)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Overview: dto.DashboardOverview{
			TotalLectures:      lectures,
			TotalQuestions:     questions,
			TotalResponses:     responses,
			AverageCorrectRate: round1(deref(avg)),
			RecentResponses:    recent,
		},
		DifficultyAnalysis: byDifficulty,
		TypeAnalysis:       byType,
	}, nil
}

// LecturePerformance reports per-question correctness for one lecture.
// Questions nobody has answered yet are left out of the per-question list.
func (s *analyticsService) LecturePerformance(ctx context.Context, lectureID string) (*dto.LecturePerformanceResponse, error) {
	lecture, err := s.lectures.GetByID(ctx, lectureID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get lecture", err)
	}
	if lecture == nil {
		return nil, domain.NewLectureNotFoundError(lectureID)
	}

	questions, err := s.allQuestions(ctx, lectureID)
	if err != nil {
		return nil, err
	}
	resp := &dto.LecturePerformanceResponse{LectureID: lectureID, LectureTitle: lecture.Title}
	if len(questions) == 0 {
		resp.Message = "この講義にはまだ質問がありません"
		return resp, nil
	}

	records, err := s.responses.ListRecordsByLecture(ctx, lectureID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list lecture responses", err)
	}
	byQuestion := make(map[string][]domain.ResponseRecord)
	for _, r := range records {
		byQuestion[r.QuestionID] = append(byQuestion[r.QuestionID], r)
	}

	stats := make([]dto.QuestionPerformance, 0, len(questions))
	for _, q := range questions {
		rs := byQuestion[q.ID]
		if len(rs) == 0 {
			continue
		}
		stats = append(stats, dto.QuestionPerformance{
			QuestionID:          q.ID,
			SlideNumber:         q.SlideNumber,
			QuestionText:        preview(q.Text),
			Difficulty:          string(q.Difficulty),
			QuestionType:        string(q.Type),
			ResponseCount:       len(rs),
			CorrectRate:         round1(correctRate(rs)),
			AverageResponseTime: averageResponseTime(rs),
		})
	}

	overall := &dto.LectureOverall{
		TotalQuestions:      len(questions),
		TotalResponses:      len(records),
		DifficultyBreakdown: map[string]dto.Breakdown{},
		TypeBreakdown:       map[string]dto.Breakdown{},
	}
	if len(records) > 0 {
		overall.OverallCorrectRate = round1(correctRate(records))
	}

	for _, tier := range domain.Difficulties {
		key := string(tier)
		count := countQuestions(questions, func(q *domain.Question) bool { return q.Difficulty == tier })
		rs := filterRecords(records, func(r domain.ResponseRecord) bool { return r.Difficulty == tier })
		if b, ok := breakdown(count, rs); ok {
			overall.DifficultyBreakdown[key] = b
		}
	}
	for _, qt := range domain.QuestionTypes {
		key := string(qt)
		count := countQuestions(questions, func(q *domain.Question) bool { return q.Type == qt })
		rs := filterRecords(records, func(r domain.ResponseRecord) bool { return r.QuestionType == qt })
		if b, ok := breakdown(count, rs); ok {
			overall.TypeBreakdown[key] = b
		}
	}

	resp.OverallStatistics = overall
	resp.QuestionStatistics = stats
	return resp, nil
}

// allQuestions pages through every question of a lecture.
func (s *analyticsService) allQuestions(ctx context.Context, lectureID string) ([]*domain.Question, error) {
	const page = 100
	var out []*domain.Question
	for skip := 0; ; skip += page {
		batch, err := s.questions.List(ctx, domain.QuestionFilter{LectureID: lectureID, Skip: skip, Limit: page})
		if err != nil {
			return nil, domain.NewInternalError("Failed to list lecture questions", err)
		}
		out = append(out, batch...)
		if len(batch) < page {
			return out, nil
		}
	}
}

func (s *analyticsService) StudentProgress(ctx context.Context, studentID string) (*dto.StudentProgressResponse, error) {
	records, err := s.responses.ListRecordsByStudent(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list student responses", err)
	}
	resp := &dto.StudentProgressResponse{StudentID: studentID}
	if len(records) == 0 {
		resp.Message = "この学生の回答記録がありません"
		return resp, nil
	}

	correct := countCorrect(records)
	resp.OverallStatistics = &dto.StudentOverall{
		TotalResponses:     len(records),
		CorrectResponses:   correct,
		OverallCorrectRate: round1(correctRate(records)),
	}

	resp.DifficultyPerformance = map[string]dto.Breakdown{}
	for _, tier := range domain.Difficulties {
		rs := filterRecords(records, func(r domain.ResponseRecord) bool { return r.Difficulty == tier })
		if b, ok := breakdown(0, rs); ok {
			resp.DifficultyPerformance[string(tier)] = b
		}
	}
	resp.TypePerformance = map[string]dto.Breakdown{}
	for _, qt := range domain.QuestionTypes {
		rs := filterRecords(records, func(r domain.ResponseRecord) bool { return r.QuestionType == qt })
		if b, ok := breakdown(0, rs); ok {
			resp.TypePerformance[string(qt)] = b
		}
	}

	recent := records
	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}
	resp.RecentActivity = make([]dto.RecentActivity, 0, len(recent))
	for _, r := range recent {
		resp.RecentActivity = append(resp.RecentActivity, dto.RecentActivity{
			SubmittedAt:  r.SubmittedAt,
			LectureTitle: r.LectureTitle,
			QuestionText: preview(r.QuestionText),
			Difficulty:   string(r.Difficulty),
			IsCorrect:    r.IsCorrect,
			ResponseTime: r.ResponseTime,
		})
	}

	resp.LearningTrends = LearningTrends(records)
	return resp, nil
}

// LearningTrends compares batch correct rates over the latest responses.
// records must be ordered newest first.
func LearningTrends(records []domain.ResponseRecord) *dto.LearningTrend {
	if len(records) < trendMinResponses {
		return &dto.LearningTrend{Message: "十分なデータがないため傾向分析できません"}
	}

	window := records
	if len(window) > trendWindow {
		window = window[:trendWindow]
	}
	window = append([]domain.ResponseRecord(nil), window...)
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].SubmittedAt.Before(window[j].SubmittedAt)
	})

	rates := []float64{}
	for i := 0; i < len(window); i += trendBatchSize {
		batch := window[i:min(i+trendBatchSize, len(window))]
		if len(batch) >= trendMinBatch {
			rates = append(rates, correctRate(batch))
		}
	}

	trend := TrendStable
	if len(rates) >= 2 {
		first, last := rates[0], rates[len(rates)-1]
		switch {
		case last > first+trendDelta:
			trend = TrendImproving
		case last < first-trendDelta:
			trend = TrendDeclining
		}
	}

	return &dto.LearningTrend{
		PerformanceTrend:    trend,
		RecentCorrectRates:  rates,
		AverageResponseTime: averageResponseTime(records),
	}
}

// Recommendations builds advice for a lecture, a student or, with neither,
// for the question bank as a whole.
func (s *analyticsService) Recommendations(ctx context.Context, lectureID, studentID string) (*dto.RecommendationsResponse, error) {
	recs := []dto.Recommendation{}

	if lectureID != "" {
		low, err := s.questions.ListLowPerforming(ctx, lectureID, lowPerformanceRate)
		if err != nil {
			return nil, domain.NewInternalError("Failed to list low performing questions", err)
		}
		if len(low) > 0 {
			recs = append(recs, dto.Recommendation{
				Type:        "content_review",
				Priority:    "high",
				Title:       "内容の見直しが必要な分野",
				Description: fmt.Sprintf("%d問の正答率が50%%を下回っています。該当するスライドの内容を見直すことを推奨します。", len(low)),
				ActionItems: []string{
					"正答率の低い質問を確認",
					"関連するスライドの内容を詳しく説明",
					"追加の例題や練習問題を提供",
				},
			})
		}
	}

	if studentID != "" {
		records, err := s.responses.ListRecordsByStudent(ctx, studentID)
		if err != nil {
			return nil, domain.NewInternalError("Failed to list student responses", err)
		}
		var weak []string
		for _, tier := range domain.Difficulties {
			rs := filterRecords(records, func(r domain.ResponseRecord) bool { return r.Difficulty == tier })
			if len(rs) > 0 && correctRate(rs) < weakTierRate {
				weak = append(weak, string(tier))
			}
		}
		if len(weak) > 0 {
			recs = append(recs, dto.Recommendation{
				Type:        "skill_improvement",
				Priority:    "medium",
				Title:       "強化が必要な難易度レベル",
				Description: "以下の難易度で苦戦しています: " + strings.Join(weak, ", "),
				ActionItems: []string{
					"基礎概念の復習",
					"段階的な難易度アップの練習",
					"関連する参考資料の確認",
				},
			})
		}
	}

	if lectureID == "" && studentID == "" {
		avg, err := s.questions.AverageCorrectRate(ctx)
		if err != nil {
			return nil, domain.NewInternalError("Failed to average correct rates", err)
		}
		if avg != nil && *avg > 0 && *avg < generalTargetRate {
			recs = append(recs, dto.Recommendation{
				Type:        "general_improvement",
				Priority:    "high",
				Title:       "全体的な理解度向上が必要",
				Description: fmt.Sprintf("全体の平均正答率が%.1f%%と低めです。", *avg),
				ActionItems: []string{
					"基礎概念の強化",
					"質問の難易度調整",
					"追加の説明資料の提供",
				},
			})
		}
	}

	return &dto.RecommendationsResponse{Recommendations: recs}, nil
}

func countCorrect(records []domain.ResponseRecord) int {
	n := 0
	for _, r := range records {
		if r.IsCorrect {
			n++
		}
	}
	return n
}

// correctRate is the percentage of correct records; 0 for no records.
func correctRate(records []domain.ResponseRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	return float64(countCorrect(records)) / float64(len(records)) * 100
}

func averageResponseTime(records []domain.ResponseRecord) *float64 {
	var sum, n int
	for _, r := range records {
		if r.ResponseTime != nil && *r.ResponseTime > 0 {
			sum += *r.ResponseTime
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := round1(float64(sum) / float64(n))
	return &avg
}

func breakdown(questionCount int, records []domain.ResponseRecord) (dto.Breakdown, bool) {
	if len(records) == 0 {
		return dto.Breakdown{}, false
	}
	return dto.Breakdown{
		QuestionCount: questionCount,
		ResponseCount: len(records),
		CorrectCount:  countCorrect(records),
		CorrectRate:   round1(correctRate(records)),
	}, true
}

func filterRecords(records []domain.ResponseRecord, keep func(domain.ResponseRecord) bool) []domain.ResponseRecord {
	var out []domain.ResponseRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func countQuestions(questions []*domain.Question, match func(*domain.Question) bool) int {
	n := 0
	for _, q := range questions {
		if match(q) {
			n++
		}
	}
	return n
}

// preview shortens question text to 100 characters plus an ellipsis.
func preview(text string) string {
	if utf8.RuneCountInString(text) <= questionPreviewRunes {
		return text
	}
	return string([]rune(text)[:questionPreviewRunes]) + "..."
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
