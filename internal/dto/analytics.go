package dto

import "time"

type DashboardOverview struct {
	TotalLectures      int     `json:"total_lectures"`
	TotalQuestions     int     `json:"total_questions"`
	TotalResponses     int     `json:"total_responses"`
	AverageCorrectRate float64 `json:"average_correct_rate"`
	RecentResponses    int     `json:"recent_responses"`
}

// DashboardResponse aggregates activity over the whole question bank
// @Description Analytics dashboard
type DashboardResponse struct {
	Overview           DashboardOverview       `json:"overview"`
	DifficultyAnalysis map[string]GroupSummary `json:"difficulty_analysis"`
	TypeAnalysis       map[string]GroupSummary `json:"type_analysis"`
}

// Breakdown is the correctness of the responses that fall into one group.
type Breakdown struct {
	QuestionCount int     `json:"question_count,omitempty"`
	ResponseCount int     `json:"response_count"`
	CorrectCount  int     `json:"correct_count"`
	CorrectRate   float64 `json:"correct_rate"`
}

type QuestionPerformance struct {
	QuestionID          string   `json:"question_id"`
	SlideNumber         int      `json:"slide_number"`
	QuestionText        string   `json:"question_text"`
	Difficulty          string   `json:"difficulty"`
	QuestionType        string   `json:"question_type"`
	ResponseCount       int      `json:"response_count"`
	CorrectRate         float64  `json:"correct_rate"`
	AverageResponseTime *float64 `json:"average_response_time,omitempty"`
}

type LectureOverall struct {
	TotalQuestions      int                  `json:"total_questions"`
	TotalResponses      int                  `json:"total_responses"`
	OverallCorrectRate  float64              `json:"overall_correct_rate"`
	DifficultyBreakdown map[string]Breakdown `json:"difficulty_breakdown"`
	TypeBreakdown       map[string]Breakdown `json:"type_breakdown"`
}

// LecturePerformanceResponse analyses the responses given to one lecture's questions
// @Description Lecture performance
type LecturePerformanceResponse struct {
	LectureID          string                `json:"lecture_id"`
	LectureTitle       string                `json:"lecture_title"`
	Message            string                `json:"message,omitempty"`
	OverallStatistics  *LectureOverall       `json:"overall_statistics,omitempty"`
	QuestionStatistics []QuestionPerformance `json:"question_statistics,omitempty"`
}

type StudentOverall struct {
	TotalResponses     int     `json:"total_responses"`
	CorrectResponses   int     `json:"correct_responses"`
	OverallCorrectRate float64 `json:"overall_correct_rate"`
}

type RecentActivity struct {
	SubmittedAt  time.Time `json:"submitted_at"`
	LectureTitle string    `json:"lecture_title"`
	QuestionText string    `json:"question_text"`
	Difficulty   string    `json:"difficulty"`
	IsCorrect    bool      `json:"is_correct"`
	ResponseTime *int      `json:"response_time,omitempty"`
}

type LearningTrend struct {
	Message             string    `json:"message,omitempty"`
	PerformanceTrend    string    `json:"performance_trend,omitempty"`
	RecentCorrectRates  []float64 `json:"recent_correct_rates,omitempty"`
	AverageResponseTime *float64  `json:"average_response_time,omitempty"`
}

// StudentProgressResponse summarises one student's answers
// @Description Student progress
type StudentProgressResponse struct {
	StudentID             string               `json:"student_id"`
	Message               string               `json:"message,omitempty"`
	OverallStatistics     *StudentOverall      `json:"overall_statistics,omitempty"`
	DifficultyPerformance map[string]Breakdown `json:"difficulty_performance,omitempty"`
	TypePerformance       map[string]Breakdown `json:"type_performance,omitempty"`
	RecentActivity        []RecentActivity     `json:"recent_activity,omitempty"`
	LearningTrends        *LearningTrend       `json:"learning_trends,omitempty"`
}

type Recommendation struct {
	Type        string   `json:"type"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionItems []string `json:"action_items"`
}

type RecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}
