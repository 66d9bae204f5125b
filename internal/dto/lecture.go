package dto

import (
	"time"

	"lecture-qa/internal/difficulty"
	"lecture-qa/internal/domain"
)

// LectureUploadForm holds the multipart form fields sent with a deck upload.
type LectureUploadForm struct {
	Title       string `form:"title" validate:"required,max=255"`
	Description string `form:"description" validate:"max=4000"`
	Author      string `form:"author" validate:"max=255"`
	Subject     string `form:"subject" validate:"max=255"`
	LectureDate string `form:"lecture_date" validate:"omitempty,datetime=2006-01-02"`
}

// UploadResponse is returned once the deck is stored and processing has been scheduled.
// @Description Lecture upload acknowledgement
type UploadResponse struct {
	LectureID string `json:"lecture_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// LectureResponse represents a lecture in the API response
// @Description Lecture information
type LectureResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	OriginalFilename string     `json:"original_filename"`
	FileSize         int64      `json:"file_size"`
	TotalSlides      int        `json:"total_slides"`
	IsProcessed      bool       `json:"is_processed"`
	ProcessingStatus string     `json:"processing_status"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	Author           string     `json:"author,omitempty"`
	Subject          string     `json:"subject,omitempty"`
	LectureDate      *time.Time `json:"lecture_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewLectureResponse(l *domain.Lecture) LectureResponse {
	return LectureResponse{
		ID:               l.ID,
		Title:            l.Title,
		Description:      l.Description,
		OriginalFilename: l.OriginalFilename,
		FileSize:         l.FileSize,
		TotalSlides:      l.TotalSlides,
		IsProcessed:      l.IsProcessed,
		ProcessingStatus: string(l.Status),
		ErrorMessage:     l.ErrorMessage,
		Author:           l.Author,
		Subject:          l.Subject,
		LectureDate:      l.LectureDate,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

type LectureListResponse struct {
	Lectures []LectureResponse `json:"lectures"`
	Total    int               `json:"total"`
	Skip     int               `json:"skip"`
	Limit    int               `json:"limit"`
}

type SlidesResponse struct {
	LectureID   string               `json:"lecture_id"`
	TotalSlides int                  `json:"total_slides"`
	Slides      []domain.SlideRecord `json:"slides"`
}

type LectureSummaryResponse struct {
	LectureID string                `json:"lecture_id"`
	Title     string                `json:"title"`
	Summary   domain.LectureSummary `json:"summary"`
}

// ProcessingStatusResponse merges the stored lecture status with the live
// progress fields kept in the cache while a run is in flight.
type ProcessingStatusResponse struct {
	LectureID    string            `json:"lecture_id"`
	Status       string            `json:"status"`
	IsProcessed  bool              `json:"is_processed"`
	ErrorMessage string            `json:"error_message,omitempty"`
	TotalSlides  int               `json:"total_slides"`
	Progress     map[string]string `json:"progress,omitempty"`
}

// RatioRequest is a difficulty distribution supplied by the caller.
type RatioRequest struct {
	Easy   float64 `json:"easy" validate:"gte=0,lte=1"`
	Medium float64 `json:"medium" validate:"gte=0,lte=1"`
	Hard   float64 `json:"hard" validate:"gte=0,lte=1"`
}

func (r *RatioRequest) ToRatios() difficulty.Ratios {
	return difficulty.Ratios{Easy: r.Easy, Medium: r.Medium, Hard: r.Hard}
}

// GenerateRequest asks for a comprehensive question set over a whole lecture.
// @Description Comprehensive generation request
type GenerateRequest struct {
	TotalQuestions int           `json:"total_questions" validate:"required,min=1,max=200"`
	Ratios         *RatioRequest `json:"ratios,omitempty"`
	// ReplaceExisting deletes the lecture's current questions before saving the new set.
	ReplaceExisting bool `json:"replace_existing"`
}

type GenerateAcceptedResponse struct {
	LectureID      string            `json:"lecture_id"`
	TotalQuestions int               `json:"total_questions"`
	Ratios         difficulty.Ratios `json:"ratios"`
	Message        string            `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
