package domain

import "strings"

// SlideRecord is the structured content extracted from one slide.
type SlideRecord struct {
	SlideNumber  int      `json:"slide_number"`
	Title        string   `json:"title"`
	BodyText     string   `json:"content"`
	BulletPoints []string `json:"bullet_points"`
	ImageRefs    []string `json:"images"`
}

// FullText joins title, body and bullet points with labels. It is both the
// generation input and a content-sufficiency signal.
func (s SlideRecord) FullText() string {
	var parts []string
	if s.Title != "" {
		parts = append(parts, "タイトル: "+s.Title)
	}
	if s.BodyText != "" {
		parts = append(parts, "内容: "+s.BodyText)
	}
	if len(s.BulletPoints) > 0 {
		parts = append(parts, "要点:")
		for _, point := range s.BulletPoints {
			parts = append(parts, "• "+point)
		}
	}
	return strings.Join(parts, "\n")
}

// LectureSummary aggregates extraction results over a whole deck.
type LectureSummary struct {
	TotalSlides         int      `json:"total_slides"`
	Titles              []string `json:"titles"`
	TotalBulletPoints   int      `json:"total_bullet_points"`
	TotalImages         int      `json:"total_images"`
	TotalTextLength     int      `json:"total_text_length"`
	AverageTextPerSlide float64  `json:"average_text_per_slide"`
}
