package models

import (
	"database/sql"
	"time"
)

// Lecture maps a row of the lectures table.
type Lecture struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	Description      sql.NullString `db:"description"`
	OriginalFilename string         `db:"original_filename"`
	FilePath         string         `db:"file_path"`
	FileSize         int64          `db:"file_size"`
	TotalSlides      int            `db:"total_slides"`
	ExtractedContent SlideList      `db:"extracted_content"`
	IsProcessed      bool           `db:"is_processed"`
	ProcessingStatus string         `db:"processing_status"`
	ErrorMessage     sql.NullString `db:"error_message"`
	Author           sql.NullString `db:"author"`
	Subject          sql.NullString `db:"subject"`
	LectureDate      sql.NullTime   `db:"lecture_date"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}
