// Package extractor turns a slide deck into per-slide structured records.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"lecture-qa/internal/domain"

	"go.uber.org/zap"
)

// DefaultReferenceEMU is one inch in English Metric Units.
const DefaultReferenceEMU int64 = 914400

// titleBand is the share of the reference length, from the top, where a
// shape counts as a title.
const titleBand = 0.3

// bulletGlyphs are the line prefixes that mark a bullet list, checked in order.
var bulletGlyphs = []string{"•", "・", "-", "◦", "▪", "▫"}

// TitleHeuristic decides whether a text shape is a slide title. It is only
// consulted until a slide has a title.
type TitleHeuristic func(shape domain.Shape, slideHeight int64) bool

// ReferenceTitleHeuristic treats free-standing text boxes, and shapes whose
// top edge lies within 30% of refEMU, as titles.
func ReferenceTitleHeuristic(refEMU int64) TitleHeuristic {
	limit := float64(refEMU) * titleBand
	return func(shape domain.Shape, _ int64) bool {
		if shape.Kind == domain.ShapeTextBox {
			return true
		}
		return shape.HasPosition && float64(shape.Top) < limit
	}
}

// SlideHeightTitleHeuristic measures the 30% band against the slide height.
func SlideHeightTitleHeuristic(shape domain.Shape, slideHeight int64) bool {
	if shape.Kind == domain.ShapeTextBox {
		return true
	}
	if !shape.HasPosition || slideHeight <= 0 {
		return false
	}
	return float64(shape.Top) < float64(slideHeight)*titleBand
}

// HeuristicFor picks the title heuristic for a configured reference length.
// Zero or less selects the slide-height variant.
func HeuristicFor(refEMU int64) TitleHeuristic {
	if refEMU <= 0 {
		return SlideHeightTitleHeuristic
	}
	return ReferenceTitleHeuristic(refEMU)
}

type Extractor struct {
	reader  domain.DeckReader
	isTitle TitleHeuristic
	logger  *zap.Logger
}

func NewExtractor(reader domain.DeckReader, isTitle TitleHeuristic, logger *zap.Logger) *Extractor {
	if isTitle == nil {
		isTitle = ReferenceTitleHeuristic(DefaultReferenceEMU)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{reader: reader, isTitle: isTitle, logger: logger}
}

// Extract reads the deck at path once and returns one record per slide in
// deck order. Failures are reported as *domain.ExtractionError.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.SlideRecord, error) {
	e.logger.Info("Reading slide deck", zap.String("path", path))

	deck, err := e.reader.ReadDeck(ctx, path)
	if err != nil {
		var extractionErr *domain.ExtractionError
		if errors.As(err, &extractionErr) {
			return nil, err
		}
		return nil, domain.NewExtractionError(path, "cannot read deck", err)
	}

	slides := ExtractSlides(deck, e.isTitle)
	for _, slide := range slides {
		e.logger.Debug("Slide extracted",
			zap.Int("slide", slide.SlideNumber),
			zap.Int("bullets", len(slide.BulletPoints)),
			zap.Int("images", len(slide.ImageRefs)))
	}
	e.logger.Info("Slide deck extracted", zap.String("path", path), zap.Int("slides", len(slides)))
	return slides, nil
}

// ExtractSlides applies the per-slide rules to an already-read deck.
func ExtractSlides(deck *domain.Deck, isTitle TitleHeuristic) []domain.SlideRecord {
	if deck == nil {
		return nil
	}
	records := make([]domain.SlideRecord, 0, len(deck.Slides))
	for i, slide := range deck.Slides {
		records = append(records, extractSlide(i+1, slide, deck.SlideHeight, isTitle))
	}
	return records
}

func extractSlide(number int, slide domain.DeckSlide, slideHeight int64, isTitle TitleHeuristic) domain.SlideRecord {
	record := domain.SlideRecord{
		SlideNumber:  number,
		BulletPoints: []string{},
		ImageRefs:    []string{},
	}
	var bodyParts []string

	for _, shape := range slide.Shapes {
		if shape.HasTextFrame {
			text := shapeText(shape)
			if text == "" {
				continue
			}
			if record.Title == "" && isTitle(shape, slideHeight) {
				record.Title = text
				continue
			}
			if isBulletList(text) {
				record.BulletPoints = append(record.BulletPoints, bulletPoints(text)...)
			} else {
				bodyParts = append(bodyParts, text)
			}
			continue
		}
		if shape.Kind == domain.ShapePicture {
			record.ImageRefs = append(record.ImageRefs, fmt.Sprintf("画像_%d", len(record.ImageRefs)+1))
		}
	}

	record.BodyText = strings.Join(bodyParts, "\n")
	return record
}

// shapeText joins the trimmed, non-empty paragraphs of a shape with newlines.
func shapeText(shape domain.Shape) string {
	var lines []string
	for _, runs := range shape.Paragraphs {
		line := strings.TrimSpace(strings.Join(runs, ""))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func isBulletList(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return false
	}
	for _, line := range lines {
		if _, ok := trimGlyph(strings.TrimSpace(line)); ok {
			return true
		}
	}
	return false
}

func bulletPoints(text string) []string {
	var points []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if stripped, ok := trimGlyph(line); ok {
			line = strings.TrimSpace(stripped)
		}
		if line != "" {
			points = append(points, line)
		}
	}
	return points
}

func trimGlyph(line string) (string, bool) {
	for _, glyph := range bulletGlyphs {
		if strings.HasPrefix(line, glyph) {
			return line[len(glyph):], true
		}
	}
	return line, false
}

// Summarize aggregates a deck's extraction results.
func Summarize(slides []domain.SlideRecord) domain.LectureSummary {
	summary := domain.LectureSummary{
		TotalSlides: len(slides),
		Titles:      []string{},
	}
	for _, slide := range slides {
		if slide.Title != "" {
			summary.Titles = append(summary.Titles, slide.Title)
		}
		summary.TotalBulletPoints += len(slide.BulletPoints)
		summary.TotalImages += len(slide.ImageRefs)
		summary.TotalTextLength += utf8.RuneCountInString(slide.FullText())
	}
	if summary.TotalSlides > 0 {
		summary.AverageTextPerSlide = float64(summary.TotalTextLength) / float64(summary.TotalSlides)
	}
	return summary
}
