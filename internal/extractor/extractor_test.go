package extractor

import (
	"context"
	"errors"
	"testing"

	"lecture-qa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	deck *domain.Deck
	err  error
}

func (f *fakeReader) ReadDeck(ctx context.Context, path string) (*domain.Deck, error) {
	return f.deck, f.err
}

func text(kind domain.ShapeKind, top int64, paragraphs ...string) domain.Shape {
	shape := domain.Shape{Kind: kind, HasTextFrame: true, Top: top, HasPosition: true}
	for _, p := range paragraphs {
		shape.Paragraphs = append(shape.Paragraphs, []string{p})
	}
	return shape
}

func TestExtractSlides(t *testing.T) {
	isTitle := ReferenceTitleHeuristic(DefaultReferenceEMU)

	tests := []struct {
		name  string
		slide domain.DeckSlide
		want  domain.SlideRecord
	}{
		{
			name: "title body bullets and images",
			slide: domain.DeckSlide{Shapes: []domain.Shape{
				text(domain.ShapeOther, 100000, "  概要 "),
				{Kind: domain.ShapePicture},
				text(domain.ShapeOther, 2000000, "• Aを定義する", "", "・Bを説明する"),
				text(domain.ShapeOther, 3000000, "本文の段落"),
				{Kind: domain.ShapePicture},
			}},
			want: domain.SlideRecord{
				SlideNumber:  1,
				Title:        "概要",
				BodyText:     "本文の段落",
				BulletPoints: []string{"Aを定義する", "Bを説明する"},
				ImageRefs:    []string{"画像_1", "画像_2"},
			},
		},
		{
			name: "low placeholder is not a title",
			slide: domain.DeckSlide{Shapes: []domain.Shape{
				text(domain.ShapeOther, 5000000, "first"),
				text(domain.ShapeOther, 6000000, "second"),
			}},
			want: domain.SlideRecord{
				SlideNumber:  1,
				BodyText:     "first\nsecond",
				BulletPoints: []string{},
				ImageRefs:    []string{},
			},
		},
		{
			name: "text box anywhere becomes the title once",
			slide: domain.DeckSlide{Shapes: []domain.Shape{
				text(domain.ShapeOther, 5000000, "body"),
				text(domain.ShapeTextBox, 6000000, "boxed"),
				text(domain.ShapeTextBox, 7000000, "second box"),
			}},
			want: domain.SlideRecord{
				SlideNumber:  1,
				Title:        "boxed",
				BodyText:     "body\nsecond box",
				BulletPoints: []string{},
				ImageRefs:    []string{},
			},
		},
		{
			name: "single bullet line stays body",
			slide: domain.DeckSlide{Shapes: []domain.Shape{
				text(domain.ShapeOther, 5000000, "- only one"),
			}},
			want: domain.SlideRecord{
				SlideNumber:  1,
				BodyText:     "- only one",
				BulletPoints: []string{},
				ImageRefs:    []string{},
			},
		},
		{
			name: "glyph-free lines inside a bullet list are kept",
			slide: domain.DeckSlide{Shapes: []domain.Shape{
				text(domain.ShapeOther, 5000000, "intro", "▪ point", "-"),
			}},
			want: domain.SlideRecord{
				SlideNumber:  1,
				BulletPoints: []string{"intro", "point"},
				ImageRefs:    []string{},
			},
		},
		{
			name: "whitespace shapes and unpositioned shapes",
			slide: domain.DeckSlide{Shapes: []domain.Shape{
				text(domain.ShapeOther, 0, "   "),
				{Kind: domain.ShapeOther, HasTextFrame: true, Paragraphs: [][]string{{"no ", "position"}}},
			}},
			want: domain.SlideRecord{
				SlideNumber:  1,
				BodyText:     "no position",
				BulletPoints: []string{},
				ImageRefs:    []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSlides(&domain.Deck{Slides: []domain.DeckSlide{tt.slide}}, isTitle)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestExtractSlides_PreservesOrderAndCount(t *testing.T) {
	deck := &domain.Deck{Slides: make([]domain.DeckSlide, 7)}
	got := ExtractSlides(deck, SlideHeightTitleHeuristic)
	require.Len(t, got, 7)
	for i, slide := range got {
		assert.Equal(t, i+1, slide.SlideNumber)
	}
	assert.Nil(t, ExtractSlides(nil, SlideHeightTitleHeuristic))
}

func TestTitleHeuristics(t *testing.T) {
	shape := domain.Shape{Kind: domain.ShapeOther, HasPosition: true, Top: 1000000}

	assert.False(t, ReferenceTitleHeuristic(DefaultReferenceEMU)(shape, 6858000))
	assert.True(t, SlideHeightTitleHeuristic(shape, 6858000))
	assert.False(t, SlideHeightTitleHeuristic(shape, 0))

	shape.Top = 200000
	assert.True(t, ReferenceTitleHeuristic(DefaultReferenceEMU)(shape, 0))

	box := domain.Shape{Kind: domain.ShapeTextBox}
	assert.True(t, HeuristicFor(0)(box, 0))
	assert.True(t, HeuristicFor(DefaultReferenceEMU)(box, 0))
}

func TestExtractor_Extract(t *testing.T) {
	deck := &domain.Deck{Slides: []domain.DeckSlide{
		{Shapes: []domain.Shape{text(domain.ShapeTextBox, 0, "Intro")}},
		{},
	}}
	ex := NewExtractor(&fakeReader{deck: deck}, nil, nil)

	slides, err := ex.Extract(context.Background(), "deck.pptx")
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, "Intro", slides[0].Title)
}

func TestExtractor_ExtractErrors(t *testing.T) {
	passthrough := domain.NewExtractionError("deck.ppt", "unsupported format", nil)
	ex := NewExtractor(&fakeReader{err: passthrough}, nil, nil)
	_, err := ex.Extract(context.Background(), "deck.ppt")
	assert.Same(t, passthrough, err)

	ex = NewExtractor(&fakeReader{err: errors.New("disk gone")}, nil, nil)
	_, err = ex.Extract(context.Background(), "deck.pptx")
	var extractionErr *domain.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "deck.pptx", extractionErr.Source)
}

func TestSummarize(t *testing.T) {
	slides := []domain.SlideRecord{
		{SlideNumber: 1, Title: "T", BulletPoints: []string{"a", "b"}, ImageRefs: []string{"画像_1"}},
		{SlideNumber: 2, BodyText: "本文"},
	}
	summary := Summarize(slides)

	assert.Equal(t, 2, summary.TotalSlides)
	assert.Equal(t, []string{"T"}, summary.Titles)
	assert.Equal(t, 2, summary.TotalBulletPoints)
	assert.Equal(t, 1, summary.TotalImages)
	// "タイトル: T\n要点:\n• a\n• b" is 19 runes, "内容: 本文" is 6
	assert.Equal(t, 25, summary.TotalTextLength)
	assert.InDelta(t, 12.5, summary.AverageTextPerSlide, 1e-9)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.TotalSlides)
	assert.Zero(t, empty.AverageTextPerSlide)
}
