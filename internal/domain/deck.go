package domain

import "context"

// ShapeKind classifies a slide element as the extractor sees it.
type ShapeKind int

const (
	ShapeOther ShapeKind = iota
	ShapeTextBox
	ShapePicture
)

// Shape is one content element of a slide, in document order.
type Shape struct {
	Kind         ShapeKind
	HasTextFrame bool
	// Paragraphs holds the text runs of every paragraph of the text frame.
	Paragraphs [][]string
	// Top and Height are in the deck's native length unit (EMU for pptx).
	Top         int64
	Height      int64
	HasPosition bool
}

// DeckSlide is the ordered shape list of one slide.
type DeckSlide struct {
	Shapes []Shape
}

// Deck is the raw, reader-level view of a slide deck.
type Deck struct {
	Slides      []DeckSlide
	SlideHeight int64
}

// DeckReader opens a deck source and yields its slides with shape geometry.
type DeckReader interface {
	ReadDeck(ctx context.Context, path string) (*Deck, error)
}
