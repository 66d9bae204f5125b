// Package pptx reads Office Open XML presentations into the deck model used
// by the content extractor.
package pptx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"lecture-qa/internal/domain"

	"go.uber.org/zap"
)

const (
	presentationPart = "ppt/presentation.xml"
	relTypeSlide     = "/slide"
	relTypeLayout    = "/slideLayout"
	relTypeMaster    = "/slideMaster"
)

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Reader implements domain.DeckReader for .pptx files.
type Reader struct {
	logger *zap.Logger
}

func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

// ReadDeck opens a .pptx file. Legacy binary .ppt files and other
// extensions are rejected with an ExtractionError.
func (r *Reader) ReadDeck(ctx context.Context, filePath string) (*domain.Deck, error) {
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".pptx":
	case ".ppt":
		return nil, domain.NewExtractionError(filePath, "unsupported format: legacy binary .ppt", nil)
	default:
		return nil, domain.NewExtractionError(filePath, fmt.Sprintf("unsupported format %q", ext), nil)
	}

	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, domain.NewExtractionError(filePath, "cannot open archive", err)
	}
	defer zr.Close()

	return r.read(ctx, filePath, &zr.Reader)
}

// ReadDeckFrom reads a presentation from an in-memory or already-open source.
func (r *Reader) ReadDeckFrom(ctx context.Context, source string, ra io.ReaderAt, size int64) (*domain.Deck, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, domain.NewExtractionError(source, "cannot open archive", err)
	}
	return r.read(ctx, source, zr)
}

func (r *Reader) read(ctx context.Context, source string, zr *zip.Reader) (*domain.Deck, error) {
	doc := newPackage(zr)

	var pres presentationXML
	if err := doc.decode(presentationPart, &pres); err != nil {
		return nil, domain.NewExtractionError(source, "missing or corrupt presentation part", err)
	}

	slideParts := doc.slideOrder(pres)
	if len(slideParts) == 0 {
		r.logger.Warn("Presentation has no slides", zap.String("source", source))
	}

	deck := &domain.Deck{
		Slides:      make([]domain.DeckSlide, 0, len(slideParts)),
		SlideHeight: pres.SlideSize.CY,
	}
	for _, part := range slideParts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slide, err := doc.readSlide(part)
		if err != nil {
			return nil, domain.NewExtractionError(source, "corrupt slide "+part, err)
		}
		deck.Slides = append(deck.Slides, slide)
	}

	r.logger.Debug("Presentation read",
		zap.String("source", source),
		zap.Int("slides", len(deck.Slides)),
		zap.Int64("slide_height", deck.SlideHeight))
	return deck, nil
}

// pkg is one opened presentation package with parsed layouts and masters
// memoized by part name.
type pkg struct {
	files        map[string]*zip.File
	placeholders map[string][]placeholderGeometry
}

type placeholderGeometry struct {
	phType string
	idx    string
	top    int64
	height int64
}

func newPackage(zr *zip.Reader) *pkg {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[strings.TrimPrefix(f.Name, "/")] = f
	}
	return &pkg{files: files, placeholders: make(map[string][]placeholderGeometry)}
}

func (p *pkg) read(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("part not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *pkg) decode(name string, v interface{}) error {
	data, err := p.read(name)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

// relationships returns the relationships of a part, or nil if it has none.
func (p *pkg) relationships(part string) []relationshipXML {
	relsPart := path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
	var rels relationshipsXML
	if err := p.decode(relsPart, &rels); err != nil {
		return nil
	}
	return rels.Relationships
}

func (p *pkg) relatedPart(part, typeSuffix string) string {
	for _, rel := range p.relationships(part) {
		if strings.HasSuffix(rel.Type, typeSuffix) && rel.TargetMode != "External" {
			return resolveTarget(part, rel.Target)
		}
	}
	return ""
}

func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// slideOrder lists slide parts in presentation order. Decks without a
// usable slide list fall back to the numeric order of slide part names.
func (p *pkg) slideOrder(pres presentationXML) []string {
	rels := p.relationships(presentationPart)
	byID := make(map[string]relationshipXML, len(rels))
	for _, rel := range rels {
		byID[rel.ID] = rel
	}

	var ordered []string
	for _, id := range pres.SlideIDs {
		rel, ok := byID[id.RID]
		if !ok || !strings.HasSuffix(rel.Type, relTypeSlide) {
			continue
		}
		part := resolveTarget(presentationPart, rel.Target)
		if _, exists := p.files[part]; exists {
			ordered = append(ordered, part)
		}
	}
	if len(ordered) > 0 {
		return ordered
	}

	type numbered struct {
		part string
		n    int
	}
	var found []numbered
	for name := range p.files {
		if m := slidePartPattern.FindStringSubmatch(name); m != nil {
			n, _ := strconv.Atoi(m[1])
			found = append(found, numbered{part: name, n: n})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	for _, f := range found {
		ordered = append(ordered, f.part)
	}
	return ordered
}

func (p *pkg) readSlide(part string) (domain.DeckSlide, error) {
	data, err := p.read(part)
	if err != nil {
		return domain.DeckSlide{}, err
	}

	layout := p.relatedPart(part, relTypeLayout)
	var master string
	if layout != "" {
		master = p.relatedPart(layout, relTypeMaster)
	}

	var slide domain.DeckSlide
	err = walkShapeTree(data,
		func(sp *spXML) {
			shape := domain.Shape{Kind: domain.ShapeOther}
			if sp.NvSpPr.CNvSpPr.TxBox == "1" || sp.NvSpPr.CNvSpPr.TxBox == "true" {
				shape.Kind = domain.ShapeTextBox
			}
			if sp.TxBody != nil {
				shape.HasTextFrame = true
				for _, para := range sp.TxBody.Paragraphs {
					runs := make([]string, 0, len(para.Runs))
					for _, run := range para.Runs {
						runs = append(runs, run.Text)
					}
					shape.Paragraphs = append(shape.Paragraphs, runs)
				}
			}
			p.position(&shape, sp.SpPr.Xfrm, sp.NvSpPr.NvPr.Placeholder, layout, master)
			slide.Shapes = append(slide.Shapes, shape)
		},
		func(pic *picXML) {
			shape := domain.Shape{Kind: domain.ShapePicture}
			p.position(&shape, pic.SpPr.Xfrm, pic.NvPicPr.NvPr.Placeholder, layout, master)
			slide.Shapes = append(slide.Shapes, shape)
		},
	)
	return slide, err
}

// position sets the vertical geometry of a shape, inheriting it from the
// layout and then the master placeholder when the slide does not carry it.
func (p *pkg) position(shape *domain.Shape, xfrm *xfrmXML, ph *placeholderXML, layout, master string) {
	if xfrm != nil {
		shape.Top, shape.Height, shape.HasPosition = xfrm.Off.Y, xfrm.Ext.CY, true
		return
	}
	if ph == nil {
		return
	}

	phType, idx := normalizePlaceholder(ph)
	candidates := []struct {
		part  string
		match func(placeholderGeometry) bool
	}{
		{layout, func(g placeholderGeometry) bool { return g.idx == idx }},
		{layout, func(g placeholderGeometry) bool { return g.phType == phType }},
		{master, func(g placeholderGeometry) bool { return masterType(g.phType) == masterType(phType) }},
	}
	for _, c := range candidates {
		if c.part == "" {
			continue
		}
		if geo, ok := p.findPlaceholder(c.part, c.match); ok {
			shape.Top, shape.Height, shape.HasPosition = geo.top, geo.height, true
			return
		}
	}
}

func normalizePlaceholder(ph *placeholderXML) (string, string) {
	phType, idx := ph.Type, ph.Idx
	if phType == "" {
		phType = "obj"
	}
	if idx == "" {
		idx = "0"
	}
	return phType, idx
}

// masterType maps layout placeholder types onto the types a master defines.
func masterType(phType string) string {
	switch phType {
	case "title", "ctrTitle":
		return "title"
	case "dt", "ftr", "sldNum":
		return phType
	default:
		return "body"
	}
}

// findPlaceholder returns the first placeholder of part that carries its own
// offset and satisfies match.
func (p *pkg) findPlaceholder(part string, match func(placeholderGeometry) bool) (placeholderGeometry, bool) {
	placeholders, ok := p.placeholders[part]
	if !ok {
		placeholders = p.loadPlaceholders(part)
		p.placeholders[part] = placeholders
	}
	for _, geo := range placeholders {
		if match(geo) {
			return geo, true
		}
	}
	return placeholderGeometry{}, false
}

func (p *pkg) loadPlaceholders(part string) []placeholderGeometry {
	data, err := p.read(part)
	if err != nil {
		return nil
	}

	var out []placeholderGeometry
	collect := func(xfrm *xfrmXML, ph *placeholderXML) {
		if xfrm == nil || ph == nil {
			return
		}
		phType, idx := normalizePlaceholder(ph)
		out = append(out, placeholderGeometry{phType: phType, idx: idx, top: xfrm.Off.Y, height: xfrm.Ext.CY})
	}
	_ = walkShapeTree(data,
		func(sp *spXML) { collect(sp.SpPr.Xfrm, sp.NvSpPr.NvPr.Placeholder) },
		func(pic *picXML) { collect(pic.SpPr.Xfrm, pic.NvPicPr.NvPr.Placeholder) },
	)
	return out
}
