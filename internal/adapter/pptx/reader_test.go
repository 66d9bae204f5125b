package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"lecture-qa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	relNS     = `http://schemas.openxmlformats.org/package/2006/relationships`
	relSlide  = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide`
	relLayout = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout`
	relMaster = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster`
)

func buildArchive(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func presentation(rids ...string) string {
	list := ""
	for i, rid := range rids {
		list += `<p:sldId id="` + string(rune('0'+i)) + `" r:id="` + rid + `"/>`
	}
	return `<?xml version="1.0" encoding="UTF-8"?><p:presentation ` + nsDecl + `>` +
		`<p:sldIdLst>` + list + `</p:sldIdLst><p:sldSz cx="9144000" cy="6858000"/></p:presentation>`
}

func slide(shapes string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><p:sld ` + nsDecl + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes + `</p:spTree></p:cSld></p:sld>`
}

func rels(entries ...[3]string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="` + relNS + `">`
	for _, e := range entries {
		out += `<Relationship Id="` + e[0] + `" Type="` + e[1] + `" Target="` + e[2] + `"/>`
	}
	return out + `</Relationships>`
}

const titlePlaceholder = `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
	`<p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>アルゴリズム</a:t></a:r><a:r><a:t>入門</a:t></a:r></a:p></p:txBody></p:sp>`

const bodyShape = `<p:sp><p:nvSpPr><p:cNvPr id="3" name="Body"/><p:cNvSpPr/><p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr>` +
	`<p:spPr><a:xfrm><a:off x="457200" y="1600200"/><a:ext cx="8229600" cy="4525963"/></a:xfrm></p:spPr>` +
	`<p:txBody><a:bodyPr/><a:p><a:r><a:t>• 定義</a:t></a:r></a:p><a:p><a:r><a:t>• 計算量</a:t></a:r><a:fld id="x"><a:t>7</a:t></a:fld></a:p></p:txBody></p:sp>`

const picture = `<p:pic><p:nvPicPr><p:cNvPr id="4" name="Picture"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
	`<p:blipFill/><p:spPr><a:xfrm><a:off x="0" y="5000000"/><a:ext cx="100" cy="100"/></a:xfrm></p:spPr></p:pic>`

const textBox = `<p:sp><p:nvSpPr><p:cNvPr id="5" name="TextBox"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>` +
	`<p:spPr><a:xfrm><a:off x="0" y="3000000"/><a:ext cx="100" cy="200"/></a:xfrm></p:spPr>` +
	`<p:txBody><a:bodyPr/><a:p><a:r><a:t>補足</a:t></a:r></a:p></p:txBody></p:sp>`

const groupShape = `<p:grpSp><p:nvGrpSpPr/><p:grpSpPr/>` + textBox + `</p:grpSp>`

const layout = `<?xml version="1.0" encoding="UTF-8"?><p:sldLayout ` + nsDecl + `><p:cSld><p:spTree>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
	`<p:spPr><a:xfrm><a:off x="457200" y="274638"/><a:ext cx="8229600" cy="1143000"/></a:xfrm></p:spPr></p:sp>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Footer"/><p:cNvSpPr/><p:nvPr><p:ph type="ftr" idx="11"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>` +
	`</p:spTree></p:cSld></p:sldLayout>`

const master = `<?xml version="1.0" encoding="UTF-8"?><p:sldMaster ` + nsDecl + `><p:cSld><p:spTree>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Footer"/><p:cNvSpPr/><p:nvPr><p:ph type="ftr" idx="3"/></p:nvPr></p:nvSpPr>` +
	`<p:spPr><a:xfrm><a:off x="0" y="6356350"/><a:ext cx="100" cy="365125"/></a:xfrm></p:spPr></p:sp>` +
	`</p:spTree></p:cSld></p:sldMaster>`

const footer = `<p:sp><p:nvSpPr><p:cNvPr id="6" name="Footer"/><p:cNvSpPr/><p:nvPr><p:ph type="ftr" idx="11"/></p:nvPr></p:nvSpPr>` +
	`<p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>講義資料</a:t></a:r></a:p></p:txBody></p:sp>`

func sampleDeck(t *testing.T) []byte {
	return buildArchive(t, map[string]string{
		"ppt/presentation.xml": presentation("rId3", "rId2"),
		"ppt/_rels/presentation.xml.rels": rels(
			[3]string{"rId1", relMaster, "slideMasters/slideMaster1.xml"},
			[3]string{"rId2", relSlide, "slides/slide1.xml"},
			[3]string{"rId3", relSlide, "slides/slide2.xml"},
		),
		"ppt/slides/slide1.xml":                        slide(textBox + groupShape),
		"ppt/slides/slide2.xml":                        slide(titlePlaceholder + bodyShape + picture + footer),
		"ppt/slides/_rels/slide2.xml.rels":             rels([3]string{"rId1", relLayout, "../slideLayouts/slideLayout1.xml"}),
		"ppt/slideLayouts/slideLayout1.xml":            layout,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": rels([3]string{"rId1", relMaster, "../slideMasters/slideMaster1.xml"}),
		"ppt/slideMasters/slideMaster1.xml":            master,
	})
}

func TestReader_ReadDeckFrom(t *testing.T) {
	data := sampleDeck(t)
	deck, err := NewReader(nil).ReadDeckFrom(context.Background(), "sample.pptx", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Equal(t, int64(6858000), deck.SlideHeight)
	require.Len(t, deck.Slides, 2)

	// presentation order puts slide2.xml first
	first := deck.Slides[0]
	require.Len(t, first.Shapes, 4)

	title := first.Shapes[0]
	assert.True(t, title.HasTextFrame)
	assert.Equal(t, domain.ShapeOther, title.Kind)
	assert.Equal(t, [][]string{{"アルゴリズム", "入門"}}, title.Paragraphs)
	assert.True(t, title.HasPosition, "title inherits layout offset")
	assert.Equal(t, int64(274638), title.Top)
	assert.Equal(t, int64(1143000), title.Height)

	body := first.Shapes[1]
	assert.Equal(t, [][]string{{"• 定義"}, {"• 計算量"}}, body.Paragraphs, "field runs are ignored")
	assert.Equal(t, int64(1600200), body.Top)

	pic := first.Shapes[2]
	assert.Equal(t, domain.ShapePicture, pic.Kind)
	assert.False(t, pic.HasTextFrame)

	foot := first.Shapes[3]
	assert.True(t, foot.HasPosition, "footer falls through to master offset")
	assert.Equal(t, int64(6356350), foot.Top)

	second := deck.Slides[1]
	require.Len(t, second.Shapes, 1, "group children are not top-level shapes")
	assert.Equal(t, domain.ShapeTextBox, second.Shapes[0].Kind)
	assert.Equal(t, int64(3000000), second.Shapes[0].Top)
}

func TestReader_FallbackSlideOrder(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"ppt/presentation.xml":   presentation(),
		"ppt/slides/slide10.xml": slide(textBox),
		"ppt/slides/slide2.xml":  slide(picture),
		"ppt/slides/slide1.xml":  slide(""),
	})
	deck, err := NewReader(nil).ReadDeckFrom(context.Background(), "fallback.pptx", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	require.Len(t, deck.Slides, 3)
	assert.Empty(t, deck.Slides[0].Shapes)
	assert.Equal(t, domain.ShapePicture, deck.Slides[1].Shapes[0].Kind)
	assert.Equal(t, domain.ShapeTextBox, deck.Slides[2].Shapes[0].Kind)
}

func TestReader_ReadDeck_Errors(t *testing.T) {
	dir := t.TempDir()
	reader := NewReader(nil)
	ctx := context.Background()

	legacy := filepath.Join(dir, "old.ppt")
	require.NoError(t, os.WriteFile(legacy, []byte("binary"), 0o644))
	_, err := reader.ReadDeck(ctx, legacy)
	var extractionErr *domain.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, extractionErr.Reason, "legacy")

	corrupt := filepath.Join(dir, "broken.pptx")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0o644))
	_, err = reader.ReadDeck(ctx, corrupt)
	require.ErrorAs(t, err, &extractionErr)

	_, err = reader.ReadDeck(ctx, filepath.Join(dir, "notes.txt"))
	require.ErrorAs(t, err, &extractionErr)

	noPresentation := filepath.Join(dir, "empty.pptx")
	require.NoError(t, os.WriteFile(noPresentation, buildArchive(t, map[string]string{"docProps/app.xml": "<x/>"}), 0o644))
	_, err = reader.ReadDeck(ctx, noPresentation)
	require.ErrorAs(t, err, &extractionErr)
}

func TestReader_ReadDeck_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lecture.pptx")
	require.NoError(t, os.WriteFile(path, sampleDeck(t), 0o644))

	deck, err := NewReader(nil).ReadDeck(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, deck.Slides, 2)
}

func TestReader_CanceledContext(t *testing.T) {
	data := sampleDeck(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(nil).ReadDeckFrom(ctx, "sample.pptx", bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, context.Canceled)
}
