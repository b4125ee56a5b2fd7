package engine

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/render"

	"github.com/yourorg/pdf-editor-service/pkg/errors"
)

// SetLicenseKey registers the UniDoc metered license key. Must be called once
// at startup before any document is opened.
func SetLicenseKey(key string) error {
	return license.SetMeteredKey(key)
}

// UniPDFEngine implements Engine on UniPDF. Stateless; one Document per
// request, opened and closed inside the request.
type UniPDFEngine struct{}

// NewUniPDFEngine creates the UniPDF-backed engine.
func NewUniPDFEngine() *UniPDFEngine {
	return &UniPDFEngine{}
}

// Open parses data into a Document.
func (e *UniPDFEngine) Open(data []byte) (Document, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewInvalidDocumentError("cannot open document", err)
	}

	encrypted, err := reader.IsEncrypted()
	if err != nil {
		return nil, errors.NewInvalidDocumentError("cannot open document", err)
	}
	if encrypted {
		ok, err := reader.Decrypt([]byte(""))
		if err != nil || !ok {
			return nil, errors.NewInvalidDocumentError("document is password protected", err)
		}
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, errors.NewInvalidDocumentError("cannot read page tree", err)
	}

	pages := make([]*model.PdfPage, numPages)
	for i := 0; i < numPages; i++ {
		page, err := reader.GetPage(i + 1)
		if err != nil {
			return nil, errors.NewInvalidDocumentError(fmt.Sprintf("cannot read page %d", i), err)
		}
		pages[i] = page
	}

	return &unipdfDocument{
		pages:    pages,
		overlays: make(map[int][]overlay),
	}, nil
}

// overlay is a queued edit: a white mask and/or an inserted text run.
type overlay struct {
	box      Rect
	text     string
	fontSize float64
	isText   bool
}

type unipdfDocument struct {
	pages    []*model.PdfPage
	overlays map[int][]overlay
	closed   bool
}

func (d *unipdfDocument) PageCount() int {
	return len(d.pages)
}

func (d *unipdfDocument) page(page int) (*model.PdfPage, error) {
	if d.closed {
		return nil, errors.NewEngineFailureError("document is closed", nil)
	}
	if page < 0 || page >= len(d.pages) {
		return nil, errors.NewPageOutOfRangeError(page, len(d.pages))
	}
	return d.pages[page], nil
}

func (d *unipdfDocument) PageSize(page int) (float64, float64, error) {
	p, err := d.page(page)
	if err != nil {
		return 0, 0, err
	}
	box, err := p.GetMediaBox()
	if err != nil {
		return 0, 0, errors.NewEngineFailureError("cannot read page media box", err)
	}
	return box.Urx - box.Llx, box.Ury - box.Lly, nil
}

// Layout extracts the page's text runs as spans, one per extracted line,
// with boxes converted from PDF bottom-left space to top-left space.
func (d *unipdfDocument) Layout(page int) (*PageLayout, error) {
	p, err := d.page(page)
	if err != nil {
		return nil, err
	}

	width, height, err := d.PageSize(page)
	if err != nil {
		return nil, err
	}

	pageText, marks, err := extractText(p)
	if err != nil {
		return nil, err
	}

	layout := &PageLayout{Width: width, Height: height}

	runes := []rune(pageText)
	lineStart := 0
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && runes[i] != '\n' {
			continue
		}
		lineEnd := i
		if span, ok := spanForRange(marks, runes, lineStart, lineEnd, height); ok {
			layout.Spans = append(layout.Spans, span)
		}
		lineStart = i + 1
	}

	return layout, nil
}

// Search returns one box per exact-substring occurrence of text on the page.
func (d *unipdfDocument) Search(page int, text string) ([]Rect, error) {
	p, err := d.page(page)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	_, height, err := d.PageSize(page)
	if err != nil {
		return nil, err
	}

	pageText, marks, err := extractText(p)
	if err != nil {
		return nil, err
	}

	needle := []rune(text)
	runes := []rune(pageText)

	var hits []Rect
	for i := 0; i+len(needle) <= len(runes); i++ {
		if !runesEqual(runes[i:i+len(needle)], needle) {
			continue
		}
		if span, ok := spanForRange(marks, runes, i, i+len(needle), height); ok {
			hits = append(hits, span.Box)
		}
		i += len(needle) - 1
	}
	return hits, nil
}

func (d *unipdfDocument) FillRect(page int, box Rect) error {
	if _, err := d.page(page); err != nil {
		return err
	}
	d.overlays[page] = append(d.overlays[page], overlay{box: box})
	return nil
}

func (d *unipdfDocument) InsertText(page int, x, y float64, text string, fontSize float64) error {
	if _, err := d.page(page); err != nil {
		return err
	}
	d.overlays[page] = append(d.overlays[page], overlay{
		box:      Rect{X: x, Y: y},
		text:     text,
		fontSize: fontSize,
		isText:   true,
	})
	return nil
}

func (d *unipdfDocument) Render(page int, scale float64) (image.Image, error) {
	p, err := d.page(page)
	if err != nil {
		return nil, err
	}

	width, _, err := d.PageSize(page)
	if err != nil {
		return nil, err
	}

	device := render.NewImageDevice()
	device.OutputWidth = int(math.Round(width * scale))

	img, err := device.Render(p)
	if err != nil {
		return nil, errors.NewEngineFailureError("failed to rasterize page", err)
	}
	return img, nil
}

// Bytes rebuilds the document with every queued overlay drawn on top of its
// page and serializes the result. The source pages are imported unchanged.
func (d *unipdfDocument) Bytes() ([]byte, error) {
	if d.closed {
		return nil, errors.NewEngineFailureError("document is closed", nil)
	}

	c := creator.New()
	for i, page := range d.pages {
		if err := c.AddPage(page); err != nil {
			return nil, errors.NewEngineFailureError(fmt.Sprintf("failed to compose page %d", i), err)
		}

		for _, ov := range d.overlays[i] {
			if ov.isText {
				para := c.NewParagraph(ov.text)
				para.SetFontSize(ov.fontSize)
				// (X, Y) is the requested baseline; the paragraph is placed
				// so its text lands on it.
				para.SetPos(ov.box.X, ov.box.Y-ov.fontSize)
				if err := c.Draw(para); err != nil {
					return nil, errors.NewEngineFailureError("failed to insert text", err)
				}
				continue
			}

			rect := c.NewRectangle(ov.box.X, ov.box.Y, ov.box.Width, ov.box.Height)
			rect.SetFillColor(creator.ColorRGBFrom8bit(255, 255, 255))
			rect.SetBorderWidth(0)
			if err := c.Draw(rect); err != nil {
				return nil, errors.NewEngineFailureError("failed to draw mask", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		return nil, errors.NewEngineFailureError("failed to serialize document", err)
	}
	return buf.Bytes(), nil
}

func (d *unipdfDocument) Close() error {
	d.closed = true
	d.pages = nil
	d.overlays = nil
	return nil
}

func extractText(p *model.PdfPage) (string, *extractor.TextMarkArray, error) {
	ex, err := extractor.New(p)
	if err != nil {
		return "", nil, errors.NewEngineFailureError("failed to create text extractor", err)
	}
	pageText, _, _, err := ex.ExtractPageText()
	if err != nil {
		return "", nil, errors.NewEngineFailureError("failed to extract page text", err)
	}
	return pageText.Text(), pageText.Marks(), nil
}

// spanForRange builds a span from the rune range [start, end) of the
// extracted text. Whitespace-only ranges and ranges with no glyph geometry
// yield no span.
func spanForRange(marks *extractor.TextMarkArray, runes []rune, start, end int, pageHeight float64) (Span, bool) {
	if start >= end {
		return Span{}, false
	}
	text := string(runes[start:end])
	if strings.TrimSpace(text) == "" {
		return Span{}, false
	}

	sub, err := marks.RangeOffset(start, end)
	if err != nil {
		return Span{}, false
	}
	bbox, ok := sub.BBox()
	if !ok {
		return Span{}, false
	}

	fontSize := 0.0
	for _, mark := range sub.Elements() {
		if !mark.Meta && mark.FontSize > 0 {
			fontSize = mark.FontSize
			break
		}
	}

	return Span{
		Text:     text,
		Box:      fromPDFRect(bbox, pageHeight),
		FontSize: fontSize,
	}, true
}

// fromPDFRect converts a bottom-left-origin PDF rectangle to the top-left
// space used by the service contracts. Width and height are opposite-corner
// differences; degenerate zero extents pass through unchanged.
func fromPDFRect(r model.PdfRectangle, pageHeight float64) Rect {
	llx := math.Min(r.Llx, r.Urx)
	lly := math.Min(r.Lly, r.Ury)
	urx := math.Max(r.Llx, r.Urx)
	ury := math.Max(r.Lly, r.Ury)
	return Rect{
		X:      llx,
		Y:      pageHeight - ury,
		Width:  urx - llx,
		Height: ury - lly,
	}
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
