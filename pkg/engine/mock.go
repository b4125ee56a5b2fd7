package engine

import (
	"image"

	"github.com/yourorg/pdf-editor-service/pkg/errors"
)

func pageRangeErr(page, total int) error {
	return errors.NewPageOutOfRangeError(page, total)
}

// MockPage configures one page of a MockDocument.
type MockPage struct {
	Width      float64
	Height     float64
	Spans      []Span
	SearchHits map[string][]Rect
}

// MockEngine is an in-memory implementation of Engine for testing.
type MockEngine struct {
	Doc     *MockDocument
	OpenErr error
	Opened  int
}

// NewMockEngine creates a mock engine that serves doc from every Open call.
func NewMockEngine(doc *MockDocument) *MockEngine {
	return &MockEngine{Doc: doc}
}

// Open returns the configured document or error.
func (e *MockEngine) Open(data []byte) (Document, error) {
	e.Opened++
	if e.OpenErr != nil {
		return nil, e.OpenErr
	}
	return e.Doc, nil
}

// FilledRect records a FillRect call.
type FilledRect struct {
	Page int
	Box  Rect
}

// InsertedText records an InsertText call.
type InsertedText struct {
	Page     int
	X, Y     float64
	Text     string
	FontSize float64
}

// MockDocument is a scriptable Document for testing.
type MockDocument struct {
	Pages    []MockPage
	Out      []byte
	BytesErr error

	Fills   []FilledRect
	Inserts []InsertedText
	Closed  bool
}

func (d *MockDocument) PageCount() int {
	return len(d.Pages)
}

func (d *MockDocument) checkPage(page int) (*MockPage, error) {
	if page < 0 || page >= len(d.Pages) {
		return nil, pageRangeErr(page, len(d.Pages))
	}
	return &d.Pages[page], nil
}

func (d *MockDocument) PageSize(page int) (float64, float64, error) {
	p, err := d.checkPage(page)
	if err != nil {
		return 0, 0, err
	}
	return p.Width, p.Height, nil
}

func (d *MockDocument) Layout(page int) (*PageLayout, error) {
	p, err := d.checkPage(page)
	if err != nil {
		return nil, err
	}
	return &PageLayout{Width: p.Width, Height: p.Height, Spans: p.Spans}, nil
}

func (d *MockDocument) Search(page int, text string) ([]Rect, error) {
	p, err := d.checkPage(page)
	if err != nil {
		return nil, err
	}
	return p.SearchHits[text], nil
}

func (d *MockDocument) FillRect(page int, box Rect) error {
	if _, err := d.checkPage(page); err != nil {
		return err
	}
	d.Fills = append(d.Fills, FilledRect{Page: page, Box: box})
	return nil
}

func (d *MockDocument) InsertText(page int, x, y float64, text string, fontSize float64) error {
	if _, err := d.checkPage(page); err != nil {
		return err
	}
	d.Inserts = append(d.Inserts, InsertedText{Page: page, X: x, Y: y, Text: text, FontSize: fontSize})
	return nil
}

func (d *MockDocument) Render(page int, scale float64) (image.Image, error) {
	p, err := d.checkPage(page)
	if err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, int(p.Width*scale), int(p.Height*scale))), nil
}

func (d *MockDocument) Bytes() ([]byte, error) {
	if d.BytesErr != nil {
		return nil, d.BytesErr
	}
	if d.Out != nil {
		return d.Out, nil
	}
	return []byte("%PDF-1.7 mock"), nil
}

func (d *MockDocument) Close() error {
	d.Closed = true
	return nil
}
