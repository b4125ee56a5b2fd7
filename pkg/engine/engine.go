package engine

import (
	"image"
)

// Rect is an axis-aligned rectangle in page space. X, Y is the top-left
// corner; the same coordinate space as the page width/height.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Span is an engine-reported contiguous run of text with uniform font size.
type Span struct {
	Text     string
	Box      Rect
	FontSize float64
}

// PageLayout is the flattened text layout of a single page: text spans only,
// in the order the engine yields them.
type PageLayout struct {
	Width  float64
	Height float64
	Spans  []Span
}

// Document is one open PDF. Implementations hold any pending overlay edits in
// memory; nothing touches the source bytes until Bytes is called, and the
// source is never mutated.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageSize returns width and height of the zero-indexed page in points.
	PageSize(page int) (width, height float64, err error)

	// Layout extracts the text layout of the zero-indexed page.
	Layout(page int) (*PageLayout, error)

	// Search finds every exact-substring occurrence of text on the page and
	// returns one bounding box per occurrence. A miss is an empty slice, not
	// an error.
	Search(page int, text string) ([]Rect, error)

	// FillRect queues an opaque white rectangle over box on the page.
	FillRect(page int, box Rect) error

	// InsertText queues text on the page with its baseline anchored at
	// (x, y) in top-left page coordinates.
	InsertText(page int, x, y float64, text string, fontSize float64) error

	// Render rasterizes the page at the given linear scale relative to its
	// native point size.
	Render(page int, scale float64) (image.Image, error)

	// Bytes serializes the document, queued overlays included.
	Bytes() ([]byte, error)

	// Close releases the document. Safe to call on every exit path.
	Close() error
}

// Engine opens PDF documents. The sole collaborator for all parsing, text
// geometry, drawing, and rasterization.
type Engine interface {
	Open(data []byte) (Document, error)
}
