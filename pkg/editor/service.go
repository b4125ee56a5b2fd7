package editor

import (
	"bytes"
	"context"
	"image/png"

	"github.com/yourorg/pdf-editor-service/pkg/engine"
	"github.com/yourorg/pdf-editor-service/pkg/errors"
	"github.com/yourorg/pdf-editor-service/pkg/logging"
	"github.com/yourorg/pdf-editor-service/pkg/storage"
)

// Service implements the upload/extract, edit, and render operations. Every
// call opens its own engine document and closes it before returning; the only
// shared state is the store.
type Service struct {
	store  storage.Store
	engine engine.Engine
	logger logging.Logger
}

// NewService creates the editor service.
func NewService(store storage.Store, eng engine.Engine, logger logging.Logger) *Service {
	return &Service{store: store, engine: eng, logger: logger}
}

// Extract parses data, flattens the per-page text layout, and persists the
// original bytes under the sanitized filename. Upload and extraction are one
// client-facing operation: nothing is stored when extraction fails.
func (s *Service) Extract(ctx context.Context, filename string, data []byte) (*ExtractResult, error) {
	doc, err := s.engine.Open(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	pages := make([]PageInfo, 0, doc.PageCount())
	for i := 0; i < doc.PageCount(); i++ {
		layout, err := doc.Layout(i)
		if err != nil {
			return nil, err
		}

		elements := make([]TextElement, 0, len(layout.Spans))
		for _, span := range layout.Spans {
			elements = append(elements, TextElement{
				Text:   span.Text,
				X:      span.Box.X,
				Y:      span.Box.Y,
				Width:  span.Box.Width,
				Height: span.Box.Height,
				Size:   span.FontSize,
			})
		}

		pages = append(pages, PageInfo{
			PageNumber:   i,
			Width:        layout.Width,
			Height:       layout.Height,
			TextElements: elements,
		})
	}

	storedName, err := s.store.Save(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Document uploaded",
		logging.NewField("filename", storedName),
		logging.NewField("pages", len(pages)),
		logging.NewField("bytes", len(data)),
	)

	return &ExtractResult{
		Filename:   storedName,
		Pages:      pages,
		TotalPages: len(pages),
	}, nil
}

// ApplyEdits applies edits in request order against the stored document and
// returns the edited bytes. Each occurrence of old text is masked with an
// opaque white rectangle and the new text is inserted at the bottom-left of
// the masked box. The stored file is never mutated.
func (s *Service) ApplyEdits(ctx context.Context, filename string, edits []EditOperation) ([]byte, error) {
	data, err := s.store.Read(ctx, filename)
	if err != nil {
		return nil, err
	}

	doc, err := s.engine.Open(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	for _, edit := range edits {
		if edit.Page < 0 || edit.Page >= doc.PageCount() {
			return nil, errors.NewPageOutOfRangeError(edit.Page, doc.PageCount())
		}

		size := edit.Size
		if size <= 0 {
			size = DefaultFontSize
		}

		boxes, err := doc.Search(edit.Page, edit.OldText)
		if err != nil {
			return nil, err
		}

		for _, box := range boxes {
			if err := doc.FillRect(edit.Page, box); err != nil {
				return nil, err
			}
			if err := doc.InsertText(edit.Page, box.X, box.Y+box.Height, edit.NewText, size); err != nil {
				return nil, err
			}
		}

		s.logger.Debug("Edit applied",
			logging.NewField("filename", filename),
			logging.NewField("page", edit.Page),
			logging.NewField("occurrences", len(boxes)),
		)
	}

	return doc.Bytes()
}

// RenderPage rasterizes one page of the stored document as a PNG at
// RenderScale.
func (s *Service) RenderPage(ctx context.Context, filename string, pageNum int) ([]byte, error) {
	data, err := s.store.Read(ctx, filename)
	if err != nil {
		return nil, err
	}

	doc, err := s.engine.Open(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if pageNum < 0 || pageNum >= doc.PageCount() {
		return nil, errors.NewPageOutOfRangeError(pageNum, doc.PageCount())
	}

	img, err := doc.Render(pageNum, RenderScale)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.NewEngineFailureError("failed to encode PNG", err)
	}
	return buf.Bytes(), nil
}
