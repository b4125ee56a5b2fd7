package engine

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/yourorg/pdf-editor-service/pkg/errors"
	"github.com/yourorg/pdf-editor-service/pkg/pdftest"
)

// The UniPDF engine needs a metered license key at runtime. These tests
// exercise the real engine and are skipped when no key is configured.
func requireLicense(t *testing.T) {
	t.Helper()
	key := os.Getenv("UNIDOC_LICENSE_KEY")
	if key == "" {
		t.Skip("UNIDOC_LICENSE_KEY not set")
	}
	if err := SetLicenseKey(key); err != nil {
		t.Fatalf("failed to set license key: %v", err)
	}
}

func TestUniPDFEngine_OpenRejectsGarbage(t *testing.T) {
	requireLicense(t)

	eng := NewUniPDFEngine()
	_, err := eng.Open([]byte("this is not a pdf"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrorCodeInvalidDocument))
}

func TestUniPDFEngine_PageCountAndSize(t *testing.T) {
	requireLicense(t)

	data, err := pdftest.MultiPage([]string{"one", "two", "three"})
	require.NoError(t, err)

	doc, err := NewUniPDFEngine().Open(data)
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, 3, doc.PageCount())

	w, h, err := doc.PageSize(0)
	require.NoError(t, err)
	assert.InDelta(t, pdftest.PageWidth, w, 1.0)
	assert.InDelta(t, pdftest.PageHeight, h, 1.0)

	_, _, err = doc.PageSize(3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrorCodePageOutOfRange))
}

func TestUniPDFEngine_LayoutFindsText(t *testing.T) {
	requireLicense(t)

	data, err := pdftest.SinglePage("Hello World")
	require.NoError(t, err)

	doc, err := NewUniPDFEngine().Open(data)
	require.NoError(t, err)
	defer doc.Close()

	layout, err := doc.Layout(0)
	require.NoError(t, err)
	assert.InDelta(t, pdftest.PageWidth, layout.Width, 1.0)

	var found *Span
	for i := range layout.Spans {
		if layout.Spans[i].Text == "Hello World" {
			found = &layout.Spans[i]
			break
		}
	}
	require.NotNil(t, found, "extracted spans: %+v", layout.Spans)

	// Boxes are top-left space: inside the page, never negative extents.
	assert.GreaterOrEqual(t, found.Box.X, 0.0)
	assert.GreaterOrEqual(t, found.Box.Y, 0.0)
	assert.Greater(t, found.Box.Width, 0.0)
	assert.Greater(t, found.Box.Height, 0.0)
	assert.Less(t, found.Box.Y, layout.Height)
}

func TestUniPDFEngine_Search(t *testing.T) {
	requireLicense(t)

	data, err := pdftest.SinglePage("Hello World")
	require.NoError(t, err)

	doc, err := NewUniPDFEngine().Open(data)
	require.NoError(t, err)
	defer doc.Close()

	hits, err := doc.Search(0, "Hello World")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Greater(t, hits[0].Width, 0.0)

	none, err := doc.Search(0, "absent text")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUniPDFEngine_BytesPreservesShape(t *testing.T) {
	requireLicense(t)

	data, err := pdftest.MultiPage([]string{"page one", "page two"})
	require.NoError(t, err)

	eng := NewUniPDFEngine()
	doc, err := eng.Open(data)
	require.NoError(t, err)

	out, err := doc.Bytes()
	require.NoError(t, err)
	require.NoError(t, doc.Close())

	reopened, err := eng.Open(out)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 2, reopened.PageCount())
	w, h, err := reopened.PageSize(0)
	require.NoError(t, err)
	assert.InDelta(t, pdftest.PageWidth, w, 1.0)
	assert.InDelta(t, pdftest.PageHeight, h, 1.0)
}

func TestUniPDFEngine_MaskAndInsertRoundtrip(t *testing.T) {
	requireLicense(t)

	data, err := pdftest.SinglePage("Hello World")
	require.NoError(t, err)

	eng := NewUniPDFEngine()
	doc, err := eng.Open(data)
	require.NoError(t, err)

	hits, err := doc.Search(0, "Hello World")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	box := hits[0]
	require.NoError(t, doc.FillRect(0, box))
	require.NoError(t, doc.InsertText(0, box.X, box.Y+box.Height, "Goodbye", 12))

	out, err := doc.Bytes()
	require.NoError(t, err)
	require.NoError(t, doc.Close())

	edited, err := eng.Open(out)
	require.NoError(t, err)
	defer edited.Close()

	replaced, err := edited.Search(0, "Goodbye")
	require.NoError(t, err)
	assert.NotEmpty(t, replaced, "inserted text must be extractable from the edited document")
}

func TestUniPDFEngine_RenderScale(t *testing.T) {
	requireLicense(t)

	data, err := pdftest.SinglePage("render me")
	require.NoError(t, err)

	doc, err := NewUniPDFEngine().Open(data)
	require.NoError(t, err)
	defer doc.Close()

	img, err := doc.Render(0, 2)
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.InDelta(t, pdftest.PageWidth*2, float64(bounds.Dx()), 2.0)
	assert.InDelta(t, pdftest.PageHeight*2, float64(bounds.Dy()), 2.0)
}
