package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/yourorg/pdf-editor-service/pkg/errors"
	"github.com/yourorg/pdf-editor-service/pkg/logging"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"My Report.pdf", "My_Report.pdf"},
		{"../../etc/passwd", "passwd"},
		{`..\..\windows\system32`, "system32"},
		{"/abs/path/doc.pdf", "doc.pdf"},
		{"weird$chars%(1).pdf", "weirdchars1.pdf"},
		{"...", ""},
		{"", ""},
		{"../", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestLocalStore_SaveAndRead(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"), logging.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	name, err := store.Save(ctx, "test doc.pdf", []byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, "test_doc.pdf", name)

	data, err := store.Read(ctx, "test doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestLocalStore_OverwriteLastWriteWins(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), logging.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Save(ctx, "doc.pdf", []byte("first"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "doc.pdf", []byte("second"))
	require.NoError(t, err)

	data, err := store.Read(ctx, "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestLocalStore_ReadMissingIsNotFound(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), logging.NewNop())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "never-uploaded.pdf")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrorCodeNotFound))
}

func TestLocalStore_TraversalCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(filepath.Join(root, "uploads"), logging.NewNop())
	require.NoError(t, err)

	name, err := store.Save(context.Background(), "../../escape.pdf", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "escape.pdf", name)

	_, err = os.Stat(filepath.Join(root, "escape.pdf"))
	assert.True(t, os.IsNotExist(err), "file must not land outside the storage root")
	_, err = os.Stat(filepath.Join(root, "uploads", "escape.pdf"))
	assert.NoError(t, err)
}

func TestLocalStore_RootCreatedIdempotently(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	_, err := NewLocalStore(root, logging.NewNop())
	require.NoError(t, err)
	_, err = NewLocalStore(root, logging.NewNop())
	require.NoError(t, err)
}

func TestLocalStore_NoPartialFilesLeftBehind(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, logging.NewNop())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "doc.pdf", []byte("data"))
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.pdf", entries[0].Name())
}

func TestMockStore_Roundtrip(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	_, err := store.Read(ctx, "missing.pdf")
	assert.True(t, apperrors.Is(err, apperrors.ErrorCodeNotFound))

	name, err := store.Save(ctx, "a.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", name)
	assert.Equal(t, 1, store.Len())

	data, err := store.Read(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}
