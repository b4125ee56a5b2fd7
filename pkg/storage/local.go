package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourorg/pdf-editor-service/pkg/errors"
	"github.com/yourorg/pdf-editor-service/pkg/logging"
)

// LocalStore implements Store on a local directory, one file per sanitized
// filename.
type LocalStore struct {
	root   string
	logger logging.Logger
}

// NewLocalStore creates the storage root if absent and returns a disk-backed
// store.
func NewLocalStore(root string, logger logging.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.NewIOFailureError(fmt.Sprintf("failed to create storage root %s", root), err)
	}
	return &LocalStore{root: root, logger: logger}, nil
}

// Save writes data under the sanitized filename. The write goes to a temp
// file first and is renamed into place so readers never observe a partial
// file.
func (s *LocalStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", errors.NewMissingFileError("invalid filename")
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", errors.NewIOFailureError("failed to create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", errors.NewIOFailureError("failed to write file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", errors.NewIOFailureError("failed to write file", err)
	}

	target := filepath.Join(s.root, name)
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", errors.NewIOFailureError("failed to store file", err)
	}

	s.logger.Debug("Stored document",
		logging.NewField("filename", name),
		logging.NewField("bytes", len(data)),
	)
	return name, nil
}

// Read returns the stored bytes for filename.
func (s *LocalStore) Read(ctx context.Context, filename string) ([]byte, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return nil, errors.NewNotFoundError("File not found")
	}

	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("File not found")
		}
		return nil, errors.NewIOFailureError("failed to read file", err)
	}
	return data, nil
}
