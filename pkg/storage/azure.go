package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/yourorg/pdf-editor-service/pkg/errors"
	"github.com/yourorg/pdf-editor-service/pkg/logging"
)

// AzureBlobStore implements Store on Azure Blob Storage. Each sanitized
// filename maps to a blob of the same name in a fixed container.
type AzureBlobStore struct {
	client    *azblob.Client
	container string
	logger    logging.Logger
}

// NewAzureBlobStore creates a blob-backed store.
// accountKey is optional; when empty the default Azure credential chain
// (managed identity, CLI, env) is used.
func NewAzureBlobStore(accountName, accountKey, container string, logger logging.Logger) (*AzureBlobStore, error) {
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	var client *azblob.Client

	if accountKey == "" {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure credential: %w", err)
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
		}
	} else {
		cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
		}
	}

	return &AzureBlobStore{
		client:    client,
		container: container,
		logger:    logger,
	}, nil
}

// Save uploads data, overwriting any blob of the same sanitized name.
func (s *AzureBlobStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", errors.NewMissingFileError("invalid filename")
	}

	// Container create is idempotent; an AlreadyExists answer is fine.
	if _, err := s.client.CreateContainer(ctx, s.container, nil); err != nil {
		s.logger.Debug("Container create result", logging.NewField("error", err.Error()))
	}

	_, err := s.client.UploadStream(ctx, s.container, name, bytes.NewReader(data), &azblob.UploadStreamOptions{})
	if err != nil {
		return "", errors.NewIOFailureError("failed to upload blob", err)
	}

	s.logger.Debug("Stored document blob",
		logging.NewField("container", s.container),
		logging.NewField("blob", name),
		logging.NewField("bytes", len(data)),
	)
	return name, nil
}

// Read downloads the blob stored under filename.
func (s *AzureBlobStore) Read(ctx context.Context, filename string) ([]byte, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return nil, errors.NewNotFoundError("File not found")
	}

	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		if strings.Contains(err.Error(), "BlobNotFound") || strings.Contains(err.Error(), "404") {
			return nil, errors.NewNotFoundError("File not found")
		}
		return nil, errors.NewIOFailureError("failed to download blob", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewIOFailureError("failed to read blob", err)
	}
	return data, nil
}
