package storage

import (
	"context"
	"regexp"
	"strings"
)

// Store persists uploaded PDFs keyed by sanitized filename. The stored bytes
// are the whole record: no metadata sidecar, no manifest.
type Store interface {
	// Save sanitizes filename and writes data, overwriting any existing file
	// of the same sanitized name. Returns the stored name.
	Save(ctx context.Context, filename string, data []byte) (string, error)

	// Read returns the bytes stored under filename (after the same
	// sanitization as Save). Returns a NotFound error when absent.
	Read(ctx context.Context, filename string) ([]byte, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces a client-supplied filename to a safe storage key.
// Path separators and unsafe characters are stripped so the result can never
// escape the storage root. Returns "" when nothing safe remains.
func SanitizeFilename(filename string) string {
	// Drop any directory components, whichever separator the client used.
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	filename = strings.ReplaceAll(filename, " ", "_")
	filename = unsafeChars.ReplaceAllString(filename, "")
	filename = strings.Trim(filename, "._")
	if filename == "" || strings.Trim(filename, ".") == "" {
		return ""
	}
	return filename
}
