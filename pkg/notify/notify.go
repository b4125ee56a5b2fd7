// Package notify publishes upload events to interested consumers. Delivery
// is best-effort: a failed notification never fails the request that
// triggered it.
package notify

import (
	"context"
	"time"
)

// UploadEvent describes a successfully uploaded document.
type UploadEvent struct {
	EventID    string    `json:"event_id"`
	Filename   string    `json:"filename"`
	TotalPages int       `json:"total_pages"`
	SizeBytes  int       `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Notifier publishes upload events.
type Notifier interface {
	DocumentUploaded(ctx context.Context, event UploadEvent) error
}

// NopNotifier discards every event. Used when no queue is configured.
type NopNotifier struct{}

// DocumentUploaded does nothing.
func (NopNotifier) DocumentUploaded(ctx context.Context, event UploadEvent) error {
	return nil
}
