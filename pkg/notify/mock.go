package notify

import (
	"context"
	"sync"
)

// MockNotifier records upload events in memory for testing.
type MockNotifier struct {
	Err    error
	events []UploadEvent
	mu     sync.Mutex
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// DocumentUploaded records the event, or returns the configured error.
func (m *MockNotifier) DocumentUploaded(ctx context.Context, event UploadEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (m *MockNotifier) Events() []UploadEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]UploadEvent, len(m.events))
	copy(out, m.events)
	return out
}
