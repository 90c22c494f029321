package provider

import (
	"context"
	"sync"
)

// MockProvider is a mock remote backend for testing.
type MockProvider struct {
	Translations map[string]string // Map of phrase to reply
	Err          error             // Returned from every call when set

	mu          sync.Mutex
	callCount   int
	lastRequest *RemoteRequest
}

// NewMockProvider creates a new mock provider with a few Ata Manobo replies.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"maayad ha masalem": "good morning",
			"bayaw":             "brother-in-law",
			"ulan":              "rain",
		},
	}
}

// Translate returns the scripted reply, or the phrase in brackets when none
// is scripted.
func (m *MockProvider) Translate(ctx context.Context, req RemoteRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	m.lastRequest = &req

	if m.Err != nil {
		return "", m.Err
	}
	if translation, ok := m.Translations[req.Phrase]; ok {
		return translation, nil
	}
	return "[" + req.Phrase + "]", nil
}

// CallCount returns the number of Translate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request, or nil.
func (m *MockProvider) LastRequest() *RemoteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

// Verify MockProvider implements RemoteTranslator
var _ RemoteTranslator = (*MockProvider)(nil)
