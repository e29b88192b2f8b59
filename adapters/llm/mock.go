package llm

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/siagacall/relay/domain"
	"github.com/siagacall/relay/domain/repositories"
)

// MockResponseGenerator is a placeholder response-generation adapter for
// tests and offline runs. Set Response or Err to control the result.
type MockResponseGenerator struct {
	logger   *zap.Logger
	Response *domain.AIResponse
	Err      error

	mu        sync.Mutex
	calls     int
	forgotten []string
}

var _ repositories.ResponseGenerator = (*MockResponseGenerator)(nil)

// NewMockResponseGenerator creates a new mock response-generation adapter
func NewMockResponseGenerator(logger *zap.Logger) *MockResponseGenerator {
	return &MockResponseGenerator{logger: logger}
}

// Respond returns the configured or canned response
func (m *MockResponseGenerator) Respond(ctx context.Context, sessionID, inputText string) (*domain.AIResponse, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	m.logger.Info("Processing mock response generation",
		zap.String("sessionID", sessionID),
		zap.String("inputText", inputText))

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Response != nil {
		response := *m.Response
		return &response, nil
	}

	return &domain.AIResponse{
		ResponseText: "Help is on the way. Please stay on the line.",
		Emotion:      "calm",
	}, nil
}

// ForgetSession records the dropped session id
func (m *MockResponseGenerator) ForgetSession(sessionID string) {
	m.mu.Lock()
	m.forgotten = append(m.forgotten, sessionID)
	m.mu.Unlock()
}

// Calls reports how many times Respond was invoked
func (m *MockResponseGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Forgotten reports the session ids passed to ForgetSession
func (m *MockResponseGenerator) Forgotten() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.forgotten...)
}
