package routing

import (
	"context"

	"go.uber.org/zap"

	"github.com/siagacall/relay/domain/repositories"
)

// MockCallRouter is a placeholder routing adapter for tests and offline
// runs. Set Department or Err to control the result.
type MockCallRouter struct {
	logger     *zap.Logger
	Department string
	Err        error
}

var _ repositories.CallRouter = (*MockCallRouter)(nil)

// NewMockCallRouter creates a new mock routing adapter
func NewMockCallRouter(logger *zap.Logger) *MockCallRouter {
	return &MockCallRouter{logger: logger}
}

// Route returns the configured or canned department
func (m *MockCallRouter) Route(ctx context.Context, transcript string) (string, error) {
	m.logger.Info("Processing mock call routing", zap.String("transcript", transcript))

	if m.Err != nil {
		return "", m.Err
	}
	if m.Department != "" {
		return m.Department, nil
	}
	return "Medical", nil
}
