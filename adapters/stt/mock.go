package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/siagacall/relay/domain/repositories"
)

// MockSpeechToText is a placeholder transcription adapter for tests and
// offline runs. Set Transcript or Err to control the result; when both are
// zero, a canned transcript is picked by audio size.
type MockSpeechToText struct {
	logger     *zap.Logger
	Transcript string
	Err        error
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// NewMockSpeechToText creates a new mock transcription adapter
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{logger: logger}
}

// Transcribe returns the configured or canned transcript
func (m *MockSpeechToText) Transcribe(ctx context.Context, audio []byte) (string, error) {
	m.logger.Info("Processing mock transcription", zap.Int("audioSize", len(audio)))

	if m.Err != nil {
		return "", m.Err
	}
	if m.Transcript != "" {
		return m.Transcript, nil
	}

	// Mock transcription based on audio size
	switch {
	case len(audio) > 10000:
		return "Please hurry, someone is hurt and not breathing", nil
	case len(audio) > 5000:
		return "There has been an accident on the highway", nil
	case len(audio) > 1000:
		return "I need help", nil
	default:
		return "Help", nil
	}
}
