package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/siagacall/relay/domain/repositories"
)

const (
	defaultContentType = "audio/wav"
	defaultTimeout     = 30 * time.Second
)

// HTTPConfig holds configuration for the HTTPSpeechToText adapter
// Required fields:
// - ServiceURL: The transcription service endpoint
// Optional fields with defaults:
// - ContentType: The content type describing the audio container (default: "audio/wav")
// - Timeout: Per-request timeout (default: 30s)
type HTTPConfig struct {
	ServiceURL  string
	ContentType string
	Timeout     time.Duration
}

// ValidateHTTPConfig validates the HTTPConfig
func ValidateHTTPConfig(config HTTPConfig) error {
	if config.ServiceURL == "" {
		return fmt.Errorf("transcription service URL is required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %v", config.Timeout)
	}
	return nil
}

// HTTPSpeechToText implements SpeechToText against the transcription
// collaborator's HTTP contract: POST raw audio bytes, receive a transcript.
type HTTPSpeechToText struct {
	serviceURL  string
	contentType string
	client      *http.Client
	logger      *zap.Logger
}

// Ensure HTTPSpeechToText implements the SpeechToText interface
var _ repositories.SpeechToText = (*HTTPSpeechToText)(nil)

type transcriptResponse struct {
	Transcript string `json:"transcript"`
}

// NewHTTPSpeechToText creates a new HTTP transcription adapter
func NewHTTPSpeechToText(config HTTPConfig, logger *zap.Logger) (*HTTPSpeechToText, error) {
	if err := ValidateHTTPConfig(config); err != nil {
		return nil, err
	}

	contentType := config.ContentType
	if contentType == "" {
		contentType = defaultContentType
		logger.Info("Using default audio content type", zap.String("contentType", contentType))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
		logger.Info("Using default request timeout", zap.Duration("timeout", timeout))
	}

	return &HTTPSpeechToText{
		serviceURL:  config.ServiceURL,
		contentType: contentType,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}, nil
}

// Transcribe sends the audio to the transcription service and returns the
// transcript. Non-success responses and timeouts surface as errors.
func (s *HTTPSpeechToText) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio data cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.serviceURL, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", s.contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		s.logger.Error("Transcription service returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return "", fmt.Errorf("transcription service returned %d: %s", resp.StatusCode, string(errorBody))
	}

	var result transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	s.logger.Debug("Transcription completed",
		zap.Int("audioSize", len(audio)),
		zap.Int("transcriptLength", len(result.Transcript)))

	return result.Transcript, nil
}
