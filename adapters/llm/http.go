package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/siagacall/relay/domain"
	"github.com/siagacall/relay/domain/repositories"
)

const defaultTimeout = 30 * time.Second

// HTTPConfig holds configuration for the HTTPResponseGenerator adapter
// Required fields:
// - ServiceURL: The response-generation service endpoint
// Optional fields with defaults:
// - Timeout: Per-request timeout (default: 30s)
type HTTPConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

// ValidateHTTPConfig validates the HTTPConfig
func ValidateHTTPConfig(config HTTPConfig) error {
	if config.ServiceURL == "" {
		return fmt.Errorf("response service URL is required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %v", config.Timeout)
	}
	return nil
}

// HTTPResponseGenerator implements ResponseGenerator against the
// response-generation collaborator's HTTP contract. It is stateless per
// session; conversation history lives with the collaborator, if anywhere.
type HTTPResponseGenerator struct {
	serviceURL string
	client     *http.Client
	logger     *zap.Logger
}

// Ensure HTTPResponseGenerator implements the ResponseGenerator interface
var _ repositories.ResponseGenerator = (*HTTPResponseGenerator)(nil)

type respondRequest struct {
	InputText string `json:"input_text"`
}

type respondResponse struct {
	ResponseText string `json:"response_text"`
	Emotion      string `json:"emotion"`
}

// NewHTTPResponseGenerator creates a new HTTP response-generation adapter
func NewHTTPResponseGenerator(config HTTPConfig, logger *zap.Logger) (*HTTPResponseGenerator, error) {
	if err := ValidateHTTPConfig(config); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
		logger.Info("Using default request timeout", zap.Duration("timeout", timeout))
	}

	return &HTTPResponseGenerator{
		serviceURL: config.ServiceURL,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Respond sends the transcript to the response-generation service
func (g *HTTPResponseGenerator) Respond(ctx context.Context, sessionID, inputText string) (*domain.AIResponse, error) {
	body, err := json.Marshal(respondRequest{InputText: inputText})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.serviceURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("response generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		g.logger.Error("Response service returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return nil, fmt.Errorf("response service returned %d: %s", resp.StatusCode, string(errorBody))
	}

	var result respondResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &domain.AIResponse{
		ResponseText: result.ResponseText,
		Emotion:      result.Emotion,
	}, nil
}

// ForgetSession is a no-op; this adapter keeps no per-session state
func (g *HTTPResponseGenerator) ForgetSession(sessionID string) {}
