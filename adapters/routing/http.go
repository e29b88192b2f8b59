package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/siagacall/relay/domain/repositories"
)

const defaultTimeout = 30 * time.Second

// HTTPConfig holds configuration for the HTTPCallRouter adapter
// Required fields:
// - BaseURL: The routing service base URL
// Optional fields with defaults:
// - Timeout: Per-request timeout (default: 30s)
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ValidateHTTPConfig validates the HTTPConfig
func ValidateHTTPConfig(config HTTPConfig) error {
	if config.BaseURL == "" {
		return fmt.Errorf("routing service base URL is required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %v", config.Timeout)
	}
	return nil
}

// HTTPCallRouter implements CallRouter against the ML routing classifier's
// HTTP contract: POST a transcript, receive the department the call should be
// forwarded to.
type HTTPCallRouter struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// Ensure HTTPCallRouter implements the CallRouter interface
var _ repositories.CallRouter = (*HTTPCallRouter)(nil)

type routeRequest struct {
	Transcript string `json:"transcript"`
}

type routeResponse struct {
	ForwardedTo string `json:"forwarded_to"`
}

// NewHTTPCallRouter creates a new HTTP call-routing adapter
func NewHTTPCallRouter(config HTTPConfig, logger *zap.Logger) (*HTTPCallRouter, error) {
	if err := ValidateHTTPConfig(config); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
		logger.Info("Using default request timeout", zap.Duration("timeout", timeout))
	}

	return &HTTPCallRouter{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Route classifies the transcript into a destination department
func (r *HTTPCallRouter) Route(ctx context.Context, transcript string) (string, error) {
	body, err := json.Marshal(routeRequest{Transcript: transcript})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/route-call", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("routing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		r.logger.Error("Routing service returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return "", fmt.Errorf("routing service returned %d: %s", resp.StatusCode, string(errorBody))
	}

	var result routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode routing response: %w", err)
	}

	return result.ForwardedTo, nil
}
