package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort             = "8080"
	defaultRequestTimeout   = 30 * time.Second
	defaultAudioContentType = "audio/wav"
	defaultSTTLanguage      = "en-US"
	defaultSTTSampleRate    = 16000
	defaultSTTEncoding      = "LINEAR16"

	// Provider names
	ProviderHTTP   = "http"
	ProviderGoogle = "google"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Config holds the server configuration, populated from environment
// variables by Load.
type Config struct {
	Port string

	// Collaborator endpoints
	TranscriptionServiceURL string
	ResponseServiceURL      string
	RoutingServiceURL       string // empty disables routing classification

	// RequestTimeout bounds each external collaborator call
	RequestTimeout time.Duration

	AudioContentType string
	ChunkDir         string

	// BroadcastMode switches the signaling router to forward every message
	// to all other peers. Only valid for exactly-two-party topologies.
	BroadcastMode bool

	// AuthSecret enables the peer-token gate on /ws when non-empty
	AuthSecret string

	STTProvider      string
	ResponseProvider string
	GeminiAPIKey     string

	// Google Cloud Speech knobs
	STTLanguage   string
	STTSampleRate int
	STTEncoding   string
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Port:                    envOrDefault("PORT", defaultPort),
		TranscriptionServiceURL: os.Getenv("TRANSCRIPTION_SERVICE_URL"),
		ResponseServiceURL:      os.Getenv("RESPONSE_SERVICE_URL"),
		RoutingServiceURL:       os.Getenv("ROUTING_SERVICE_URL"),
		RequestTimeout:          defaultRequestTimeout,
		AudioContentType:        envOrDefault("AUDIO_CONTENT_TYPE", defaultAudioContentType),
		ChunkDir:                os.Getenv("CHUNK_DIR"),
		AuthSecret:              os.Getenv("RELAY_AUTH_SECRET"),
		STTProvider:             envOrDefault("STT_PROVIDER", ProviderHTTP),
		ResponseProvider:        envOrDefault("RESPONSE_PROVIDER", ProviderHTTP),
		GeminiAPIKey:            os.Getenv("GEMINI_API_KEY"),
		STTLanguage:             envOrDefault("STT_LANGUAGE", defaultSTTLanguage),
		STTSampleRate:           defaultSTTSampleRate,
		STTEncoding:             envOrDefault("STT_ENCODING", defaultSTTEncoding),
	}

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.RequestTimeout = timeout
	}

	if v := os.Getenv("BROADCAST_MODE"); v != "" {
		broadcast, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BROADCAST_MODE %q: %w", v, err)
		}
		cfg.BroadcastMode = broadcast
	}

	if v := os.Getenv("STT_SAMPLE_RATE"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("invalid STT_SAMPLE_RATE %q", v)
		}
		cfg.STTSampleRate = rate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks provider selections and their required settings
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", c.RequestTimeout)
	}

	switch c.STTProvider {
	case ProviderHTTP:
		if c.TranscriptionServiceURL == "" {
			return fmt.Errorf("TRANSCRIPTION_SERVICE_URL is required when STT_PROVIDER is %q", ProviderHTTP)
		}
	case ProviderGoogle, ProviderMock:
	default:
		return fmt.Errorf("unsupported STT_PROVIDER %q", c.STTProvider)
	}

	switch c.ResponseProvider {
	case ProviderHTTP:
		if c.ResponseServiceURL == "" {
			return fmt.Errorf("RESPONSE_SERVICE_URL is required when RESPONSE_PROVIDER is %q", ProviderHTTP)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when RESPONSE_PROVIDER is %q", ProviderGemini)
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unsupported RESPONSE_PROVIDER %q", c.ResponseProvider)
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
