package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/siagacall/relay/adapters/llm"
	"github.com/siagacall/relay/adapters/routing"
	"github.com/siagacall/relay/adapters/storage"
	"github.com/siagacall/relay/adapters/stt"
	"github.com/siagacall/relay/domain/repositories"
	"github.com/siagacall/relay/internal/api"
	"github.com/siagacall/relay/internal/auth"
	"github.com/siagacall/relay/internal/config"
	"github.com/siagacall/relay/internal/websocket"
	"github.com/siagacall/relay/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load .env when present; the environment wins otherwise
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Initialize collaborator adapters
	speechToText, err := newSpeechToText(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize transcription adapter", zap.Error(err))
	}

	responder, err := newResponseGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize response adapter", zap.Error(err))
	}

	var router repositories.CallRouter
	if cfg.RoutingServiceURL != "" {
		router, err = routing.NewHTTPCallRouter(routing.HTTPConfig{
			BaseURL: cfg.RoutingServiceURL,
			Timeout: cfg.RequestTimeout,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize routing adapter", zap.Error(err))
		}
	} else {
		logger.Info("Call routing disabled, ROUTING_SERVICE_URL not set")
	}

	chunkStore, err := storage.NewDiskChunkStore(cfg.ChunkDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize chunk store", zap.Error(err))
	}

	// Initialize usecase services
	relayService := usecase.NewRelayService(chunkStore, speechToText, responder, router, cfg.RequestTimeout, logger)

	// Initialize WebSocket hub with an explicit connection registry
	registry := websocket.NewRegistry()
	hub := websocket.NewHub(registry, relayService, cfg.BroadcastMode, logger)
	if cfg.BroadcastMode {
		logger.Warn("Signaling router in broadcast mode; valid for exactly-two-party topologies only")
	}

	var authenticator *auth.Authenticator
	if cfg.AuthSecret != "" {
		authenticator = auth.NewAuthenticator(cfg.AuthSecret)
		logger.Info("Peer token authentication enabled")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize API routes
	api.InitRoutes(e, hub, authenticator, logger)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Relay started",
		zap.String("port", cfg.Port),
		zap.String("sttProvider", cfg.STTProvider),
		zap.String("responseProvider", cfg.ResponseProvider),
		zap.Bool("broadcastMode", cfg.BroadcastMode))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.Close()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newSpeechToText(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.SpeechToText, error) {
	switch cfg.STTProvider {
	case config.ProviderGoogle:
		return stt.NewGoogleSpeechToText(ctx, stt.GoogleConfig{
			Language:   cfg.STTLanguage,
			SampleRate: cfg.STTSampleRate,
			Encoding:   cfg.STTEncoding,
		}, logger)
	case config.ProviderMock:
		return stt.NewMockSpeechToText(logger), nil
	default:
		return stt.NewHTTPSpeechToText(stt.HTTPConfig{
			ServiceURL:  cfg.TranscriptionServiceURL,
			ContentType: cfg.AudioContentType,
			Timeout:     cfg.RequestTimeout,
		}, logger)
	}
}

func newResponseGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.ResponseGenerator, error) {
	switch cfg.ResponseProvider {
	case config.ProviderGemini:
		return llm.NewGeminiResponseGenerator(ctx, llm.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
		}, logger)
	case config.ProviderMock:
		return llm.NewMockResponseGenerator(logger), nil
	default:
		return llm.NewHTTPResponseGenerator(llm.HTTPConfig{
			ServiceURL: cfg.ResponseServiceURL,
			Timeout:    cfg.RequestTimeout,
		}, logger)
	}
}
