package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/siagacall/relay/domain"
	"github.com/siagacall/relay/domain/repositories"
)

const (
	defaultModel           = "gemini-2.0-flash"
	defaultMaxOutputTokens = 256

	// operatorSystemPrompt keeps replies short and actionable; the caller is
	// in distress and the text is read out or displayed mid-call.
	operatorSystemPrompt = "You are an emergency call center operator. " +
		"A caller in distress is speaking to you. Respond calmly and briefly, " +
		"in at most two sentences. Gather the essential facts (location, nature " +
		"of the emergency, people involved) and reassure the caller that help " +
		"is being dispatched. Never speculate and never give medical instructions " +
		"beyond basic first-aid guidance."

	emotionPromptFormat = "Classify the emotional state of the person who said the " +
		"following into exactly one word from this list: calm, confused, urgent, " +
		"panicked, scared, distressed, angry, hopeless, sad, uncertain. " +
		"Answer with the single word only.\n\n%s"
)

// emotionVocabulary is the closed set of labels the classifier may return;
// anything else falls back to "unknown".
var emotionVocabulary = map[string]bool{
	"calm": true, "confused": true, "urgent": true, "panicked": true,
	"scared": true, "distressed": true, "angry": true, "hopeless": true,
	"sad": true, "uncertain": true,
}

// GeminiConfig holds configuration for the Gemini adapter
// Required fields:
// - APIKey: Google AI API key
// Optional fields with defaults:
// - Model: The model ID to use (default: "gemini-2.0-flash")
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiResponseGenerator implements ResponseGenerator using Google's Gemini
// API. It keeps conversation history per session id so consecutive chunks
// from one call share context; history is dropped when the connection closes.
type GeminiResponseGenerator struct {
	client *genai.Client
	logger *zap.Logger
	model  string

	mu       sync.Mutex
	sessions map[string][]*genai.Content
}

// Ensure GeminiResponseGenerator implements the ResponseGenerator interface
var _ repositories.ResponseGenerator = (*GeminiResponseGenerator)(nil)

// NewGeminiResponseGenerator creates a new Gemini response-generation adapter
func NewGeminiResponseGenerator(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiResponseGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Google AI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}

	return &GeminiResponseGenerator{
		client:   client,
		logger:   logger,
		model:    model,
		sessions: make(map[string][]*genai.Content),
	}, nil
}

// Respond generates an operator reply for the transcript and classifies the
// caller's emotion. The emotion classification is best-effort: on failure the
// response is still returned with emotion "unknown".
func (g *GeminiResponseGenerator) Respond(ctx context.Context, sessionID, inputText string) (*domain.AIResponse, error) {
	g.mu.Lock()
	history := g.sessions[sessionID]
	g.mu.Unlock()

	contents := []*genai.Content{genai.NewContentFromText(operatorSystemPrompt, genai.RoleUser)}
	contents = append(contents, history...)
	userContent := genai.NewContentFromText(inputText, genai.RoleUser)
	contents = append(contents, userContent)

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: defaultMaxOutputTokens,
	}

	responseText, err := g.generateWithRetry(ctx, contents, config)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.sessions[sessionID] = append(g.sessions[sessionID], userContent,
		genai.NewContentFromText(responseText, genai.RoleModel))
	g.mu.Unlock()

	emotion := g.classifyEmotion(ctx, inputText)

	g.logger.Info("Generated response",
		zap.String("sessionID", sessionID),
		zap.String("emotion", emotion),
		zap.Int("historyLength", len(history)+2))

	return &domain.AIResponse{
		ResponseText: responseText,
		Emotion:      emotion,
	}, nil
}

// ForgetSession drops the conversation history for a closed connection
func (g *GeminiResponseGenerator) ForgetSession(sessionID string) {
	g.mu.Lock()
	delete(g.sessions, sessionID)
	g.mu.Unlock()
}

// generateWithRetry calls GenerateContent with up to 3 attempts, still
// bounded by the caller's context.
func (g *GeminiResponseGenerator) generateWithRetry(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		response, err = g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err == nil {
			break
		}

		g.logger.Warn("Failed to generate content, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if ctx.Err() != nil {
			return "", fmt.Errorf("content generation cancelled: %w", ctx.Err())
		}
		if attempt < 2 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}

	var responseText string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			responseText += part.Text
		}
	}
	if responseText == "" {
		return "", fmt.Errorf("empty response generated")
	}

	return strings.TrimSpace(responseText), nil
}

// classifyEmotion runs a second, single-shot classification call restricted
// to the emotion vocabulary.
func (g *GeminiResponseGenerator) classifyEmotion(ctx context.Context, inputText string) string {
	prompt := fmt.Sprintf(emotionPromptFormat, inputText)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: 8,
	})
	if err != nil {
		g.logger.Warn("Emotion classification failed", zap.Error(err))
		return "unknown"
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "unknown"
	}

	var label string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			label += part.Text
		}
	}
	label = strings.ToLower(strings.TrimSpace(label))

	if !emotionVocabulary[label] {
		g.logger.Warn("Emotion label outside vocabulary", zap.String("label", label))
		return "unknown"
	}
	return label
}
