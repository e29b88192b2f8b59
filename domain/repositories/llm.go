package repositories

import (
	"context"

	"github.com/siagacall/relay/domain"
)

// ResponseGenerator abstracts the response-generation collaborator.
type ResponseGenerator interface {
	// Respond generates an operator response for a caller transcript.
	// sessionID groups consecutive transcripts from one connection so
	// providers that keep conversation history can use it; stateless
	// providers ignore it.
	Respond(ctx context.Context, sessionID, inputText string) (*domain.AIResponse, error)

	// ForgetSession drops any conversation state held for sessionID.
	// Called when the owning connection closes; a no-op for stateless
	// providers.
	ForgetSession(sessionID string)
}
