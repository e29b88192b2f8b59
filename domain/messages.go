package domain

import "encoding/json"

// Message types exchanged over the peer WebSocket.
const (
	MessageTypeOffer        = "offer"
	MessageTypeAnswer       = "answer"
	MessageTypeICECandidate = "ice-candidate"

	MessageTypeConnected   = "connected"
	MessageTypeTranscript  = "transcript"
	MessageTypeRoutingInfo = "routing_info"
	MessageTypeAIResponse  = "ai-response"
	MessageTypeError       = "error"
)

// SignalingMessage is a WebRTC negotiation message relayed between peers.
// Payload is opaque to the relay; it is never parsed or mutated.
// From is stamped by the router with the origin connection id and is never
// trusted from the client.
type SignalingMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Target  string          `json:"target,omitempty"`
	From    string          `json:"from,omitempty"`
}

// AIResponse is the result returned by a response-generation collaborator.
// An empty Emotion means the collaborator could not classify one.
type AIResponse struct {
	ResponseText string
	Emotion      string
}

// ConnectedMessage tells a freshly accepted peer its connection id, so it can
// be addressed as a signaling target.
type ConnectedMessage struct {
	Type    string           `json:"type"`
	Payload ConnectedPayload `json:"payload"`
}

type ConnectedPayload struct {
	ConnectionID string `json:"connection_id"`
}

// TranscriptMessage carries a transcription result back to the origin peer.
type TranscriptMessage struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// RoutingInfoMessage carries the call-routing classification result.
type RoutingInfoMessage struct {
	Type    string             `json:"type"`
	Payload RoutingInfoPayload `json:"payload"`
}

type RoutingInfoPayload struct {
	Department string `json:"department"`
}

// AIResponseMessage carries the generated response back to the origin peer.
type AIResponseMessage struct {
	Type    string            `json:"type"`
	Payload AIResponsePayload `json:"payload"`
}

type AIResponsePayload struct {
	ResponseText string  `json:"response_text"`
	Emotion      *string `json:"emotion"`
}

// ErrorMessage reports a failed operation to the origin peer.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewConnectedMessage creates a connected message for a new connection
func NewConnectedMessage(connectionID string) *ConnectedMessage {
	return &ConnectedMessage{
		Type:    MessageTypeConnected,
		Payload: ConnectedPayload{ConnectionID: connectionID},
	}
}

// NewTranscriptMessage creates a transcript message
func NewTranscriptMessage(transcript string) *TranscriptMessage {
	return &TranscriptMessage{
		Type:    MessageTypeTranscript,
		Payload: transcript,
	}
}

// NewRoutingInfoMessage creates a routing info message
func NewRoutingInfoMessage(department string) *RoutingInfoMessage {
	return &RoutingInfoMessage{
		Type:    MessageTypeRoutingInfo,
		Payload: RoutingInfoPayload{Department: department},
	}
}

// NewAIResponseMessage creates an AI response message. An empty emotion is
// sent as null on the wire.
func NewAIResponseMessage(response *AIResponse) *AIResponseMessage {
	msg := &AIResponseMessage{
		Type:    MessageTypeAIResponse,
		Payload: AIResponsePayload{ResponseText: response.ResponseText},
	}
	if response.Emotion != "" {
		emotion := response.Emotion
		msg.Payload.Emotion = &emotion
	}
	return msg
}

// NewErrorMessage creates a standardized error message
func NewErrorMessage(message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MessageTypeError,
		Message: message,
	}
}
