package websocket

import (
	"encoding/json"

	"github.com/siagacall/relay/domain"
)

// FrameKind is the classification of one inbound frame
type FrameKind int

const (
	// FrameSignaling is a recognized WebRTC negotiation message
	FrameSignaling FrameKind = iota
	// FrameAudio is a binary audio chunk for the relay pipeline
	FrameAudio
	// FrameDiscard is structured data with an unrecognized type; it is
	// logged and dropped so garbage never reaches the audio pipeline
	FrameDiscard
)

// signalingTypes enumerates the recognized signaling message types
var signalingTypes = map[string]bool{
	domain.MessageTypeOffer:        true,
	domain.MessageTypeAnswer:       true,
	domain.MessageTypeICECandidate: true,
}

// ClassifyFrame decides whether an inbound frame is a signaling message or
// an audio chunk. Binary audio is expected to fail JSON parsing; that is the
// intentional discriminator. A frame that parses as a JSON object with a
// recognized string "type" is signaling; one with an unrecognized type is
// discarded; everything else (parse failure, or JSON without a usable type
// field) is audio.
//
// For FrameSignaling the returned message is fully populated; for
// FrameDiscard only its Type is set, so callers can log it.
func ClassifyFrame(frame []byte) (FrameKind, *domain.SignalingMessage) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(frame, &probe); err != nil {
		return FrameAudio, nil
	}

	rawType, ok := probe["type"]
	if !ok {
		return FrameAudio, nil
	}

	var messageType string
	if err := json.Unmarshal(rawType, &messageType); err != nil {
		// Present but not a string: no usable type field
		return FrameAudio, nil
	}

	if !signalingTypes[messageType] {
		return FrameDiscard, &domain.SignalingMessage{Type: messageType}
	}

	var msg domain.SignalingMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return FrameAudio, nil
	}
	return FrameSignaling, &msg
}
