package repositories

import "context"

// SpeechToText abstracts the transcription collaborator
type SpeechToText interface {
	// Transcribe converts one complete audio recording to text
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
