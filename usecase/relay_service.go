package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/siagacall/relay/domain"
	"github.com/siagacall/relay/domain/repositories"
)

// Sink delivers outbound frames to the origin connection. A send to a
// connection that has since closed returns an error; the pipeline treats
// that as a signal to stop, not as a failure.
type Sink interface {
	SendFrame(frame []byte) error
}

// unknownDepartment is the routing label used when the classifier is
// unreachable; routing is best-effort and never fails a chunk.
const unknownDepartment = "Unknown"

// RelayService runs inbound audio chunks through transcription, optional
// call routing, and response generation, pushing each result frame back to
// the origin connection as it becomes available.
type RelayService struct {
	store     repositories.ChunkStore
	stt       repositories.SpeechToText
	responder repositories.ResponseGenerator
	router    repositories.CallRouter // nil when routing is disabled
	timeout   time.Duration
	logger    *zap.Logger
}

// NewRelayService creates a new audio relay pipeline. router may be nil, in
// which case no routing_info frames are produced.
func NewRelayService(
	store repositories.ChunkStore,
	stt repositories.SpeechToText,
	responder repositories.ResponseGenerator,
	router repositories.CallRouter,
	timeout time.Duration,
	logger *zap.Logger,
) *RelayService {
	return &RelayService{
		store:     store,
		stt:       stt,
		responder: responder,
		router:    router,
		timeout:   timeout,
		logger:    logger,
	}
}

// ProcessChunk runs one complete audio recording through the pipeline.
// Chunks from the same connection must be processed sequentially by the
// caller; chunks from different connections may run concurrently.
//
// Every exit path removes the transient chunk. Collaborator failures abort
// the remaining steps and emit exactly one error frame to the origin.
func (s *RelayService) ProcessChunk(ctx context.Context, originID string, audio []byte, sink Sink) {
	handle, err := s.store.Save(ctx, originID, audio)
	if err != nil {
		s.logger.Error("Failed to store audio chunk",
			zap.String("connectionID", originID),
			zap.Error(err))
		s.sendError(sink, "failed to store audio chunk")
		return
	}
	defer func() {
		if err := s.store.Remove(handle); err != nil {
			s.logger.Warn("Failed to remove audio chunk",
				zap.String("handle", handle),
				zap.Error(err))
		}
	}()

	transcript, err := s.transcribe(ctx, audio)
	if err != nil {
		s.logger.Error("Transcription failed",
			zap.String("connectionID", originID),
			zap.Error(err))
		s.sendError(sink, "transcription failed")
		return
	}

	// Push the transcript immediately so the caller-facing UI can show
	// progress before the response is ready.
	if err := s.send(sink, domain.NewTranscriptMessage(transcript)); err != nil {
		s.logger.Debug("Origin connection gone, dropping transcript",
			zap.String("connectionID", originID))
		return
	}

	if s.router != nil {
		department := s.routeCall(ctx, transcript)
		if err := s.send(sink, domain.NewRoutingInfoMessage(department)); err != nil {
			s.logger.Debug("Origin connection gone, dropping routing info",
				zap.String("connectionID", originID))
			return
		}
	}

	response, err := s.respond(ctx, originID, transcript)
	if err != nil {
		s.logger.Error("Response generation failed",
			zap.String("connectionID", originID),
			zap.Error(err))
		s.sendError(sink, "response generation failed")
		return
	}

	if err := s.send(sink, domain.NewAIResponseMessage(response)); err != nil {
		s.logger.Debug("Origin connection gone, dropping response",
			zap.String("connectionID", originID))
	}
}

// ForgetSession drops any conversation state held for a closed connection
func (s *RelayService) ForgetSession(originID string) {
	s.responder.ForgetSession(originID)
}

func (s *RelayService) transcribe(ctx context.Context, audio []byte) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.stt.Transcribe(callCtx, audio)
}

func (s *RelayService) respond(ctx context.Context, originID, transcript string) (*domain.AIResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.responder.Respond(callCtx, originID, transcript)
}

// routeCall classifies the transcript; failures are non-fatal and fall back
// to the unknown label.
func (s *RelayService) routeCall(ctx context.Context, transcript string) string {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	department, err := s.router.Route(callCtx, transcript)
	if err != nil {
		s.logger.Warn("Call routing failed", zap.Error(err))
		return unknownDepartment
	}
	if department == "" {
		return unknownDepartment
	}
	return department
}

func (s *RelayService) send(sink Sink, message interface{}) error {
	frame, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return sink.SendFrame(frame)
}

func (s *RelayService) sendError(sink Sink, message string) {
	if err := s.send(sink, domain.NewErrorMessage(message)); err != nil {
		s.logger.Debug("Origin connection gone, dropping error frame")
	}
}
