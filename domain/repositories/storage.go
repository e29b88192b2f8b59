package repositories

import "context"

// ChunkStore is transient storage for one audio chunk during its processing
// window. Handles are unique per Save, so rapid successive chunks from one
// connection and concurrent chunks from different connections never collide.
type ChunkStore interface {
	// Save persists one audio chunk and returns its storage handle.
	Save(ctx context.Context, originID string, data []byte) (string, error)

	// Remove deletes the stored chunk. The pipeline calls it on every exit
	// path; a failure only affects local disk hygiene, never relay
	// correctness.
	Remove(handle string) error
}
