package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siagacall/relay/domain/repositories"
)

// DiskChunkStore implements ChunkStore on the local filesystem. Every chunk
// gets a freshly generated file name, so concurrent saves never collide.
type DiskChunkStore struct {
	dir    string
	logger *zap.Logger
}

var _ repositories.ChunkStore = (*DiskChunkStore)(nil)

// NewDiskChunkStore creates a chunk store rooted at dir. An empty dir falls
// back to the system temp directory.
func NewDiskChunkStore(dir string, logger *zap.Logger) (*DiskChunkStore, error) {
	if dir == "" {
		dir = os.TempDir()
		logger.Info("Using default chunk directory", zap.String("dir", dir))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chunk directory: %w", err)
	}

	return &DiskChunkStore{dir: dir, logger: logger}, nil
}

// Save writes the chunk to a uniquely named file and returns its path
func (s *DiskChunkStore) Save(ctx context.Context, originID string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("chunk-%s-%s.wav", originID, uuid.NewString())
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write chunk: %w", err)
	}

	s.logger.Debug("Stored audio chunk",
		zap.String("handle", path),
		zap.Int("size", len(data)))

	return path, nil
}

// Remove deletes the stored chunk
func (s *DiskChunkStore) Remove(handle string) error {
	if err := os.Remove(handle); err != nil {
		return fmt.Errorf("failed to remove chunk: %w", err)
	}
	return nil
}
