package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FileStore keeps entries as a JSON array in a single file
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string, logger zerolog.Logger) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("leaderboard path is required")
	}
	return &FileStore{
		path:   filepath.Clean(path),
		logger: logger.With().Str("component", "leaderboard_file").Logger(),
	}, nil
}

// Path returns the backing file
func (s *FileStore) Path() string { return s.path }

// Load reads the entries. A missing file is an empty leaderboard; an
// unreadable one is logged and treated as empty so play can continue.
func (s *FileStore) Load(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Leaderboard file is corrupt, starting fresh")
		return []Entry{}, nil
	}
	return entries, nil
}

// Save writes the entries atomically via a temp file and rename
func (s *FileStore) Save(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
