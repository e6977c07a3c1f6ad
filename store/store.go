package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aditotot/Spinner/models"
)

const mirrorTimeout = 10 * time.Second

// Store persists the whole tournament document as a single JSON file.
// An optional SnapshotMirror receives a copy of every saved document.
type Store struct {
	path   string
	mirror SnapshotMirror
	logger *slog.Logger
}

func New(path string, mirror SnapshotMirror, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		mirror: mirror,
		logger: logger,
	}
}

// Load reads the document from disk. A missing file creates a fresh one.
// Any missing top-level key defaults to its empty form, and an unparseable
// file resets the whole document to empty defaults: the ledger would rather
// start fresh than refuse to start.
func (s *Store) Load() *models.TournamentState {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("data file not found, creating a fresh one", slog.String("path", s.path))
			state := models.NewTournamentState()
			if saveErr := s.Save(state); saveErr != nil {
				s.logger.Error("failed to create data file", slog.Any("error", saveErr))
			}
			return state
		}
		s.logger.Error("failed to read data file, starting empty", slog.String("path", s.path), slog.Any("error", err))
		return models.NewTournamentState()
	}

	state := models.NewTournamentState()
	if err := json.Unmarshal(raw, state); err != nil {
		s.logger.Error("data file is corrupted, starting empty", slog.String("path", s.path), slog.Any("error", err))
		return models.NewTournamentState()
	}
	state.Normalize()
	return state
}

// Save writes the document atomically (temp file + rename) so a crash
// mid-write cannot truncate the store, then mirrors it best-effort.
func (s *Store) Save(state *models.TournamentState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tournament state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	if s.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		key := filepath.Base(s.path)
		if _, err := s.mirror.Upload(ctx, key, "application/json", bytes.NewReader(raw)); err != nil {
			// Mirroring is visibility only, never a reason to fail a save.
			s.logger.Error("failed to mirror data file snapshot", slog.String("key", key), slog.Any("error", err))
		}
	}
	return nil
}
