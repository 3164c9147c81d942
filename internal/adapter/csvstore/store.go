// Package csvstore loads and persists the order dataset as a CSV file.
package csvstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/order-demand/internal/domain"
)

// Store reads and writes the dataset file at a fixed path.
// It implements pipeline.RecordLoader and pipeline.RecordSaver.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a Store for the file at path.
func New(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads every record from the dataset file. Any failure is a *domain.LoadError.
func (s *Store) Load(ctx context.Context) ([]domain.OrderRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.LoadError{Source: s.path, Err: err}
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, &domain.LoadError{Source: s.path, Err: err}
	}
	defer f.Close()

	records, err := Decode(f, s.path)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("dataset loaded", "path", s.path, "records", len(records))
	return records, nil
}

// Save replaces the dataset file with records. The data is written to a
// temporary file in the same directory and renamed into place, so readers
// never observe a partially written dataset.
func (s *Store) Save(ctx context.Context, records []domain.OrderRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if err := Encode(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}

	s.logger.Debug("dataset saved", "path", s.path, "records", len(records))
	return nil
}
