package badger

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colloquy/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// IndexStorage persists vector index entries in a dedicated badgerhold store.
// The index directory doubles as the existence marker: a directory that
// exists and is non-empty means a persisted index is present.
type IndexStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// IndexExists reports whether a persisted index is present at path:
// the directory exists and is non-empty.
func IndexExists(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// OpenIndexStorage opens (or creates) the index store at the given directory
func OpenIndexStorage(logger arbor.ILogger, path string) (*IndexStorage, error) {
	db, err := Open(logger, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index store: %w", err)
	}
	return &IndexStorage{
		db:     db,
		logger: logger,
	}, nil
}

// AppendEntries inserts new index entries. Entries are immutable once
// written; updates are modeled as delete+insert by callers.
func (s *IndexStorage) AppendEntries(entries []models.IndexEntry) error {
	for i := range entries {
		if entries[i].ID == "" {
			return fmt.Errorf("index entry ID is required")
		}
		if err := s.db.Store().Insert(entries[i].ID, &entries[i]); err != nil {
			return fmt.Errorf("failed to persist index entry: %w", err)
		}
	}
	return nil
}

// LoadAll returns every persisted index entry
func (s *IndexStorage) LoadAll() ([]models.IndexEntry, error) {
	var entries []models.IndexEntry
	if err := s.db.Store().Find(&entries, badgerhold.Where("ID").Ne("").SortBy("CreatedAt")); err != nil {
		return nil, fmt.Errorf("failed to load index entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of persisted index entries
func (s *IndexStorage) Count() (int, error) {
	count, err := s.db.Store().Count(&models.IndexEntry{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count index entries: %w", err)
	}
	return int(count), nil
}

// Path returns the index directory path
func (s *IndexStorage) Path() string {
	return s.db.Path()
}

// Close closes the index store
func (s *IndexStorage) Close() error {
	return s.db.Close()
}
