package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Store is the persistence contract shared by the file and postgres
// drivers' document-level operations.
type Store interface {
	// Load returns the full document, seeding it first if absent.
	Load(ctx context.Context) (*Document, error)
	// Mutate runs fn against the current document and persists the
	// result in one read-modify-write cycle. The returned document is
	// the persisted state.
	Mutate(ctx context.Context, fn func(*Document) error) (*Document, error)
	// Reset replaces the document with the seed dataset.
	Reset(ctx context.Context) (*Document, error)
	// Revision counts the writes performed by this process.
	Revision() uint64
}

// FileStore persists the document as a single JSON file. Writes are
// whole-document replacements via a temp file and rename; two
// processes racing on the same file still clobber each other
// (last-write-wins), which is accepted for single-user demo use.
type FileStore struct {
	mu       sync.Mutex
	path     string
	logger   zerolog.Logger
	revision uint64
}

// NewFileStore creates a store backed by the JSON document at path.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger.With().Str("component", "docstore").Logger()}
}

// Path returns the document's location on disk.
func (s *FileStore) Path() string { return s.path }

// Revision returns the number of writes this process has performed.
func (s *FileStore) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) Mutate(_ context.Context, fn func(*Document) error) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if err := s.writeLocked(doc); err != nil {
		return nil, err
	}
	return doc.Clone(), nil
}

func (s *FileStore) Reset(_ context.Context) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := SeedDocument()
	if err := s.writeLocked(doc); err != nil {
		return nil, err
	}
	s.logger.Info().Str("path", s.path).Msg("store reset to seed data")
	return doc.Clone(), nil
}

func (s *FileStore) loadLocked() (*Document, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		s.logger.Info().Str("path", s.path).Msg("initializing store with seed data")
		if err := s.writeLocked(SeedDocument()); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", s.path, err)
	}
	return s.decode(data), nil
}

// decode tolerates corruption at collection granularity: a collection
// that fails to parse is logged and treated as empty, since the seed
// is always recoverable via reset.
func (s *FileStore) decode(data []byte) *Document {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("store document unparsable, treating as empty")
		return &Document{}
	}

	doc := &Document{}
	decodeCollection(s.logger, raw, CollectionPatients, &doc.Patients)
	decodeCollection(s.logger, raw, CollectionPrescriptions, &doc.Prescriptions)
	decodeCollection(s.logger, raw, CollectionLabOrders, &doc.LabOrders)
	decodeCollection(s.logger, raw, CollectionSymptoms, &doc.Symptoms)
	decodeCollection(s.logger, raw, CollectionVitals, &doc.Vitals)
	return doc
}

func decodeCollection[T any](logger zerolog.Logger, raw map[string]json.RawMessage, name string, dst *[]T) {
	msg, ok := raw[name]
	if !ok {
		return
	}
	if err := json.Unmarshal(msg, dst); err != nil {
		logger.Warn().Err(err).Str("collection", name).Msg("corrupt collection, treating as empty")
		*dst = nil
	}
}

func (s *FileStore) writeLocked(doc *Document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".db-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store file: %w", err)
	}

	s.revision++
	return nil
}
