package rigfile

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/strandsim/internal/logger"
)

// Store holds the last successfully loaded document for a path.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  *Document
}

// NewStore returns an empty store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load re-reads the file. On error the previous document is kept.
func (s *Store) Load() (*Document, error) {
	d, err := Load(s.path)
	if err != nil {
		logger.Named("rigfile").Warn("rig load failed, keeping previous document",
			zap.String("path", s.path), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.doc = d
	s.mu.Unlock()

	logger.Named("rigfile").Info("rig loaded",
		zap.String("path", s.path),
		zap.Int("nodes", len(d.Nodes)),
		zap.Int("roots", len(d.Roots)),
		zap.Int("constraints", len(d.Constraints)),
	)
	return d, nil
}

// Document returns the current document, or nil before the first successful load.
func (s *Store) Document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Save writes d to the store's path and makes it current.
func (s *Store) Save(d *Document) error {
	if err := d.Save(s.path); err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = d
	s.mu.Unlock()
	return nil
}
