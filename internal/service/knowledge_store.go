package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"petcare-ai/internal/models"

	"go.uber.org/zap"
)

// KnowledgeSource is where snapshots come from and where updates are written.
type KnowledgeSource interface {
	Fetch(ctx context.Context) (*models.KnowledgeBase, error)
	Save(ctx context.Context, kb *models.KnowledgeBase) (backupFile string, err error)
}

// KnowledgeStore holds the current knowledge snapshot. Readers take the pointer
// once per request; writers build a complete snapshot and swap it in.
type KnowledgeStore struct {
	source  KnowledgeSource
	current atomic.Pointer[models.KnowledgeBase]
	writeMu sync.Mutex
	logger  *zap.Logger
}

func NewKnowledgeStore(source KnowledgeSource, logger *zap.Logger) *KnowledgeStore {
	return &KnowledgeStore{
		source: source,
		logger: logger,
	}
}

// Current returns the active snapshot, or nil when no knowledge is loaded.
func (s *KnowledgeStore) Current() *models.KnowledgeBase {
	return s.current.Load()
}

// Load fetches the source and replaces the snapshot. On failure the previous
// snapshot stays active and is returned together with an error wrapping
// ErrKnowledgeUnavailable.
func (s *KnowledgeStore) Load(ctx context.Context) (*models.KnowledgeBase, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	kb, err := s.source.Fetch(ctx)
	if err == nil {
		err = kb.Validate()
	}
	if err != nil {
		prev := s.current.Load()
		s.logger.Error("Failed to load knowledge base",
			zap.Bool("previous_retained", prev != nil),
			zap.Error(err),
		)
		return prev, fmt.Errorf("%w: %v", ErrKnowledgeUnavailable, err)
	}

	s.current.Store(kb)
	s.logger.Info("Knowledge base loaded",
		zap.String("version", kb.Version),
		zap.Int("entries", len(kb.Entries)),
	)
	return kb, nil
}

// Invalidate drops the snapshot; Current returns nil until the next Load.
func (s *KnowledgeStore) Invalidate() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.current.Store(nil)
	s.logger.Info("Knowledge cache cleared")
}

// Save persists kb (the source backs up the previous document first) and then
// makes it the active snapshot.
func (s *KnowledgeStore) Save(ctx context.Context, kb *models.KnowledgeBase) (string, error) {
	_, backupFile, err := s.Update(ctx, func(*models.KnowledgeBase) (*models.KnowledgeBase, error) {
		return kb, nil
	})
	return backupFile, err
}

// Update builds the next snapshot from the current one while holding the write
// lock, so concurrent writers never derive from the same predecessor. build
// receives nil when nothing is loaded.
func (s *KnowledgeStore) Update(ctx context.Context, build func(prev *models.KnowledgeBase) (*models.KnowledgeBase, error)) (*models.KnowledgeBase, string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	kb, err := build(s.current.Load())
	if err != nil {
		return nil, "", err
	}
	if err := kb.Validate(); err != nil {
		return nil, "", err
	}

	backupFile, err := s.source.Save(ctx, kb)
	if err != nil {
		return nil, backupFile, err
	}

	s.current.Store(kb)
	return kb, backupFile, nil
}
