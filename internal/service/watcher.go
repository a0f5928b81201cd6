package service

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// KnowledgeWatcher reloads the store when the knowledge file changes on disk.
// Rapid successive writes are collapsed into one reload.
type KnowledgeWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	store       *KnowledgeStore
	path        string
	debounceDur time.Duration
	pending     time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	logger      *zap.Logger
}

func NewKnowledgeWatcher(path string, store *KnowledgeStore, logger *zap.Logger) (*KnowledgeWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	return &KnowledgeWatcher{
		watcher:     watcher,
		store:       store,
		path:        absPath,
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logger,
	}, nil
}

// Start watches the file's directory so atomic rename-over writes are seen.
// It returns immediately; events are handled on a separate goroutine.
func (w *KnowledgeWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.logger.Info("Watching knowledge file", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and waits for it to exit.
func (w *KnowledgeWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("Failed to close knowledge watcher", zap.Error(err))
	}
	w.logger.Info("Knowledge watcher stopped")
}

func (w *KnowledgeWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Knowledge watcher error", zap.Error(err))

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *KnowledgeWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("Knowledge file changed",
		zap.String("path", event.Name),
		zap.String("op", event.Op.String()),
	)
	w.pending = time.Now()
}

func (w *KnowledgeWatcher) flush(ctx context.Context) {
	if w.pending.IsZero() || time.Since(w.pending) < w.debounceDur {
		return
	}
	w.pending = time.Time{}

	// Load logs failures itself and keeps the previous snapshot.
	if _, err := w.store.Load(ctx); err == nil {
		w.logger.Info("Knowledge base reloaded after file change")
	}
}
