package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"petcare-ai/internal/models"

	"go.uber.org/zap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PersistenceError reports a failed knowledge write. BackupFile names the copy
// of the previous document, when one was taken.
type PersistenceError struct {
	Op         string
	BackupFile string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.BackupFile != "" {
		return fmt.Sprintf("knowledge %s failed (backup: %s): %v", e.Op, e.BackupFile, e.Err)
	}
	return fmt.Sprintf("knowledge %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// KnowledgeRepository reads and writes the knowledge document as a flat JSON file.
type KnowledgeRepository struct {
	path      string
	backupDir string
	logger    *zap.Logger
	now       func() time.Time
}

func NewKnowledgeRepository(path, backupDir string, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		path:      path,
		backupDir: backupDir,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *KnowledgeRepository) Path() string {
	return r.path
}

// Fetch reads and parses the knowledge document.
func (r *KnowledgeRepository) Fetch(ctx context.Context) (*models.KnowledgeBase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	kb, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.path, err)
	}

	return kb, nil
}

// Decode parses a knowledge document, tolerating a leading UTF-8 BOM.
func Decode(data []byte) (*models.KnowledgeBase, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var kb models.KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, err
	}
	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return &kb, nil
}

// Encode renders the document the way it is stored on disk.
func Encode(kb *models.KnowledgeBase) ([]byte, error) {
	data, err := json.MarshalIndent(kb, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save backs up the current file, then replaces it through a temp file and
// rename so readers never see a partial document. It returns the backup path
// (empty when there was nothing to back up).
func (r *KnowledgeRepository) Save(ctx context.Context, kb *models.KnowledgeBase) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := Encode(kb)
	if err != nil {
		return "", &PersistenceError{Op: "encode", Err: err}
	}

	backupFile, err := r.backup()
	if err != nil {
		return backupFile, &PersistenceError{Op: "backup", BackupFile: backupFile, Err: err}
	}

	if err := writeAtomic(r.path, data); err != nil {
		r.logger.Error("Failed to write knowledge file",
			zap.String("path", r.path),
			zap.String("backup_file", backupFile),
			zap.Error(err),
		)
		return backupFile, &PersistenceError{Op: "write", BackupFile: backupFile, Err: err}
	}

	r.logger.Info("Knowledge file saved",
		zap.String("path", r.path),
		zap.String("version", kb.Version),
		zap.Int("entries", len(kb.Entries)),
		zap.String("backup_file", backupFile),
	)

	return backupFile, nil
}

func (r *KnowledgeRepository) backup() (string, error) {
	current, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read current knowledge file: %w", err)
	}

	if err := os.MkdirAll(r.backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := r.now().Format("20060102-150405")
	backupFile := filepath.Join(r.backupDir, fmt.Sprintf("knowledge_backup_%s.json", stamp))
	for i := 1; fileExists(backupFile); i++ {
		backupFile = filepath.Join(r.backupDir, fmt.Sprintf("knowledge_backup_%s-%d.json", stamp, i))
	}

	if err := os.WriteFile(backupFile, current, 0644); err != nil {
		return backupFile, fmt.Errorf("failed to write backup: %w", err)
	}

	return backupFile, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create knowledge directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".knowledge-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
