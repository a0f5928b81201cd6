package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"petcare-ai/internal/dto"
	"petcare-ai/internal/models"
	"petcare-ai/internal/repository"
	"petcare-ai/internal/service"
	"petcare-ai/pkg/config"
	"petcare-ai/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const extractConcurrency = 3

// Imports pet-health documents into the knowledge file.
//
//	seed [documents-dir]
//
// Each PDF, .txt or .md file is turned into candidate entries by the model;
// entries whose topic already exists are skipped. Documents whose content hash
// matches the cache are not sent to the model again.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	seedDir := filepath.Join("cmd", "seed", "documents")
	if len(os.Args) > 1 {
		seedDir = os.Args[1]
	}
	cacheFile := filepath.Join(seedDir, ".seed_cache.json")

	locale, err := service.LookupLocale(cfg.Locale)
	if err != nil {
		appLogger.Fatal("Invalid locale", zap.Error(err))
	}

	ctx := context.Background()

	modelClient, err := service.NewModelClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize model client", zap.Error(err))
	}
	if modelClient == nil {
		appLogger.Fatal("Seeding needs a model provider; set MODEL_PROVIDER and its API key")
	}
	defer modelClient.Close()

	repo := repository.NewKnowledgeRepository(cfg.Knowledge.Path, cfg.Knowledge.BackupDir, appLogger)
	store := service.NewKnowledgeStore(repo, appLogger)
	if _, err := store.Load(ctx); err != nil {
		appLogger.Warn("No existing knowledge base, a new one will be created", zap.Error(err))
	}

	extractor := service.NewExtractorService(modelClient, service.ParamsFromConfig(&cfg.Model), locale, appLogger).
		WithTimeout(cfg.Model.ExtractTimeout)
	knowledgeService := service.NewKnowledgeService(store, nil, appLogger)

	appLogger.Info("Starting knowledge seeding...", zap.String("dir", seedDir))

	if err := seedKnowledgeBase(ctx, seedDir, cacheFile, store, extractor, knowledgeService, appLogger); err != nil {
		appLogger.Fatal("Failed to seed knowledge base", zap.Error(err))
	}

	appLogger.Info("Knowledge seeding completed successfully!")
}

// ProcessedFile represents a processed document in cache
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	Entries     int       `json:"entries"`
	ProcessedAt time.Time `json:"processed_at"`
}

// CacheData stores information about processed files
type CacheData struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"` // key: file path
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		ProcessedFiles: make(map[string]ProcessedFile),
	}

	data, err := os.ReadFile(cacheFile)
	if os.IsNotExist(err) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.ProcessedFiles == nil {
		cache.ProcessedFiles = make(map[string]ProcessedFile)
	}

	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// calculateFileHash calculates MD5 hash of a file
func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// listDocuments returns the supported documents in dir, sorted by name.
func listDocuments(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed directory: %w", err)
	}

	var paths []string
	for _, e := range dirEntries {
		if e.IsDir() || !service.SupportedFormat(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func seedKnowledgeBase(
	ctx context.Context,
	seedDir string,
	cacheFile string,
	store *service.KnowledgeStore,
	extractor *service.ExtractorService,
	knowledgeService *service.KnowledgeService,
	logger *zap.Logger,
) error {
	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will process all files", zap.Error(err))
		cache = &CacheData{ProcessedFiles: make(map[string]ProcessedFile)}
	}

	paths, err := listDocuments(seedDir)
	if err != nil {
		return err
	}

	type pendingDoc struct {
		path string
		hash string
	}
	var pending []pendingDoc
	for _, path := range paths {
		fileHash, err := calculateFileHash(path)
		if err != nil {
			logger.Warn("Failed to calculate file hash, will process anyway", zap.String("path", path), zap.Error(err))
		}

		if cached, exists := cache.ProcessedFiles[path]; exists && cached.FileHash == fileHash {
			logger.Info("Document already processed, skipping",
				zap.String("path", path),
				zap.Time("processed_at", cached.ProcessedAt),
			)
			continue
		}
		pending = append(pending, pendingDoc{path: path, hash: fileHash})
	}

	var (
		mu        sync.Mutex
		extracted = make(map[string][]models.KnowledgeEntry)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(extractConcurrency)

	for _, doc := range pending {
		path, fileHash := doc.path, doc.hash
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Error("Failed to read document", zap.String("path", path), zap.Error(err))
				return nil
			}

			logger.Info("Processing document", zap.String("path", path))
			entries, err := extractor.Extract(gctx, filepath.Base(path), data)
			if err != nil {
				// One bad document must not stop the others.
				logger.Error("Failed to extract entries", zap.String("path", path), zap.Error(err))
				return nil
			}

			mu.Lock()
			extracted[path] = entries
			cache.ProcessedFiles[path] = ProcessedFile{
				FilePath:    path,
				FileHash:    fileHash,
				Entries:     len(entries),
				ProcessedAt: time.Now(),
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var current []models.KnowledgeEntry
	version := "1.0.0"
	if kb := store.Current(); kb != nil {
		current = kb.Entries
		if kb.Version != "" {
			version = kb.Version
		}
	}

	merged, added := mergeEntries(current, extracted)
	if added == 0 {
		logger.Info("No new knowledge entries found")
	} else {
		resp, err := knowledgeService.Save(ctx, &dto.SaveKnowledgeRequest{
			Version:     version,
			Entries:     merged,
			UpdateNotes: fmt.Sprintf("Imported %d entries from %s", added, seedDir),
		})
		if err != nil {
			return fmt.Errorf("failed to save knowledge base: %w", err)
		}
		logger.Info("Knowledge base updated",
			zap.Int("added", added),
			zap.Int("total", resp.Entries),
			zap.String("backup_file", resp.BackupFile),
		)
	}

	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	} else {
		logger.Info("Cache saved", zap.Int("processed_files", len(cache.ProcessedFiles)))
	}

	return nil
}

// mergeEntries appends extracted entries, in document path order, whose topic
// is not already present.
func mergeEntries(current []models.KnowledgeEntry, extracted map[string][]models.KnowledgeEntry) ([]models.KnowledgeEntry, int) {
	merged := make([]models.KnowledgeEntry, len(current))
	copy(merged, current)

	seen := make(map[string]struct{}, len(current))
	for _, e := range current {
		seen[strings.TrimSpace(e.Topic)] = struct{}{}
	}

	paths := make([]string, 0, len(extracted))
	for p := range extracted {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	added := 0
	for _, p := range paths {
		for _, e := range extracted[p] {
			topic := strings.TrimSpace(e.Topic)
			if _, dup := seen[topic]; dup {
				continue
			}
			seen[topic] = struct{}{}
			merged = append(merged, e)
			added++
		}
	}
	return merged, added
}
