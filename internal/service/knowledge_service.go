package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petcare-ai/internal/dto"
	"petcare-ai/internal/models"

	"go.uber.org/zap"
)

// KnowledgePublisher mirrors a saved snapshot to a remote location.
type KnowledgePublisher interface {
	Publish(ctx context.Context, kb *models.KnowledgeBase, message string) error
}

// KnowledgeService backs the administrative knowledge endpoints.
type KnowledgeService struct {
	store     *KnowledgeStore
	publisher KnowledgePublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewKnowledgeService creates the service; publisher may be nil.
func NewKnowledgeService(store *KnowledgeStore, publisher KnowledgePublisher, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *KnowledgeService) Info() *dto.KnowledgeInfoResponse {
	return infoOf(s.store.Current())
}

// Reload refetches the knowledge source. A hard reload drops the current
// snapshot first, so a failed fetch leaves no knowledge loaded. An error is
// returned only when no snapshot is available afterwards; a failure that kept
// the previous snapshot is reported in Warning.
func (s *KnowledgeService) Reload(ctx context.Context, hard bool) (*dto.KnowledgeInfoResponse, error) {
	if hard {
		s.store.Invalidate()
	}
	kb, err := s.store.Load(ctx)
	if kb == nil {
		if err == nil {
			err = ErrKnowledgeUnavailable
		}
		return nil, err
	}
	info := infoOf(kb)
	if err != nil {
		s.logger.Warn("Reload failed, previous knowledge retained", zap.Error(err))
		info.Warning = err.Error()
	}
	return info, nil
}

// Save validates the submitted entries, writes a new snapshot (backing up the
// previous document) and publishes it when a publisher is configured.
// Publishing failures are reported in the response, not as an error.
func (s *KnowledgeService) Save(ctx context.Context, req *dto.SaveKnowledgeRequest) (*dto.SaveKnowledgeResponse, error) {
	if req == nil || strings.TrimSpace(req.Version) == "" {
		return nil, newClientInputError("version", "version is required")
	}
	// An empty array is a valid (empty) knowledge base; only a missing list is rejected.
	if req.Entries == nil {
		return nil, newClientInputError("entries", "entries is required")
	}

	kb, backupFile, err := s.store.Update(ctx, func(prev *models.KnowledgeBase) (*models.KnowledgeBase, error) {
		next := s.buildSnapshot(prev, req)
		if err := next.Validate(); err != nil {
			return nil, newClientInputError("entries", err.Error())
		}
		return next, nil
	})
	if err != nil {
		var perr *PersistenceError
		if errors.As(err, &perr) {
			s.logger.Error("Failed to save knowledge base",
				zap.String("op", perr.Op),
				zap.String("backup_file", perr.BackupFile),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.logger.Info("Knowledge base saved",
		zap.String("version", kb.Version),
		zap.Int("entries", len(kb.Entries)),
		zap.String("backup_file", backupFile),
	)

	resp := &dto.SaveKnowledgeResponse{
		Success:    true,
		Version:    kb.Version,
		Entries:    len(kb.Entries),
		BackupFile: backupFile,
	}

	if s.publisher != nil {
		message := fmt.Sprintf("Update knowledge base to v%s (%d entries)", kb.Version, len(kb.Entries))
		if err := s.publisher.Publish(ctx, kb, message); err != nil {
			s.logger.Warn("Failed to publish knowledge base", zap.Error(err))
			resp.PublishError = err.Error()
		} else {
			resp.Published = true
		}
	}

	return resp, nil
}

func (s *KnowledgeService) buildSnapshot(prev *models.KnowledgeBase, req *dto.SaveKnowledgeRequest) *models.KnowledgeBase {
	now := s.now()
	lastUpdate := req.LastUpdate
	if lastUpdate == "" {
		lastUpdate = now.Format(time.DateOnly)
	}

	kb := &models.KnowledgeBase{
		Version:    strings.TrimSpace(req.Version),
		LastUpdate: lastUpdate,
		Entries:    req.Entries,
	}

	if prev != nil {
		kb.Categories = prev.Categories
		kb.EmergencyKeywords = prev.EmergencyKeywords
		kb.UpdateRecords = prev.UpdateRecords
	}
	if len(kb.Categories) == 0 {
		kb.Categories = DefaultCategories()
	}
	if len(kb.EmergencyKeywords) == 0 {
		kb.EmergencyKeywords = DefaultEmergencyKeywords()
	}

	changes := splitNotes(req.UpdateNotes)
	if len(changes) == 0 {
		changes = []string{fmt.Sprintf("%d entries", len(req.Entries))}
	}
	record := models.UpdateRecord{
		Version: kb.Version,
		Date:    now.Format(time.DateOnly),
		Changes: changes,
	}
	records := make([]models.UpdateRecord, 0, len(kb.UpdateRecords)+1)
	kb.UpdateRecords = append(append(records, record), kb.UpdateRecords...)

	return kb
}

// DefaultCategories is the category table written into new knowledge documents.
func DefaultCategories() map[string]models.CategoryInfo {
	return map[string]models.CategoryInfo{
		"醫療急救": {Description: "寵物醫療急救相關知識"},
		"餵養":   {Description: "寵物餵養與營養相關"},
		"日常照護": {Description: "日常清潔照護與環境管理"},
		"禁忌":   {Description: "寵物飲食與行為禁忌事項"},
	}
}

// DefaultEmergencyKeywords is the built-in keyword table written into new
// knowledge documents.
func DefaultEmergencyKeywords() map[string]models.EmergencyCategory {
	return map[string]models.EmergencyCategory{
		models.EmergencyCritical:       {Keywords: cloneStrings(defaultCriticalKeywords), RiskLevel: models.RiskLevelHigh},
		models.EmergencyPoisoning:      {Keywords: cloneStrings(defaultPoisoningKeywords), RiskLevel: models.RiskLevelHigh},
		models.EmergencyToxicFoods:     {Keywords: cloneStrings(defaultToxicFoods), RiskLevel: models.RiskLevelHigh},
		models.EmergencySevereSymptoms: {Keywords: cloneStrings(defaultSevereSymptoms), RiskLevel: models.RiskLevelHigh},
	}
}

func infoOf(kb *models.KnowledgeBase) *dto.KnowledgeInfoResponse {
	if kb == nil {
		return &dto.KnowledgeInfoResponse{Available: false}
	}
	return &dto.KnowledgeInfoResponse{
		Available:     true,
		Version:       kb.Version,
		LastUpdate:    kb.LastUpdate,
		Categories:    kb.Categories,
		EntryCount:    len(kb.Entries),
		UpdateRecords: kb.UpdateRecords,
	}
}

func splitNotes(notes string) []string {
	var out []string
	for _, line := range strings.Split(notes, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-* "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
