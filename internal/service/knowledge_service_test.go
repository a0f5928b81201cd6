package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"petcare-ai/internal/dto"
	"petcare-ai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	err      error
	messages []string
	versions []string
}

func (p *fakePublisher) Publish(ctx context.Context, kb *models.KnowledgeBase, message string) error {
	p.messages = append(p.messages, message)
	p.versions = append(p.versions, kb.Version)
	return p.err
}

func newKnowledgeService(store *KnowledgeStore, publisher KnowledgePublisher) *KnowledgeService {
	svc := NewKnowledgeService(store, publisher, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }
	return svc
}

func saveRequest() *dto.SaveKnowledgeRequest {
	return &dto.SaveKnowledgeRequest{
		Version: "2.2.0",
		Entries: []models.KnowledgeEntry{
			{ID: "care-010", Topic: "刷牙", Content: "每天替狗狗刷牙。", Source: "寵物照護指南", RiskLevel: models.RiskLevelLow},
		},
		UpdateNotes: "- 新增刷牙說明\n- 修正錯字",
	}
}

func TestKnowledgeService_Save(t *testing.T) {
	store, src := loadedStore(t)
	prev := store.Current()
	pub := &fakePublisher{}
	svc := newKnowledgeService(store, pub)

	resp, err := svc.Save(context.Background(), saveRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "2.2.0", resp.Version)
	assert.Equal(t, 1, resp.Entries)
	assert.NotEmpty(t, resp.BackupFile)
	assert.True(t, resp.Published)
	assert.Empty(t, resp.PublishError)

	require.Len(t, src.saved, 1)
	saved := src.saved[0]
	assert.Same(t, saved, store.Current())
	assert.Equal(t, "2025-03-01", saved.LastUpdate)
	assert.Equal(t, prev.Categories, saved.Categories)
	require.NotEmpty(t, saved.UpdateRecords)
	assert.Equal(t, models.UpdateRecord{
		Version: "2.2.0",
		Date:    "2025-03-01",
		Changes: []string{"新增刷牙說明", "修正錯字"},
	}, saved.UpdateRecords[0])

	// The fixture has no emergency keywords, so the defaults are written out.
	kw, ok := saved.Keywords(models.EmergencyCritical)
	require.True(t, ok)
	assert.Contains(t, kw, "抽搐")

	assert.Equal(t, []string{"2.2.0"}, pub.versions)
}

func TestKnowledgeService_SaveIntoEmptyStoreWritesDefaults(t *testing.T) {
	src := &memorySource{err: errUpstream}
	store := NewKnowledgeStore(src, zap.NewNop())
	svc := newKnowledgeService(store, nil)

	resp, err := svc.Save(context.Background(), saveRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)

	require.Len(t, src.saved, 1)
	saved := src.saved[0]
	assert.Equal(t, DefaultCategories(), saved.Categories)
	assert.Contains(t, saved.Categories, "醫療急救")
	assert.Contains(t, saved.Categories, "禁忌")
	assert.Len(t, saved.EmergencyKeywords, 4)
	require.Len(t, saved.UpdateRecords, 1)
	assert.Equal(t, "2.2.0", saved.UpdateRecords[0].Version)
}

func TestKnowledgeService_SaveEmptyEntryList(t *testing.T) {
	store, src := loadedStore(t)
	svc := newKnowledgeService(store, nil)

	resp, err := svc.Save(context.Background(), &dto.SaveKnowledgeRequest{
		Version: "3.0.0",
		Entries: []models.KnowledgeEntry{},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Entries)
	require.Len(t, src.saved, 1)
	assert.Empty(t, store.Current().Entries)
	assert.Equal(t, []string{"0 entries"}, store.Current().UpdateRecords[0].Changes)
}

func TestKnowledgeService_ConcurrentSavesKeepEveryRecord(t *testing.T) {
	store, src := loadedStore(t)
	svc := newKnowledgeService(store, nil)
	before := len(store.Current().UpdateRecords)

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := saveRequest()
			req.Version = fmt.Sprintf("3.0.%d", i)
			_, err := svc.Save(context.Background(), req)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Len(t, src.saved, writers)
	records := store.Current().UpdateRecords
	require.Len(t, records, before+writers)

	versions := make([]string, 0, writers)
	for _, r := range records[:writers] {
		versions = append(versions, r.Version)
	}
	for i := 0; i < writers; i++ {
		assert.Contains(t, versions, fmt.Sprintf("3.0.%d", i))
	}
}

func TestKnowledgeService_SavePublishFailureIsReported(t *testing.T) {
	store, _ := loadedStore(t)
	svc := newKnowledgeService(store, &fakePublisher{err: errors.New("github: bad credentials")})

	resp, err := svc.Save(context.Background(), saveRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.Published)
	assert.Equal(t, "github: bad credentials", resp.PublishError)
}

func TestKnowledgeService_SaveValidation(t *testing.T) {
	store, src := loadedStore(t)
	svc := newKnowledgeService(store, nil)

	tests := []struct {
		name  string
		req   *dto.SaveKnowledgeRequest
		field string
	}{
		{"missing version", &dto.SaveKnowledgeRequest{Entries: saveRequest().Entries}, "version"},
		{"missing entries", &dto.SaveKnowledgeRequest{Version: "1"}, "entries"},
		{"duplicate ids", &dto.SaveKnowledgeRequest{Version: "1", Entries: []models.KnowledgeEntry{
			{ID: "a", RiskLevel: models.RiskLevelLow},
			{ID: "a", RiskLevel: models.RiskLevelLow},
		}}, "entries"},
		{"bad risk level", &dto.SaveKnowledgeRequest{Version: "1", Entries: []models.KnowledgeEntry{
			{ID: "a", RiskLevel: "extreme"},
		}}, "entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(context.Background(), tt.req)
			var inputErr *ClientInputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.field, inputErr.Field)
		})
	}
	assert.Empty(t, src.saved)
}

func TestKnowledgeService_SavePersistenceError(t *testing.T) {
	store, src := loadedStore(t)
	src.saveErr = &PersistenceError{Op: "write", BackupFile: "backups/knowledge_backup_20250301-093000.json", Err: errUpstream}
	svc := newKnowledgeService(store, nil)

	_, err := svc.Save(context.Background(), saveRequest())
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "backups/knowledge_backup_20250301-093000.json", perr.BackupFile)
}

func TestKnowledgeService_Reload(t *testing.T) {
	t.Run("soft failure keeps previous", func(t *testing.T) {
		store, src := loadedStore(t)
		svc := newKnowledgeService(store, nil)
		src.setError(errUpstream)

		info, err := svc.Reload(context.Background(), false)
		require.NoError(t, err)
		assert.True(t, info.Available)
		assert.Equal(t, "2.1.0", info.Version)
		assert.Contains(t, info.Warning, errUpstream.Error())
	})

	t.Run("hard failure leaves nothing", func(t *testing.T) {
		store, src := loadedStore(t)
		svc := newKnowledgeService(store, nil)
		src.setError(errUpstream)

		info, err := svc.Reload(context.Background(), true)
		assert.Nil(t, info)
		assert.ErrorIs(t, err, ErrKnowledgeUnavailable)
		assert.Nil(t, store.Current())
		assert.False(t, svc.Info().Available)
	})

	t.Run("success", func(t *testing.T) {
		store, _ := loadedStore(t)
		svc := newKnowledgeService(store, nil)

		info, err := svc.Reload(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, 5, info.EntryCount)
		assert.Empty(t, info.Warning)
		assert.Contains(t, info.Categories, "醫療急救")
	})
}
