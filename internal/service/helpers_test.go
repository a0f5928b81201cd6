package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"petcare-ai/internal/models"
	"petcare-ai/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKnowledge = `{
  "version": "2.1.0",
  "last_update": "2025-02-01",
  "categories": {"醫療急救": {"description": "緊急狀況處理"}},
  "entries": [
    {"id": "danger-001", "topic": "葡萄", "content": "葡萄和葡萄乾對狗狗有劇毒，可能造成急性腎衰竭，任何份量都不應餵食。", "keywords": ["葡萄", "葡萄乾"], "source": "獸醫毒物學手冊", "species": ["dog", "cat"], "risk_level": "high", "category": "禁忌"},
    {"id": "emergency-001", "topic": "抽搐處理", "content": "保持環境安全，移開周圍物品，不要把手放進寵物口中，記錄發作時間。", "keywords": ["抽搐", "癲癇"], "source": "寵物急診臨床規範手冊", "species": ["dog", "cat"], "risk_level": "high", "category": "醫療急救"},
    {"id": "cat-001", "topic": "百合中毒", "content": "百合的任何部位都可能導致貓咪腎衰竭。", "keywords": ["百合"], "source": "貓科毒物指南", "species": ["cat"], "risk_level": "high"},
    {"id": "care-001", "topic": "疫苗", "content": "幼犬應在 6 到 8 週齡開始接種核心疫苗。", "keywords": ["疫苗", "預防針"], "source": "寵物照護指南", "species": ["dog"], "risk_level": "low"},
    {"id": "care-002", "topic": "狂犬病疫苗", "content": "狂犬病疫苗每年補強一次。", "keywords": ["狂犬病"], "source": "寵物照護指南", "risk_level": "medium"}
  ]
}`

// memorySource is an in-memory KnowledgeSource.
type memorySource struct {
	mu      sync.Mutex
	data    []byte
	err     error
	saved   []*models.KnowledgeBase
	saveErr error
	fetches int
}

func (s *memorySource) Fetch(ctx context.Context) (*models.KnowledgeBase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return repository.Decode(s.data)
}

func (s *memorySource) Save(ctx context.Context, kb *models.KnowledgeBase) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saved = append(s.saved, kb)
	return "backups/knowledge_backup_20250301-093000.json", nil
}

func (s *memorySource) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// fakeModel records prompts and returns a canned answer or error.
type fakeModel struct {
	mu      sync.Mutex
	answer  string
	err     error
	block   bool
	prompts []string
}

func (m *fakeModel) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.answer, m.err
}

func (m *fakeModel) Name() string { return "fake-model" }
func (m *fakeModel) Close() error { return nil }

func (m *fakeModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

var errUpstream = errors.New("upstream exploded")

func loadedStore(t *testing.T) (*KnowledgeStore, *memorySource) {
	t.Helper()
	src := &memorySource{data: []byte(testKnowledge)}
	store := NewKnowledgeStore(src, zap.NewNop())
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	return store, src
}

func testKB(t *testing.T) *models.KnowledgeBase {
	t.Helper()
	kb, err := repository.Decode([]byte(testKnowledge))
	require.NoError(t, err)
	return kb
}
