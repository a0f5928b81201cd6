package service

import (
	"testing"

	"petcare-ai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptBuilder_WithKnowledge(t *testing.T) {
	kb := testKB(t)
	b := NewPromptBuilder(LocaleZhTW())
	profile := &models.PetProfile{
		Species: models.SpeciesDog,
		Age:     models.NewMeasure(2),
		Weight:  models.NewMeasure(5),
	}
	risk := NewRiskClassifier().Classify(kb, "狗狗可以吃葡萄嗎？")

	prompt, err := b.Build("狗狗可以吃葡萄嗎？", profile, []*models.KnowledgeEntry{&kb.Entries[0]}, risk)
	require.NoError(t, err)

	assert.Contains(t, prompt, "嚴格使用知識庫內容")
	assert.Contains(t, prompt, "1. 【葡萄】")
	assert.Contains(t, prompt, "📚 資料來源：獸醫毒物學手冊")
	assert.Contains(t, prompt, "問題提及葡萄")
	assert.Contains(t, prompt, "物種：狗")
	assert.Contains(t, prompt, "年齡：2")
	assert.Contains(t, prompt, "體重：5 公斤")
	assert.Contains(t, prompt, "狗狗可以吃葡萄嗎？")
	assert.NotContains(t, prompt, "第一句話必須是")
}

func TestPromptBuilder_WithoutKnowledge(t *testing.T) {
	b := NewPromptBuilder(LocaleZhTW())

	prompt, err := b.Build("貓咪掉毛正常嗎", nil, nil, models.RiskAssessment{RiskType: models.RiskTypeNormal})
	require.NoError(t, err)

	assert.Contains(t, prompt, "專業建議")
	assert.Contains(t, prompt, "（知識庫中無相關資訊）")
	assert.Contains(t, prompt, "物種：未知")
	assert.Contains(t, prompt, "體重：未知")
	assert.Contains(t, prompt, "無特殊風險")
	assert.NotContains(t, prompt, "嚴格使用知識庫內容")
}

func TestPromptBuilder_HighRisk(t *testing.T) {
	b := NewPromptBuilder(LocaleEN())
	risk := models.RiskAssessment{
		IsHighRisk:      true,
		RiskType:        models.RiskTypeCritical,
		MatchedKeywords: []string{"seizure", "unconscious"},
	}

	prompt, err := b.Build("my dog had a seizure and is unconscious", &models.PetProfile{
		Species: models.SpeciesDog,
		Age:     models.Measure{Text: "3 months"},
	}, nil, risk)
	require.NoError(t, err)

	assert.Contains(t, prompt, `the first sentence must be "⚠️ Urgent: seek veterinary care immediately!"`)
	assert.Contains(t, prompt, "High-risk keywords detected: seizure, unconscious")
	assert.Contains(t, prompt, "Age: 3 months")
	assert.Contains(t, prompt, "Weight: unknown")
}

func TestPromptBuilder_Deterministic(t *testing.T) {
	kb := testKB(t)
	b := NewPromptBuilder(LocaleZhTW())
	entries := []*models.KnowledgeEntry{&kb.Entries[3], &kb.Entries[4]}

	first, err := b.Build("疫苗", nil, entries, models.RiskAssessment{})
	require.NoError(t, err)
	second, err := b.Build("疫苗", nil, entries, models.RiskAssessment{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Both entries cite the same guide; the source list is deduplicated.
	assert.Contains(t, first, "📚 資料來源：寵物照護指南」")
}
