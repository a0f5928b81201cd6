package service

import (
	"testing"

	"petcare-ai/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRiskClassifier_Classify(t *testing.T) {
	c := NewRiskClassifier()

	tests := []struct {
		name     string
		text     string
		highRisk bool
		riskType models.RiskType
		matched  []string
	}{
		{
			name:     "toxic food phrased as question",
			text:     "狗狗可以吃葡萄嗎？",
			highRisk: false,
			riskType: models.RiskTypeToxicFood,
			matched:  []string{"葡萄"},
		},
		{
			name:     "toxic food as statement",
			text:     "我家狗剛剛偷吃巧克力",
			highRisk: true,
			riskType: models.RiskTypeToxicFood,
			matched:  []string{"巧克力"},
		},
		{
			name:     "critical symptom",
			text:     "我的狗狗一直抽搐怎麼辦？",
			highRisk: true,
			riskType: models.RiskTypeCritical,
			matched:  []string{"抽搐"},
		},
		{
			name:     "critical wins over toxic food",
			text:     "吃了葡萄之後開始抽搐",
			highRisk: true,
			riskType: models.RiskTypeCritical,
			matched:  []string{"抽搐", "吃了", "葡萄"},
		},
		{
			name:     "poisoning in a question is still high risk",
			text:     "狗狗誤食老鼠藥可以催吐嗎？",
			highRisk: true,
			riskType: models.RiskTypePoisoning,
			matched:  []string{"誤食", "老鼠藥"},
		},
		{
			name:     "severe symptom",
			text:     "貓咪出現血便",
			highRisk: true,
			riskType: models.RiskTypeSevereSymptom,
			matched:  []string{"血便"},
		},
		{
			name:     "english is case-insensitive",
			text:     "My dog had a SEIZURE",
			highRisk: true,
			riskType: models.RiskTypeCritical,
			matched:  []string{"seizure"},
		},
		{
			name:     "english toxic food question",
			text:     "Can my dog eat grapes?",
			highRisk: false,
			riskType: models.RiskTypeToxicFood,
			matched:  []string{"grape"},
		},
		{
			name:     "normal",
			text:     "幼犬什麼時候打疫苗",
			highRisk: false,
			riskType: models.RiskTypeNormal,
			matched:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(nil, tt.text)
			assert.Equal(t, tt.highRisk, got.IsHighRisk)
			assert.Equal(t, tt.riskType, got.RiskType)
			assert.ElementsMatch(t, tt.matched, got.MatchedKeywords)
		})
	}
}

func TestRiskClassifier_UsesSnapshotKeywords(t *testing.T) {
	c := NewRiskClassifier()
	kb := &models.KnowledgeBase{
		EmergencyKeywords: map[string]models.EmergencyCategory{
			models.EmergencyCritical: {Keywords: []string{"口吐白沫"}, RiskLevel: models.RiskLevelHigh},
		},
	}

	got := c.Classify(kb, "狗狗口吐白沫")
	assert.True(t, got.IsHighRisk)
	assert.Equal(t, models.RiskTypeCritical, got.RiskType)

	// The snapshot replaces the critical list, so the default term no longer fires.
	got = c.Classify(kb, "狗狗抽搐")
	assert.False(t, got.IsHighRisk)

	// Categories missing from the snapshot keep their defaults.
	got = c.Classify(kb, "狗狗誤食")
	assert.Equal(t, models.RiskTypePoisoning, got.RiskType)
}

func TestRiskClassifier_EmptySnapshotListDisablesCategory(t *testing.T) {
	c := NewRiskClassifier()
	kb := &models.KnowledgeBase{
		EmergencyKeywords: map[string]models.EmergencyCategory{
			models.EmergencySevereSymptoms: {Keywords: []string{}, RiskLevel: models.RiskLevelHigh},
			models.EmergencyPoisoning:      {RiskLevel: models.RiskLevelHigh},
		},
	}

	got := c.Classify(kb, "貓咪出現血便")
	assert.False(t, got.IsHighRisk)
	assert.Equal(t, models.RiskTypeNormal, got.RiskType)

	// A category without a keyword list still falls back to the defaults.
	got = c.Classify(kb, "狗狗誤食")
	assert.Equal(t, models.RiskTypePoisoning, got.RiskType)
}

func TestIsQuestion(t *testing.T) {
	assert.True(t, IsQuestion("貓可以喝牛奶嗎"))
	assert.True(t, IsQuestion("is it safe?"))
	assert.True(t, IsQuestion("Can dogs eat onion"))
	assert.False(t, IsQuestion("我的狗吃了洋蔥"))
}
