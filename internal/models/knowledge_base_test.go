package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeEntry_LegacyFields(t *testing.T) {
	var entry KnowledgeEntry
	err := json.Unmarshal([]byte(`{
		"id": "feed-001",
		"question": "幼犬一天建議餵幾餐？",
		"answer": "幼犬建議一天餵食3-4餐。",
		"keywords": ["幼犬", "餵食"]
	}`), &entry)
	require.NoError(t, err)

	assert.Equal(t, "幼犬一天建議餵幾餐？", entry.Topic)
	assert.Equal(t, "幼犬建議一天餵食3-4餐。", entry.Content)
	assert.Equal(t, RiskLevelLow, entry.RiskLevel)
}

func TestKnowledgeEntry_Species(t *testing.T) {
	var entry KnowledgeEntry
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","topic":"t","content":"c","species":["cat"]}`), &entry))

	assert.True(t, entry.AppliesTo(SpeciesCat))
	assert.False(t, entry.AppliesTo(SpeciesDog))
	assert.True(t, entry.AppliesTo(SpeciesUnknown))
}

func TestEmergencyCategory_BothShapes(t *testing.T) {
	var kb KnowledgeBase
	err := json.Unmarshal([]byte(`{
		"version": "1.0.0",
		"entries": [],
		"emergency_keywords": {
			"critical": {"keywords": ["抽搐"], "risk_level": "high"},
			"poisoning": ["誤食", "中毒"]
		}
	}`), &kb)
	require.NoError(t, err)

	critical, ok := kb.Keywords(EmergencyCritical)
	require.True(t, ok)
	assert.Equal(t, []string{"抽搐"}, critical)

	poisoning, ok := kb.Keywords(EmergencyPoisoning)
	require.True(t, ok)
	assert.Equal(t, []string{"誤食", "中毒"}, poisoning)

	_, ok = kb.Keywords(EmergencyToxicFoods)
	assert.False(t, ok)
}

func TestEmergencyCategory_EmptyListIsConfigured(t *testing.T) {
	var kb KnowledgeBase
	err := json.Unmarshal([]byte(`{
		"version": "1.0.0",
		"entries": [],
		"emergency_keywords": {
			"critical": {"keywords": [], "risk_level": "high"},
			"poisoning": [],
			"toxic_foods": {"risk_level": "high"}
		}
	}`), &kb)
	require.NoError(t, err)

	critical, ok := kb.Keywords(EmergencyCritical)
	assert.True(t, ok)
	assert.Empty(t, critical)

	poisoning, ok := kb.Keywords(EmergencyPoisoning)
	assert.True(t, ok)
	assert.Empty(t, poisoning)

	_, ok = kb.Keywords(EmergencyToxicFoods)
	assert.False(t, ok)
}

func TestKnowledgeBase_Validate(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		kb := KnowledgeBase{Entries: []KnowledgeEntry{
			{ID: "a", RiskLevel: RiskLevelLow},
			{ID: "a", RiskLevel: RiskLevelHigh},
		}}
		assert.ErrorContains(t, kb.Validate(), "duplicate")
	})

	t.Run("invalid risk level", func(t *testing.T) {
		kb := KnowledgeBase{Entries: []KnowledgeEntry{{ID: "a", RiskLevel: "severe"}}}
		assert.ErrorContains(t, kb.Validate(), "risk_level")
	})

	t.Run("valid", func(t *testing.T) {
		kb := KnowledgeBase{Entries: []KnowledgeEntry{
			{ID: "a", RiskLevel: RiskLevelLow},
			{ID: "b", RiskLevel: RiskLevelMedium},
		}}
		assert.NoError(t, kb.Validate())
	})
}

func TestMeasure_Unmarshal(t *testing.T) {
	var profile PetProfile
	require.NoError(t, json.Unmarshal([]byte(`{"species":"Dog","age":"2","weight":5.5}`), &profile))

	assert.Equal(t, SpeciesDog, profile.Species)
	require.NotNil(t, profile.Age.Value)
	assert.Equal(t, 2.0, *profile.Age.Value)
	assert.Equal(t, "5.5", profile.Weight.String())

	var other PetProfile
	require.NoError(t, json.Unmarshal([]byte(`{"species":"bird","age":"3個月"}`), &other))
	assert.Equal(t, SpeciesUnknown, other.Species)
	assert.Nil(t, other.Age.Value)
	assert.Equal(t, "3個月", other.Age.String())
	assert.True(t, other.Weight.IsZero())
}
