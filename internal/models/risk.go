package models

type RiskType string

const (
	RiskTypeCritical      RiskType = "critical"
	RiskTypePoisoning     RiskType = "poisoning"
	RiskTypeToxicFood     RiskType = "toxic_food"
	RiskTypeSevereSymptom RiskType = "severe_symptom"
	RiskTypeNormal        RiskType = "normal"
)

// RiskAssessment is derived per request from the question text.
type RiskAssessment struct {
	IsHighRisk      bool     `json:"is_high_risk"`
	RiskType        RiskType `json:"risk_type"`
	MatchedKeywords []string `json:"matched_keywords"`
	// ToxicFoods holds the matched toxic-food keywords, even when the question
	// phrasing kept the request out of the emergency path.
	ToxicFoods []string `json:"toxic_foods,omitempty"`
}

// ScoredEntry pairs a knowledge entry with its retrieval score.
type ScoredEntry struct {
	Entry *KnowledgeEntry
	Score int
}
