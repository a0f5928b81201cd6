package service

import (
	"strings"
	"unicode"

	"petcare-ai/internal/models"
)

var (
	defaultCriticalKeywords = []string{
		"抽搐", "發紫", "大量出血", "意識不清", "昏迷", "無法呼吸", "呼吸停止", "呼吸急促",
		"seizure", "convulsion", "unconscious", "not breathing", "heavy bleeding",
	}
	defaultPoisoningKeywords = []string{
		"誤食", "中毒", "吃到清潔劑", "農藥", "殺蟲劑", "老鼠藥", "吃了", "吃到",
		"poisoned", "poisoning", "ate rat poison", "swallowed",
	}
	defaultToxicFoods = []string{
		"葡萄", "巧克力", "洋蔥", "大蒜", "木糖醇", "酒精", "咖啡因",
		"grape", "raisin", "chocolate", "onion", "garlic", "xylitol", "alcohol", "caffeine",
	}
	defaultSevereSymptoms = []string{
		"持續嘔吐", "嘔吐超過", "24小時", "大量嘔血", "血便", "無法站立",
		"vomiting blood", "bloody stool", "cannot stand",
	}

	// questionMarkers flag informational phrasing ("can my dog eat grapes?").
	// This is a known approximation, not a sentence classifier.
	questionMarkers = []string{
		"可以", "能不能", "？", "嗎", "是否",
		"?", "can ", "may ", "is it", "or not",
	}
)

// RiskClassifier scans question text for emergency keywords. It is
// species-agnostic and reads keyword lists from the snapshot when present.
type RiskClassifier struct{}

func NewRiskClassifier() *RiskClassifier {
	return &RiskClassifier{}
}

// Classify evaluates text against the snapshot's emergency keywords, falling
// back to the built-in lists per category. kb may be nil.
func (c *RiskClassifier) Classify(kb *models.KnowledgeBase, text string) models.RiskAssessment {
	critical := matchKeywords(text, keywordsOrDefault(kb, models.EmergencyCritical, defaultCriticalKeywords))
	poisoning := matchKeywords(text, keywordsOrDefault(kb, models.EmergencyPoisoning, defaultPoisoningKeywords))
	toxic := matchKeywords(text, keywordsOrDefault(kb, models.EmergencyToxicFoods, defaultToxicFoods))
	severe := matchKeywords(text, keywordsOrDefault(kb, models.EmergencySevereSymptoms, defaultSevereSymptoms))

	question := IsQuestion(text)

	assessment := models.RiskAssessment{
		IsHighRisk: len(critical) > 0 ||
			len(poisoning) > 0 ||
			(len(toxic) > 0 && !question) ||
			len(severe) > 0,
		RiskType:   models.RiskTypeNormal,
		ToxicFoods: toxic,
	}

	switch {
	case len(critical) > 0:
		assessment.RiskType = models.RiskTypeCritical
	case len(poisoning) > 0:
		assessment.RiskType = models.RiskTypePoisoning
	case len(toxic) > 0:
		assessment.RiskType = models.RiskTypeToxicFood
	case len(severe) > 0:
		assessment.RiskType = models.RiskTypeSevereSymptom
	}

	matched := make([]string, 0, len(critical)+len(poisoning)+len(toxic)+len(severe))
	matched = append(matched, critical...)
	matched = append(matched, poisoning...)
	matched = append(matched, toxic...)
	matched = append(matched, severe...)
	assessment.MatchedKeywords = matched

	return assessment
}

// IsQuestion reports whether text is phrased as a question rather than a
// statement of what happened.
func IsQuestion(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range questionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func keywordsOrDefault(kb *models.KnowledgeBase, category string, defaults []string) []string {
	if keywords, ok := kb.Keywords(category); ok {
		return keywords
	}
	return defaults
}

// matchKeywords returns the keywords contained in text. CJK keywords are
// matched as-is; others case-insensitively.
func matchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if containsCJK(kw) {
			if strings.Contains(text, kw) {
				matched = append(matched, kw)
			}
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}
