package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Valid reports whether r is one of the three defined levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}

// Severity orders risk levels; unknown values rank with low.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLevelHigh:
		return 2
	case RiskLevelMedium:
		return 1
	}
	return 0
}

// Emergency keyword categories recognised in the knowledge document.
const (
	EmergencyCritical       = "critical"
	EmergencyPoisoning      = "poisoning"
	EmergencyToxicFoods     = "toxic_foods"
	EmergencySevereSymptoms = "severe_symptoms"
)

// KnowledgeEntry is one static fact record. Entries are never mutated after load.
type KnowledgeEntry struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Content   string    `json:"content"`
	Keywords  []string  `json:"keywords,omitempty"`
	Source    string    `json:"source,omitempty"`
	Species   []Species `json:"species,omitempty"`
	RiskLevel RiskLevel `json:"risk_level"`
	Category  string    `json:"category,omitempty"`
}

// UnmarshalJSON accepts the legacy question/answer/title field names.
func (e *KnowledgeEntry) UnmarshalJSON(data []byte) error {
	type plain KnowledgeEntry
	var raw struct {
		plain
		Question string `json:"question"`
		Answer   string `json:"answer"`
		Title    string `json:"title"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = KnowledgeEntry(raw.plain)
	if e.Topic == "" {
		e.Topic = raw.Question
	}
	if e.Topic == "" {
		e.Topic = raw.Title
	}
	if e.Content == "" {
		e.Content = raw.Answer
	}
	if e.RiskLevel == "" {
		e.RiskLevel = RiskLevelLow
	}
	return nil
}

// AppliesTo reports whether the entry covers the species. Entries without a
// species list and unknown query species always apply.
func (e *KnowledgeEntry) AppliesTo(species Species) bool {
	if !species.Known() || len(e.Species) == 0 {
		return true
	}
	for _, s := range e.Species {
		if s == species {
			return true
		}
	}
	return false
}

// EmergencyCategory is a keyword list with its risk level. In JSON it is either
// {"keywords": [...], "risk_level": "high"} or a bare array of keywords.
type EmergencyCategory struct {
	Keywords  []string  `json:"keywords"`
	RiskLevel RiskLevel `json:"risk_level,omitempty"`
}

func (c *EmergencyCategory) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var keywords []string
		if err := json.Unmarshal(data, &keywords); err != nil {
			return err
		}
		*c = EmergencyCategory{Keywords: keywords, RiskLevel: RiskLevelHigh}
		return nil
	}

	type plain EmergencyCategory
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = EmergencyCategory(p)
	return nil
}

type CategoryInfo struct {
	Description string `json:"description"`
}

type UpdateRecord struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	Changes []string `json:"changes"`
}

// KnowledgeBase is one versioned snapshot of the knowledge document. A snapshot
// is replaced wholesale on reload, never edited in place.
type KnowledgeBase struct {
	Version           string                       `json:"version"`
	LastUpdate        string                       `json:"last_update,omitempty"`
	Categories        map[string]CategoryInfo      `json:"categories,omitempty"`
	Entries           []KnowledgeEntry             `json:"entries"`
	EmergencyKeywords map[string]EmergencyCategory `json:"emergency_keywords,omitempty"`
	UpdateRecords     []UpdateRecord               `json:"update_records,omitempty"`
}

// Validate checks id uniqueness and risk levels.
func (kb *KnowledgeBase) Validate() error {
	seen := make(map[string]struct{}, len(kb.Entries))
	for i, entry := range kb.Entries {
		if entry.ID == "" {
			return fmt.Errorf("entry %d has no id", i)
		}
		if _, dup := seen[entry.ID]; dup {
			return fmt.Errorf("duplicate entry id %q", entry.ID)
		}
		seen[entry.ID] = struct{}{}
		if !entry.RiskLevel.Valid() {
			return fmt.Errorf("entry %q has invalid risk_level %q", entry.ID, entry.RiskLevel)
		}
	}
	return nil
}

// Keywords returns the configured keywords for an emergency category. ok is
// false when the category or its keyword list is absent; an explicit empty
// list is configured and disables the category.
func (kb *KnowledgeBase) Keywords(category string) ([]string, bool) {
	if kb == nil || kb.EmergencyKeywords == nil {
		return nil, false
	}
	c, ok := kb.EmergencyKeywords[category]
	if !ok || c.Keywords == nil {
		return nil, false
	}
	return c.Keywords, true
}
