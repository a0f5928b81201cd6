package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"petcare-ai/internal/models"
)

const (
	scoreExactTopic     = 100
	scoreTopicContains  = 50
	scoreTopicFold      = 30
	scoreKeywordMatch   = 40
	scoreContentContain = 20
)

// KnowledgeRetriever ranks snapshot entries against a query by deterministic
// substring and keyword matching.
type KnowledgeRetriever struct {
	maxResults int
}

// NewKnowledgeRetriever creates a retriever; maxResults <= 0 keeps every hit.
func NewKnowledgeRetriever(maxResults int) *KnowledgeRetriever {
	return &KnowledgeRetriever{maxResults: maxResults}
}

// Search scores every entry, drops non-positive scores and returns the rest by
// descending score, ties in document order. A nil snapshot yields no results.
func (r *KnowledgeRetriever) Search(kb *models.KnowledgeBase, query string, species models.Species) []models.ScoredEntry {
	if kb == nil || len(kb.Entries) == 0 {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	queryLower := strings.ToLower(query)
	var results []models.ScoredEntry
	for i := range kb.Entries {
		entry := &kb.Entries[i]
		score := ScoreEntry(entry, query, queryLower)
		if !entry.AppliesTo(species) {
			score = 0
		}
		if score > 0 {
			results = append(results, models.ScoredEntry{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if r.maxResults > 0 && len(results) > r.maxResults {
		results = results[:r.maxResults]
	}
	return results
}

// ScoreEntry computes the additive relevance score of one entry, before the
// species filter.
func ScoreEntry(entry *models.KnowledgeEntry, query, queryLower string) int {
	score := 0

	if topic := entry.Topic; topic != "" {
		topicLower := strings.ToLower(topic)
		switch {
		case topic == query || topicLower == queryLower:
			score += scoreExactTopic
		case strings.Contains(topic, query) || strings.Contains(query, topic):
			score += scoreTopicContains
		case strings.Contains(queryLower, topicLower) || strings.Contains(topicLower, queryLower):
			score += scoreTopicFold
		}
	}

	for _, kw := range entry.Keywords {
		if kw == "" {
			continue
		}
		kwLower := strings.ToLower(kw)
		if strings.Contains(query, kw) || strings.Contains(queryLower, kwLower) || strings.Contains(kwLower, queryLower) {
			score += scoreKeywordMatch
			break
		}
	}

	if utf8.RuneCountInString(query) > 2 && strings.Contains(entry.Content, query) {
		score += scoreContentContain
	}

	return score
}

// Entries unwraps scored results.
func Entries(results []models.ScoredEntry) []*models.KnowledgeEntry {
	entries := make([]*models.KnowledgeEntry, len(results))
	for i, r := range results {
		entries[i] = r.Entry
	}
	return entries
}
