package service

import (
	"strings"
	"unicode/utf8"

	"petcare-ai/internal/models"
)

// sanitizeUTF8 drops invalid UTF-8 sequences from extracted document text.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}

// uniqueStrings keeps the first occurrence of each non-blank value, in order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// citationsFor returns the deduplicated sources of entries, or fallback when
// none of them names a source.
func citationsFor(entries []*models.KnowledgeEntry, fallback string) []string {
	sources := make([]string, len(entries))
	for i, e := range entries {
		sources[i] = e.Source
	}
	out := uniqueStrings(sources)
	if len(out) == 0 && fallback != "" {
		out = []string{fallback}
	}
	return out
}

// maxRiskLevel is the most severe level among entries, low when empty.
func maxRiskLevel(entries []*models.KnowledgeEntry) models.RiskLevel {
	level := models.RiskLevelLow
	for _, e := range entries {
		if e.RiskLevel.Severity() > level.Severity() {
			level = e.RiskLevel
		}
	}
	return level
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
