package service

import (
	"strings"
	"text/template"

	"petcare-ai/internal/models"
)

// PromptContext is the structured input rendered into the model prompt.
type PromptContext struct {
	Question       string
	Species        string
	Age            string
	Weight         string
	Entries        []PromptEntry
	Sources        string
	CitationPrefix string
	HighRisk       bool
	Banner         string
	Keywords       string
	ToxicFoods     string
}

type PromptEntry struct {
	Rank    int
	Topic   string
	Content string
	Source  string
}

// PromptBuilder renders the instruction block sent to the generative model.
// It has no side effects; the same input always yields the same prompt.
type PromptBuilder struct {
	locale *Locale
	tmpl   *template.Template
}

func NewPromptBuilder(locale *Locale) *PromptBuilder {
	return &PromptBuilder{
		locale: locale,
		tmpl:   template.Must(template.New("prompt-" + locale.Code).Parse(locale.PromptTemplate)),
	}
}

func (b *PromptBuilder) Build(question string, profile *models.PetProfile, entries []*models.KnowledgeEntry, risk models.RiskAssessment) (string, error) {
	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, b.Context(question, profile, entries, risk)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Context assembles the template input.
func (b *PromptBuilder) Context(question string, profile *models.PetProfile, entries []*models.KnowledgeEntry, risk models.RiskAssessment) PromptContext {
	l := b.locale
	if profile == nil {
		profile = &models.PetProfile{Species: models.SpeciesUnknown}
	}

	ctx := PromptContext{
		Question:       question,
		Species:        l.SpeciesName(profile.Species),
		Age:            orUnknown(profile.Age.String(), l.UnknownValue),
		Weight:         l.UnknownValue,
		CitationPrefix: l.CitationPrefix,
		HighRisk:       risk.IsHighRisk,
		Banner:         l.EmergencyBanner,
		Keywords:       strings.Join(risk.MatchedKeywords, l.ListSeparator),
		ToxicFoods:     strings.Join(risk.ToxicFoods, l.ListSeparator),
	}
	if w := profile.Weight.String(); w != "" {
		ctx.Weight = w + " " + l.WeightUnit
	}

	sources := make([]string, 0, len(entries))
	for i, e := range entries {
		ctx.Entries = append(ctx.Entries, PromptEntry{
			Rank:    i + 1,
			Topic:   e.Topic,
			Content: e.Content,
			Source:  orUnknown(e.Source, l.DefaultCitation),
		})
		sources = append(sources, orUnknown(e.Source, l.DefaultCitation))
	}
	ctx.Sources = strings.Join(uniqueStrings(sources), l.CitationSeparator)

	return ctx
}

func orUnknown(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
