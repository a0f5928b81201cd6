package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"petcare-ai/internal/models"

	"github.com/gen2brain/go-fitz"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minExtractableRunes = 10
	maxExtractRunes     = 30000

	defaultExtractTimeout = 60 * time.Second
)

var supportedDocumentFormats = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// ExtractorService turns an uploaded document into candidate knowledge
// entries for human review. It never touches the live snapshot.
type ExtractorService struct {
	model   ModelClient
	params  GenerationParams
	timeout time.Duration
	locale  *Locale
	logger  *zap.Logger
}

func NewExtractorService(model ModelClient, params GenerationParams, locale *Locale, logger *zap.Logger) *ExtractorService {
	if locale == nil {
		locale = LocaleZhTW()
	}
	return &ExtractorService{
		model:   model,
		params:  params,
		timeout: defaultExtractTimeout,
		locale:  locale,
		logger:  logger,
	}
}

// WithTimeout bounds each extraction model call; non-positive values keep the default.
func (s *ExtractorService) WithTimeout(d time.Duration) *ExtractorService {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Available reports whether a model is configured for extraction.
func (s *ExtractorService) Available() bool {
	return s.model != nil
}

// SupportedFormat reports whether the file extension can be extracted.
func SupportedFormat(fileName string) bool {
	return supportedDocumentFormats[strings.ToLower(filepath.Ext(fileName))]
}

// Extract reads text out of data and asks the model for entries.
func (s *ExtractorService) Extract(ctx context.Context, fileName string, data []byte) ([]models.KnowledgeEntry, error) {
	if !SupportedFormat(fileName) {
		return nil, newClientInputError("file", fmt.Sprintf("unsupported file format %q (supported: pdf, txt, md)", filepath.Ext(fileName)))
	}
	if s.model == nil {
		return nil, ErrExtractorUnavailable
	}

	text, err := s.ExtractText(fileName, data)
	if err != nil {
		return nil, err
	}
	return s.EntriesFromText(ctx, fileName, text)
}

// ExtractText returns the document's plain text.
func (s *ExtractorService) ExtractText(fileName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".pdf" {
		return strings.TrimSpace(sanitizeUTF8(string(data))), nil
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", fileName),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	text := strings.TrimSpace(sanitizeUTF8(textBuilder.String()))
	s.logger.Info("PDF text extracted",
		zap.String("file", fileName),
		zap.Int("pages", doc.NumPage()),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}

// EntriesFromText asks the model to structure text into entries. Text too
// short to hold knowledge yields an empty result without a model call.
func (s *ExtractorService) EntriesFromText(ctx context.Context, fileName, text string) ([]models.KnowledgeEntry, error) {
	if len([]rune(strings.TrimSpace(text))) < minExtractableRunes {
		return []models.KnowledgeEntry{}, nil
	}
	if s.model == nil {
		return nil, ErrExtractorUnavailable
	}

	prompt := fmt.Sprintf(s.locale.ExtractionInstruction, truncateRunes(text, maxExtractRunes))
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	output, err := s.model.Generate(callCtx, prompt, s.params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractorUnavailable, err)
	}

	entries, err := ParseExtractedEntries(output, filepath.Base(fileName))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Knowledge extracted from document",
		zap.String("file", fileName),
		zap.Int("count", len(entries)),
	)
	return entries, nil
}

// ParseExtractedEntries locates the JSON array in model output and normalises
// each candidate: fresh id, source set to the file name, risk level and
// species coerced to known values.
func ParseExtractedEntries(output, source string) ([]models.KnowledgeEntry, error) {
	content := strings.TrimSpace(output)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("invalid extraction response: no JSON array found")
	}

	var raw []models.KnowledgeEntry
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	entries := make([]models.KnowledgeEntry, 0, len(raw))
	for _, e := range raw {
		if strings.TrimSpace(e.Topic) == "" && strings.TrimSpace(e.Content) == "" {
			continue
		}
		e.ID = "extracted-" + uuid.NewString()[:8]
		e.Source = source
		if !e.RiskLevel.Valid() {
			e.RiskLevel = models.RiskLevelLow
		}
		var species []models.Species
		for _, sp := range e.Species {
			if sp.Known() {
				species = append(species, sp)
			}
		}
		e.Species = species
		entries = append(entries, e)
	}
	return entries, nil
}
