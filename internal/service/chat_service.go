package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"petcare-ai/internal/dto"
	"petcare-ai/internal/models"

	"go.uber.org/zap"
)

// Branch names the terminal state a chat request resolved to.
type Branch string

const (
	BranchDirectAnswer    Branch = "direct_answer"
	BranchForcedEmergency Branch = "forced_emergency"
	BranchModelSuccess    Branch = "model_success"
	BranchDegradedAnswer  Branch = "degraded_answer"
	BranchRefusal         Branch = "refusal"
)

// ChatService decides how a pet-health question is answered: straight from
// knowledge, as a forced emergency, through the generative model, or from the
// degraded/refusal fallbacks.
type ChatService struct {
	store        *KnowledgeStore
	classifier   *RiskClassifier
	retriever    *KnowledgeRetriever
	prompts      *PromptBuilder
	model        ModelClient
	params       GenerationParams
	modelTimeout time.Duration
	locale       *Locale
	logger       *zap.Logger
}

type ChatServiceOptions struct {
	Model        ModelClient
	Params       GenerationParams
	ModelTimeout time.Duration
	MaxResults   int
	Locale       *Locale
}

func NewChatService(store *KnowledgeStore, opts ChatServiceOptions, logger *zap.Logger) *ChatService {
	locale := opts.Locale
	if locale == nil {
		locale = LocaleZhTW()
	}
	timeout := opts.ModelTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &ChatService{
		store:        store,
		classifier:   NewRiskClassifier(),
		retriever:    NewKnowledgeRetriever(opts.MaxResults),
		prompts:      NewPromptBuilder(locale),
		model:        opts.Model,
		params:       opts.Params,
		modelTimeout: timeout,
		locale:       locale,
		logger:       logger,
	}
}

// ModelName reports the configured model, or "none".
func (s *ChatService) ModelName() string {
	if s.model == nil {
		return "none"
	}
	return s.model.Name()
}

// Chat answers one question. The only error it returns is *ClientInputError;
// every other failure resolves to one of the fallback answers.
func (s *ChatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, newClientInputError("message", "message is required")
	}

	question := strings.TrimSpace(req.Message)
	profile := req.PetProfile
	if profile == nil {
		profile = &models.PetProfile{Species: models.SpeciesUnknown}
	}

	kb := s.store.Current()
	if kb == nil {
		s.logger.Warn("Knowledge base not loaded, retrieval degraded to empty",
			zap.Error(ErrKnowledgeUnavailable),
		)
	}

	risk := s.classifier.Classify(kb, question)
	results := s.retriever.Search(kb, question, profile.Species)
	entries := Entries(results)

	var (
		resp   *dto.ChatResponse
		branch Branch
	)
	switch {
	case len(entries) > 0 && !risk.IsHighRisk:
		resp, branch = s.directAnswer(entries), BranchDirectAnswer
	case risk.IsHighRisk:
		resp, branch = s.forcedEmergency(entries), BranchForcedEmergency
	default:
		resp, branch = s.callModel(ctx, question, profile, entries, risk)
	}

	s.logger.Info("Chat answered",
		zap.String("branch", string(branch)),
		zap.String("risk_type", string(risk.RiskType)),
		zap.Int("matched_keywords", len(risk.MatchedKeywords)),
		zap.Int("retrieved", len(entries)),
		zap.String("risk_level", string(resp.RiskLevel)),
	)
	return resp, nil
}

func (s *ChatService) directAnswer(entries []*models.KnowledgeEntry) *dto.ChatResponse {
	top := entries[0]
	citations := citationsFor(entries, s.locale.DefaultCitation)

	return &dto.ChatResponse{
		Answer:               top.Content + "\n\n" + s.citationLine(citations),
		Citations:            citations,
		RiskLevel:            top.RiskLevel,
		SuggestedNextActions: cloneStrings(s.locale.DirectActions),
	}
}

func (s *ChatService) forcedEmergency(entries []*models.KnowledgeEntry) *dto.ChatResponse {
	l := s.locale

	body := l.EmergencyGeneric
	citations := []string{l.EmergencyFallbackCitation}
	for _, e := range entries {
		if e.RiskLevel == models.RiskLevelHigh {
			body = e.Content
			if src := strings.TrimSpace(e.Source); src != "" {
				citations = []string{src}
			}
			break
		}
	}

	var sb strings.Builder
	sb.WriteString(l.EmergencyBanner)
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n\n")
	sb.WriteString(l.EmergencyClosing)

	return &dto.ChatResponse{
		Answer:               sb.String(),
		Citations:            citations,
		RiskLevel:            models.RiskLevelHigh,
		SuggestedNextActions: cloneStrings(l.EmergencyActions),
	}
}

func (s *ChatService) callModel(ctx context.Context, question string, profile *models.PetProfile, entries []*models.KnowledgeEntry, risk models.RiskAssessment) (*dto.ChatResponse, Branch) {
	if s.model == nil {
		return s.degraded(entries, ErrModelUnavailable)
	}

	prompt, err := s.prompts.Build(question, profile, entries, risk)
	if err != nil {
		s.logger.Error("Failed to build prompt", zap.Error(err))
		return s.degraded(entries, ErrModelUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	answer, err := s.model.Generate(callCtx, prompt, s.params)
	if err == nil && strings.TrimSpace(answer) == "" {
		err = ErrModelUnavailable
	}
	if err != nil {
		err = classifyModelError(s.model.Name(), err)
		s.logger.Warn("Model call failed, falling back",
			zap.String("model", s.model.Name()),
			zap.Bool("rate_limited", errors.Is(err, ErrModelRateLimited)),
			zap.Error(err),
		)
		return s.degraded(entries, err)
	}

	level := maxRiskLevel(entries)
	return &dto.ChatResponse{
		Answer:               strings.TrimSpace(answer),
		Citations:            citationsFor(entries, s.locale.ModelCitation),
		RiskLevel:            level,
		SuggestedNextActions: cloneStrings(s.locale.ModelActions[level]),
	}, BranchModelSuccess
}

func (s *ChatService) degraded(entries []*models.KnowledgeEntry, cause error) (*dto.ChatResponse, Branch) {
	l := s.locale
	if len(entries) == 0 {
		return &dto.ChatResponse{
			Answer:               l.RefusalAnswer,
			Citations:            []string{},
			RiskLevel:            models.RiskLevelLow,
			SuggestedNextActions: cloneStrings(l.RefusalActions),
		}, BranchRefusal
	}

	notice := l.LocalKnowledgeNotice
	if errors.Is(cause, ErrModelRateLimited) {
		notice = l.BusyNotice
	}

	contents := make([]string, len(entries))
	for i, e := range entries {
		contents[i] = e.Content
	}
	citations := citationsFor(entries, l.DefaultCitation)
	level := maxRiskLevel(entries)

	return &dto.ChatResponse{
		Answer:               notice + strings.Join(contents, "\n\n") + "\n\n" + s.citationLine(citations),
		Citations:            citations,
		RiskLevel:            level,
		SuggestedNextActions: cloneStrings(l.DegradedActions[level]),
	}, BranchDegradedAnswer
}

func (s *ChatService) citationLine(citations []string) string {
	return s.locale.CitationPrefix + strings.Join(citations, s.locale.CitationSeparator)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
