package dto

import "petcare-ai/internal/models"

type ChatRequest struct {
	UserID     string             `json:"user_id,omitempty"`
	PetProfile *models.PetProfile `json:"pet_profile,omitempty"`
	Message    string             `json:"message"`
}

// ChatResponse is the single shape returned by every chat branch.
type ChatResponse struct {
	Answer               string           `json:"answer"`
	Citations            []string         `json:"citations"`
	RiskLevel            models.RiskLevel `json:"risk_level"`
	SuggestedNextActions []string         `json:"suggested_next_actions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	EntryCount int    `json:"entry_count"`
	Model      string `json:"model"`
	Timestamp  string `json:"timestamp"`
}
