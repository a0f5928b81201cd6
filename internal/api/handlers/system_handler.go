package handlers

import (
	"time"

	"petcare-ai/internal/dto"
	"petcare-ai/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SystemHandler struct {
	store       *service.KnowledgeStore
	chatService *service.ChatService
}

func NewSystemHandler(store *service.KnowledgeStore, chatService *service.ChatService) *SystemHandler {
	return &SystemHandler{
		store:       store,
		chatService: chatService,
	}
}

// Health godoc
// @Summary Service health
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "healthy",
		Model:     h.chatService.ModelName(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if kb := h.store.Current(); kb != nil {
		resp.Version = kb.Version
		resp.EntryCount = len(kb.Entries)
	}
	return c.JSON(resp)
}
