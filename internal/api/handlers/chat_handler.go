package handlers

import (
	"errors"

	"petcare-ai/internal/dto"
	"petcare-ai/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat godoc
// @Summary Ask a pet-health question
// @Description Classifies risk, searches the knowledge base and answers directly, as an emergency, through the model, or from a fallback
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Question and optional pet profile"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Field: "body",
		})
	}

	resp, err := h.chatService.Chat(c.UserContext(), &req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

func (h *ChatHandler) handleError(c *fiber.Ctx, err error) error {
	var inputErr *service.ClientInputError
	if errors.As(err, &inputErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: inputErr.Message,
			Field: inputErr.Field,
		})
	}

	h.logger.Error("Chat request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: "failed to answer question",
	})
}
