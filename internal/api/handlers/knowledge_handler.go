package handlers

import (
	"errors"
	"io"

	"petcare-ai/internal/dto"
	"petcare-ai/internal/models"
	"petcare-ai/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type KnowledgeHandler struct {
	knowledgeService *service.KnowledgeService
	extractor        *service.ExtractorService
	logger           *zap.Logger
}

func NewKnowledgeHandler(knowledgeService *service.KnowledgeService, extractor *service.ExtractorService, logger *zap.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{
		knowledgeService: knowledgeService,
		extractor:        extractor,
		logger:           logger,
	}
}

// GetKnowledge godoc
// @Summary Knowledge base summary
// @Tags knowledge
// @Produce json
// @Success 200 {object} dto.KnowledgeInfoResponse
// @Router /knowledge [get]
func (h *KnowledgeHandler) GetKnowledge(c *fiber.Ctx) error {
	return c.JSON(h.knowledgeService.Info())
}

// Reload godoc
// @Summary Reload the knowledge base from its source
// @Description Refetches the knowledge file. With hard=true the cached snapshot is dropped first.
// @Tags knowledge
// @Produce json
// @Param hard query bool false "Drop the current snapshot before loading"
// @Success 200 {object} dto.KnowledgeInfoResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /knowledge/reload [post]
func (h *KnowledgeHandler) Reload(c *fiber.Ctx) error {
	info, err := h.knowledgeService.Reload(c.UserContext(), c.QueryBool("hard", false))
	if err != nil {
		h.logger.Error("Failed to reload knowledge base", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}
	return c.JSON(info)
}

// Save godoc
// @Summary Replace the knowledge base
// @Description Validates entries, backs up the current file, writes the new document and publishes it when GitHub is configured
// @Tags knowledge
// @Accept json
// @Produce json
// @Param request body dto.SaveKnowledgeRequest true "New knowledge document"
// @Success 200 {object} dto.SaveKnowledgeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} map[string]string
// @Router /knowledge/save [post]
func (h *KnowledgeHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveKnowledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Field: "body",
		})
	}

	resp, err := h.knowledgeService.Save(c.UserContext(), &req)
	if err != nil {
		var inputErr *service.ClientInputError
		if errors.As(err, &inputErr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: inputErr.Message,
				Field: inputErr.Field,
			})
		}

		body := fiber.Map{"error": err.Error()}
		var perr *service.PersistenceError
		if errors.As(err, &perr) && perr.BackupFile != "" {
			body["backup_file"] = perr.BackupFile
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}

	return c.JSON(resp)
}

// Extract godoc
// @Summary Extract candidate entries from a document
// @Description Reads a PDF, .txt or .md file and returns model-extracted entries for review. The live knowledge base is not changed.
// @Tags knowledge
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document (pdf, txt, md)"
// @Success 200 {object} dto.ExtractKnowledgeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /knowledge/extract [post]
func (h *KnowledgeHandler) Extract(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "file is required",
			Field: "file",
		})
	}
	if !service.SupportedFormat(file.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "unsupported file format (supported: pdf, txt, md)",
			Field: "file",
		})
	}
	if !h.extractor.Available() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: service.ErrExtractorUnavailable.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "failed to open file",
			Field: "file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "failed to read file",
			Field: "file",
		})
	}

	entries, err := h.extractor.Extract(c.UserContext(), file.Filename, data)
	if err != nil {
		var inputErr *service.ClientInputError
		switch {
		case errors.As(err, &inputErr):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: inputErr.Message,
				Field: inputErr.Field,
			})
		case errors.Is(err, service.ErrExtractorUnavailable):
			h.logger.Warn("Document extraction unavailable", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		h.logger.Error("Failed to extract knowledge", zap.String("file", file.Filename), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}
	if entries == nil {
		entries = []models.KnowledgeEntry{}
	}

	return c.JSON(dto.ExtractKnowledgeResponse{
		FileName: file.Filename,
		Entries:  entries,
		Count:    len(entries),
	})
}
