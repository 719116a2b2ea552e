package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"ministrydocs/internal/model"
)

func (h *Handler) runOCR(c *fiber.Ctx) error {
	text, err := h.documents.RunOCR(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"document_id": c.Params("id"),
		"text":        text,
	})
}

type batchOCRRequest struct {
	DocumentIDs []string `json:"document_ids"`
}

func (h *Handler) batchOCR(c *fiber.Ctx) error {
	var req batchOCRRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	if len(req.DocumentIDs) == 0 {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "document_ids is required")
	}
	results := h.documents.BatchOCR(c.UserContext(), actor(c), req.DocumentIDs)
	return c.JSON(fiber.Map{"results": results})
}

func (h *Handler) listOCRDocuments(c *fiber.Ctx) error {
	f, err := documentFilter(c)
	if err != nil {
		return err
	}
	f.OCRStatus = model.OCRStatus(strings.ToUpper(c.Query("ocr_status")))
	res, listErr := h.documents.ListOCR(c.UserContext(), f)
	if listErr != nil {
		return respondError(c, listErr)
	}
	return c.JSON(res)
}

func (h *Handler) searchOCR(c *fiber.Ctx) error {
	res, err := h.documents.SearchOCR(c.UserContext(), c.Query("q"), pageQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
