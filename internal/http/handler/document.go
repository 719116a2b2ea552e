package handler

import (
	"github.com/gofiber/fiber/v2"

	"ministrydocs/internal/repository"
	"ministrydocs/internal/service"
)

func (h *Handler) uploadDocument(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	doc, err := h.documents.Upload(c.UserContext(), actor(c), service.UploadInput{
		LetterNo:    c.FormValue("letter_no"),
		Subject:     c.FormValue("subject"),
		FromName:    c.FormValue("from_name"),
		ToName:      c.FormValue("to_name"),
		DivisionID:  c.FormValue("division_id"),
		Status:      c.FormValue("status"),
		FileName:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Reader:      f,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// documentFilter reads the shared listing query params.
func documentFilter(c *fiber.Ctx) (repository.DocumentFilter, error) {
	f := repository.DocumentFilter{
		PageQuery:  pageQuery(c),
		DivisionID: c.Query("division_id"),
		StatusName: c.Query("status"),
		LetterNo:   c.Query("letter_no"),
		Query:      c.Query("q"),
	}
	from, ok := parseTimeQuery(c.Query("from"))
	if !ok {
		return f, writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid from date")
	}
	to, ok := parseTimeQuery(c.Query("to"))
	if !ok {
		return f, writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid to date")
	}
	f.From, f.To = from, to
	return f, nil
}

func (h *Handler) listDocuments(c *fiber.Ctx) error {
	f, err := documentFilter(c)
	if err != nil {
		return err
	}
	res, listErr := h.documents.List(c.UserContext(), actor(c), f)
	if listErr != nil {
		return respondError(c, listErr)
	}
	return c.JSON(res)
}

// adminListDocuments is the unscoped administrative listing; the route
// group already enforces the admin role.
func (h *Handler) adminListDocuments(c *fiber.Ctx) error {
	return h.listDocuments(c)
}

func (h *Handler) getDocument(c *fiber.Ctx) error {
	det, err := h.documents.Get(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(det)
}

type patchDocumentRequest struct {
	DivisionID string `json:"division_id"`
}

func (h *Handler) adminPatchDocument(c *fiber.Ctx) error {
	var req patchDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	if err := h.documents.ChangeDivision(c.UserContext(), actor(c), c.Params("id"), req.DivisionID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type appendStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *Handler) appendStatus(c *fiber.Ctx) error {
	var req appendStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	st, err := h.documents.AppendStatus(c.UserContext(), actor(c), c.Params("id"), req.Status, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(st)
}

func (h *Handler) downloadFile(c *fiber.Ctx) error {
	url, file, err := h.documents.DownloadURL(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"url":       url,
		"file_name": file.OriginalName,
		"mime_type": file.MimeType,
	})
}
