package handler

import (
	"github.com/gofiber/fiber/v2"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
	"ministrydocs/internal/service"
)

type createAssignmentRequest struct {
	AssigneeID string `json:"assignee_id"`
	DueDate    string `json:"due_date"`
	Note       string `json:"note"`
}

func (h *Handler) createAssignment(c *fiber.Ctx) error {
	var req createAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	due, ok := parseTimeQuery(req.DueDate)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid due date")
	}

	a, err := h.assignments.Assign(c.UserContext(), actor(c), service.AssignInput{
		DocumentID: c.Params("id"),
		AssigneeID: req.AssigneeID,
		DueDate:    due,
		Note:       req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

type updateAssignmentRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateAssignment(c *fiber.Ctx) error {
	var req updateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	a, err := h.assignments.SetStatus(c.UserContext(), actor(c), c.Params("id"), model.AssignmentStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(a)
}

func (h *Handler) listAssignments(c *fiber.Ctx) error {
	f := repository.AssignmentFilter{
		PageQuery:  pageQuery(c),
		Bucket:     model.AssignmentBucket(c.Query("bucket", string(model.BucketAll))),
		DivisionID: c.Query("division_id"),
	}
	res, err := h.assignments.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
