package handler

import (
	"github.com/gofiber/fiber/v2"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
	"ministrydocs/internal/service"
)

func (h *Handler) listDivisions(c *fiber.Ctx) error {
	items, err := h.divisions.List(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

type createDivisionRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createDivision(c *fiber.Ctx) error {
	var req createDivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	d, err := h.divisions.Create(c.UserContext(), actor(c), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *Handler) getDivision(c *fiber.Ctx) error {
	det, err := h.divisions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(det)
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	items, err := h.users.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

type createUserRequest struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	DivisionID *string `json:"division_id"`
}

func (h *Handler) createUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	u, err := h.users.Create(c.UserContext(), actor(c), service.CreateUserInput{
		Email:      req.Email,
		Name:       req.Name,
		Password:   req.Password,
		Role:       model.Role(req.Role),
		DivisionID: req.DivisionID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

type updateUserRequest struct {
	Password *string `json:"password"`
	// DivisionID empty string clears the division link.
	DivisionID *string `json:"division_id"`
	IsActive   *bool   `json:"is_active"`
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	in := service.UpdateUserInput{
		Password: req.Password,
		IsActive: req.IsActive,
	}
	if req.DivisionID != nil {
		if *req.DivisionID == "" {
			in.ClearDivision = true
		} else {
			in.DivisionID = req.DivisionID
		}
	}
	u, err := h.users.Update(c.UserContext(), actor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(u)
}

func (h *Handler) listAuditLogs(c *fiber.Ctx) error {
	f := repository.AuditFilter{
		PageQuery: pageQuery(c),
		Action:    c.Query("action"),
		Entity:    c.Query("entity"),
		UserID:    c.Query("user_id"),
	}
	from, ok := parseTimeQuery(c.Query("from"))
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid from date")
	}
	to, ok := parseTimeQuery(c.Query("to"))
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid to date")
	}
	f.From, f.To = from, to

	res, err := h.audits.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) dashboard(c *fiber.Ctx) error {
	d, err := h.reports.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

func (h *Handler) getSettings(c *fiber.Ctx) error {
	s, err := h.settings.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

func (h *Handler) updateSettings(c *fiber.Ctx) error {
	var patch model.SettingsPatch
	if err := c.BodyParser(&patch); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	s, err := h.settings.Update(c.UserContext(), actor(c), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}
