package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"ministrydocs/internal/auth"
	"ministrydocs/internal/http/middleware"
	"ministrydocs/internal/repository"
	"ministrydocs/internal/service"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	auth        service.AuthService
	documents   service.DocumentService
	assignments service.AssignmentService
	divisions   service.DivisionService
	users       service.UserService
	audits      service.AuditService
	settings    service.SettingsService
	reports     service.ReportService
}

// New constructs a Handler.
func New(
	authSvc service.AuthService,
	documents service.DocumentService,
	assignments service.AssignmentService,
	divisions service.DivisionService,
	users service.UserService,
	audits service.AuditService,
	settings service.SettingsService,
	reports service.ReportService,
) *Handler {
	return &Handler{
		auth:        authSvc,
		documents:   documents,
		assignments: assignments,
		divisions:   divisions,
		users:       users,
		audits:      audits,
		settings:    settings,
		reports:     reports,
	}
}

// RegisterRoutes attaches every route to the app. db is only used by the
// health endpoint; signer drives the auth middleware.
func (h *Handler) RegisterRoutes(app *fiber.App, db *sql.DB, signer auth.TokenSigner) {
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", swaggerUI)

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group("/api")
	api.Post("/auth/login", h.login)

	authed := api.Group("", middleware.RequireAuth(signer), middleware.Maintenance(h.settings))
	authed.Post("/documents/upload", h.uploadDocument)
	authed.Get("/documents", h.listDocuments)
	authed.Get("/documents/:id", h.getDocument)
	authed.Post("/documents/:id/status", h.appendStatus)
	authed.Post("/documents/:id/assign", h.createAssignment)
	authed.Post("/documents/:id/ocr", h.runOCR)
	authed.Get("/files/:id/download", h.downloadFile)

	admin := authed.Group("/admin", middleware.RequireAdmin())
	admin.Get("/documents", h.adminListDocuments)
	admin.Patch("/documents/:id", h.adminPatchDocument)
	admin.Get("/divisions", h.listDivisions)
	admin.Post("/divisions", h.createDivision)
	admin.Get("/divisions/:id", h.getDivision)
	admin.Get("/users", h.listUsers)
	admin.Post("/users", h.createUser)
	admin.Patch("/users/:id", h.updateUser)
	admin.Get("/assignments", h.listAssignments)
	admin.Patch("/assignments/:id", h.updateAssignment)
	admin.Get("/audit-logs", h.listAuditLogs)
	admin.Get("/dashboard", h.dashboard)
	admin.Get("/reports/generate", h.generateReport)
	admin.Post("/reports/export", h.exportReport)
	admin.Get("/settings", h.getSettings)
	admin.Patch("/settings", h.updateSettings)
	admin.Get("/ocr/documents", h.listOCRDocuments)
	admin.Post("/ocr/run", h.batchOCR)
	admin.Get("/ocr/search", h.searchOCR)
}

func swaggerUI(c *fiber.Ctx) error {
	const html = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
	return c.Type("html").SendString(html)
}

// actor extracts the authenticated actor; routes behind RequireAuth
// always have one.
func actor(c *fiber.Ctx) service.Actor {
	a, _ := middleware.ActorFromCtx(c)
	return a
}

// pageQuery reads limit/offset query params; malformed values fall back
// to the defaults and are clamped by the services.
func pageQuery(c *fiber.Ctx) repository.PageQuery {
	return repository.PageQuery{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
}

// parseTimeQuery accepts RFC 3339 or plain dates (2006-01-02).
func parseTimeQuery(v string) (*time.Time, bool) {
	if v == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, true
	}
	return nil, false
}
