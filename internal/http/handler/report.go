package handler

import (
	"github.com/gofiber/fiber/v2"

	"ministrydocs/internal/report"
)

// reportParams reads the shared report inputs from the query string.
func reportParams(c *fiber.Ctx) (report.Params, error) {
	p := report.Params{
		Type:       report.Type(c.Query("reportType")),
		DivisionID: c.Query("divisionId"),
		Status:     c.Query("status"),
		TimeRange:  report.TimeRange(c.Query("timeRange", string(report.RangeMonthly))),
	}
	from, ok := parseTimeQuery(c.Query("dateFrom"))
	if !ok {
		return p, writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid dateFrom")
	}
	to, ok := parseTimeQuery(c.Query("dateTo"))
	if !ok {
		return p, writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid dateTo")
	}
	p.DateFrom, p.DateTo = from, to
	return p, nil
}

func (h *Handler) generateReport(c *fiber.Ctx) error {
	p, err := reportParams(c)
	if err != nil {
		return err
	}
	result, genErr := h.reports.Generate(c.UserContext(), p)
	if genErr != nil {
		return respondError(c, genErr)
	}
	return c.JSON(result)
}

type exportReportRequest struct {
	report.Params
	Format string `json:"format"`
}

func (h *Handler) exportReport(c *fiber.Ctx) error {
	var req exportReportRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
	}
	res, err := h.reports.Export(c.UserContext(), actor(c), req.Params, req.Format)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.FileName+`"`)
	return c.Send(res.Data)
}
