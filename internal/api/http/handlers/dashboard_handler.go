package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/export"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardHandler serves the computed views of the current dataset.
type DashboardHandler struct {
	dashboards *service.DashboardService
	now        func() time.Time
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, now: time.Now}
}

func parseFilter(c *fiber.Ctx) (domain.Filter, error) {
	var q dto.FilterQuery
	if err := c.QueryParser(&q); err != nil {
		return domain.Filter{}, apperrors.NewValidationError("invalid query", nil)
	}
	return q.ToFilter(), nil
}

// Dashboard handles GET /dashboard.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	dash, err := h.dashboards.Dashboard(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dash})
}

// Tickets handles GET /tickets.
func (h *DashboardHandler) Tickets(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	records, err := h.dashboards.Records(c.UserContext(), filter)
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.Ticket{}
	}
	return c.JSON(fiber.Map{"data": dto.TicketList{Filter: filter, Total: len(records), Items: records}})
}

// Report handles GET /report.
func (h *DashboardHandler) Report(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	report, err := h.dashboards.Report(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// ReportWorkbook handles GET /report.xlsx.
func (h *DashboardHandler) ReportWorkbook(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	report, err := h.dashboards.Report(ctx, filter)
	if err != nil {
		return err
	}
	dash, err := h.dashboards.Dashboard(ctx, filter)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, export.ReportInput{
		GeneratedAt: h.now(),
		Filter:      filter,
		Report:      *report,
		ByMonth:     dash.ByMonth,
	}); err != nil {
		return apperrors.NewInternalError(err)
	}

	name := "support-report.xlsx"
	if report.CurrentMonth != nil {
		name = fmt.Sprintf("support-report-%s.xlsx", report.CurrentMonth.Key)
	}
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}
