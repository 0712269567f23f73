package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// DatasetHandler manages export uploads and dataset metadata.
type DatasetHandler struct {
	dashboards     *service.DashboardService
	maxUploadBytes int
}

// NewDatasetHandler constructs handler.
func NewDatasetHandler(dashboards *service.DashboardService, maxUploadBytes int) *DatasetHandler {
	return &DatasetHandler{dashboards: dashboards, maxUploadBytes: maxUploadBytes}
}

// Upload handles POST /datasets with a multipart "file" field.
func (h *DatasetHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("multipart field \"file\" required", nil)
	}
	if h.maxUploadBytes > 0 && header.Size > int64(h.maxUploadBytes) {
		return apperrors.NewPayloadTooLarge(h.maxUploadBytes)
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	loadedBy := ""
	if principal, ok := auth.PrincipalFromContext(c); ok {
		loadedBy = principal.Username
	}

	result, err := h.dashboards.Load(c.UserContext(), service.LoadRequest{
		Filename: header.Filename,
		LoadedBy: loadedBy,
		Body:     file,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": result})
}

// Current handles GET /datasets/current.
func (h *DatasetHandler) Current(c *fiber.Ctx) error {
	opts, err := h.dashboards.Options(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": opts})
}

// History handles GET /datasets/history.
func (h *DatasetHandler) History(c *fiber.Ctx) error {
	var q dto.HistoryQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", map[string]any{"limit": "must be an integer"})
	}
	entries, err := h.dashboards.History(c.UserContext(), q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
