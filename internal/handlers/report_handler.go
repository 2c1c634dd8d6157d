package handlers

import (
	"resto/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves the sales report and the dashboard.
type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/reports", h.HandleGetReport)
	router.Get("/dashboard", h.HandleGetDashboard)
}

// HandleGetReport aggregates sales between start_date and end_date (YYYY-MM-DD, inclusive).
func (h *ReportHandler) HandleGetReport(c *fiber.Ctx) error {
	report, err := h.service.RunReport(c.UserContext(), services.ReportQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		return respondError(c, err, "run report")
	}
	return c.JSON(report)
}

func (h *ReportHandler) HandleGetDashboard(c *fiber.Ctx) error {
	dashboard, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, err, "load dashboard")
	}
	return c.JSON(dashboard)
}
