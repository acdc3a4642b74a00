package handlers

import (
	"errors"

	"saccohub/internal/core/domain"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Admin handles the platform-wide dashboard
// @Summary Admin dashboard
// @Description Platform-wide statistics (SuperAdmin only)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context(), actor(c))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "Only SuperAdmin can view the admin dashboard")
		}
		return response.InternalServerError(c, "Failed to load dashboard")
	}
	return response.Success(c, "", data)
}

// Sacco handles the per-SACCO dashboard
// @Summary SACCO dashboard
// @Description Aggregate figures for one SACCO
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "SACCO ID"
// @Success 200 {object} response.Response
// @Router /dashboard/saccos/{id} [get]
func (h *DashboardHandler) Sacco(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetSaccoDashboard(c.Context(), c.Params("id"))
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}
	return response.Success(c, "", data)
}
