package handlers

import (
	"errors"
	"strconv"
	"time"

	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler handles audit log endpoints
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List handles listing audit log entries
// @Summary List audit logs
// @Description List audit log entries newest-first (SuperAdmin only)
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by acting user ID"
// @Param entity_type query string false "Filter by entity type"
// @Param action query string false "Filter by action"
// @Param start_date query string false "Filter from date (YYYY-MM-DD)"
// @Param end_date query string false "Filter to date (YYYY-MM-DD)"
// @Param limit query int false "Maximum entries (default 100)"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	filter := &repositories.AuditFilter{
		UserID:     c.Query("user_id"),
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
		Limit:      limit,
	}

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &t
	}

	logs, err := h.auditService.GetLogs(c.Context(), filter, actor(c))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "Only SuperAdmin can view audit logs")
		}
		return response.InternalServerError(c, "Failed to list audit logs")
	}
	return response.Success(c, "", logs)
}
