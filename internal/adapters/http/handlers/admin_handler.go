package handlers

import (
	"errors"
	"strings"

	"saccohub/internal/core/domain"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles SuperAdmin onboarding endpoints
type AdminHandler struct {
	adminService *services.AdminService
	subService   *services.SubscriptionService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService, subService *services.SubscriptionService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		subService:   subService,
	}
}

// RegisterSaccoRequest represents the one-step SACCO onboarding request
type RegisterSaccoRequest struct {
	SaccoName          string `json:"sacco_name"`
	RegistrationNumber string `json:"registration_number"`
	Location           string `json:"location"`
	ChairpersonName    string `json:"chairperson_name"`
	ChairpersonEmail   string `json:"chairperson_email"`
}

// RegisterSacco handles one-step SACCO + chairperson registration
// @Summary Register SACCO with chairperson
// @Description Create a chairperson account with a generated password, the SACCO, and a premium subscription in one step (SuperAdmin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterSaccoRequest true "Onboarding data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/saccos [post]
func (h *AdminHandler) RegisterSacco(c *fiber.Ctx) error {
	var req RegisterSaccoRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.SaccoName == "" {
		return response.BadRequest(c, "SACCO name is required")
	}
	if req.RegistrationNumber == "" {
		return response.BadRequest(c, "Registration number is required")
	}
	if req.Location == "" {
		return response.BadRequest(c, "Location is required")
	}
	if req.ChairpersonName == "" {
		return response.BadRequest(c, "Chairperson name is required")
	}
	if req.ChairpersonEmail == "" {
		return response.BadRequest(c, "Chairperson email is required")
	}

	result, err := h.adminService.RegisterSaccoWithChairperson(c.Context(), &services.RegisterSaccoInput{
		SaccoName:          strings.TrimSpace(req.SaccoName),
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Location:           strings.TrimSpace(req.Location),
		ChairpersonName:    strings.TrimSpace(req.ChairpersonName),
		ChairpersonEmail:   strings.ToLower(strings.TrimSpace(req.ChairpersonEmail)),
	}, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only SuperAdmin can register SACCOs")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "Chairperson email already registered")
		case errors.Is(err, domain.ErrRegistrationNumberTaken):
			return response.Conflict(c, "Registration number already exists")
		default:
			return response.InternalServerError(c, "Failed to register SACCO")
		}
	}

	return response.Created(c, "SACCO registered successfully", fiber.Map{
		"sacco":       result.Sacco,
		"chairperson": result.Chairperson.ToResponse(),
		"email_sent":  result.EmailSent,
	})
}

// ResetChairpersonPassword handles chairperson password resets
// @Summary Reset chairperson password
// @Description Regenerate a chairperson's password and email the new one (SuperAdmin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chairperson user ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/chairpersons/{id}/reset-password [post]
func (h *AdminHandler) ResetChairpersonPassword(c *fiber.Ctx) error {
	err := h.adminService.ResetChairpersonPassword(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only SuperAdmin can reset passwords")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrNotAChairperson):
			return response.BadRequest(c, "User is not a chairperson")
		default:
			return response.InternalServerError(c, "Failed to reset password")
		}
	}
	return response.Success(c, "Password reset successfully", nil)
}

// ListSaccoSubscriptions handles listing a SACCO's subscriptions
// @Summary List SACCO subscriptions
// @Description List a SACCO's subscriptions (SuperAdmin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "SACCO ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/saccos/{id}/subscriptions [get]
func (h *AdminHandler) ListSaccoSubscriptions(c *fiber.Ctx) error {
	subs, err := h.subService.ListBySacco(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "Only SuperAdmin can view SACCO subscriptions")
		}
		return response.InternalServerError(c, "Failed to list subscriptions")
	}
	return response.Success(c, "", subs)
}

// MySubscriptions handles listing the caller's subscriptions
// @Summary My subscriptions
// @Description List the authenticated user's subscriptions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /subscriptions [get]
func (h *AdminHandler) MySubscriptions(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	subs, err := h.subService.ListByUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list subscriptions")
	}
	return response.Success(c, "", subs)
}
