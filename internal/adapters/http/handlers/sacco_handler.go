package handlers

import (
	"errors"
	"strings"

	"saccohub/internal/core/domain"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SaccoHandler handles SACCO registry endpoints
type SaccoHandler struct {
	saccoService *services.SaccoService
}

// NewSaccoHandler creates a new SACCO handler
func NewSaccoHandler(saccoService *services.SaccoService) *SaccoHandler {
	return &SaccoHandler{saccoService: saccoService}
}

// CreateSaccoRequest represents SACCO creation request body
type CreateSaccoRequest struct {
	Name               string  `json:"name"`
	RegistrationNumber string  `json:"registration_number"`
	Location           string  `json:"location"`
	ChairpersonID      *string `json:"chairperson_id"`
}

// UpdateSaccoRequest represents a partial SACCO update
type UpdateSaccoRequest struct {
	Name               *string `json:"name"`
	RegistrationNumber *string `json:"registration_number"`
	Location           *string `json:"location"`
	ChairpersonID      *string `json:"chairperson_id"`
}

// Create handles SACCO creation
// @Summary Create SACCO
// @Description Register a new SACCO (starts in pending status)
// @Tags Saccos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSaccoRequest true "SACCO data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /saccos [post]
func (h *SaccoHandler) Create(c *fiber.Ctx) error {
	var req CreateSaccoRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.RegistrationNumber == "" {
		return response.BadRequest(c, "Registration number is required")
	}
	if req.Location == "" {
		return response.BadRequest(c, "Location is required")
	}

	input := &services.CreateSaccoInput{
		Name:               strings.TrimSpace(req.Name),
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Location:           strings.TrimSpace(req.Location),
		ChairpersonID:      req.ChairpersonID,
	}

	sacco, err := h.saccoService.Create(c.Context(), input, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRegistrationNumberTaken):
			return response.Conflict(c, "Registration number already exists")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "Chairperson user not found")
		default:
			return response.InternalServerError(c, "Failed to create SACCO")
		}
	}

	return response.Created(c, "SACCO created successfully", sacco)
}

// List handles listing all SACCOs
// @Summary List SACCOs
// @Description List all registered SACCOs
// @Tags Saccos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /saccos [get]
func (h *SaccoHandler) List(c *fiber.Ctx) error {
	saccos, err := h.saccoService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list SACCOs")
	}
	return response.Success(c, "", saccos)
}

// Get handles getting a SACCO by ID
// @Summary Get SACCO
// @Description Get a SACCO with its chairperson and members
// @Tags Saccos
// @Produce json
// @Security BearerAuth
// @Param id path string true "SACCO ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /saccos/{id} [get]
func (h *SaccoHandler) Get(c *fiber.Ctx) error {
	sacco, err := h.saccoService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrSaccoNotFound) {
			return response.NotFound(c, "SACCO not found")
		}
		return response.InternalServerError(c, "Failed to get SACCO")
	}
	return response.Success(c, "", sacco)
}

// Update handles partial SACCO updates
// @Summary Update SACCO
// @Description Apply a partial update to a SACCO
// @Tags Saccos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "SACCO ID"
// @Param body body UpdateSaccoRequest true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /saccos/{id} [put]
func (h *SaccoHandler) Update(c *fiber.Ctx) error {
	var req UpdateSaccoRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateSaccoInput{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Location:           req.Location,
		ChairpersonID:      req.ChairpersonID,
	}

	sacco, err := h.saccoService.Update(c.Context(), c.Params("id"), input, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSaccoNotFound):
			return response.NotFound(c, "SACCO not found")
		case errors.Is(err, domain.ErrRegistrationNumberTaken):
			return response.Conflict(c, "Registration number already exists")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "Chairperson user not found")
		default:
			return response.InternalServerError(c, "Failed to update SACCO")
		}
	}

	return response.Success(c, "SACCO updated successfully", sacco)
}

// Approve handles SACCO approval
// @Summary Approve SACCO
// @Description Set a SACCO's status to active (SuperAdmin only)
// @Tags Saccos
// @Produce json
// @Security BearerAuth
// @Param id path string true "SACCO ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /saccos/{id}/approve [patch]
func (h *SaccoHandler) Approve(c *fiber.Ctx) error {
	sacco, err := h.saccoService.Approve(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		return h.statusError(c, err, "Failed to approve SACCO")
	}
	return response.Success(c, "SACCO approved successfully", sacco)
}

// Suspend handles SACCO suspension
// @Summary Suspend SACCO
// @Description Set a SACCO's status to suspended (SuperAdmin only)
// @Tags Saccos
// @Produce json
// @Security BearerAuth
// @Param id path string true "SACCO ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /saccos/{id}/suspend [patch]
func (h *SaccoHandler) Suspend(c *fiber.Ctx) error {
	sacco, err := h.saccoService.Suspend(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		return h.statusError(c, err, "Failed to suspend SACCO")
	}
	return response.Success(c, "SACCO suspended successfully", sacco)
}

// Reactivate handles SACCO reactivation
// @Summary Reactivate SACCO
// @Description Set a suspended SACCO's status back to active (SuperAdmin only)
// @Tags Saccos
// @Produce json
// @Security BearerAuth
// @Param id path string true "SACCO ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /saccos/{id}/reactivate [patch]
func (h *SaccoHandler) Reactivate(c *fiber.Ctx) error {
	sacco, err := h.saccoService.Reactivate(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		return h.statusError(c, err, "Failed to reactivate SACCO")
	}
	return response.Success(c, "SACCO reactivated successfully", sacco)
}

// Delete handles SACCO deletion
// @Summary Delete SACCO
// @Description Permanently delete a SACCO with no members (SuperAdmin only)
// @Tags Saccos
// @Produce json
// @Security BearerAuth
// @Param id path string true "SACCO ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /saccos/{id} [delete]
func (h *SaccoHandler) Delete(c *fiber.Ctx) error {
	err := h.saccoService.Delete(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only SuperAdmin can delete SACCOs")
		case errors.Is(err, domain.ErrSaccoNotFound):
			return response.NotFound(c, "SACCO not found")
		case errors.Is(err, domain.ErrSaccoHasMembers):
			return response.BadRequest(c, "Cannot delete SACCO with existing members")
		default:
			return response.InternalServerError(c, "Failed to delete SACCO")
		}
	}
	return response.Success(c, "SACCO deleted successfully", nil)
}

func (h *SaccoHandler) statusError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "Only SuperAdmin can change SACCO status")
	case errors.Is(err, domain.ErrSaccoNotFound):
		return response.NotFound(c, "SACCO not found")
	default:
		return response.InternalServerError(c, fallback)
	}
}
