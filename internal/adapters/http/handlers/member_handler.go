package handlers

import (
	"errors"

	"saccohub/internal/core/domain"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// MemberHandler handles membership endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// EnrollRequest represents an enrollment request body
type EnrollRequest struct {
	UserID         string           `json:"user_id"`
	SaccoID        string           `json:"sacco_id"`
	ShareBalance   *decimal.Decimal `json:"share_balance"`
	SavingsBalance *decimal.Decimal `json:"savings_balance"`
}

// Enroll handles membership enrollment
// @Summary Enroll member
// @Description Bind a user to a SACCO, optionally with opening balances
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EnrollRequest true "Enrollment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) Enroll(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.UserID == "" {
		return response.BadRequest(c, "User ID is required")
	}
	if req.SaccoID == "" {
		return response.BadRequest(c, "SACCO ID is required")
	}

	member, err := h.memberService.Enroll(c.Context(), &services.EnrollInput{
		UserID:         req.UserID,
		SaccoID:        req.SaccoID,
		ShareBalance:   req.ShareBalance,
		SavingsBalance: req.SavingsBalance,
	}, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNegativeBalance):
			return response.BadRequest(c, "Balances cannot be negative")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrSaccoNotFound):
			return response.NotFound(c, "SACCO not found")
		case errors.Is(err, domain.ErrMemberAlreadyExists):
			return response.Conflict(c, "User is already a member of this SACCO")
		default:
			return response.InternalServerError(c, "Failed to enroll member")
		}
	}

	return response.Created(c, "Member enrolled successfully", member)
}

// List handles listing members
// @Summary List members
// @Description List members, optionally filtered by SACCO
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param sacco_id query string false "Filter by SACCO ID"
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	members, err := h.memberService.List(c.Context(), c.Query("sacco_id"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}
	return response.Success(c, "", members)
}

// Get handles getting a member by ID
// @Summary Get member
// @Description Get a member with user and SACCO details
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	member, err := h.memberService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}
	return response.Success(c, "", member)
}

// AdjustBalancesRequest represents an administrative balance override
type AdjustBalancesRequest struct {
	ShareBalance   *decimal.Decimal `json:"share_balance"`
	SavingsBalance *decimal.Decimal `json:"savings_balance"`
}

// AdjustBalances handles direct balance corrections
// @Summary Adjust member balances
// @Description Set member balances directly, bypassing the ledger (SuperAdmin only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body AdjustBalancesRequest true "New balances"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/balances [patch]
func (h *MemberHandler) AdjustBalances(c *fiber.Ctx) error {
	var req AdjustBalancesRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ShareBalance == nil && req.SavingsBalance == nil {
		return response.BadRequest(c, "At least one balance is required")
	}

	member, err := h.memberService.AdjustBalances(c.Context(), c.Params("id"), &services.AdjustBalancesInput{
		ShareBalance:   req.ShareBalance,
		SavingsBalance: req.SavingsBalance,
	}, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only SuperAdmin can adjust balances")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrNegativeBalance):
			return response.BadRequest(c, "Balances cannot be negative")
		default:
			return response.InternalServerError(c, "Failed to adjust balances")
		}
	}

	return response.Success(c, "Balances adjusted successfully", member)
}
