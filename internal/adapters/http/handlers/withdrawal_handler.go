package handlers

import (
	"errors"
	"time"

	"saccohub/internal/core/domain"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// WithdrawalHandler handles withdrawal endpoints
type WithdrawalHandler struct {
	ledgerService *services.LedgerService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(ledgerService *services.LedgerService) *WithdrawalHandler {
	return &WithdrawalHandler{ledgerService: ledgerService}
}

// WithdrawalRequest represents a withdrawal request body
type WithdrawalRequest struct {
	MemberID    string          `json:"member_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date"`
	Description string          `json:"description"`
}

// Create handles processing a withdrawal
// @Summary Process withdrawal
// @Description Debit a member's savings balance and append a transaction. SuperAdmin, or the chairperson of the member's SACCO.
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body WithdrawalRequest true "Withdrawal data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /withdrawals [post]
func (h *WithdrawalHandler) Create(c *fiber.Ctx) error {
	var req WithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.MemberID == "" {
		return response.BadRequest(c, "Member ID is required")
	}

	withdrawal, err := h.ledgerService.Withdraw(c.Context(), &services.WithdrawalInput{
		MemberID:    req.MemberID,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
	}, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than 0")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Not authorized to process withdrawals for this SACCO")
		case errors.Is(err, domain.ErrInsufficientSavings):
			return response.BadRequest(c, "Insufficient savings balance")
		default:
			return response.InternalServerError(c, "Failed to process withdrawal")
		}
	}

	return response.Created(c, "Withdrawal processed successfully", withdrawal)
}

// List handles listing withdrawals
// @Summary List withdrawals
// @Description List withdrawals with optional member, SACCO and date filters
// @Tags Withdrawals
// @Produce json
// @Security BearerAuth
// @Param member_id query string false "Filter by member ID"
// @Param sacco_id query string false "Filter by SACCO ID"
// @Param start_date query string false "Filter from date (YYYY-MM-DD)"
// @Param end_date query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /withdrawals [get]
func (h *WithdrawalHandler) List(c *fiber.Ctx) error {
	filter, err := parseLedgerFilter(c)
	if err != nil {
		return response.BadRequest(c, "Invalid date filter, expected YYYY-MM-DD")
	}

	withdrawals, err := h.ledgerService.ListWithdrawals(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list withdrawals")
	}
	return response.Success(c, "", withdrawals)
}

// Get handles getting a withdrawal by ID
// @Summary Get withdrawal
// @Description Get a withdrawal by ID
// @Tags Withdrawals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Withdrawal ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /withdrawals/{id} [get]
func (h *WithdrawalHandler) Get(c *fiber.Ctx) error {
	withdrawal, err := h.ledgerService.GetWithdrawal(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrWithdrawalNotFound) {
			return response.NotFound(c, "Withdrawal not found")
		}
		return response.InternalServerError(c, "Failed to get withdrawal")
	}
	return response.Success(c, "", withdrawal)
}
