package handlers

import (
	"errors"
	"time"

	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// DepositHandler handles deposit endpoints
type DepositHandler struct {
	ledgerService *services.LedgerService
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(ledgerService *services.LedgerService) *DepositHandler {
	return &DepositHandler{ledgerService: ledgerService}
}

// DepositRequest represents a deposit request body
type DepositRequest struct {
	MemberID    string          `json:"member_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date"`
	Description string          `json:"description"`
}

// Create handles recording a deposit
// @Summary Record deposit
// @Description Credit a member's savings balance and append a transaction
// @Tags Deposits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DepositRequest true "Deposit data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /deposits [post]
func (h *DepositHandler) Create(c *fiber.Ctx) error {
	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.MemberID == "" {
		return response.BadRequest(c, "Member ID is required")
	}

	deposit, err := h.ledgerService.Deposit(c.Context(), &services.DepositInput{
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
		default:
			return response.InternalServerError(c, "Failed to record deposit")
		}
	}

	return response.Created(c, "Deposit recorded successfully", deposit)
}

// List handles listing deposits
// @Summary List deposits
// @Description List deposits with optional member, SACCO and date filters
// @Tags Deposits
// @Produce json
// @Security BearerAuth
// @Param member_id query string false "Filter by member ID"
// @Param sacco_id query string false "Filter by SACCO ID"
// @Param start_date query string false "Filter from date (YYYY-MM-DD)"
// @Param end_date query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /deposits [get]
func (h *DepositHandler) List(c *fiber.Ctx) error {
	filter, err := parseLedgerFilter(c)
	if err != nil {
		return response.BadRequest(c, "Invalid date filter, expected YYYY-MM-DD")
	}

	deposits, err := h.ledgerService.ListDeposits(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list deposits")
	}
	return response.Success(c, "", deposits)
}

// Get handles getting a deposit by ID
// @Summary Get deposit
// @Description Get a deposit by ID
// @Tags Deposits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deposit ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /deposits/{id} [get]
func (h *DepositHandler) Get(c *fiber.Ctx) error {
	deposit, err := h.ledgerService.GetDeposit(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDepositNotFound) {
			return response.NotFound(c, "Deposit not found")
		}
		return response.InternalServerError(c, "Failed to get deposit")
	}
	return response.Success(c, "", deposit)
}

// parseLedgerFilter reads the shared ledger query filters
func parseLedgerFilter(c *fiber.Ctx) (*repositories.LedgerFilter, error) {
	filter := &repositories.LedgerFilter{
		MemberID: c.Query("member_id"),
		SaccoID:  c.Query("sacco_id"),
	}

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, err
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, err
		}
		// Inclusive end of day
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &t
	}

	return filter, nil
}
