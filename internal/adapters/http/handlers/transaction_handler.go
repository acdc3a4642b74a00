package handlers

import (
	"errors"
	"time"

	"saccohub/internal/adapters/persistence/repositories"
	"saccohub/internal/core/domain"
	"saccohub/internal/core/services"
	"saccohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler handles transaction log endpoints
type TransactionHandler struct {
	txService *services.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(txService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{txService: txService}
}

// List handles listing transactions
// @Summary List transactions
// @Description List transactions newest-first with optional type, member, SACCO and date filters
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by type (deposit, withdrawal, loan_disbursement, loan_repayment, transfer)"
// @Param member_id query string false "Filter by member ID"
// @Param sacco_id query string false "Filter by SACCO ID"
// @Param start_date query string false "Filter from date (YYYY-MM-DD)"
// @Param end_date query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	filter := &repositories.TransactionFilter{
		Type:     c.Query("type"),
		MemberID: c.Query("member_id"),
		SaccoID:  c.Query("sacco_id"),
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

	transactions, err := h.txService.List(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list transactions")
	}
	return response.Success(c, "", transactions)
}

// Get handles getting a transaction by ID
// @Summary Get transaction
// @Description Get a transaction with member and SACCO details
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	tx, err := h.txService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return response.NotFound(c, "Transaction not found")
		}
		return response.InternalServerError(c, "Failed to get transaction")
	}
	return response.Success(c, "", tx)
}
