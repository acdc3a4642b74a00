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

// LoanHandler handles loan lifecycle endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// ApplyRequest represents a loan application request body
type ApplyRequest struct {
	MemberID          string          `json:"member_id"`
	Amount            decimal.Decimal `json:"amount"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	RepaymentSchedule string          `json:"repayment_schedule"`
}

// DecideRequest represents an approval/rejection request body
type DecideRequest struct {
	Status           string     `json:"status"`
	ApprovalDate     *time.Time `json:"approval_date"`
	DisbursementDate *time.Time `json:"disbursement_date"`
}

// RepayRequest represents a repayment request body
type RepayRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Apply handles loan applications
// @Summary Apply for loan
// @Description Create a loan application in pending status
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyRequest true "Loan application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.MemberID == "" {
		return response.BadRequest(c, "Member ID is required")
	}

	loan, err := h.loanService.Apply(c.Context(), &services.ApplyInput{
		MemberID:          req.MemberID,
		Amount:            req.Amount,
		InterestRate:      req.InterestRate,
		RepaymentSchedule: req.RepaymentSchedule,
	}, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than 0")
		case errors.Is(err, domain.ErrInvalidInterestRate):
			return response.BadRequest(c, "Interest rate must be between 0 and 100")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to create loan application")
		}
	}

	return response.Created(c, "Loan application created successfully", loan)
}

// List handles listing loans
// @Summary List loans
// @Description List loans with optional member, status and SACCO filters
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param member_id query string false "Filter by member ID"
// @Param status query string false "Filter by status"
// @Param sacco_id query string false "Filter by SACCO ID"
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	loans, err := h.loanService.List(c.Context(), &repositories.LoanFilter{
		MemberID: c.Query("member_id"),
		Status:   c.Query("status"),
		SaccoID:  c.Query("sacco_id"),
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}
	return response.Success(c, "", loans)
}

// Get handles getting a loan by ID
// @Summary Get loan
// @Description Get a loan with member details
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	loan, err := h.loanService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan")
	}
	return response.Success(c, "", loan)
}

// Decide handles loan approval/rejection
// @Summary Decide loan
// @Description Approve or reject a pending loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body DecideRequest true "Decision data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/decide [patch]
func (h *LoanHandler) Decide(c *fiber.Ctx) error {
	var req DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Decide(c.Context(), c.Params("id"), &services.DecideInput{
		Status:           req.Status,
		ApprovalDate:     req.ApprovalDate,
		DisbursementDate: req.DisbursementDate,
	}, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidLoanStatus):
			return response.BadRequest(c, "Status must be approved or rejected")
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Not authorized to decide loans for this SACCO")
		case errors.Is(err, domain.ErrLoanAlreadyProcessed):
			return response.Conflict(c, "Loan has already been processed")
		default:
			return response.InternalServerError(c, "Failed to process loan decision")
		}
	}

	return response.Success(c, "Loan decision recorded successfully", loan)
}

// Disburse handles loan disbursement
// @Summary Disburse loan
// @Description Transition an approved loan to disbursed and record the disbursement transaction
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/disburse [patch]
func (h *LoanHandler) Disburse(c *fiber.Ctx) error {
	loan, err := h.loanService.Disburse(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Not authorized to disburse loans for this SACCO")
		case errors.Is(err, domain.ErrLoanNotApproved):
			return response.BadRequest(c, "Loan must be approved before disbursement")
		default:
			return response.InternalServerError(c, "Failed to disburse loan")
		}
	}

	return response.Success(c, "Loan disbursed successfully", loan)
}

// Repay handles loan repayments
// @Summary Repay loan
// @Description Record a repayment against a disbursed loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body RepayRequest true "Repayment data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/repay [post]
func (h *LoanHandler) Repay(c *fiber.Ctx) error {
	var req RepayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Repay(c.Context(), c.Params("id"), req.Amount, actor(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than 0")
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrLoanNotDisbursed):
			return response.BadRequest(c, "Loan must be disbursed before repayment")
		default:
			return response.InternalServerError(c, "Failed to record repayment")
		}
	}

	return response.Success(c, "Repayment recorded successfully", loan)
}
